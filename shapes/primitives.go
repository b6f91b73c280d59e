package shapes

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Sample counts used by RoundedRect.
const (
	cornerSteps = 10
	edgeSteps   = 15
)

// Arc appends steps+1 points on the circle around center, from start to end
// radians in equal angular increments, both endpoints included.
func Arc(dst []r2.Vec, center r2.Vec, radius, start, end float64, steps int) []r2.Vec {
	if steps <= 0 {
		return dst
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		a := start + t*(end-start)
		dst = append(dst, r2.Vec{
			X: center.X + math.Cos(a)*radius,
			Y: center.Y + math.Sin(a)*radius,
		})
	}
	return dst
}

// Segment appends steps points linearly interpolated from p0 to p1 with
// t = i/(steps-1), so both endpoints are included.
// A single step yields p0.
func Segment(dst []r2.Vec, p0, p1 r2.Vec, steps int) []r2.Vec {
	if steps <= 0 {
		return dst
	}
	if steps == 1 {
		return append(dst, p0)
	}
	d := r2.Sub(p1, p0)
	for i := 0; i < steps; i++ {
		t := float64(i) / float64(steps-1)
		dst = append(dst, r2.Add(p0, r2.Scale(t, d)))
	}
	return dst
}

// CubicBezier appends steps+1 samples of the cubic Bezier curve p0..p3.
func CubicBezier(dst []r2.Vec, p0, p1, p2, p3 r2.Vec, steps int) []r2.Vec {
	if steps <= 0 {
		return dst
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		u := 1 - t
		b0 := u * u * u
		b1 := 3 * u * u * t
		b2 := 3 * u * t * t
		b3 := t * t * t
		dst = append(dst, r2.Vec{
			X: b0*p0.X + b1*p1.X + b2*p2.X + b3*p3.X,
			Y: b0*p0.Y + b1*p1.Y + b2*p2.Y + b3*p3.Y,
		})
	}
	return dst
}

// RoundedRect appends the closed outline of the rectangle at (x, y) with
// size w x h. The corner radius is clamped to min(r, w/2, h/2).
// Contour order: top-left corner, top edge, top-right corner, right edge,
// bottom-right corner, bottom edge, bottom-left corner, left edge.
func RoundedRect(dst []r2.Vec, x, y, w, h, r float64) []r2.Vec {
	r = math.Min(r, math.Min(w/2, h/2))

	dst = Arc(dst, r2.Vec{X: x + r, Y: y + r}, r, math.Pi, math.Pi*1.5, cornerSteps)
	dst = Segment(dst, r2.Vec{X: x + r, Y: y}, r2.Vec{X: x + w - r, Y: y}, edgeSteps)

	dst = Arc(dst, r2.Vec{X: x + w - r, Y: y + r}, r, math.Pi*1.5, math.Pi*2, cornerSteps)
	dst = Segment(dst, r2.Vec{X: x + w, Y: y + r}, r2.Vec{X: x + w, Y: y + h - r}, edgeSteps)

	dst = Arc(dst, r2.Vec{X: x + w - r, Y: y + h - r}, r, 0, math.Pi*0.5, cornerSteps)
	dst = Segment(dst, r2.Vec{X: x + w - r, Y: y + h}, r2.Vec{X: x + r, Y: y + h}, edgeSteps)

	dst = Arc(dst, r2.Vec{X: x + r, Y: y + h - r}, r, math.Pi*0.5, math.Pi, cornerSteps)
	dst = Segment(dst, r2.Vec{X: x, Y: y + h - r}, r2.Vec{X: x, Y: y + r}, edgeSteps)

	return dst
}

// interleave appends a[0], b[0], a[1], b[1], ... to dst.
// Paired strokes drawn this way fill in evenly when only a prefix of the
// outline gets particles.
func interleave(dst, a, b []r2.Vec) []r2.Vec {
	n := max(len(a), len(b))
	for i := 0; i < n; i++ {
		if i < len(a) {
			dst = append(dst, a[i])
		}
		if i < len(b) {
			dst = append(dst, b[i])
		}
	}
	return dst
}

// Bounds returns the axis-aligned bounding box of points.
// The zero Box is returned for an empty slice.
func Bounds(points []r2.Vec) r2.Box {
	if len(points) == 0 {
		return r2.Box{}
	}
	b := r2.Box{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
	}
	return b
}
