// Package shapes generates the outline point sets the particle field morphs into.
//
// Every generator is a function of the centre and a base radius; the same
// inputs always produce the same number of points. Only the currency shape
// consumes randomness (a small jitter applied to a duplicated copy of its
// strokes to thicken them).
package shapes

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// Name identifies one of the outline shapes.
type Name string

const (
	Bitcoin   Name = "btc"
	Ethereum  Name = "eth"
	Gold      Name = "gold"
	Security  Name = "security"
	Messaging Name = "messaging"
	ERP       Name = "erp"
)

// Names lists every shape in display order.
var Names = []Name{Bitcoin, Ethereum, Gold, Security, Messaging, ERP}

// BaseRadiusFactor scales min(width, height) into the radius shapes are drawn at.
const BaseRadiusFactor = 0.4

// ErrUnknownShape is returned for a name with no generator.
var ErrUnknownShape = errors.New("unknown shape")

// ErrEmptyCanvas is returned when a library is requested for a zero-sized canvas.
var ErrEmptyCanvas = errors.New("canvas has no area")

// generator builds one shape around (cx, cy).
type generator func(cx, cy, radius float64, rng *rand.Rand) []r2.Vec

var generators = map[Name]generator{
	Bitcoin:   bitcoinShape,
	Ethereum:  ethereumShape,
	Gold:      goldShape,
	Security:  securityShape,
	Messaging: messagingShape,
	ERP:       erpShape,
}

// Generate returns the outline of the named shape centred on (cx, cy).
// rng drives the jitter of the currency shape; a nil rng leaves its
// duplicated strokes unjittered.
func Generate(name Name, cx, cy, baseRadius float64, rng *rand.Rand) ([]r2.Vec, error) {
	gen, ok := generators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, name)
	}
	return gen(cx, cy, baseRadius, rng), nil
}

// Known reports whether name has a generator.
func Known(name Name) bool {
	_, ok := generators[name]
	return ok
}

// Library holds every shape computed once for a canvas size.
// The point slices are shared read-only by all particles.
type Library struct {
	width, height float64
	shapes        map[Name][]r2.Vec
}

// NewLibrary computes all shapes for a width x height canvas.
func NewLibrary(width, height float64, rng *rand.Rand) (*Library, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("shape library for %vx%v canvas: %w", width, height, ErrEmptyCanvas)
	}
	cx, cy := width/2, height/2
	radius := math.Min(width, height) * BaseRadiusFactor

	lib := &Library{
		width:  width,
		height: height,
		shapes: make(map[Name][]r2.Vec, len(Names)),
	}
	for _, name := range Names {
		pts, err := Generate(name, cx, cy, radius, rng)
		if err != nil {
			return nil, err
		}
		lib.shapes[name] = pts
	}
	return lib, nil
}

// Points returns the outline of name, or nil if the library has no such shape.
func (l *Library) Points(name Name) []r2.Vec {
	return l.shapes[name]
}

// Has reports whether name is in the library.
func (l *Library) Has(name Name) bool {
	_, ok := l.shapes[name]
	return ok
}

// Size returns the canvas dimensions the library was built for.
func (l *Library) Size() (width, height float64) {
	return l.width, l.height
}

// bitcoinShape draws the currency letterform: a vertical stem, two
// crossbars and two bowls. The whole set is then duplicated with a jitter
// of up to one unit per axis to thicken the strokes.
func bitcoinShape(cx, cy, radius float64, rng *rand.Rand) []r2.Vec {
	w := radius * 1.2
	h := radius * 1.8

	var pts []r2.Vec
	pts = Segment(pts, r2.Vec{X: cx, Y: cy - h/2}, r2.Vec{X: cx, Y: cy + h/2}, 40)

	for _, y := range []float64{cy - h/4, cy + h/4} {
		pts = Segment(pts, r2.Vec{X: cx - 0.3*w, Y: y}, r2.Vec{X: cx + 0.3*w, Y: y}, 25)
	}

	pts = Arc(pts, r2.Vec{X: cx, Y: cy - h/8}, w*0.35, math.Pi*1.5, math.Pi*2.5, 30)
	pts = Arc(pts, r2.Vec{X: cx, Y: cy + h/8}, w*0.35, math.Pi*1.5, math.Pi*2.5, 30)

	n := len(pts)
	for i := 0; i < n; i++ {
		p := pts[i]
		if rng != nil {
			p.X += (rng.Float64() - 0.5) * 2
			p.Y += (rng.Float64() - 0.5) * 2
		}
		pts = append(pts, p)
	}
	return pts
}

// ethereumShape draws two chevrons meeting on a horizontal bar.
func ethereumShape(cx, cy, radius float64, _ *rand.Rand) []r2.Vec {
	w := radius * 1.2
	h := radius * 2

	var pts []r2.Vec
	pts = interleave(pts,
		Segment(nil, r2.Vec{X: cx - w/2, Y: cy - h/2}, r2.Vec{X: cx, Y: cy}, 50),
		Segment(nil, r2.Vec{X: cx + w/2, Y: cy - h/2}, r2.Vec{X: cx, Y: cy}, 50),
	)
	pts = interleave(pts,
		Segment(nil, r2.Vec{X: cx - w/2, Y: cy}, r2.Vec{X: cx, Y: cy + h/2}, 50),
		Segment(nil, r2.Vec{X: cx + w/2, Y: cy}, r2.Vec{X: cx, Y: cy + h/2}, 50),
	)
	pts = Segment(pts, r2.Vec{X: cx - w/2, Y: cy}, r2.Vec{X: cx + w/2, Y: cy}, 30)
	return pts
}

// goldShape draws an ingot with relief lines, the letters AU and two shines.
func goldShape(cx, cy, radius float64, _ *rand.Rand) []r2.Vec {
	w := radius * 1.6
	h := radius * 0.8

	var pts []r2.Vec
	pts = RoundedRect(pts, cx-w/2, cy-h/2, w, h, radius*0.15)

	for i := 0; i < 3; i++ {
		y := cy + float64(i-1)*h*0.2
		pts = Segment(pts, r2.Vec{X: cx - w*0.45, Y: y}, r2.Vec{X: cx + w*0.45, Y: y}, 40)
	}

	// A
	a0 := r2.Vec{X: cx - w*0.25, Y: cy + h*0.25}
	a1 := r2.Vec{X: cx - w*0.15, Y: cy - h*0.25}
	a2 := r2.Vec{X: cx - w*0.05, Y: cy + h*0.25}
	pts = Segment(pts, a0, a1, 10)
	pts = Segment(pts, a1, a2, 10)
	pts = Segment(pts, r2.Vec{X: cx - w*0.22, Y: cy}, r2.Vec{X: cx - w*0.08, Y: cy}, 10)

	// U
	top := cy - h*0.25
	bottom := cy + h*0.25
	pts = Segment(pts, r2.Vec{X: cx + w*0.1, Y: top}, r2.Vec{X: cx + w*0.1, Y: bottom}, 15)
	pts = Segment(pts, r2.Vec{X: cx + w*0.1, Y: bottom}, r2.Vec{X: cx + w*0.2, Y: bottom}, 15)
	pts = Segment(pts, r2.Vec{X: cx + w*0.2, Y: bottom}, r2.Vec{X: cx + w*0.2, Y: top}, 15)

	for i := 0; i < 2; i++ {
		c := r2.Vec{X: cx - w*0.35 + float64(i)*w*0.7, Y: cy - h*0.3}
		pts = Arc(pts, c, radius*0.06, 0, math.Pi*2, 12)
	}
	return pts
}

// securityShape draws a shield with a padlock centred on it.
func securityShape(cx, cy, radius float64, _ *rand.Rand) []r2.Vec {
	w := radius * 1.5
	h := radius * 1.8
	top := cy - h*0.45
	bottom := cy + h*0.55
	shoulder := top + w/4

	var pts []r2.Vec
	pts = Arc(pts, r2.Vec{X: cx, Y: shoulder}, w/2, math.Pi, math.Pi*2, 25)

	// Flanks curve inward by w/4 over their length; the control points
	// are the degree-elevated quadratic x = x0 + (w/4)t^2.
	length := bottom - shoulder
	flank := func(x0, dir float64) []r2.Vec {
		return CubicBezier(nil,
			r2.Vec{X: x0, Y: shoulder},
			r2.Vec{X: x0, Y: shoulder + length/3},
			r2.Vec{X: x0 + dir*w/12, Y: shoulder + 2*length/3},
			r2.Vec{X: x0 + dir*w/4, Y: bottom},
			29,
		)
	}
	pts = interleave(pts, flank(cx-w/2, 1), flank(cx+w/2, -1))

	// Base is lowest at its middle.
	for i := 0; i < 20; i++ {
		t := float64(i) / 19
		pts = append(pts, r2.Vec{
			X: cx - w/4 + t*w/2,
			Y: bottom - (1-math.Sin(t*math.Pi))*h*0.1,
		})
	}

	lockW := w * 0.5
	lockH := h * 0.4
	lockY := cy + h*0.05
	pts = RoundedRect(pts, cx-lockW/2, lockY-lockH/4, lockW, lockH/2, lockH/10)
	pts = Arc(pts, r2.Vec{X: cx, Y: lockY - lockH/4}, lockW/2, math.Pi, math.Pi*2, 30)
	pts = Arc(pts, r2.Vec{X: cx, Y: lockY}, lockW*0.1, 0, math.Pi*2, 15)
	return pts
}

// messagingShape draws two speech bubbles with message lines and a row of
// three dots underneath.
func messagingShape(cx, cy, radius float64, _ *rand.Rand) []r2.Vec {
	var pts []r2.Vec

	big := radius * 1.2
	mx := cx - radius*0.3
	my := cy
	pts = RoundedRect(pts, mx-big/2, my-big/2, big, big, big/5)
	pts = tail(pts,
		r2.Vec{X: mx - big/2 + big/10, Y: my + big/2},
		r2.Vec{X: mx - big/2 - big/5, Y: my + big/2 + big/4},
		r2.Vec{X: mx - big/2 + big/3, Y: my + big/2},
	)
	for i := 0; i < 3; i++ {
		y := my - big/4 + float64(i)*big/4
		l := big * 0.7
		pts = Segment(pts, r2.Vec{X: mx - l/2, Y: y}, r2.Vec{X: mx + l/2, Y: y}, 15)
	}

	second := big * 0.7
	sx := cx + radius*0.6
	sy := cy - radius*0.2
	pts = RoundedRect(pts, sx-second/2, sy-second/2, second, second, second/5)
	pts = tail(pts,
		r2.Vec{X: sx + second/2 - second/10, Y: sy + second/2},
		r2.Vec{X: sx + second/2 + second/5, Y: sy + second/2 + second/4},
		r2.Vec{X: sx + second/2 - second/3, Y: sy + second/2},
	)
	for i := 0; i < 2; i++ {
		y := sy - second/6 + float64(i)*second/3
		l := second * 0.6
		pts = Segment(pts, r2.Vec{X: sx - l/2, Y: y}, r2.Vec{X: sx + l/2, Y: y}, 15)
	}

	dotsY := cy + radius*0.6
	spacing := radius * 0.15
	for i := -1; i <= 1; i++ {
		pts = Arc(pts, r2.Vec{X: cx + float64(i)*spacing, Y: dotsY}, radius*0.05, 0, math.Pi*2, 8)
	}
	return pts
}

// tail appends the two strokes of a bubble's pointer.
func tail(dst []r2.Vec, a, b, c r2.Vec) []r2.Vec {
	dst = Segment(dst, a, b, 10)
	return Segment(dst, b, c, 10)
}

// erpShape draws a toothed gear ring around a bar chart and data lines.
func erpShape(cx, cy, radius float64, _ *rand.Rand) []r2.Vec {
	var pts []r2.Vec

	const teeth = 16
	outer := radius * 0.95
	inner := radius * 0.75
	for i := 0; i < teeth*2; i++ {
		a := float64(i) / float64(teeth*2) * math.Pi * 2
		r := inner
		if i%2 == 0 {
			r = outer
		}
		pts = append(pts, r2.Vec{X: cx + math.Cos(a)*r, Y: cy + math.Sin(a)*r})
	}

	pts = Arc(pts, r2.Vec{X: cx, Y: cy}, radius*0.5, 0, math.Pi*2, 40)

	barW := radius * 0.15
	gap := radius * 0.07
	maxH := radius * 0.4
	baseY := cy + radius*0.1
	heights := []float64{0.7, 0.4, 0.95, 0.6}
	span := barW*float64(len(heights)) + gap*float64(len(heights)-1)

	pts = Segment(pts, r2.Vec{X: cx - span/2, Y: baseY}, r2.Vec{X: cx + span/2, Y: baseY}, 15)

	x := cx - span/2
	for _, f := range heights {
		bh := maxH * f
		pts = interleave(pts,
			Segment(nil, r2.Vec{X: x, Y: baseY}, r2.Vec{X: x, Y: baseY - bh}, 10),
			Segment(nil, r2.Vec{X: x + barW, Y: baseY}, r2.Vec{X: x + barW, Y: baseY - bh}, 10),
		)
		pts = Segment(pts, r2.Vec{X: x, Y: baseY - bh}, r2.Vec{X: x + barW, Y: baseY - bh}, 10)
		x += barW + gap
	}

	for i := 0; i < 3; i++ {
		y := cy - radius*0.3 + float64(i)*radius*0.15
		l := radius * 0.7
		pts = Segment(pts, r2.Vec{X: cx - l/2, Y: y}, r2.Vec{X: cx + l/2, Y: y}, 15)
	}
	return pts
}
