// Package systems holds the simulation: the particle field, the shape
// scheduler and the per-frame motion update.
package systems

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/neuralmorph/components"
	"github.com/pthm-cable/neuralmorph/shapes"
)

// ErrEmptySurface is returned when a field is requested for a surface with
// no area or no particles. Callers skip the animation instead of producing
// NaN geometry.
var ErrEmptySurface = errors.New("drawing surface is empty")

// Field owns the fixed-size particle set and its static connection graph.
type Field struct {
	Width, Height float64
	Particles     []components.Particle
	Connections   []components.Connection
}

// NewField creates count particles scattered uniformly over a width x height
// surface and builds their connections from that initial layout.
func NewField(p FieldParams, width, height float64, rng *rand.Rand) (*Field, error) {
	if width <= 0 || height <= 0 || p.Count <= 0 {
		return nil, fmt.Errorf("field %vx%v with %d particles: %w", width, height, p.Count, ErrEmptySurface)
	}

	f := &Field{
		Width:     width,
		Height:    height,
		Particles: make([]components.Particle, p.Count),
	}

	largeCount := float64(p.Count) * p.LargeFraction
	for i := range f.Particles {
		radius := between(rng, p.SmallRadiusMin, p.SmallRadiusMax)
		if float64(i) < largeCount {
			radius = between(rng, p.LargeRadiusMin, p.LargeRadiusMax)
		}
		f.Particles[i] = components.Particle{
			Pos:    r2.Vec{X: rng.Float64() * width, Y: rng.Float64() * height},
			Vel:    randomVelocity(rng, p.InitialSpeed),
			Radius: radius,
			Color: p.InitialColor.WithAlpha(
				float32(between(rng, p.InitialAlphaMin, p.InitialAlphaMax)),
			),
			Target:          r2.Vec{X: rng.Float64() * width, Y: rng.Float64() * height},
			TransitionSpeed: between(rng, p.TransitionSpeedMin, p.TransitionSpeedMax),
		}
	}

	f.Connections = BuildConnections(f.Particles, p.ConnectionDistance,
		p.ConnectionOpacityMin, p.ConnectionOpacityMax, rng)

	return f, nil
}

// BuildConnections links every unordered pair whose current distance is
// strictly below threshold, giving each link a random base opacity in
// [minOpacity, maxOpacity). Links come out ordered by (From, To), the same
// order an all-pairs scan would produce them in.
func BuildConnections(particles []components.Particle, threshold, minOpacity, maxOpacity float64, rng *rand.Rand) []components.Connection {
	if len(particles) < 2 || threshold <= 0 {
		return nil
	}

	pts := make([]r2.Vec, len(particles))
	for i := range particles {
		pts[i] = particles[i].Pos
	}
	bounds := shapes.Bounds(pts)
	grid := NewSpatialGrid(bounds, GridCellSize(bounds, threshold, len(pts)))
	for i, p := range pts {
		grid.Insert(i, p)
	}

	var conns []components.Connection
	var near []int
	for i, p := range pts {
		near = grid.QueryRadiusInto(near[:0], particles, p, threshold)
		sort.Ints(near)
		for _, j := range near {
			if j <= i {
				continue
			}
			conns = append(conns, components.Connection{
				From:        i,
				To:          j,
				BaseOpacity: float32(between(rng, minOpacity, maxOpacity)),
			})
		}
	}
	return conns
}

// BoundCount returns how many particles are currently bound to shape points.
func (f *Field) BoundCount() int {
	n := 0
	for i := range f.Particles {
		if f.Particles[i].Bound {
			n++
		}
	}
	return n
}

// InBounds reports whether p lies on the surface, edges included.
func (f *Field) InBounds(p r2.Vec) bool {
	return p.X >= 0 && p.X <= f.Width && p.Y >= 0 && p.Y <= f.Height
}

// between returns a uniform sample in [lo, hi).
func between(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// randomVelocity returns a velocity with each axis uniform in [-speed, speed).
func randomVelocity(rng *rand.Rand, speed float64) r2.Vec {
	return r2.Vec{
		X: (rng.Float64() - 0.5) * 2 * speed,
		Y: (rng.Float64() - 0.5) * 2 * speed,
	}
}
