package systems

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/neuralmorph/components"
	"github.com/pthm-cable/neuralmorph/shapes"
)

// NoShape is the scheduler's active index before the first transition.
const NoShape = -1

// ErrNoThemes is returned when a scheduler is built without any usable theme.
var ErrNoThemes = errors.New("no themes configured")

// Scheduler cycles the field through the themed shapes.
//
// Before the first transition no shape is active and Due is always true.
// Afterwards a new shape is picked once CycleMs has elapsed since the last
// change. The pick is uniform over all themes, so the same shape may be
// chosen twice in a row.
type Scheduler struct {
	Params  SchedulerParams
	Themes  []components.Theme
	Library *shapes.Library

	Active      int     // index into Themes, NoShape before the first pick
	LastChange  float64 // ms timestamp of the last transition
	Label       string
	Transitions int
}

// NewScheduler validates that every theme names a shape in lib.
func NewScheduler(p SchedulerParams, themes []components.Theme, lib *shapes.Library) (*Scheduler, error) {
	if len(themes) == 0 {
		return nil, ErrNoThemes
	}
	for _, th := range themes {
		if !lib.Has(shapes.Name(th.Name)) {
			return nil, fmt.Errorf("theme %q: %w", th.Name, shapes.ErrUnknownShape)
		}
	}
	return &Scheduler{
		Params:  p,
		Themes:  themes,
		Library: lib,
		Active:  NoShape,
	}, nil
}

// Due reports whether a transition should happen at now (ms).
func (s *Scheduler) Due(now float64) bool {
	return s.Active == NoShape || now-s.LastChange > s.Params.CycleMs
}

// Theme returns the active theme, if any.
func (s *Scheduler) Theme() (components.Theme, bool) {
	if s.Active == NoShape {
		return components.Theme{}, false
	}
	return s.Themes[s.Active], true
}

// Transition picks a theme uniformly at random and applies it.
func (s *Scheduler) Transition(f *Field, now float64, rng *rand.Rand) {
	s.Apply(f, rng.Intn(len(s.Themes)), now, rng)
}

// Apply switches the field to the theme at index idx.
//
// The largest particles (ties keep creation order) are bound to the shape's
// points, wrapping around the outline when there are more particles than
// points. Everything else is released with a fresh velocity. Every particle
// is recoloured.
func (s *Scheduler) Apply(f *Field, idx int, now float64, rng *rand.Rand) {
	theme := s.Themes[idx]
	points := s.Library.Points(shapes.Name(theme.Name))

	nodeCount := NodeCount(len(points), len(f.Particles), s.Params.ShapeFraction)
	targets := Assignments(points, nodeCount)

	for rank, i := range RankByRadius(f.Particles) {
		p := &f.Particles[i]
		if rank < nodeCount {
			p.Target = targets[rank]
			p.Bound = true
			p.Color = theme.Primary.WithAlpha(float32(s.Params.ShapeAlpha))
			continue
		}
		p.Bound = false
		p.Vel = randomVelocity(rng, s.Params.FreeSpeed)
		p.Color = theme.Secondary.WithAlpha(
			float32(between(rng, s.Params.FreeAlphaMin, s.Params.FreeAlphaMax)),
		)
	}

	s.Active = idx
	s.LastChange = now
	s.Label = theme.Label
	s.Transitions++
}

// NodeCount returns how many particles a shape with points outline points
// may claim: min(points, floor(particles*fraction)).
func NodeCount(points, particles int, fraction float64) int {
	return min(points, int(math.Floor(float64(particles)*fraction)))
}

// Assignments returns the targets for the first n ranked particles:
// points[i % len(points)].
func Assignments(points []r2.Vec, n int) []r2.Vec {
	if len(points) == 0 || n <= 0 {
		return nil
	}
	out := make([]r2.Vec, n)
	for i := range out {
		out[i] = points[i%len(points)]
	}
	return out
}

// RankByRadius returns particle indices sorted by descending radius.
// Equal radii keep their creation order.
func RankByRadius(particles []components.Particle) []int {
	idx := make([]int, len(particles))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return particles[idx[a]].Radius > particles[idx[b]].Radius
	})
	return idx
}
