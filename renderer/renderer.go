package renderer

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/neuralmorph/components"
	"github.com/pthm-cable/neuralmorph/systems"
)

// Params controls how the field is drawn.
type Params struct {
	FadeDistance float64 // edges at or beyond this live length are skipped
	WidthDivisor float64 // edge width = min(r1, r2) / WidthDivisor
	LabelOffset  float64 // label baseline distance above the bottom edge
	LabelSize    float64
	Background   components.Color
}

// DefaultParams returns the stock render settings.
func DefaultParams() Params {
	return Params{
		FadeDistance: 100,
		WidthDivisor: 3,
		LabelOffset:  20,
		LabelSize:    16,
		Background:   components.Color{R: 10, G: 15, B: 30, A: 1},
	}
}

// Renderer draws a field onto any Canvas.
type Renderer struct {
	params Params
}

// New creates a renderer.
func New(p Params) *Renderer {
	return &Renderer{params: p}
}

// Params returns the renderer's settings.
func (r *Renderer) Params() Params {
	return r.params
}

// Draw paints one frame: background, visible edges, particles and, when a
// theme is active, its label. It reads the field and scheduler without
// modifying them, so drawing the same state twice gives the same output.
func (r *Renderer) Draw(c Canvas, f *systems.Field, s *systems.Scheduler) {
	c.Clear(r.params.Background)
	if f == nil {
		return
	}

	r.drawEdges(c, f)

	for i := range f.Particles {
		p := &f.Particles[i]
		c.FillCircle(p.Pos, p.Radius, p.Color)
	}

	if s == nil {
		return
	}
	if theme, ok := s.Theme(); ok && s.Label != "" {
		w, h := c.Size()
		c.Text(s.Label, w/2, h-r.params.LabelOffset, r.params.LabelSize, theme.Primary)
	}
}

func (r *Renderer) drawEdges(c Canvas, f *systems.Field) {
	for _, e := range f.Connections {
		a, b := &f.Particles[e.From], &f.Particles[e.To]
		d := r2.Norm(r2.Sub(a.Pos, b.Pos))
		opacity, ok := EdgeOpacity(d, r.params.FadeDistance, e.BaseOpacity)
		if !ok {
			continue
		}
		col := components.Blend(a.Color, b.Color).WithAlpha(opacity)
		c.Line(a.Pos, b.Pos, math.Min(a.Radius, b.Radius)/r.params.WidthDivisor, col)
	}
}

// EdgeOpacity returns max(0, 1 - d/fade) * base, and false when the edge is
// too long to be drawn.
func EdgeOpacity(d, fade float64, base float32) (float32, bool) {
	if d >= fade {
		return 0, false
	}
	return float32(math.Max(0, 1-d/fade)) * base, true
}
