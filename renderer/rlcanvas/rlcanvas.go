// Package rlcanvas implements renderer.Canvas on top of raylib for the
// interactive window. It is the only renderer code that needs cgo.
package rlcanvas

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/neuralmorph/components"
)

// Canvas draws with raylib's immediate-mode primitives.
// It must be used between rl.BeginDrawing and rl.EndDrawing.
type Canvas struct {
	width, height float64
}

// New creates a canvas for a width x height window.
func New(width, height int) *Canvas {
	return &Canvas{width: float64(width), height: float64(height)}
}

// Size implements renderer.Canvas.
func (c *Canvas) Size() (float64, float64) {
	return c.width, c.height
}

// Clear implements renderer.Canvas.
func (c *Canvas) Clear(bg components.Color) {
	rl.ClearBackground(ToRaylib(bg))
}

// Line implements renderer.Canvas.
func (c *Canvas) Line(a, b r2.Vec, width float64, col components.Color) {
	rl.DrawLineEx(vec(a), vec(b), float32(width), ToRaylib(col))
}

// FillCircle implements renderer.Canvas.
func (c *Canvas) FillCircle(center r2.Vec, radius float64, col components.Color) {
	rl.DrawCircleV(vec(center), float32(radius), ToRaylib(col))
}

// Text implements renderer.Canvas. raylib positions text by its top edge, so the
// baseline is approximated as one font size below it.
func (c *Canvas) Text(s string, x, y, size float64, col components.Color) {
	fontSize := int32(math.Round(size))
	w := rl.MeasureText(s, fontSize)
	rl.DrawText(s, int32(x)-w/2, int32(y)-fontSize, fontSize, ToRaylib(col))
}

// ToRaylib converts a colour with fractional opacity to raylib's 8-bit RGBA.
func ToRaylib(c components.Color) rl.Color {
	a := math.Round(float64(min(max(c.A, 0), 1)) * 255)
	return rl.Color{R: c.R, G: c.G, B: c.B, A: uint8(a)}
}

func vec(p r2.Vec) rl.Vector2 {
	return rl.Vector2{X: float32(p.X), Y: float32(p.Y)}
}
