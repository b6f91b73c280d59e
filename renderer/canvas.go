// Package renderer draws the particle field onto a 2D canvas.
//
// RasterCanvas rasterises in software into an image.RGBA for headless runs,
// frame export and tests. The window canvas lives in renderer/rlcanvas so
// this package builds without cgo.
package renderer

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/neuralmorph/components"
)

// Canvas is the set of drawing primitives the renderer needs.
// Coordinates are in pixels with the origin at the top-left corner.
type Canvas interface {
	// Size returns the drawable area.
	Size() (width, height float64)
	// Clear fills the whole canvas with bg.
	Clear(bg components.Color)
	// Line strokes a segment from a to b.
	Line(a, b r2.Vec, width float64, c components.Color)
	// FillCircle fills a disc.
	FillCircle(center r2.Vec, radius float64, c components.Color)
	// Text draws s horizontally centred on x with its baseline at y.
	Text(s string, x, y, size float64, c components.Color)
}
