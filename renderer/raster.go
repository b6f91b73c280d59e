package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/neuralmorph/components"
	"github.com/pthm-cable/neuralmorph/systems"
)

// minCircleSegments is the polygon resolution for the smallest discs.
const minCircleSegments = 12

// RasterCanvas is a software canvas backed by an image.RGBA.
// Shapes are anti-aliased by the x/image vector rasteriser and text uses the
// Go Bold font. Output depends only on the drawing calls.
type RasterCanvas struct {
	img   *image.RGBA
	ras   *vector.Rasterizer
	path  []r2.Vec
	font  *opentype.Font
	faces map[float64]font.Face
}

// NewRasterCanvas creates a width x height canvas.
func NewRasterCanvas(width, height int) (*RasterCanvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("raster canvas %dx%d: %w", width, height, systems.ErrEmptySurface)
	}
	fnt, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing label font: %w", err)
	}
	return &RasterCanvas{
		img:   image.NewRGBA(image.Rect(0, 0, width, height)),
		ras:   vector.NewRasterizer(width, height),
		font:  fnt,
		faces: make(map[float64]font.Face),
	}, nil
}

// Image returns the backing image. It is overwritten by later drawing.
func (rc *RasterCanvas) Image() *image.RGBA {
	return rc.img
}

// Size implements Canvas.
func (rc *RasterCanvas) Size() (float64, float64) {
	b := rc.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// Clear implements Canvas.
func (rc *RasterCanvas) Clear(bg components.Color) {
	draw.Draw(rc.img, rc.img.Bounds(), image.NewUniform(toNRGBA(bg)), image.Point{}, draw.Src)
}

// Line implements Canvas. The stroke is a quad of the given width around
// the segment with butt ends.
func (rc *RasterCanvas) Line(a, b r2.Vec, width float64, c components.Color) {
	d := r2.Sub(b, a)
	length := r2.Norm(d)
	if length == 0 || width <= 0 || c.A <= 0 {
		return
	}
	n := r2.Scale(width/(2*length), r2.Vec{X: -d.Y, Y: d.X})

	rc.path = append(rc.path[:0], r2.Add(a, n), r2.Add(b, n), r2.Sub(b, n), r2.Sub(a, n))
	rc.fill(c)
}

// FillCircle implements Canvas.
func (rc *RasterCanvas) FillCircle(center r2.Vec, radius float64, c components.Color) {
	if radius <= 0 || c.A <= 0 {
		return
	}
	segments := max(minCircleSegments, int(math.Ceil(radius*4)))

	rc.path = rc.path[:0]
	for i := 0; i < segments; i++ {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		rc.path = append(rc.path, r2.Vec{X: center.X + radius*math.Cos(theta), Y: center.Y + radius*math.Sin(theta)})
	}
	rc.fill(c)
}

// Text implements Canvas.
func (rc *RasterCanvas) Text(s string, x, y, size float64, c components.Color) {
	if s == "" || size <= 0 {
		return
	}
	face, err := rc.face(size)
	if err != nil {
		return
	}
	advance := font.MeasureString(face, s)
	d := &font.Drawer{
		Dst:  rc.img,
		Src:  image.NewUniform(toNRGBA(c)),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(math.Round(x*64)) - advance/2,
			Y: fixed.Int26_6(math.Round(y * 64)),
		},
	}
	d.DrawString(s)
}

// EncodePNG writes the current image as PNG.
func (rc *RasterCanvas) EncodePNG(w io.Writer) error {
	return png.Encode(w, rc.img)
}

// SavePNG writes the current image to path.
func (rc *RasterCanvas) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating frame file: %w", err)
	}
	if err := rc.EncodePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("encoding frame: %w", err)
	}
	return f.Close()
}

func (rc *RasterCanvas) face(size float64) (font.Face, error) {
	if f, ok := rc.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(rc.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	rc.faces[size] = f
	return f, nil
}

// fill rasterises the closed polygon in rc.path. The rasteriser only
// covers the polygon's bounding box clipped to the image.
func (rc *RasterCanvas) fill(c components.Color) {
	if len(rc.path) < 3 {
		return
	}
	lo, hi := rc.path[0], rc.path[0]
	for _, p := range rc.path[1:] {
		lo.X, lo.Y = math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)
		hi.X, hi.Y = math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)
	}
	r := image.Rect(
		int(math.Floor(lo.X))-1, int(math.Floor(lo.Y))-1,
		int(math.Ceil(hi.X))+1, int(math.Ceil(hi.Y))+1,
	).Intersect(rc.img.Bounds())
	if r.Empty() {
		return
	}

	ox, oy := float64(r.Min.X), float64(r.Min.Y)
	rc.ras.Reset(r.Dx(), r.Dy())
	rc.ras.DrawOp = draw.Over
	rc.ras.MoveTo(float32(rc.path[0].X-ox), float32(rc.path[0].Y-oy))
	for _, p := range rc.path[1:] {
		rc.ras.LineTo(float32(p.X-ox), float32(p.Y-oy))
	}
	rc.ras.ClosePath()
	rc.ras.Draw(rc.img, r, image.NewUniform(toNRGBA(c)), image.Point{})
}

func toNRGBA(c components.Color) color.NRGBA {
	a := math.Round(float64(min(max(c.A, 0), 1)) * 255)
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(a)}
}
