package renderer

import (
	"bytes"
	"errors"
	"image/png"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/neuralmorph/components"
	"github.com/pthm-cable/neuralmorph/shapes"
	"github.com/pthm-cable/neuralmorph/systems"
)

type lineCall struct {
	a, b  r2.Vec
	width float64
	c     components.Color
}

type textCall struct {
	s          string
	x, y, size float64
	c          components.Color
}

// recordingCanvas captures drawing calls.
type recordingCanvas struct {
	w, h    float64
	clears  int
	lines   []lineCall
	circles int
	texts   []textCall
}

func (rc *recordingCanvas) Size() (float64, float64) { return rc.w, rc.h }
func (rc *recordingCanvas) Clear(components.Color)   { rc.clears++ }
func (rc *recordingCanvas) FillCircle(r2.Vec, float64, components.Color) {
	rc.circles++
}
func (rc *recordingCanvas) Line(a, b r2.Vec, width float64, c components.Color) {
	rc.lines = append(rc.lines, lineCall{a, b, width, c})
}
func (rc *recordingCanvas) Text(s string, x, y, size float64, c components.Color) {
	rc.texts = append(rc.texts, textCall{s, x, y, size, c})
}

func TestEdgeOpacity(t *testing.T) {
	tests := []struct {
		name    string
		d       float64
		base    float32
		want    float32
		visible bool
	}{
		{"touching", 0, 0.5, 0.5, true},
		{"half way", 50, 0.6, 0.3, true},
		{"at fade distance", 100, 0.7, 0, false},
		{"beyond fade distance", 140, 0.7, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := EdgeOpacity(tc.d, 100, tc.base)
			if ok != tc.visible {
				t.Fatalf("expected visible=%v, got %v", tc.visible, ok)
			}
			if math.Abs(float64(got-tc.want)) > 1e-6 {
				t.Errorf("expected opacity %v, got %v", tc.want, got)
			}
		})
	}
}

func TestDrawEdgesAndParticles(t *testing.T) {
	red := components.Color{R: 200, G: 0, B: 10, A: 0.9}
	blue := components.Color{R: 1, G: 0, B: 255, A: 0.4}
	f := &systems.Field{
		Width:  400,
		Height: 300,
		Particles: []components.Particle{
			{Pos: r2.Vec{X: 0, Y: 0}, Radius: 6, Color: red},
			{Pos: r2.Vec{X: 60, Y: 80}, Radius: 3, Color: blue},   // 100 from p0
			{Pos: r2.Vec{X: 0, Y: 50}, Radius: 4.5, Color: blue}, // 50 from p0
		},
		Connections: []components.Connection{
			{From: 0, To: 1, BaseOpacity: 0.5},
			{From: 0, To: 2, BaseOpacity: 0.6},
		},
	}

	c := &recordingCanvas{w: 400, h: 300}
	New(DefaultParams()).Draw(c, f, nil)

	if c.clears != 1 {
		t.Errorf("expected one clear, got %d", c.clears)
	}
	if c.circles != 3 {
		t.Errorf("expected 3 circles, got %d", c.circles)
	}
	if len(c.lines) != 1 {
		t.Fatalf("expected only the short edge to be drawn, got %d lines", len(c.lines))
	}

	l := c.lines[0]
	if l.width != 1.5 {
		t.Errorf("expected width min(6, 4.5)/3 = 1.5, got %v", l.width)
	}
	wantCol := components.Color{R: 100, G: 0, B: 132}
	if l.c.R != wantCol.R || l.c.G != wantCol.G || l.c.B != wantCol.B {
		t.Errorf("expected blended colour %+v, got %+v", wantCol, l.c)
	}
	if math.Abs(float64(l.c.A)-0.3) > 1e-6 {
		t.Errorf("expected opacity 0.3, got %v", l.c.A)
	}
	if len(c.texts) != 0 {
		t.Errorf("expected no label without a scheduler, got %v", c.texts)
	}
}

func TestDrawLabel(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	f, err := systems.NewField(systems.DefaultFieldParams(), 800, 600, rng)
	if err != nil {
		t.Fatal(err)
	}
	lib, err := shapes.NewLibrary(800, 600, rng)
	if err != nil {
		t.Fatal(err)
	}
	s, err := systems.NewScheduler(systems.DefaultSchedulerParams(), shapes.DefaultThemes(), lib)
	if err != nil {
		t.Fatal(err)
	}

	r := New(DefaultParams())

	c := &recordingCanvas{w: 800, h: 600}
	r.Draw(c, f, s)
	if len(c.texts) != 0 {
		t.Errorf("expected no label before the first shape, got %v", c.texts)
	}

	s.Apply(f, 2, 0, rng)
	c = &recordingCanvas{w: 800, h: 600}
	r.Draw(c, f, s)

	if len(c.texts) != 1 {
		t.Fatalf("expected one label, got %d", len(c.texts))
	}
	txt := c.texts[0]
	if txt.s != "PAX Gold" {
		t.Errorf("expected label %q, got %q", "PAX Gold", txt.s)
	}
	if txt.x != 400 || txt.y != 580 || txt.size != 16 {
		t.Errorf("expected label at (400, 580) size 16, got (%v, %v) size %v", txt.x, txt.y, txt.size)
	}
	if txt.c != s.Themes[2].Primary {
		t.Errorf("expected primary colour, got %+v", txt.c)
	}
}

func TestDrawNilField(t *testing.T) {
	c := &recordingCanvas{w: 10, h: 10}
	New(DefaultParams()).Draw(c, nil, nil)
	if c.clears != 1 || c.circles != 0 || len(c.lines) != 0 {
		t.Errorf("expected only a clear for a nil field, got %+v", c)
	}
}

func TestRasterRenderIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	f, err := systems.NewField(systems.DefaultFieldParams(), 320, 240, rng)
	if err != nil {
		t.Fatal(err)
	}
	lib, err := shapes.NewLibrary(320, 240, rng)
	if err != nil {
		t.Fatal(err)
	}
	s, err := systems.NewScheduler(systems.DefaultSchedulerParams(), shapes.DefaultThemes(), lib)
	if err != nil {
		t.Fatal(err)
	}
	s.Transition(f, 0, rng)

	rc, err := NewRasterCanvas(320, 240)
	if err != nil {
		t.Fatal(err)
	}
	r := New(DefaultParams())

	r.Draw(rc, f, s)
	first := append([]byte(nil), rc.Image().Pix...)
	r.Draw(rc, f, s)

	if !bytes.Equal(first, rc.Image().Pix) {
		t.Error("expected identical pixels from two renders of the same state")
	}
}

func TestRasterCanvasDrawsPrimitives(t *testing.T) {
	rc, err := NewRasterCanvas(64, 64)
	if err != nil {
		t.Fatal(err)
	}
	bg := components.Color{A: 1}
	white := components.Color{R: 255, G: 255, B: 255, A: 1}

	rc.Clear(bg)
	if px := rc.Image().RGBAAt(32, 32); px.R != 0 || px.A != 255 {
		t.Fatalf("expected opaque black after clear, got %+v", px)
	}

	rc.FillCircle(r2.Vec{X: 32, Y: 32}, 6, white)
	if px := rc.Image().RGBAAt(32, 32); px.R != 255 {
		t.Errorf("expected circle centre to be white, got %+v", px)
	}
	if px := rc.Image().RGBAAt(2, 2); px.R != 0 {
		t.Errorf("expected corner untouched, got %+v", px)
	}

	rc.Line(r2.Vec{X: 0, Y: 10}, r2.Vec{X: 64, Y: 10}, 2, white)
	if px := rc.Image().RGBAAt(20, 10); px.R == 0 {
		t.Errorf("expected line pixel to be lit, got %+v", px)
	}

	rc.Text("AU", 32, 60, 12, white)
	lit := false
	for x := 20; x < 44 && !lit; x++ {
		for y := 48; y < 60; y++ {
			if rc.Image().RGBAAt(x, y).R > 0 {
				lit = true
				break
			}
		}
	}
	if !lit {
		t.Error("expected text to light pixels above its baseline")
	}
}

func TestRasterCanvasEncodePNG(t *testing.T) {
	rc, err := NewRasterCanvas(16, 8)
	if err != nil {
		t.Fatal(err)
	}
	rc.Clear(components.Color{R: 10, G: 20, B: 30, A: 1})

	var buf bytes.Buffer
	if err := rc.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decoding PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 8 {
		t.Errorf("expected 16x8 image, got %v", b)
	}
}

func TestNewRasterCanvasRejectsEmpty(t *testing.T) {
	if _, err := NewRasterCanvas(0, 10); !errors.Is(err, systems.ErrEmptySurface) {
		t.Errorf("expected ErrEmptySurface, got %v", err)
	}
}
