// Shape preview tool - step through the outline shapes with a radius slider,
// or render every shape settled into PNG files.
//
// Usage:
//
//	go run ./cmd/shapepreview
//	go run ./cmd/shapepreview -png out/
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/neuralmorph/config"
	"github.com/pthm-cable/neuralmorph/renderer"
	"github.com/pthm-cable/neuralmorph/renderer/rlcanvas"
	"github.com/pthm-cable/neuralmorph/shapes"
	"github.com/pthm-cable/neuralmorph/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 600
	panelWidth   = windowWidth - previewSize - 30

	// settleFrames at settleDt ms brings even the slowest bound particles
	// within a few pixels of their targets.
	settleFrames = 600
	settleDt     = 16.0
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	pngDir := flag.String("png", "", "Write each shape settled into this directory and exit")
	seed := flag.Int64("seed", 1, "RNG seed")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if *pngDir != "" {
		if err := writePNGs(cfg, *pngDir, *seed); err != nil {
			slog.Error("failed to write previews", "error", err)
			os.Exit(1)
		}
		return
	}

	preview(cfg, *seed)
}

// writePNGs settles a field into every configured theme and saves one
// raster frame per shape.
func writePNGs(cfg *config.Config, dir string, seed int64) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating png directory: %w", err)
	}
	w, h := cfg.Derived.ScreenW, cfg.Derived.ScreenH
	canvas, err := renderer.NewRasterCanvas(cfg.Screen.Width, cfg.Screen.Height)
	if err != nil {
		return err
	}
	r := renderer.New(cfg.RenderParams())

	for idx, theme := range cfg.Derived.Themes {
		rng := rand.New(rand.NewSource(seed))
		field, err := systems.NewField(cfg.FieldParams(), w, h, rng)
		if err != nil {
			return err
		}
		lib, err := shapes.NewLibrary(w, h, rng)
		if err != nil {
			return err
		}
		sched, err := systems.NewScheduler(cfg.SchedulerParams(), cfg.Derived.Themes, lib)
		if err != nil {
			return err
		}

		sched.Apply(field, idx, 0, rng)
		for i := 0; i < settleFrames; i++ {
			systems.Step(field, settleDt, cfg.MotionParams(), rng)
		}
		r.Draw(canvas, field, sched)

		path := filepath.Join(dir, theme.Name+".png")
		if err := canvas.SavePNG(path); err != nil {
			return err
		}
		slog.Info("wrote preview", "shape", theme.Name, "points", len(lib.Points(shapes.Name(theme.Name))), "path", path)
	}
	return nil
}

// preview opens the interactive window.
func preview(cfg *config.Config, seed int64) {
	rl.InitWindow(windowWidth, windowHeight, "Shape Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	rng := rand.New(rand.NewSource(seed))
	current := 0
	radiusFactor := float32(shapes.BaseRadiusFactor)
	showOrder := false

	var points []r2.Vec
	needsRegen := true

	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyRight) {
			current = (current + 1) % len(shapes.Names)
			needsRegen = true
		}
		if rl.IsKeyPressed(rl.KeyLeft) {
			current = (current + len(shapes.Names) - 1) % len(shapes.Names)
			needsRegen = true
		}

		name := shapes.Names[current]
		if needsRegen {
			radius := previewSize * float64(radiusFactor)
			points, _ = shapes.Generate(name, previewSize/2, previewSize/2, radius, rng)
			needsRegen = false
		}
		color := themeColor(cfg, name)

		rl.BeginDrawing()
		rl.ClearBackground(rlcanvas.ToRaylib(cfg.Derived.Background))

		// Draw preview
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)
		for i, p := range points {
			c := color
			if showOrder {
				// Fade along the outline to show the order particles are bound in.
				c.A = uint8(60 + 195*float64(i)/float64(max(len(points)-1, 1)))
			}
			rl.DrawCircleV(rl.Vector2{X: float32(p.X) + 10, Y: float32(p.Y) + 10}, 2, c)
		}

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Shape Parameters", int32(panelX), int32(panelY), 20, rl.LightGray)
		panelY += 35

		rl.DrawText(fmt.Sprintf("%s (%d of %d)", name, current+1, len(shapes.Names)), int32(panelX), int32(panelY), 16, rl.White)
		panelY += 25

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Previous") {
			current = (current + len(shapes.Names) - 1) % len(shapes.Names)
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Next") {
			current = (current + 1) % len(shapes.Names)
			needsRegen = true
		}
		panelY += 45

		// Radius slider
		rl.DrawText("Base radius (fraction of min side)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newFactor := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.1", "0.5",
			radiusFactor, 0.1, 0.5,
		)
		rl.DrawText(fmt.Sprintf("%.2f", radiusFactor), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.LightGray)
		if newFactor != radiusFactor {
			radiusFactor = newFactor
			needsRegen = true
		}
		panelY += 40

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(showOrder, "Plain", "Show order")) {
			showOrder = !showOrder
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset") {
			radiusFactor = shapes.BaseRadiusFactor
			needsRegen = true
		}
		panelY += 50

		// Stats
		b := shapes.Bounds(points)
		nodes := systems.NodeCount(len(points), cfg.Field.Count, cfg.Scheduler.ShapeFraction)
		stats := []string{
			fmt.Sprintf("Points: %d", len(points)),
			fmt.Sprintf("Bound particles: %d of %d", nodes, cfg.Field.Count),
			fmt.Sprintf("Bounds: (%.0f, %.0f) - (%.0f, %.0f)", b.Min.X, b.Min.Y, b.Max.X, b.Max.Y),
			fmt.Sprintf("Size: %.0f x %.0f", b.Max.X-b.Min.X, b.Max.Y-b.Min.Y),
			fmt.Sprintf("Inside preview: %v", inside(b, previewSize)),
		}
		for _, line := range stats {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.LightGray)
			panelY += 18
		}

		rl.DrawText("Left/Right to change shape", int32(panelX), int32(windowHeight-30), 12, rl.Gray)

		rl.EndDrawing()
	}
}

func themeColor(cfg *config.Config, name shapes.Name) rl.Color {
	for _, th := range cfg.Derived.Themes {
		if th.Name == string(name) {
			return rlcanvas.ToRaylib(th.Primary)
		}
	}
	return rl.White
}

func inside(b r2.Box, size float64) bool {
	return b.Min.X >= 0 && b.Min.Y >= 0 && b.Max.X <= size && b.Max.Y <= size && !math.IsNaN(b.Min.X)
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
