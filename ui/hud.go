package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Label        string // active shape label, empty before the first shape
	Tick         int32
	FPS          int32
	Particles    int
	Bound        int
	Edges        int
	VisibleEdges int
	Paused       bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	label := data.Label
	if label == "" {
		label = "-"
	}
	rl.DrawText(
		fmt.Sprintf("Shape: %s | Particles: %d (%d bound)", label, data.Particles, data.Bound),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | FPS: %d | Edges: %d/%d", data.Tick, data.FPS, data.VisibleEdges, data.Edges),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)
}

// DrawControls renders the control legend in the top-right corner, clear of
// the shape label at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	const fontSize = 14
	w := rl.MeasureText(controls, fontSize)
	rl.DrawText(controls, screenWidth-w-10, 10, fontSize, h.renderer.Theme.MutedColor)
}
