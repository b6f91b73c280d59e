package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Cycle slider bounds in seconds.
const (
	MinCycleSec = 1
	MaxCycleSec = 20
)

// ControlsData is the state shown by the controls panel.
type ControlsData struct {
	Paused   bool
	CycleSec float32
}

// ControlsAction reports what the user did in the panel this frame.
type ControlsAction struct {
	Next         bool
	TogglePause  bool
	CycleChanged bool
	CycleSec     float32
}

// ControlsPanel renders the left-side controls panel.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  false,
	}
}

// SetVisible shows or hides the panel.
func (c *ControlsPanel) SetVisible(visible bool) {
	c.visible = visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the panel and returns the actions taken in it.
// A hidden panel draws nothing and reports no action.
func (c *ControlsPanel) Draw(data ControlsData) ControlsAction {
	action := ControlsAction{CycleSec: data.CycleSec}
	if !c.visible {
		return action
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight
	inner := c.width - padding*2

	panelHeight := padding*2 + lineHeight + 4 + (r.Theme.ButtonHeight+6)*2 + lineHeight + r.Theme.ButtonHeight
	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding
	rl.DrawText("Controls", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	if gui.Button(r.Rect(c.x+padding, y, inner), "Next shape") {
		action.Next = true
	}
	y += r.Theme.ButtonHeight + 6

	if gui.Button(r.Rect(c.x+padding, y, inner), toggleText(data.Paused, "Resume", "Pause")) {
		action.TogglePause = true
	}
	y += r.Theme.ButtonHeight + 6

	y = r.DrawLabelValue(c.x+padding, y, "Cycle", fmt.Sprintf("%.1f s", data.CycleSec))
	newCycle := gui.SliderBar(r.Rect(c.x+padding, y, inner), "", "", data.CycleSec, MinCycleSec, MaxCycleSec)
	if newCycle != data.CycleSec {
		action.CycleChanged = true
		action.CycleSec = newCycle
	}

	return action
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
