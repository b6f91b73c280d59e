package game

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput processes keyboard input.
func (g *Game) handleInput() {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.SetPaused(!g.paused)
	}

	if rl.IsKeyPressed(rl.KeyN) {
		g.NextShape()
	}

	if rl.IsKeyPressed(rl.KeyC) {
		g.controls.Toggle()
	}

	if rl.IsKeyPressed(rl.KeyS) {
		g.saveSnapshot()
	}

	// Console dumps
	if rl.IsKeyPressed(rl.KeyP) {
		g.logPerfStats()
	}
	if rl.IsKeyPressed(rl.KeyL) {
		g.logFieldState()
	}
}
