package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/neuralmorph/telemetry"
	"github.com/pthm-cable/neuralmorph/ui"
)

const controlsLegend = "Space pause  N next  C controls  S snapshot  P perf  L log"

// drawUI draws the HUD and the controls panel and applies panel actions.
func (g *Game) drawUI() {
	sched := g.anim.Scheduler
	sample := telemetry.Measure(g.anim.Field, g.cfg.Render.FadeDistance)
	_, label := g.activeShape()

	g.hud.Draw(ui.HUDData{
		Title:        g.cfg.Screen.Title,
		Label:        label,
		Tick:         g.tick,
		FPS:          rl.GetFPS(),
		Particles:    len(g.anim.Field.Particles),
		Bound:        sample.Bound,
		Edges:        len(g.anim.Field.Connections),
		VisibleEdges: sample.VisibleEdges,
		Paused:       g.paused,
	})

	action := g.controls.Draw(ui.ControlsData{
		Paused:   g.paused,
		CycleSec: float32(sched.Params.CycleMs / 1000),
	})
	if action.Next {
		g.NextShape()
	}
	if action.TogglePause {
		g.SetPaused(!g.paused)
	}
	if action.CycleChanged {
		sched.Params.CycleMs = float64(action.CycleSec) * 1000
	}

	g.hud.DrawControls(int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()), controlsLegend)
}
