package game

import (
	"math/rand"

	"github.com/pthm-cable/neuralmorph/renderer"
	"github.com/pthm-cable/neuralmorph/systems"
	"github.com/pthm-cable/neuralmorph/telemetry"
)

// Animation drives one field through the per-frame cycle:
// schedule, simulate, render.
//
// All methods are no-ops on a nil *Animation so a host that failed to set
// one up (for example on an empty surface) can keep calling them.
type Animation struct {
	Field     *systems.Field
	Scheduler *systems.Scheduler
	Renderer  *renderer.Renderer
	Motion    systems.MotionParams

	rng      *rand.Rand
	lastTime float64
	started  bool

	perf         *telemetry.PerfCollector
	onTransition func(forced bool)
}

// NewAnimation wires an animation from its parts. The field and scheduler
// must have been built for the same surface.
func NewAnimation(f *systems.Field, s *systems.Scheduler, r *renderer.Renderer, motion systems.MotionParams, rng *rand.Rand) *Animation {
	return &Animation{
		Field:     f,
		Scheduler: s,
		Renderer:  r,
		Motion:    motion,
		rng:       rng,
	}
}

// SetPerf records schedule, simulate and render phases into p.
func (a *Animation) SetPerf(p *telemetry.PerfCollector) {
	if a == nil {
		return
	}
	a.perf = p
}

// OnTransition registers fn to be called after every shape change.
func (a *Animation) OnTransition(fn func(forced bool)) {
	if a == nil {
		return
	}
	a.onTransition = fn
}

// Tick advances the animation to now (ms). The first call uses dt = 0.
// A clock that goes backwards is treated as no elapsed time.
// It reports whether the shape changed.
func (a *Animation) Tick(now float64) bool {
	if a == nil {
		return false
	}
	dt := 0.0
	if a.started {
		dt = max(now-a.lastTime, 0)
	}
	a.lastTime = now
	a.started = true

	a.phase(telemetry.PhaseSchedule)
	changed := false
	if a.Scheduler.Due(now) {
		a.Scheduler.Transition(a.Field, now, a.rng)
		changed = true
		a.notify(false)
	}

	a.phase(telemetry.PhaseSimulate)
	systems.Step(a.Field, dt, a.Motion, a.rng)
	return changed
}

// Render draws the current state. It does not modify the animation.
func (a *Animation) Render(c renderer.Canvas) {
	if a == nil || c == nil {
		return
	}
	a.phase(telemetry.PhaseRender)
	a.Renderer.Draw(c, a.Field, a.Scheduler)
}

// Frame is the body of one display refresh: Tick followed by Render.
// Perf tick boundaries belong to the caller.
func (a *Animation) Frame(now float64, c renderer.Canvas) {
	if a == nil {
		return
	}
	a.Tick(now)
	a.Render(c)
}

// Next switches to a new shape immediately, ignoring the cycle timer.
func (a *Animation) Next(now float64) {
	if a == nil {
		return
	}
	a.Scheduler.Transition(a.Field, now, a.rng)
	a.notify(true)
}

// LastTime returns the timestamp of the most recent Tick.
func (a *Animation) LastTime() float64 {
	if a == nil {
		return 0
	}
	return a.lastTime
}

func (a *Animation) phase(name string) {
	if a.perf != nil {
		a.perf.StartPhase(name)
	}
}

func (a *Animation) notify(forced bool) {
	if a.onTransition != nil {
		a.onTransition(forced)
	}
}
