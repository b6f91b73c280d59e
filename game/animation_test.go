package game

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/neuralmorph/renderer"
	"github.com/pthm-cable/neuralmorph/shapes"
	"github.com/pthm-cable/neuralmorph/systems"
	"github.com/pthm-cable/neuralmorph/telemetry"
)

func newTestAnimation(t *testing.T, seed int64) *Animation {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	f, err := systems.NewField(systems.DefaultFieldParams(), 400, 300, rng)
	if err != nil {
		t.Fatal(err)
	}
	lib, err := shapes.NewLibrary(400, 300, rng)
	if err != nil {
		t.Fatal(err)
	}
	s, err := systems.NewScheduler(systems.DefaultSchedulerParams(), shapes.DefaultThemes(), lib)
	if err != nil {
		t.Fatal(err)
	}
	return NewAnimation(f, s, renderer.New(renderer.DefaultParams()), systems.DefaultMotionParams(), rng)
}

func positions(f *systems.Field) []r2.Vec {
	out := make([]r2.Vec, len(f.Particles))
	for i, p := range f.Particles {
		out[i] = p.Pos
	}
	return out
}

func TestAnimationFirstFrameTransitionsWithoutEasing(t *testing.T) {
	a := newTestAnimation(t, 1)
	before := positions(a.Field)

	if !a.Tick(1000) {
		t.Fatal("expected a transition on the first frame")
	}
	if a.Scheduler.Active == systems.NoShape {
		t.Fatal("expected an active shape after the first frame")
	}
	if a.Scheduler.LastChange != 1000 {
		t.Errorf("expected last change at 1000, got %f", a.Scheduler.LastChange)
	}

	// The first frame runs with dt = 0, so bound particles stay put even
	// though they already have targets.
	bound := 0
	for i, p := range a.Field.Particles {
		if !p.Bound {
			continue
		}
		bound++
		if p.Pos != before[i] {
			t.Errorf("particle %d moved on the first frame: %v -> %v", i, before[i], p.Pos)
		}
	}
	if bound == 0 {
		t.Fatal("expected bound particles after the first transition")
	}
}

func TestAnimationScheduleBeforeSimulate(t *testing.T) {
	a := newTestAnimation(t, 2)
	a.Tick(0)

	dist := func(p *systems.Field, i int) float64 {
		return r2.Norm(r2.Sub(p.Particles[i].Target, p.Particles[i].Pos))
	}
	before := make(map[int]float64)
	for i, p := range a.Field.Particles {
		if p.Bound {
			before[i] = dist(a.Field, i)
		}
	}

	a.Tick(16)

	closer := 0
	for i, d := range before {
		now := dist(a.Field, i)
		if now > d+1e-9 {
			t.Errorf("particle %d moved away from its target: %f -> %f", i, d, now)
		}
		if now < d {
			closer++
		}
	}
	if closer == 0 {
		t.Error("expected bound particles to ease toward their targets on the second frame")
	}
}

func TestAnimationCycleTiming(t *testing.T) {
	a := newTestAnimation(t, 3)

	steps := []struct {
		now  float64
		want bool
	}{
		{0, true},
		{16, false},
		{5000, false}, // exactly one cycle is not yet past it
		{5001, true},
		{9000, false},
		{10002, true},
	}
	for _, st := range steps {
		if got := a.Tick(st.now); got != st.want {
			t.Errorf("Tick(%v): expected transition=%v, got %v", st.now, st.want, got)
		}
	}
	if a.Scheduler.Transitions != 3 {
		t.Errorf("expected 3 transitions, got %d", a.Scheduler.Transitions)
	}
}

func TestAnimationBackwardsClockIsZeroDt(t *testing.T) {
	a := newTestAnimation(t, 4)
	a.Tick(100)
	a.Tick(116)
	before := positions(a.Field)

	a.Tick(50)

	for i, p := range a.Field.Particles {
		if p.Bound && p.Pos != before[i] {
			t.Errorf("bound particle %d moved with a backwards clock", i)
		}
	}
	if a.LastTime() != 50 {
		t.Errorf("expected last time 50, got %f", a.LastTime())
	}
}

func TestAnimationNextIsForced(t *testing.T) {
	a := newTestAnimation(t, 5)
	var got []bool
	a.OnTransition(func(forced bool) { got = append(got, forced) })

	a.Tick(0)
	a.Next(10)

	if len(got) != 2 || got[0] || !got[1] {
		t.Fatalf("expected transitions [false true], got %v", got)
	}
	if a.Scheduler.LastChange != 10 {
		t.Errorf("expected the forced change to restart the cycle at 10, got %f", a.Scheduler.LastChange)
	}
	if a.Tick(5005) {
		t.Error("expected no transition within a cycle of the forced change")
	}
	if !a.Tick(5011) {
		t.Error("expected a transition one cycle after the forced change")
	}
}

func TestAnimationNilIsNoOp(t *testing.T) {
	var a *Animation
	a.SetPerf(telemetry.NewPerfCollector(4))
	a.OnTransition(func(bool) {})
	if a.Tick(10) {
		t.Error("expected no transition from a nil animation")
	}
	a.Render(nil)
	a.Frame(20, nil)
	a.Next(30)
	if a.LastTime() != 0 {
		t.Errorf("expected zero last time, got %f", a.LastTime())
	}
}

func TestAnimationFrameRecordsPhases(t *testing.T) {
	a := newTestAnimation(t, 6)
	perf := telemetry.NewPerfCollector(4)
	a.SetPerf(perf)

	rc, err := renderer.NewRasterCanvas(400, 300)
	if err != nil {
		t.Fatal(err)
	}

	perf.StartTick()
	a.Frame(0, rc)
	perf.EndTick()

	stats := perf.Stats()
	for _, phase := range []string{telemetry.PhaseSchedule, telemetry.PhaseSimulate, telemetry.PhaseRender} {
		if _, ok := stats.PhaseAvg[phase]; !ok {
			t.Errorf("expected phase %q to be recorded", phase)
		}
	}

	bg := renderer.DefaultParams().Background
	drawn := 0
	img := rc.Image()
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] != bg.R || img.Pix[i+1] != bg.G || img.Pix[i+2] != bg.B {
			drawn++
		}
	}
	if drawn == 0 {
		t.Error("expected Frame to draw particles")
	}
}
