package systems

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/neuralmorph/components"
)

// Step advances every particle by one frame, dt milliseconds after the
// previous one.
//
// Bound particles ease toward their target with a rate scaled by dt. Free
// particles move by their velocity once per frame regardless of dt, bounce
// off the surface edges and occasionally pick a new random velocity.
func Step(f *Field, dt float64, p MotionParams, rng *rand.Rand) {
	for i := range f.Particles {
		pt := &f.Particles[i]
		if pt.Bound {
			Ease(pt, dt, p)
			continue
		}
		Drift(pt, f.Width, f.Height, p, rng)
	}
}

// Ease moves a bound particle toward its target:
//
//	factor = min(1, dist/EaseDistance) * EaseMaxFactor
//	pos   += (target - pos) * TransitionSpeed * dt * EaseScale * factor
//
// Displaced particles accelerate and settle without a hard snap.
func Ease(pt *components.Particle, dt float64, p MotionParams) {
	d := r2.Sub(pt.Target, pt.Pos)
	dist := r2.Norm(d)
	if dist == 0 {
		return
	}
	factor := math.Min(1, dist/p.EaseDistance) * p.EaseMaxFactor
	pt.Pos = r2.Add(pt.Pos, r2.Scale(pt.TransitionSpeed*dt*p.EaseScale*factor, d))
}

// Drift integrates a free particle and reflects it off the edges of a
// width x height surface.
func Drift(pt *components.Particle, width, height float64, p MotionParams, rng *rand.Rand) {
	pt.Pos = r2.Add(pt.Pos, pt.Vel)

	if pt.Pos.X < 0 {
		pt.Pos.X = 0
		pt.Vel.X = -pt.Vel.X
	}
	if pt.Pos.X > width {
		pt.Pos.X = width
		pt.Vel.X = -pt.Vel.X
	}
	if pt.Pos.Y < 0 {
		pt.Pos.Y = 0
		pt.Vel.Y = -pt.Vel.Y
	}
	if pt.Pos.Y > height {
		pt.Pos.Y = height
		pt.Vel.Y = -pt.Vel.Y
	}

	if rng.Float64() < p.ResteerChance {
		pt.Vel = randomVelocity(rng, p.FreeSpeed)
	}
}
