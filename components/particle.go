// Package components defines the plain data records shared by the animation systems.
package components

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Particle is one node of the field.
// A bound particle eases toward Target; an unbound one drifts with Vel.
type Particle struct {
	Pos    r2.Vec
	Vel    r2.Vec // units per frame, only used while unbound
	Radius float64
	Color  Color

	Target          r2.Vec  // meaningful only while Bound
	TransitionSpeed float64 // per-particle easing rate, fixed at creation
	Bound           bool
}

// Connection is a candidate edge between two particles.
// Membership is decided once from the initial layout; only the rendered
// opacity and colour follow the live positions.
type Connection struct {
	From        int
	To          int
	BaseOpacity float32
}

// Theme is the palette and label shown while a shape is active.
type Theme struct {
	Name      string // shape name the theme belongs to
	Label     string
	Primary   Color
	Secondary Color
}
