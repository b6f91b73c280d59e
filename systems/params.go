package systems

import "github.com/pthm-cable/neuralmorph/components"

// FieldParams controls particle creation and the connection graph.
type FieldParams struct {
	Count int

	// The first LargeFraction of particles (by creation order) get the
	// large radius range; they are the ones ranked first for shapes.
	LargeFraction  float64
	LargeRadiusMin float64
	LargeRadiusMax float64
	SmallRadiusMin float64
	SmallRadiusMax float64

	InitialSpeed       float64 // per-axis velocity range is ±InitialSpeed
	TransitionSpeedMin float64
	TransitionSpeedMax float64

	InitialColor    components.Color
	InitialAlphaMin float64
	InitialAlphaMax float64

	ConnectionDistance   float64 // pairs closer than this at creation are connected
	ConnectionOpacityMin float64
	ConnectionOpacityMax float64
}

// DefaultFieldParams returns the stock field settings.
func DefaultFieldParams() FieldParams {
	return FieldParams{
		Count:                250,
		LargeFraction:        0.6,
		LargeRadiusMin:       3,
		LargeRadiusMax:       6,
		SmallRadiusMin:       1.5,
		SmallRadiusMax:       3.5,
		InitialSpeed:         0.2,
		TransitionSpeedMin:   0.02,
		TransitionSpeedMax:   0.06,
		InitialColor:         components.Color{R: 30, G: 144, B: 255, A: 1},
		InitialAlphaMin:      0.5,
		InitialAlphaMax:      1.0,
		ConnectionDistance:   70,
		ConnectionOpacityMin: 0.2,
		ConnectionOpacityMax: 0.7,
	}
}

// SchedulerParams controls shape cycling and recolouring.
type SchedulerParams struct {
	CycleMs       float64 // time a shape stays active
	ShapeFraction float64 // cap on bound particles as a fraction of the field
	ShapeAlpha    float64 // opacity of bound particles
	FreeAlphaMin  float64
	FreeAlphaMax  float64
	FreeSpeed     float64 // per-axis velocity range given to released particles
}

// DefaultSchedulerParams returns the stock scheduler settings.
func DefaultSchedulerParams() SchedulerParams {
	return SchedulerParams{
		CycleMs:       5000,
		ShapeFraction: 0.6,
		ShapeAlpha:    0.9,
		FreeAlphaMin:  0.3,
		FreeAlphaMax:  0.6,
		FreeSpeed:     0.25,
	}
}

// MotionParams controls the per-frame update.
type MotionParams struct {
	EaseScale     float64 // multiplier on speed*dt
	EaseDistance  float64 // distance at which the speed factor saturates
	EaseMaxFactor float64 // saturated speed factor
	ResteerChance float64 // per-tick probability a free particle picks a new velocity
	FreeSpeed     float64 // per-axis velocity range when re-steering
}

// DefaultMotionParams returns the stock motion settings.
func DefaultMotionParams() MotionParams {
	return MotionParams{
		EaseScale:     0.1,
		EaseDistance:  30,
		EaseMaxFactor: 3,
		ResteerChance: 0.02,
		FreeSpeed:     0.25,
	}
}
