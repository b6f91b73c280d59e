// Package telemetry provides frame timing, per-window animation stats, CSV
// output and field snapshots.
package telemetry

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	frameSec            float64

	windowStartTick int32

	transitions int
	forced      int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in animation seconds
// fps: frames per second (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, fps int) *Collector {
	if fps < 1 {
		fps = 60
	}
	frameSec := 1 / float64(fps)
	ticksPerWindow := int32(windowDurationSec / frameSec)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		frameSec:            frameSec,
	}
}

// RecordTransition records a shape change. forced marks transitions
// requested from the controls rather than by the cycle timer.
func (c *Collector) RecordTransition(forced bool) {
	c.transitions++
	if forced {
		c.forced++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats from the window's counters and a sample of
// the field at currentTick, then resets the counters.
func (c *Collector) Flush(currentTick int32, shape, label string, sample FieldSample) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.frameSec,

		Shape:       shape,
		Label:       label,
		Transitions: c.transitions,
		Forced:      c.forced,

		Bound: sample.Bound,
		Free:  sample.Free,

		TargetDistMean: Mean(sample.TargetDistances),
		TargetDistP50:  Percentile(sample.TargetDistances, 0.5),
		TargetDistP90:  Percentile(sample.TargetDistances, 0.9),
		TargetDistMax:  Percentile(sample.TargetDistances, 1),

		OutOfBounds:    sample.OutOfBounds,
		VisibleEdges:   sample.VisibleEdges,
		EdgeLengthMean: Mean(sample.EdgeLengths),
	}

	c.windowStartTick = currentTick
	c.transitions = 0
	c.forced = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
