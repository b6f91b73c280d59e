package game

import (
	"fmt"
	"io"
	"time"

	"github.com/pthm-cable/neuralmorph/telemetry"
)

// logWriter is the destination for log output.
var logWriter io.Writer

// SetLogWriter sets the log output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted log message.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

// logPerfStats logs the rolling frame timing breakdown.
func (g *Game) logPerfStats() {
	stats := g.perfCollector.Stats()
	Logf("=== Perf @ Tick %d | FPS: %.0f ===", g.tick, stats.FPS)
	Logf("Avg frame work: %s (min %s, max %s)",
		stats.AvgTickDuration.Round(time.Microsecond),
		stats.MinTickDuration.Round(time.Microsecond),
		stats.MaxTickDuration.Round(time.Microsecond),
	)

	for _, name := range telemetry.Phases {
		Logf("  %-10s %10s  %5.1f%%", name, stats.PhaseAvg[name].Round(time.Microsecond), stats.PhasePct[name])
	}
	Logf("")
}

// logFieldState logs the current shape and particle counts.
func (g *Game) logFieldState() {
	sample := telemetry.Measure(g.anim.Field, g.cfg.Render.FadeDistance)
	shape, label := g.activeShape()
	if shape == "" {
		shape = "none"
	}

	Logf("=== Tick %d ===", g.tick)
	Logf("Shape: %s (%q), transitions: %d", shape, label, g.anim.Scheduler.Transitions)
	Logf("Particles: bound=%d free=%d out-of-bounds=%d", sample.Bound, sample.Free, sample.OutOfBounds)
	Logf("Edges: %d of %d visible, mean length %.1f",
		sample.VisibleEdges, len(g.anim.Field.Connections), telemetry.Mean(sample.EdgeLengths))
	Logf("Target distance: p50=%.1f p90=%.1f",
		telemetry.Percentile(sample.TargetDistances, 0.5), telemetry.Percentile(sample.TargetDistances, 0.9))
	Logf("")
}
