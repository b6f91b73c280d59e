package game

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/pthm-cable/neuralmorph/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and writes it out.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	sample := telemetry.Measure(g.anim.Field, g.cfg.Render.FadeDistance)
	shape, label := g.activeShape()

	stats := g.collector.Flush(g.tick, shape, label, sample)
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	// A free particle outside the surface breaks the reflection invariant;
	// keep the state for inspection.
	if stats.OutOfBounds > 0 && g.snapshotDir != "" {
		g.saveSnapshot()
	}
}

// activeShape returns the active shape name and label, empty before the first pick.
func (g *Game) activeShape() (string, string) {
	theme, ok := g.anim.Scheduler.Theme()
	if !ok {
		return "", ""
	}
	return theme.Name, g.anim.Scheduler.Label
}

// saveSnapshot writes the current state to the snapshot directory, or to the
// output directory when no snapshot directory is set.
func (g *Game) saveSnapshot() {
	snapshot := telemetry.Capture(g.anim.Field, g.anim.Scheduler, g.rngSeed, g.tick, g.nowMs)

	var (
		path string
		err  error
	)
	switch {
	case g.snapshotDir != "":
		path, err = telemetry.SaveSnapshot(snapshot, g.snapshotDir)
	case g.outputManager != nil:
		path, err = g.outputManager.WriteSnapshot(snapshot)
	default:
		slog.Warn("snapshot requested without a snapshot or output directory", "tick", g.tick)
		return
	}
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	slog.Info("snapshot saved", "path", path, "tick", g.tick)
}

// exportFrame writes the raster canvas as a PNG every frameEvery ticks.
func (g *Game) exportFrame() {
	if g.frameDir == "" || g.raster == nil || g.tick%int32(g.frameEvery) != 0 {
		return
	}
	path := filepath.Join(g.frameDir, fmt.Sprintf("frame_%06d.png", g.tick))
	if err := g.raster.SavePNG(path); err != nil {
		slog.Error("failed to export frame", "error", err, "tick", g.tick)
	}
}
