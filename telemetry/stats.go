package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/neuralmorph/systems"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Scheduler state at window end
	Shape       string `csv:"shape"`
	Label       string `csv:"label"`
	Transitions int    `csv:"transitions"` // during the window
	Forced      int    `csv:"forced"`      // transitions requested from the UI

	// Particle roles at window end
	Bound int `csv:"bound"`
	Free  int `csv:"free"`

	// Distance from bound particles to their targets
	TargetDistMean float64 `csv:"target_dist_mean"`
	TargetDistP50  float64 `csv:"target_dist_p50"`
	TargetDistP90  float64 `csv:"target_dist_p90"`
	TargetDistMax  float64 `csv:"target_dist_max"`

	// Free particles outside the surface; always 0 unless motion is broken
	OutOfBounds int `csv:"out_of_bounds"`

	// Edges short enough to be drawn
	VisibleEdges   int     `csv:"visible_edges"`
	EdgeLengthMean float64 `csv:"edge_length_mean"`
}

// FieldSample is a point-in-time measurement of a field.
type FieldSample struct {
	Bound, Free     int
	TargetDistances []float64 // sorted ascending
	OutOfBounds     int
	VisibleEdges    int
	EdgeLengths     []float64
}

// Measure samples f. Edges whose live length is below fadeDistance count as
// visible.
func Measure(f *systems.Field, fadeDistance float64) FieldSample {
	var s FieldSample
	if f == nil {
		return s
	}
	for i := range f.Particles {
		p := &f.Particles[i]
		if p.Bound {
			s.Bound++
			s.TargetDistances = append(s.TargetDistances, r2.Norm(r2.Sub(p.Target, p.Pos)))
			continue
		}
		s.Free++
		if !f.InBounds(p.Pos) {
			s.OutOfBounds++
		}
	}
	sort.Float64s(s.TargetDistances)

	for _, c := range f.Connections {
		d := r2.Norm(r2.Sub(f.Particles[c.From].Pos, f.Particles[c.To].Pos))
		if d < fadeDistance {
			s.VisibleEdges++
			s.EdgeLengths = append(s.EdgeLengths, d)
		}
	}
	return s
}

// Percentile returns the empirical p-quantile of sorted, or 0 if it is empty.
// p is clamped to [0, 1].
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	p = min(max(p, 0), 1)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// Mean returns the arithmetic mean of values, or 0 if it is empty.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.String("shape", s.Shape),
		slog.Int("transitions", s.Transitions),
		slog.Int("forced", s.Forced),
		slog.Int("bound", s.Bound),
		slog.Int("free", s.Free),
		slog.Float64("target_dist_mean", s.TargetDistMean),
		slog.Float64("target_dist_p50", s.TargetDistP50),
		slog.Float64("target_dist_p90", s.TargetDistP90),
		slog.Float64("target_dist_max", s.TargetDistMax),
		slog.Int("out_of_bounds", s.OutOfBounds),
		slog.Int("visible_edges", s.VisibleEdges),
		slog.Float64("edge_length_mean", s.EdgeLengthMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"shape", s.Shape,
		"transitions", s.Transitions,
		"bound", s.Bound,
		"free", s.Free,
		"target_dist_mean", s.TargetDistMean,
		"target_dist_p90", s.TargetDistP90,
		"out_of_bounds", s.OutOfBounds,
		"visible_edges", s.VisibleEdges,
	)
	if s.OutOfBounds > 0 {
		slog.Warn("free particles escaped the surface", "count", s.OutOfBounds, "window_end", s.WindowEndTick)
	}
}
