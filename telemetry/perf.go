package telemetry

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Phase names for one animation frame, in execution order.
const (
	PhaseSchedule  = "schedule"
	PhaseSimulate  = "simulate"
	PhaseRender    = "render"
	PhaseTelemetry = "telemetry"
)

// Phases lists every frame phase in execution order.
var Phases = []string{PhaseSchedule, PhaseSimulate, PhaseRender, PhaseTelemetry}

// PerfSample is the work time of one animation frame split by phase.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector keeps the last few frame samples in a ring. A frame runs
// from StartTick to EndTick; StartPhase outside of that is ignored so
// redraws of a paused window do not leak into the previous frame.
type PerfCollector struct {
	ring   []PerfSample
	next   int
	filled int

	open    bool
	current PerfSample
	started time.Time
	phase   string
	phaseAt time.Time

	// Display refresh pacing, measured between RecordFrame calls.
	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector over the last windowSize frames.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{ring: make([]PerfSample, windowSize)}
}

// StartTick opens a new frame sample.
func (p *PerfCollector) StartTick() {
	p.open = true
	p.started = time.Now()
	p.current = PerfSample{Phases: make(map[string]time.Duration, len(Phases))}
	p.phase = ""
}

// StartPhase closes the running phase and starts timing name.
func (p *PerfCollector) StartPhase(name string) {
	if !p.open {
		return
	}
	now := time.Now()
	p.closePhase(now)
	p.phase = name
	p.phaseAt = now
}

// EndTick closes the frame sample and pushes it into the ring.
func (p *PerfCollector) EndTick() {
	if !p.open {
		return
	}
	now := time.Now()
	p.closePhase(now)
	p.current.TickDuration = now.Sub(p.started)

	p.ring[p.next] = p.current
	p.next = (p.next + 1) % len(p.ring)
	p.filled = min(p.filled+1, len(p.ring))

	p.open = false
	p.phase = ""
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase != "" {
		p.current.Phases[p.phase] += now.Sub(p.phaseAt)
	}
}

// RecordFrame marks a display refresh. The gap between two calls includes
// vsync waits and paused frames, unlike the tick samples.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats summarises the samples currently in the ring.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64 // share of the average frame work

	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats summarises the ring. It never returns nil maps.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.filled == 0 {
		return s
	}

	work := make([]float64, p.filled)
	sums := make(map[string]float64)
	for i, sample := range p.ring[:p.filled] {
		work[i] = float64(sample.TickDuration)
		for name, d := range sample.Phases {
			sums[name] += float64(d)
		}
	}

	n := float64(p.filled)
	avg := floats.Sum(work) / n
	s.AvgTickDuration = time.Duration(avg)
	s.MinTickDuration = time.Duration(floats.Min(work))
	s.MaxTickDuration = time.Duration(floats.Max(work))
	if avg > 0 {
		s.TicksPerSecond = float64(time.Second) / avg
	}
	for name, sum := range sums {
		s.PhaseAvg[name] = time.Duration(sum / n)
		if avg > 0 {
			s.PhasePct[name] = sum / n / avg * 100
		}
	}
	return s
}

// LogStats logs the summary at info level, skipping negligible phases.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, name := range Phases {
		if pct := s.PhasePct[name]; pct > 0.1 {
			attrs = append(attrs, name+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, name := range Phases {
		if pct, ok := s.PhasePct[name]; ok {
			attrs = append(attrs, slog.Float64(name+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	SchedulePct  float64 `csv:"schedule_pct"`
	SimulatePct  float64 `csv:"simulate_pct"`
	RenderPct    float64 `csv:"render_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the summary for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		SchedulePct:  s.PhasePct[PhaseSchedule],
		SimulatePct:  s.PhasePct[PhaseSimulate],
		RenderPct:    s.PhasePct[PhaseRender],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
