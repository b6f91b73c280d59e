package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/neuralmorph/components"
	"github.com/pthm-cable/neuralmorph/systems"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// ErrBadSnapshot is returned when a snapshot cannot be turned back into a field.
var ErrBadSnapshot = errors.New("invalid snapshot")

// Snapshot holds the complete animation state for resuming a run.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`

	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Tick int32 `json:"tick"`

	Scheduler SchedulerState `json:"scheduler"`

	Particles   []ParticleState   `json:"particles"`
	Connections []ConnectionState `json:"connections"`
}

// SchedulerState is the scheduler's position in its cycle. The time already
// spent on the active shape is stored instead of an absolute timestamp, so a
// resumed run can use a fresh clock.
type SchedulerState struct {
	Active        int     `json:"active"`
	Label         string  `json:"label"`
	SinceChangeMs float64 `json:"since_change_ms"`
	Transitions   int     `json:"transitions"`
}

// ParticleState holds one particle's complete state.
type ParticleState struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VelX   float64 `json:"vel_x"`
	VelY   float64 `json:"vel_y"`
	Radius float64 `json:"radius"`

	Color string  `json:"color"` // "#rrggbb"
	Alpha float32 `json:"alpha"`

	TargetX         float64 `json:"target_x"`
	TargetY         float64 `json:"target_y"`
	TransitionSpeed float64 `json:"transition_speed"`
	Bound           bool    `json:"bound"`
}

// ConnectionState holds one edge.
type ConnectionState struct {
	From        int     `json:"from"`
	To          int     `json:"to"`
	BaseOpacity float32 `json:"base_opacity"`
}

// Capture records f and s at tick, nowMs being the scheduler clock.
func Capture(f *systems.Field, s *systems.Scheduler, seed int64, tick int32, nowMs float64) *Snapshot {
	snap := &Snapshot{
		Version:     SnapshotVersion,
		RNGSeed:     seed,
		Width:       f.Width,
		Height:      f.Height,
		Tick:        tick,
		Particles:   make([]ParticleState, len(f.Particles)),
		Connections: make([]ConnectionState, len(f.Connections)),
	}
	if s != nil {
		snap.Scheduler = SchedulerState{
			Active:      s.Active,
			Label:       s.Label,
			Transitions: s.Transitions,
		}
		if s.Active != systems.NoShape {
			snap.Scheduler.SinceChangeMs = nowMs - s.LastChange
		}
	} else {
		snap.Scheduler.Active = systems.NoShape
	}

	for i, p := range f.Particles {
		snap.Particles[i] = ParticleState{
			X:               p.Pos.X,
			Y:               p.Pos.Y,
			VelX:            p.Vel.X,
			VelY:            p.Vel.Y,
			Radius:          p.Radius,
			Color:           p.Color.Hex(),
			Alpha:           p.Color.A,
			TargetX:         p.Target.X,
			TargetY:         p.Target.Y,
			TransitionSpeed: p.TransitionSpeed,
			Bound:           p.Bound,
		}
	}
	for i, c := range f.Connections {
		snap.Connections[i] = ConnectionState{From: c.From, To: c.To, BaseOpacity: c.BaseOpacity}
	}
	return snap
}

// Field rebuilds the particle field. The stored connection set is reused
// verbatim, never recomputed from the restored positions.
func (snap *Snapshot) Field() (*systems.Field, error) {
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: version %d, want %d", ErrBadSnapshot, snap.Version, SnapshotVersion)
	}
	if snap.Width <= 0 || snap.Height <= 0 || len(snap.Particles) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, systems.ErrEmptySurface)
	}

	f := &systems.Field{
		Width:       snap.Width,
		Height:      snap.Height,
		Particles:   make([]components.Particle, len(snap.Particles)),
		Connections: make([]components.Connection, len(snap.Connections)),
	}
	for i, ps := range snap.Particles {
		col, err := components.ParseHex(ps.Color)
		if err != nil {
			return nil, fmt.Errorf("%w: particle %d: %w", ErrBadSnapshot, i, err)
		}
		f.Particles[i] = components.Particle{
			Pos:             r2.Vec{X: ps.X, Y: ps.Y},
			Vel:             r2.Vec{X: ps.VelX, Y: ps.VelY},
			Radius:          ps.Radius,
			Color:           col.WithAlpha(ps.Alpha),
			Target:          r2.Vec{X: ps.TargetX, Y: ps.TargetY},
			TransitionSpeed: ps.TransitionSpeed,
			Bound:           ps.Bound,
		}
	}

	n := len(f.Particles)
	seen := make(map[[2]int]bool, len(snap.Connections))
	for i, cs := range snap.Connections {
		if cs.From == cs.To || cs.From < 0 || cs.To < 0 || cs.From >= n || cs.To >= n {
			return nil, fmt.Errorf("%w: connection %d (%d, %d)", ErrBadSnapshot, i, cs.From, cs.To)
		}
		key := [2]int{min(cs.From, cs.To), max(cs.From, cs.To)}
		if seen[key] {
			return nil, fmt.Errorf("%w: duplicate connection (%d, %d)", ErrBadSnapshot, cs.From, cs.To)
		}
		seen[key] = true
		f.Connections[i] = components.Connection{From: cs.From, To: cs.To, BaseOpacity: cs.BaseOpacity}
	}
	return f, nil
}

// RestoreScheduler puts s back at the recorded point of its cycle, nowMs
// being the current scheduler clock.
func (snap *Snapshot) RestoreScheduler(s *systems.Scheduler, nowMs float64) error {
	st := snap.Scheduler
	if st.Active != systems.NoShape && (st.Active < 0 || st.Active >= len(s.Themes)) {
		return fmt.Errorf("%w: active shape %d of %d themes", ErrBadSnapshot, st.Active, len(s.Themes))
	}
	s.Active = st.Active
	s.Label = st.Label
	s.Transitions = st.Transitions
	s.LastChange = nowMs - st.SinceChangeMs
	return nil
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("snapshot_%d.json", snapshot.Tick))

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}
