package telemetry

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/neuralmorph/shapes"
	"github.com/pthm-cable/neuralmorph/systems"
)

func animatedField(t *testing.T) (*systems.Field, *systems.Scheduler) {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	f, err := systems.NewField(systems.DefaultFieldParams(), 640, 480, rng)
	if err != nil {
		t.Fatal(err)
	}
	lib, err := shapes.NewLibrary(640, 480, rng)
	if err != nil {
		t.Fatal(err)
	}
	s, err := systems.NewScheduler(systems.DefaultSchedulerParams(), shapes.DefaultThemes(), lib)
	if err != nil {
		t.Fatal(err)
	}
	s.Transition(f, 1000, rng)
	for i := 0; i < 30; i++ {
		systems.Step(f, 16, systems.DefaultMotionParams(), rng)
	}
	return f, s
}

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	f, s := animatedField(t)

	snapshot := Capture(f, s, 42, 1000, 3000)

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.Version != snapshot.Version {
		t.Errorf("Version mismatch: got %d, want %d", loaded.Version, snapshot.Version)
	}
	if loaded.RNGSeed != snapshot.RNGSeed {
		t.Errorf("RNGSeed mismatch: got %d, want %d", loaded.RNGSeed, snapshot.RNGSeed)
	}
	if loaded.Tick != snapshot.Tick {
		t.Errorf("Tick mismatch: got %d, want %d", loaded.Tick, snapshot.Tick)
	}
	if loaded.Scheduler != snapshot.Scheduler {
		t.Errorf("Scheduler mismatch: got %+v, want %+v", loaded.Scheduler, snapshot.Scheduler)
	}
	if loaded.Scheduler.SinceChangeMs != 2000 {
		t.Errorf("expected 2000ms since the last change, got %v", loaded.Scheduler.SinceChangeMs)
	}
}

func TestSnapshotRestoresField(t *testing.T) {
	f, s := animatedField(t)

	restored, err := Capture(f, s, 1, 10, 3000).Field()
	if err != nil {
		t.Fatalf("Field failed: %v", err)
	}

	if restored.Width != f.Width || restored.Height != f.Height {
		t.Errorf("surface mismatch: got %vx%v", restored.Width, restored.Height)
	}
	if len(restored.Particles) != len(f.Particles) {
		t.Fatalf("particle count mismatch: got %d, want %d", len(restored.Particles), len(f.Particles))
	}
	for i := range f.Particles {
		if restored.Particles[i] != f.Particles[i] {
			t.Fatalf("particle %d mismatch:\n got %+v\nwant %+v", i, restored.Particles[i], f.Particles[i])
		}
	}
	if len(restored.Connections) != len(f.Connections) {
		t.Fatalf("connection count mismatch: got %d, want %d", len(restored.Connections), len(f.Connections))
	}
	for i := range f.Connections {
		if restored.Connections[i] != f.Connections[i] {
			t.Fatalf("connection %d mismatch", i)
		}
	}
}

func TestSnapshotRestoresScheduler(t *testing.T) {
	f, s := animatedField(t)
	snap := Capture(f, s, 1, 10, 3000)

	lib, _ := shapes.NewLibrary(640, 480, nil)
	fresh, err := systems.NewScheduler(systems.DefaultSchedulerParams(), shapes.DefaultThemes(), lib)
	if err != nil {
		t.Fatal(err)
	}
	if err := snap.RestoreScheduler(fresh, 100); err != nil {
		t.Fatalf("RestoreScheduler failed: %v", err)
	}

	if fresh.Active != s.Active || fresh.Label != s.Label || fresh.Transitions != s.Transitions {
		t.Errorf("scheduler state mismatch: got %+v", fresh)
	}
	// 2000ms of the cycle were already spent; 3000ms remain on the new clock.
	if fresh.Due(3100) {
		t.Error("expected no transition before the remaining cycle elapses")
	}
	if !fresh.Due(3101) {
		t.Error("expected a transition once the remaining cycle elapses")
	}
}

func TestSnapshotRejectsCorruptData(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Snapshot)
	}{
		{"wrong version", func(s *Snapshot) { s.Version = 99 }},
		{"empty surface", func(s *Snapshot) { s.Width = 0 }},
		{"no particles", func(s *Snapshot) { s.Particles = nil }},
		{"self edge", func(s *Snapshot) { s.Connections[0].To = s.Connections[0].From }},
		{"edge out of range", func(s *Snapshot) { s.Connections[0].To = len(s.Particles) }},
		{"duplicate edge", func(s *Snapshot) {
			c := s.Connections[0]
			s.Connections = append(s.Connections, ConnectionState{From: c.To, To: c.From})
		}},
		{"bad colour", func(s *Snapshot) { s.Particles[0].Color = "nope" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, s := animatedField(t)
			snap := Capture(f, s, 1, 10, 3000)
			tt.mutate(snap)
			if _, err := snap.Field(); !errors.Is(err, ErrBadSnapshot) {
				t.Errorf("expected ErrBadSnapshot, got %v", err)
			}
		})
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version: SnapshotVersion,
		Tick:    3000,
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	expected := filepath.Join(tmpDir, "snapshot_3000.json")
	if path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}
}

func TestLoadSnapshotMissing(t *testing.T) {
	if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected an error for a missing snapshot")
	}
}
