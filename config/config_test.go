package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/neuralmorph/components"
	"github.com/pthm-cable/neuralmorph/renderer"
	"github.com/pthm-cable/neuralmorph/shapes"
	"github.com/pthm-cable/neuralmorph/systems"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultsMatchSystemDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got, want := cfg.FieldParams(), systems.DefaultFieldParams(); got != want {
		t.Errorf("field params:\n got %+v\nwant %+v", got, want)
	}
	if got, want := cfg.SchedulerParams(), systems.DefaultSchedulerParams(); got != want {
		t.Errorf("scheduler params:\n got %+v\nwant %+v", got, want)
	}
	if got, want := cfg.MotionParams(), systems.DefaultMotionParams(); got != want {
		t.Errorf("motion params:\n got %+v\nwant %+v", got, want)
	}
	if got, want := cfg.RenderParams(), renderer.DefaultParams(); got != want {
		t.Errorf("render params:\n got %+v\nwant %+v", got, want)
	}
}

func TestDefaultThemesMatchShapes(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := shapes.DefaultThemes()
	if len(cfg.Derived.Themes) != len(want) {
		t.Fatalf("expected %d themes, got %d", len(want), len(cfg.Derived.Themes))
	}
	for i := range want {
		if cfg.Derived.Themes[i] != want[i] {
			t.Errorf("theme %d: expected %+v, got %+v", i, want[i], cfg.Derived.Themes[i])
		}
	}
}

func TestUserFileOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
field:
  count: 40
scheduler:
  cycle_ms: 1500
themes:
  - {name: eth, label: "Ether", primary: "#000000", secondary: "#ffffff"}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Field.Count != 40 {
		t.Errorf("expected count 40, got %d", cfg.Field.Count)
	}
	if cfg.Field.LargeFraction != 0.6 {
		t.Errorf("expected untouched large_fraction 0.6, got %f", cfg.Field.LargeFraction)
	}
	if cfg.Scheduler.CycleMs != 1500 {
		t.Errorf("expected cycle 1500, got %f", cfg.Scheduler.CycleMs)
	}
	if len(cfg.Derived.Themes) != 1 {
		t.Fatalf("expected the theme list to be replaced, got %d themes", len(cfg.Derived.Themes))
	}
	th := cfg.Derived.Themes[0]
	if th.Label != "Ether" || th.Secondary != (components.Color{R: 255, G: 255, B: 255, A: 1}) {
		t.Errorf("unexpected theme %+v", th)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"zero particles", "field: {count: 0}", ErrInvalid},
		{"negative width", "screen: {width: -1}", ErrInvalid},
		{"inverted radius", "field: {large_radius: {min: 6, max: 3}}", ErrInvalid},
		{"alpha above one", "scheduler: {free_alpha: {min: 0.3, max: 1.5}}", ErrInvalid},
		{"unknown shape", "themes: [{name: pizza, label: P, primary: '#fff', secondary: '#fff'}]", shapes.ErrUnknownShape},
		{"duplicate theme", "themes: [{name: eth, label: A, primary: '#fff', secondary: '#fff'}, {name: eth, label: B, primary: '#fff', secondary: '#fff'}]", ErrInvalid},
		{"no themes", "themes: []", ErrInvalid},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tc.body))
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadRejectsBadColour(t *testing.T) {
	path := writeFile(t, "render: {background: 'not-a-colour'}")
	if _, err := Load(path); err == nil {
		t.Error("expected an error for an unparsable background colour")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Field.Count = 123

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	again, err := Load(path)
	if err != nil {
		t.Fatalf("Load written file: %v", err)
	}
	if again.Field.Count != 123 {
		t.Errorf("expected count 123 after round trip, got %d", again.Field.Count)
	}
	if len(again.Derived.Themes) != len(cfg.Derived.Themes) {
		t.Errorf("expected %d themes after round trip, got %d", len(cfg.Derived.Themes), len(again.Derived.Themes))
	}
}

func TestInitAndCfg(t *testing.T) {
	MustInit("")
	if Cfg().Field.Count != 250 {
		t.Errorf("expected default count 250, got %d", Cfg().Field.Count)
	}
}
