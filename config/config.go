// Package config provides configuration loading and access for the animation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/neuralmorph/components"
	"github.com/pthm-cable/neuralmorph/renderer"
	"github.com/pthm-cable/neuralmorph/shapes"
	"github.com/pthm-cable/neuralmorph/systems"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all animation configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	Field       FieldConfig       `yaml:"field"`
	Connections ConnectionsConfig `yaml:"connections"`
	Scheduler   SchedulerConfig   `yaml:"scheduler"`
	Motion      MotionConfig      `yaml:"motion"`
	Render      RenderConfig      `yaml:"render"`
	Themes      []ThemeConfig     `yaml:"themes"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// Range is a half-open [Min, Max) interval for random draws.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// FieldConfig holds particle creation parameters.
type FieldConfig struct {
	Count           int     `yaml:"count"`
	LargeFraction   float64 `yaml:"large_fraction"` // leading fraction of particles drawn from LargeRadius
	LargeRadius     Range   `yaml:"large_radius"`
	SmallRadius     Range   `yaml:"small_radius"`
	InitialSpeed    float64 `yaml:"initial_speed"` // per-axis velocity range ±initial_speed
	TransitionSpeed Range   `yaml:"transition_speed"`
	InitialColor    string  `yaml:"initial_color"` // hex
	InitialAlpha    Range   `yaml:"initial_alpha"`
}

// ConnectionsConfig holds the static edge graph parameters.
type ConnectionsConfig struct {
	Distance float64 `yaml:"distance"` // pairs closer than this at creation are linked
	Opacity  Range   `yaml:"opacity"`
}

// SchedulerConfig holds shape cycling parameters.
type SchedulerConfig struct {
	CycleMs       float64 `yaml:"cycle_ms"`
	ShapeFraction float64 `yaml:"shape_fraction"` // cap on bound particles
	ShapeAlpha    float64 `yaml:"shape_alpha"`
	FreeAlpha     Range   `yaml:"free_alpha"`
	FreeSpeed     float64 `yaml:"free_speed"`
}

// MotionConfig holds per-frame update parameters.
type MotionConfig struct {
	EaseScale     float64 `yaml:"ease_scale"`
	EaseDistance  float64 `yaml:"ease_distance"`
	EaseMaxFactor float64 `yaml:"ease_max_factor"`
	ResteerChance float64 `yaml:"resteer_chance"`
}

// RenderConfig holds drawing parameters.
type RenderConfig struct {
	FadeDistance float64 `yaml:"fade_distance"` // edges at or beyond this live length are hidden
	WidthDivisor float64 `yaml:"width_divisor"` // edge width = min(r1, r2) / width_divisor
	LabelOffset  float64 `yaml:"label_offset"`  // label baseline distance from the bottom edge
	LabelSize    float64 `yaml:"label_size"`
	Background   string  `yaml:"background"` // hex
}

// ThemeConfig binds a shape to its label and colours.
type ThemeConfig struct {
	Name      string `yaml:"name"`
	Label     string `yaml:"label"`
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // seconds of animation time per stats record
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW      float64
	ScreenH      float64
	Themes       []components.Theme
	InitialColor components.Color
	Background   components.Color
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file. A themes list replaces
		// the default list wholesale.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	checks := []struct {
		ok  bool
		msg string
	}{
		{c.Screen.Width > 0 && c.Screen.Height > 0, "screen size must be positive"},
		{c.Screen.TargetFPS > 0, "screen.target_fps must be positive"},
		{c.Field.Count > 0, "field.count must be positive"},
		{c.Field.LargeFraction >= 0 && c.Field.LargeFraction <= 1, "field.large_fraction must be in [0, 1]"},
		{validRange(c.Field.LargeRadius) && c.Field.LargeRadius.Min > 0, "field.large_radius must be a positive range"},
		{validRange(c.Field.SmallRadius) && c.Field.SmallRadius.Min > 0, "field.small_radius must be a positive range"},
		{validRange(c.Field.TransitionSpeed), "field.transition_speed min exceeds max"},
		{validAlpha(c.Field.InitialAlpha), "field.initial_alpha must be within [0, 1]"},
		{c.Connections.Distance > 0, "connections.distance must be positive"},
		{validAlpha(c.Connections.Opacity), "connections.opacity must be within [0, 1]"},
		{c.Scheduler.CycleMs > 0, "scheduler.cycle_ms must be positive"},
		{c.Scheduler.ShapeFraction > 0 && c.Scheduler.ShapeFraction <= 1, "scheduler.shape_fraction must be in (0, 1]"},
		{validAlpha(c.Scheduler.FreeAlpha), "scheduler.free_alpha must be within [0, 1]"},
		{c.Motion.EaseDistance > 0, "motion.ease_distance must be positive"},
		{c.Motion.ResteerChance >= 0 && c.Motion.ResteerChance <= 1, "motion.resteer_chance must be a probability"},
		{c.Render.FadeDistance > 0, "render.fade_distance must be positive"},
		{c.Render.WidthDivisor > 0, "render.width_divisor must be positive"},
		{len(c.Themes) > 0, "at least one theme is required"},
	}
	for _, chk := range checks {
		if !chk.ok {
			return fmt.Errorf("%w: %s", ErrInvalid, chk.msg)
		}
	}

	seen := make(map[string]bool, len(c.Themes))
	for _, th := range c.Themes {
		if !shapes.Known(shapes.Name(th.Name)) {
			return fmt.Errorf("%w: theme %q: %w", ErrInvalid, th.Name, shapes.ErrUnknownShape)
		}
		if seen[th.Name] {
			return fmt.Errorf("%w: theme %q listed twice", ErrInvalid, th.Name)
		}
		seen[th.Name] = true
	}
	return nil
}

func validRange(r Range) bool { return r.Min <= r.Max }

func validAlpha(r Range) bool { return validRange(r) && r.Min >= 0 && r.Max <= 1 }

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	c.Derived.ScreenW = float64(c.Screen.Width)
	c.Derived.ScreenH = float64(c.Screen.Height)

	var err error
	if c.Derived.InitialColor, err = components.ParseHex(c.Field.InitialColor); err != nil {
		return fmt.Errorf("field.initial_color: %w", err)
	}
	if c.Derived.Background, err = components.ParseHex(c.Render.Background); err != nil {
		return fmt.Errorf("render.background: %w", err)
	}

	c.Derived.Themes = make([]components.Theme, len(c.Themes))
	for i, th := range c.Themes {
		primary, err := components.ParseHex(th.Primary)
		if err != nil {
			return fmt.Errorf("theme %q primary: %w", th.Name, err)
		}
		secondary, err := components.ParseHex(th.Secondary)
		if err != nil {
			return fmt.Errorf("theme %q secondary: %w", th.Name, err)
		}
		c.Derived.Themes[i] = components.Theme{
			Name:      th.Name,
			Label:     th.Label,
			Primary:   primary,
			Secondary: secondary,
		}
	}
	return nil
}

// FieldParams converts the field and connection sections for systems.NewField.
func (c *Config) FieldParams() systems.FieldParams {
	return systems.FieldParams{
		Count:                c.Field.Count,
		LargeFraction:        c.Field.LargeFraction,
		LargeRadiusMin:       c.Field.LargeRadius.Min,
		LargeRadiusMax:       c.Field.LargeRadius.Max,
		SmallRadiusMin:       c.Field.SmallRadius.Min,
		SmallRadiusMax:       c.Field.SmallRadius.Max,
		InitialSpeed:         c.Field.InitialSpeed,
		TransitionSpeedMin:   c.Field.TransitionSpeed.Min,
		TransitionSpeedMax:   c.Field.TransitionSpeed.Max,
		InitialColor:         c.Derived.InitialColor,
		InitialAlphaMin:      c.Field.InitialAlpha.Min,
		InitialAlphaMax:      c.Field.InitialAlpha.Max,
		ConnectionDistance:   c.Connections.Distance,
		ConnectionOpacityMin: c.Connections.Opacity.Min,
		ConnectionOpacityMax: c.Connections.Opacity.Max,
	}
}

// SchedulerParams converts the scheduler section.
func (c *Config) SchedulerParams() systems.SchedulerParams {
	return systems.SchedulerParams{
		CycleMs:       c.Scheduler.CycleMs,
		ShapeFraction: c.Scheduler.ShapeFraction,
		ShapeAlpha:    c.Scheduler.ShapeAlpha,
		FreeAlphaMin:  c.Scheduler.FreeAlpha.Min,
		FreeAlphaMax:  c.Scheduler.FreeAlpha.Max,
		FreeSpeed:     c.Scheduler.FreeSpeed,
	}
}

// MotionParams converts the motion section. Re-steered free particles use
// the scheduler's free speed.
func (c *Config) MotionParams() systems.MotionParams {
	return systems.MotionParams{
		EaseScale:     c.Motion.EaseScale,
		EaseDistance:  c.Motion.EaseDistance,
		EaseMaxFactor: c.Motion.EaseMaxFactor,
		ResteerChance: c.Motion.ResteerChance,
		FreeSpeed:     c.Scheduler.FreeSpeed,
	}
}

// RenderParams converts the render section.
func (c *Config) RenderParams() renderer.Params {
	return renderer.Params{
		FadeDistance: c.Render.FadeDistance,
		WidthDivisor: c.Render.WidthDivisor,
		LabelOffset:  c.Render.LabelOffset,
		LabelSize:    c.Render.LabelSize,
		Background:   c.Derived.Background,
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
