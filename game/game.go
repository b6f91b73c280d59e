// Package game hosts the particle-morph animation: it builds the field,
// shape library and scheduler from config, drives them once per frame and
// feeds telemetry, snapshots and frame export.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/neuralmorph/config"
	"github.com/pthm-cable/neuralmorph/renderer"
	"github.com/pthm-cable/neuralmorph/renderer/rlcanvas"
	"github.com/pthm-cable/neuralmorph/shapes"
	"github.com/pthm-cable/neuralmorph/systems"
	"github.com/pthm-cable/neuralmorph/telemetry"
	"github.com/pthm-cable/neuralmorph/ui"
)

// Options configures a game instance.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	SnapshotDir    string
	OutputDir      string
	FrameDir       string // headless PNG frame export, empty = off
	FrameEvery     int    // export every N ticks
	ResumePath     string // snapshot to resume from
	Headless       bool
	StatsCallback  func(telemetry.WindowStats)
}

// Game holds the animation and everything around it.
type Game struct {
	cfg     *config.Config
	anim    *Animation
	rng     *rand.Rand
	rngSeed int64

	// State
	tick     int32
	nowMs    float64
	paused   bool
	headless bool
	fps      int

	// Graphical clock bookkeeping
	pausedMs   float64
	pauseStart float64
	tickOpen   bool

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	statsCallback func(telemetry.WindowStats)
	logStats      bool
	snapshotDir   string
	frameDir      string
	frameEvery    int

	// Canvases
	raster *renderer.RasterCanvas
	window *rlcanvas.Canvas

	// UI
	hud      *ui.HUD
	controls *ui.ControlsPanel
}

// NewGameWithOptions creates a game from cfg. With opts.ResumePath set the
// field and scheduler are restored from that snapshot, which must have been
// taken on a surface of the configured screen size.
func NewGameWithOptions(cfg *config.Config, opts Options) (*Game, error) {
	g := &Game{
		cfg:           cfg,
		rng:           rand.New(rand.NewSource(opts.Seed)),
		rngSeed:       opts.Seed,
		headless:      opts.Headless,
		fps:           cfg.Screen.TargetFPS,
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
		snapshotDir:   opts.SnapshotDir,
		frameDir:      opts.FrameDir,
		frameEvery:    max(opts.FrameEvery, 1),
	}
	w, h := cfg.Derived.ScreenW, cfg.Derived.ScreenH

	var (
		field *systems.Field
		snap  *telemetry.Snapshot
		err   error
	)
	if opts.ResumePath != "" {
		if snap, err = telemetry.LoadSnapshot(opts.ResumePath); err != nil {
			return nil, err
		}
		if snap.Width != w || snap.Height != h {
			return nil, fmt.Errorf("snapshot surface %vx%v does not match screen %vx%v: %w",
				snap.Width, snap.Height, w, h, telemetry.ErrBadSnapshot)
		}
		if field, err = snap.Field(); err != nil {
			return nil, err
		}
	} else if field, err = systems.NewField(cfg.FieldParams(), w, h, g.rng); err != nil {
		return nil, fmt.Errorf("creating field: %w", err)
	}

	lib, err := shapes.NewLibrary(w, h, g.rng)
	if err != nil {
		return nil, fmt.Errorf("building shapes: %w", err)
	}
	sched, err := systems.NewScheduler(cfg.SchedulerParams(), cfg.Derived.Themes, lib)
	if err != nil {
		return nil, fmt.Errorf("creating scheduler: %w", err)
	}
	if snap != nil {
		if err := snap.RestoreScheduler(sched, g.nowMs); err != nil {
			return nil, err
		}
		slog.Info("resumed from snapshot", "path", opts.ResumePath, "tick", snap.Tick, "label", sched.Label)
	}

	g.anim = NewAnimation(field, sched, renderer.New(cfg.RenderParams()), cfg.MotionParams(), g.rng)

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	g.collector = telemetry.NewCollector(statsWindow, g.fps)
	g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	g.anim.SetPerf(g.perfCollector)
	g.anim.OnTransition(g.recordTransition)

	if g.outputManager, err = telemetry.NewOutputManager(opts.OutputDir); err != nil {
		return nil, err
	}
	if err := g.outputManager.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	if opts.Headless {
		if g.raster, err = renderer.NewRasterCanvas(cfg.Screen.Width, cfg.Screen.Height); err != nil {
			return nil, err
		}
		if g.frameDir != "" {
			if err := os.MkdirAll(g.frameDir, 0755); err != nil {
				return nil, fmt.Errorf("creating frame directory: %w", err)
			}
		}
	} else {
		g.window = rlcanvas.New(cfg.Screen.Width, cfg.Screen.Height)
		g.hud = ui.NewHUD()
		g.controls = ui.NewControlsPanel(10, 110, 220)
	}

	return g, nil
}

// Update runs one graphical frame: input, then schedule and simulate
// against the raylib clock. Time spent paused is excluded from the clock.
func (g *Game) Update() {
	g.handleInput()
	g.perfCollector.RecordFrame()
	if g.paused {
		return
	}

	g.nowMs = rl.GetTime()*1000 - g.pausedMs
	g.perfCollector.StartTick()
	g.tickOpen = true
	g.anim.Tick(g.nowMs)
	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
}

// Draw renders the field and the UI into the window.
func (g *Game) Draw() {
	rl.BeginDrawing()
	g.anim.Render(g.window)
	g.drawUI()
	rl.EndDrawing()

	if g.tickOpen {
		g.perfCollector.EndTick()
		g.tickOpen = false
	}
}

// UpdateHeadless runs one frame on a synthetic clock of tick*1000/fps ms,
// rendering into the raster canvas.
func (g *Game) UpdateHeadless() {
	g.nowMs = g.clockAt(g.tick)

	g.perfCollector.StartTick()
	g.anim.Frame(g.nowMs, g.raster)
	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.exportFrame()
	g.flushTelemetry()
	g.perfCollector.EndTick()
}

// NextShape forces a transition now.
func (g *Game) NextShape() {
	g.anim.Next(g.nowMs)
}

// SetPaused pauses or resumes the animation.
func (g *Game) SetPaused(paused bool) {
	if paused == g.paused {
		return
	}
	g.paused = paused
	if g.headless {
		return
	}
	if paused {
		g.pauseStart = rl.GetTime() * 1000
	} else {
		g.pausedMs += rl.GetTime()*1000 - g.pauseStart
	}
}

// Paused reports whether the animation is paused.
func (g *Game) Paused() bool {
	return g.paused
}

// Tick returns the number of frames simulated so far.
func (g *Game) Tick() int32 {
	return g.tick
}

// Animation returns the animation driven by the game.
func (g *Game) Animation() *Animation {
	return g.anim
}

// Raster returns the headless canvas, or nil in graphical mode.
func (g *Game) Raster() *renderer.RasterCanvas {
	return g.raster
}

// Unload saves a final snapshot when a snapshot directory is set and
// closes output files.
func (g *Game) Unload() {
	if g.snapshotDir != "" {
		g.saveSnapshot()
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

func (g *Game) clockAt(tick int32) float64 {
	return float64(tick) * 1000 / float64(g.fps)
}

func (g *Game) recordTransition(forced bool) {
	g.collector.RecordTransition(forced)
	s := g.anim.Scheduler
	slog.Debug("shape changed",
		"shape", s.Themes[s.Active].Name,
		"label", s.Label,
		"tick", g.tick,
		"forced", forced,
	)
}
