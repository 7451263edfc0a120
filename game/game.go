// Package game hosts the scene engine: it builds a demo scene, turns mouse
// input into world rays and draws the engine's render buffer with raylib.
package game

import (
	"log/slog"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/scenecore/config"
	"github.com/pthm-cable/scenecore/engine"
	"github.com/pthm-cable/scenecore/renderer"
	"github.com/pthm-cable/scenecore/systems"
	"github.com/pthm-cable/scenecore/telemetry"
	"github.com/pthm-cable/scenecore/ui"
)

// DT is the fixed frame step in seconds.
const DT = 1.0 / 60.0

// Options configures a Game.
type Options struct {
	Seed           int64
	LogStats       bool    // Log window stats via slog
	StatsWindowSec float64 // Seconds per stats window
	OutputDir      string  // CSV + config snapshot output; empty disables
	Headless       bool    // No window; input is driven by the autopilot
}

// Game owns the engine and the host-side state around it.
type Game struct {
	cfg *config.Config
	eng *engine.Engine
	rng *rand.Rand

	tick      int32
	simTime   float64
	paused    bool
	timeScale float32

	// Telemetry
	perf          *telemetry.PerfCollector
	collector     *telemetry.Collector
	outputManager *telemetry.OutputManager
	logStats      bool
	windowTicks   int32

	// Graphics mode only
	headless     bool
	hud          *ui.HUD
	background   *renderer.BackgroundRenderer
	scene        *renderer.SceneRenderer
	screenWidth  float32
	screenHeight float32
	pointer      pointerState

	autopilot *autopilot
}

// NewGameWithOptions creates a game, its engine and the demo scene.
func NewGameWithOptions(opts Options) *Game {
	cfg := config.Cfg()

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	windowTicks := int32(statsWindow / DT)
	if windowTicks < 1 {
		windowTicks = 1
	}

	g := &Game{
		cfg:          cfg,
		rng:          rand.New(rand.NewSource(opts.Seed)),
		perf:         telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		collector:    telemetry.NewCollector(statsWindow),
		logStats:     opts.LogStats,
		windowTicks:  windowTicks,
		headless:     opts.Headless,
		timeScale:    1,
		screenWidth:  cfg.Derived.ScreenW32,
		screenHeight: cfg.Derived.ScreenH32,
	}

	g.eng = engine.New(engine.Options{
		Config:    cfg,
		Logger:    slog.Default(),
		Perf:      g.perf,
		Collector: g.collector,
	})

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
	} else if om != nil {
		g.outputManager = om
		if err := om.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config snapshot", "error", err)
		}
	}

	g.spawnScene()

	if g.headless {
		g.autopilot = newAutopilot(g.rng)
	} else {
		g.hud = ui.NewHUD()
		g.hud.Controls().Layout(int32(g.screenWidth))
		g.background = renderer.NewBackgroundRenderer(
			rl.Color{R: 28, G: 32, B: 44, A: 255},
			rl.Color{R: 10, G: 11, B: 15, A: 255},
		)
		g.scene = renderer.NewSceneRenderer(renderer.Layout{
			MatrixFloats: systems.MatrixFloats,
			EntryFloats:  systems.EntryFloats,
		})
	}
	return g
}

// Engine returns the hosted engine.
func (g *Game) Engine() *engine.Engine {
	return g.eng
}

// Tick returns the number of frames simulated.
func (g *Game) Tick() int32 {
	return g.tick
}

// Update processes input and advances one frame (graphics mode).
func (g *Game) Update() {
	g.perf.RecordFrame()
	g.handleInput()
	if !g.paused {
		g.step()
		return
	}
	// Zero-delta frame keeps the view-projection and drags current while paused
	g.eng.Update(0)
}

// UpdateHeadless advances one frame driven by the autopilot.
func (g *Game) UpdateHeadless() {
	g.autopilot.drive(g)
	g.step()
}

func (g *Game) step() {
	g.eng.Update(DT * g.timeScale)
	g.tick++
	g.simTime += DT * float64(g.timeScale)
	if g.tick%g.windowTicks == 0 {
		g.flushTelemetry()
	}
}

// Unload releases output files.
func (g *Game) Unload() {
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
