// Package main benchmarks the scene engine headless: for each scene size it
// runs a fixed number of frames with a pick per frame and reports frame
// timings.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/scenecore/config"
	"github.com/pthm-cable/scenecore/engine"
	"github.com/pthm-cable/scenecore/telemetry"
)

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	sizes := flag.String("sizes", "100,1000,10000", "Comma-separated entity counts")
	frames := flag.Int("frames", 600, "Frames per size")
	seed := flag.Int64("seed", 42, "RNG seed")
	outputDir := flag.String("output", "", "Directory for bench.csv (empty = log only)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	counts, err := parseSizes(*sizes)
	if err != nil {
		slog.Error("invalid -sizes", "error", err)
		os.Exit(1)
	}

	start := time.Now()
	var results []BenchResult
	for _, n := range counts {
		res := run(config.Cfg(), n, *frames, *seed)
		slog.Info("bench", "result", res)
		results = append(results, res)
	}
	slog.Info("done", "elapsed", formatDuration(time.Since(start)))

	if *outputDir == "" {
		return
	}
	if err := writeResults(*outputDir, results); err != nil {
		slog.Error("failed to write results", "error", err)
		os.Exit(1)
	}
}

func parseSizes(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("size %q: %w", part, err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("size %d must be positive", n)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no sizes given")
	}
	return out, nil
}

func writeResults(dir string, results []BenchResult) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "bench.csv"))
	if err != nil {
		return fmt.Errorf("creating bench.csv: %w", err)
	}
	defer f.Close()
	return gocsv.MarshalFile(&results, f)
}

// BenchResult is one row of bench.csv.
type BenchResult struct {
	Entities  int     `csv:"entities"`
	Spawned   int     `csv:"spawned"`
	Frames    int     `csv:"frames"`
	AvgTickUS int64   `csv:"avg_tick_us"`
	P90TickUS int64   `csv:"p90_tick_us"`
	MaxTickUS int64   `csv:"max_tick_us"`
	RenderPct float64 `csv:"render_pct"`
	Hits      int     `csv:"hits"`
}

// LogValue implements slog.LogValuer.
func (r BenchResult) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("entities", r.Entities),
		slog.Int("spawned", r.Spawned),
		slog.Int("frames", r.Frames),
		slog.Int64("avg_tick_us", r.AvgTickUS),
		slog.Int64("p90_tick_us", r.P90TickUS),
		slog.Int64("max_tick_us", r.MaxTickUS),
		slog.Float64("render_pct", r.RenderPct),
		slog.Int("hits", r.Hits),
	)
}

// run builds a square grid of n drifting boxes and times frames with a
// downward pick at a random grid cell each frame.
func run(cfg *config.Config, n, frames int, seed int64) BenchResult {
	rng := rand.New(rand.NewSource(seed))
	perf := telemetry.NewPerfCollector(frames)
	e := engine.New(engine.Options{
		Config: cfg,
		Logger: slog.New(slog.DiscardHandler),
		Perf:   perf,
	})

	side, spawned := spawnGrid(e, cfg, n, rng)
	spacing := cfg.Scene.Spacing
	half := float32(side-1) * spacing / 2
	c := cfg.Camera
	e.SetCamera(c.Eye[0], c.Eye[1], c.Eye[2], c.FOV, cfg.Derived.Aspect, c.Near, c.Far)

	hits := 0
	for f := 0; f < frames; f++ {
		x := float32(rng.Intn(side))*spacing - half
		z := float32(rng.Intn(side))*spacing - half
		if e.Pick(x, 10, z, 0, -1, 0, false, false) != engine.NoHit {
			hits++
		}
		e.Update(1.0 / 60.0)
	}

	ps := perf.Stats()
	return BenchResult{
		Entities:  n,
		Spawned:   spawned,
		Frames:    frames,
		AvgTickUS: ps.AvgTickDuration.Microseconds(),
		P90TickUS: ps.P90TickDuration.Microseconds(),
		MaxTickUS: ps.MaxTickDuration.Microseconds(),
		RenderPct: ps.PhasePct[telemetry.PhaseRender],
		Hits:      hits,
	}
}

// spawnGrid lays n drifting boxes on a centered square grid and returns the
// grid side and how many boxes got both a transform and a velocity.
func spawnGrid(e *engine.Engine, cfg *config.Config, n int, rng *rand.Rand) (side, spawned int) {
	side = 1
	for side*side < n {
		side++
	}
	spacing := cfg.Scene.Spacing
	half := float32(side-1) * spacing / 2
	drift := cfg.Scene.MaxDrift
	for i := 0; i < n; i++ {
		id := e.CreateEntity()
		x := float32(i%side)*spacing - half
		z := float32(i/side)*spacing - half
		if err := e.SetTransform(id, x, 0, z); err != nil {
			slog.Error("bench transform", "entity", id, "error", err)
			continue
		}
		if err := e.SetVelocity(id, (rng.Float32()*2-1)*drift, 0, (rng.Float32()*2-1)*drift); err != nil {
			slog.Error("bench velocity", "entity", id, "error", err)
			continue
		}
		spawned++
	}
	return side, spawned
}
