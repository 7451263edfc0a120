// Package config provides configuration loading and access for the scene engine.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all engine and host configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Entity    EntityConfig    `yaml:"entity"`
	Camera    CameraConfig    `yaml:"camera"`
	Picking   PickingConfig   `yaml:"picking"`
	Drag      DragConfig      `yaml:"drag"`
	Render    RenderConfig    `yaml:"render"`
	Scene     SceneConfig     `yaml:"scene"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the demo host.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// EntityConfig holds entity creation and motion parameters.
type EntityConfig struct {
	DefaultScale [3]float32 `yaml:"default_scale"` // Scale installed by SetTransform
	SpinRate     float32    `yaml:"spin_rate"`     // Y rotation advance per second of delta
}

// CameraConfig holds orbit camera limits.
type CameraConfig struct {
	MinPitch      float32 `yaml:"min_pitch"`
	MaxPitch      float32 `yaml:"max_pitch"`
	MinDistance   float32 `yaml:"min_distance"`
	MaxDistance   float32 `yaml:"max_distance"`
	DistanceFloor float32 `yaml:"distance_floor"` // Guards the back-solve when eye == target

	// Host defaults for SetCamera
	Eye  [3]float32 `yaml:"eye"`
	FOV  float32    `yaml:"fov"`
	Near float32    `yaml:"near"`
	Far  float32    `yaml:"far"`
}

// PickingConfig holds ray picking parameters.
type PickingConfig struct {
	Epsilon float32 `yaml:"epsilon"` // Direction components below this are parallel
}

// DragConfig holds drag controller parameters.
type DragConfig struct {
	PlaneY  float32 `yaml:"plane_y"` // Height of the horizontal reference plane
	Epsilon float32 `yaml:"epsilon"`
}

// RenderConfig holds render buffer colors.
type RenderConfig struct {
	DefaultColor   [4]float32 `yaml:"default_color"`
	HighlightColor [4]float32 `yaml:"highlight_color"`
}

// SceneConfig holds the demo scene layout used by the host.
type SceneConfig struct {
	Columns  int     `yaml:"columns"`
	Rows     int     `yaml:"rows"`
	Spacing  float32 `yaml:"spacing"`
	MaxDrift float32 `yaml:"max_drift"` // Maximum random speed per axis (x/z only)
	Bare     int     `yaml:"bare"`      // Entities created without a transform
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow  int     `yaml:"perf_window"`  // Frames averaged by the perf collector
	StatsWindow float64 `yaml:"stats_window"` // Seconds between logged/written stats
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DefaultScale   mgl32.Vec3
	DefaultColor   mgl32.Vec4
	HighlightColor mgl32.Vec4
	ScreenW32      float32
	ScreenH32      float32
	Aspect         float32
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

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
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
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects limits that would make clamping meaningless.
func (c *Config) validate() error {
	if c.Camera.MinPitch > c.Camera.MaxPitch {
		return fmt.Errorf("camera: min_pitch %v exceeds max_pitch %v", c.Camera.MinPitch, c.Camera.MaxPitch)
	}
	if c.Camera.MinDistance > c.Camera.MaxDistance {
		return fmt.Errorf("camera: min_distance %v exceeds max_distance %v", c.Camera.MinDistance, c.Camera.MaxDistance)
	}
	if c.Camera.DistanceFloor <= 0 {
		return fmt.Errorf("camera: distance_floor must be positive, got %v", c.Camera.DistanceFloor)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= math.Pi {
		return fmt.Errorf("camera: fov must be in (0, pi), got %v", c.Camera.FOV)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("camera: need 0 < near < far, got near %v far %v", c.Camera.Near, c.Camera.Far)
	}
	if c.Picking.Epsilon <= 0 || c.Drag.Epsilon <= 0 {
		return fmt.Errorf("picking/drag epsilon must be positive")
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DefaultScale = mgl32.Vec3(c.Entity.DefaultScale)
	c.Derived.DefaultColor = mgl32.Vec4(c.Render.DefaultColor)
	c.Derived.HighlightColor = mgl32.Vec4(c.Render.HighlightColor)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	c.Derived.Aspect = 1
	if c.Screen.Height > 0 {
		c.Derived.Aspect = c.Derived.ScreenW32 / c.Derived.ScreenH32
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
