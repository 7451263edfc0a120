package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.Camera.MinPitch != -1.5 || cfg.Camera.MaxPitch != 1.5 {
		t.Errorf("expected pitch range [-1.5, 1.5], got [%v, %v]", cfg.Camera.MinPitch, cfg.Camera.MaxPitch)
	}
	if cfg.Camera.MinDistance != 1.5 || cfg.Camera.MaxDistance != 50 {
		t.Errorf("expected distance range [1.5, 50], got [%v, %v]", cfg.Camera.MinDistance, cfg.Camera.MaxDistance)
	}
	if cfg.Entity.SpinRate != 1 {
		t.Errorf("expected spin rate 1, got %v", cfg.Entity.SpinRate)
	}
	if cfg.Derived.DefaultScale.X() != 1 || cfg.Derived.DefaultScale.Z() != 1 {
		t.Errorf("expected unit default scale, got %v", cfg.Derived.DefaultScale)
	}
	if cfg.Derived.HighlightColor == cfg.Derived.DefaultColor {
		t.Error("highlight color should differ from default color")
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "user.yaml")
	overlay := "camera:\n  max_distance: 20.0\ndrag:\n  plane_y: 1.5\n"
	if err := os.WriteFile(path, []byte(overlay), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading overlay: %v", err)
	}

	if cfg.Camera.MaxDistance != 20 {
		t.Errorf("expected overridden max_distance 20, got %v", cfg.Camera.MaxDistance)
	}
	if cfg.Drag.PlaneY != 1.5 {
		t.Errorf("expected overridden plane_y 1.5, got %v", cfg.Drag.PlaneY)
	}
	// Untouched fields keep their defaults
	if cfg.Camera.MinDistance != 1.5 {
		t.Errorf("expected default min_distance 1.5, got %v", cfg.Camera.MinDistance)
	}
}

func TestLoadRejectsInvertedLimits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("camera:\n  min_distance: 60.0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for min_distance > max_distance")
	}
}

func TestLoadRejectsBadLens(t *testing.T) {
	tests := []struct {
		name    string
		overlay string
	}{
		{"zero fov", "camera:\n  fov: 0\n"},
		{"fov past pi", "camera:\n  fov: 3.5\n"},
		{"zero near", "camera:\n  near: 0\n"},
		{"far equals near", "camera:\n  near: 5\n  far: 5\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tc.overlay), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Errorf("expected error for %s", tc.name)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg := Default()
	cfg.Entity.SpinRate = 2.5

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing yaml: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading yaml: %v", err)
	}
	if loaded.Entity.SpinRate != 2.5 {
		t.Errorf("expected spin rate 2.5 after reload, got %v", loaded.Entity.SpinRate)
	}
}
