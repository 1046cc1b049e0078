package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}
	if cfg.Engine.Backend != "cpu" {
		t.Errorf("backend = %q, want cpu", cfg.Engine.Backend)
	}
	if cfg.Screen.TargetFPS != 60 {
		t.Errorf("target_fps = %d, want 60", cfg.Screen.TargetFPS)
	}
	if cfg.Derived.Workers < 1 {
		t.Errorf("derived workers = %d, want >= 1", cfg.Derived.Workers)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	overlay := "engine:\n  precision: uint8\n  workers: 3\ntelemetry:\n  stats_window: 10\n"
	if err := os.WriteFile(path, []byte(overlay), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Engine.Precision != "uint8" || cfg.Derived.Workers != 3 {
		t.Errorf("overlay not applied: %+v", cfg.Engine)
	}
	if cfg.Telemetry.StatsWindow != 10 {
		t.Errorf("stats_window = %d, want 10", cfg.Telemetry.StatsWindow)
	}
	// Untouched sections keep their defaults.
	if cfg.Screen.Width != 1280 || cfg.Engine.Backend != "cpu" {
		t.Errorf("defaults lost: screen=%+v backend=%q", cfg.Screen, cfg.Engine.Backend)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("engine:\n  backend: vulkan\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Defaults()
	cfg.Engine.Seed = 1234
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatal(err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.Engine.Seed != 1234 {
		t.Errorf("seed = %d after round trip, want 1234", back.Engine.Seed)
	}
}
