// Package config provides startup configuration for the program: window,
// compute backend, telemetry and where the parameter settings live.
//
// Simulation parameters that change at runtime (growth band, kernel, brush...)
// are owned by the settings package instead.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all startup configuration.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Engine    EngineConfig    `yaml:"engine"`
	Render    RenderConfig    `yaml:"render"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Settings  SettingsConfig  `yaml:"settings"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// EngineConfig selects how steps are computed.
type EngineConfig struct {
	Backend           string `yaml:"backend"`            // cpu | opencl
	Precision         string `yaml:"precision"`          // auto | float32 | float16 | uint8
	Workers           int    `yaml:"workers"`            // 0 = GOMAXPROCS
	ParallelThreshold int    `yaml:"parallel_threshold"` // cells below which steps run on one goroutine
	Seed              int64  `yaml:"seed"`               // pattern RNG seed (0 = time-based, chosen by main)
	StepsPerFrame     int    `yaml:"steps_per_frame"`
}

// RenderConfig holds render pipeline settings that are not user parameters.
type RenderConfig struct {
	MaxTextureSize int `yaml:"max_texture_size"` // caps the render target on either axis
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int     `yaml:"stats_window"` // ticks per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
	AliveThreshold      float64 `yaml:"alive_threshold"` // cells above this count as alive
}

// SettingsConfig locates the persisted parameter record.
type SettingsConfig struct {
	Path string `yaml:"path"` // empty = keep parameters in memory only
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	Workers int
}

// Load reads the embedded defaults, then overlays the YAML at path when given.
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

// Defaults returns the embedded configuration. It panics if the embedded
// file is broken, which only a bad build can cause.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.Engine.Backend {
	case "cpu", "opencl":
	default:
		return fmt.Errorf("engine.backend %q: want cpu or opencl", c.Engine.Backend)
	}
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("screen size %dx%d must be positive", c.Screen.Width, c.Screen.Height)
	}
	if c.Engine.StepsPerFrame < 1 {
		c.Engine.StepsPerFrame = 1
	}
	if c.Telemetry.StatsWindow < 1 {
		c.Telemetry.StatsWindow = 1
	}
	return nil
}

func (c *Config) computeDerived() {
	c.Derived.Workers = c.Engine.Workers
	if c.Derived.Workers <= 0 {
		c.Derived.Workers = runtime.GOMAXPROCS(0)
	}
}

// WriteYAML saves the configuration to path.
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
