package config

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DocumentPath  string        `yaml:"document"`
	DocumentDir   string        `yaml:"document_dir"`
	OutputPath    string        `yaml:"output"`
	Duration      float64       `yaml:"duration"`
	FrameRate     float64       `yaml:"frame_rate"`
	SampleRate    float64       `yaml:"sample_rate"`
	Loop          bool          `yaml:"loop"`
	MaxTick       time.Duration `yaml:"max_tick"`
	PlayFor       time.Duration `yaml:"play_for"`
	PixelsPerSec  float64       `yaml:"pixels_per_second"`
	Zoom          float64       `yaml:"zoom"`
	PreviewWidth  int           `yaml:"preview_width"`
	PreviewHeight int           `yaml:"preview_height"`
	Workers       int           `yaml:"workers"`
	LogLevel      string        `yaml:"log_level"`
	ShowStats     bool          `yaml:"show_stats"`
	BuildVersion  string        `yaml:"-"`
}

// ExportParams selects an offline evaluation range.
type ExportParams struct {
	Start         float64
	End           float64
	Rate          float64 // samples per second
	Workers       int
	IncludeHidden bool
}

// Default returns the settings used when no config file or flag says otherwise.
func Default() *Config {
	return &Config{
		DocumentDir:   "timelines",
		Duration:      10,
		FrameRate:     60,
		SampleRate:    30,
		MaxTick:       250 * time.Millisecond,
		PixelsPerSec:  100,
		Zoom:          1,
		PreviewWidth:  800,
		PreviewHeight: 300,
		Workers:       runtime.NumCPU(),
		LogLevel:      "warn",
	}
}

// Load overlays the YAML file at path onto the defaults. Fields missing from
// the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings no component can work with.
func (c *Config) Validate() error {
	switch {
	case c.FrameRate <= 0:
		return fmt.Errorf("frame_rate must be positive, got %v", c.FrameRate)
	case c.SampleRate <= 0:
		return fmt.Errorf("sample_rate must be positive, got %v", c.SampleRate)
	case c.PixelsPerSec <= 0 || c.Zoom <= 0:
		return fmt.Errorf("pixels_per_second and zoom must be positive")
	}
	return nil
}

// Export builds export parameters for [start, end]; end <= 0 means the whole timeline.
func (c *Config) Export(start, end, duration float64) ExportParams {
	if end <= 0 {
		end = duration
	}
	return ExportParams{
		Start:   start,
		End:     end,
		Rate:    c.SampleRate,
		Workers: c.Workers,
	}
}
