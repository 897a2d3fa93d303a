// Package config loads the application configuration from a TOML file and
// supplies sane defaults when no file is present.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// FileName is the config file looked up inside the config directory.
const FileName = "floorplan.toml"

// Grid holds the grid overlay settings.
type Grid struct {
	MinorSpacing   float64 `toml:"minor_spacing"`
	MajorSpacing   float64 `toml:"major_spacing"`
	MarkerInterval float64 `toml:"marker_interval"`
	DensityCeiling int     `toml:"density_ceiling"`
	ThrottleMillis int     `toml:"throttle_ms"`
	MonitorSeconds int     `toml:"monitor_interval_s"`
}

// Drawing holds the editing behavior settings.
type Drawing struct {
	SnapSpacing    float64 `toml:"snap_spacing"`
	AngleTolerance float64 `toml:"angle_tolerance"`
	MaxHistory     int     `toml:"max_history"`
}

// Export holds the PDF export settings.
type Export struct {
	PaperSize   string  `toml:"paper_size"`
	PixelsPerM  float64 `toml:"pixels_per_meter"`
	MarginMM    float64 `toml:"margin_mm"`
	IncludeGrid bool    `toml:"include_grid"`
}

// Config is the root of the TOML document.
type Config struct {
	Grid    Grid    `toml:"grid"`
	Drawing Drawing `toml:"drawing"`
	Export  Export  `toml:"export"`
}

// Default returns the built-in configuration used when no file exists.
func Default() Config {
	return Config{
		Grid: Grid{
			MinorSpacing:   0.25,
			MajorSpacing:   1.0,
			MarkerInterval: 1.0,
			DensityCeiling: 2000,
			ThrottleMillis: 250,
			MonitorSeconds: 5,
		},
		Drawing: Drawing{
			SnapSpacing:    0.25,
			AngleTolerance: 3.0,
			MaxHistory:     50,
		},
		Export: Export{
			PaperSize:   "A4",
			PixelsPerM:  40,
			MarginMM:    10,
			IncludeGrid: false,
		},
	}
}

// Load reads the config file at path. A missing file is not an error; the
// defaults are returned. Fields absent from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return cfg, cfg.validate()
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "floorplan", FileName), nil
}

func (c Config) validate() error {
	if c.Grid.MinorSpacing <= 0 || c.Grid.MajorSpacing <= 0 {
		return fmt.Errorf("grid spacings must be positive (minor=%v major=%v)",
			c.Grid.MinorSpacing, c.Grid.MajorSpacing)
	}
	if c.Drawing.SnapSpacing <= 0 {
		return fmt.Errorf("snap_spacing must be positive, got %v", c.Drawing.SnapSpacing)
	}
	if c.Drawing.MaxHistory < 1 {
		return fmt.Errorf("max_history must be at least 1, got %d", c.Drawing.MaxHistory)
	}
	if c.Export.PixelsPerM <= 0 {
		return fmt.Errorf("pixels_per_meter must be positive, got %v", c.Export.PixelsPerM)
	}
	return nil
}

// Throttle returns the grid rebuild throttle window as a duration.
func (g Grid) Throttle() time.Duration {
	return time.Duration(g.ThrottleMillis) * time.Millisecond
}

// MonitorInterval returns the grid health check period as a duration.
func (g Grid) MonitorInterval() time.Duration {
	return time.Duration(g.MonitorSeconds) * time.Second
}
