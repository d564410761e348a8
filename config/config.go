// Package config loads and validates simloop runtime configuration
//
// Sources are layered, later ones winning:
//  1. Default()
//  2. optional KEY=value file
//  3. SIMLOOP_* environment variables
//
// Command-line flags are applied by the host binary on top of the loaded value.
package config

import (
	"os"
	"time"

	jlconfig "github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
)

// ErrInvalidConfig is returned by Validate for any out-of-range setting
var ErrInvalidConfig = eris.New("invalid configuration")

// Config holds every tunable of the simulation loop and its presentation collaborators
type Config struct {
	// Simulation
	TicksPerSecond int `config:"SIMLOOP_TICKS_PER_SECOND"`
	MaxTicks       int `config:"SIMLOOP_MAX_TICKS"` // 0 = unbounded

	// Presentation
	Title      string `config:"SIMLOOP_TITLE"`
	FrameRate  int    `config:"SIMLOOP_FRAME_RATE"`
	Width      int    `config:"SIMLOOP_WIDTH"` // Canvas pixels
	Height     int    `config:"SIMLOOP_HEIGHT"`
	CellWidth  int    `config:"SIMLOOP_CELL_WIDTH"` // Canvas pixels per terminal cell
	CellHeight int    `config:"SIMLOOP_CELL_HEIGHT"`
	Muted      bool   `config:"SIMLOOP_MUTED"`
	Headless   bool   `config:"SIMLOOP_HEADLESS"`
	RecordPath string `config:"SIMLOOP_RECORD_PATH"`

	// Diagnostics
	Debug bool `config:"SIMLOOP_DEBUG"`
}

// Default returns the baseline configuration
func Default() Config {
	return Config{
		TicksPerSecond: 20,
		Title:          "simloop",
		FrameRate:      60,
		Width:          640,
		Height:         384,
		CellWidth:      8,
		CellHeight:     16,
	}
}

// Load layers an optional file and the environment over Default()
// An empty path skips the file; a non-empty path that does not exist is an error
func Load(path string) (Config, error) {
	cfg := Default()

	var b *jlconfig.Builder
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return cfg, eris.Wrapf(err, "config file %q", path)
		}
		b = jlconfig.From(path).FromEnv()
	} else {
		b = jlconfig.FromEnv()
	}

	if err := b.To(&cfg); err != nil {
		return cfg, eris.Wrap(err, "failed to load config")
	}
	return cfg, nil
}

// Validate rejects settings the loop cannot run with
func (c Config) Validate() error {
	switch {
	case c.TicksPerSecond <= 0:
		return eris.Wrapf(ErrInvalidConfig, "ticks per second must be positive, got %d", c.TicksPerSecond)
	case c.FrameRate <= 0:
		return eris.Wrapf(ErrInvalidConfig, "frame rate must be positive, got %d", c.FrameRate)
	case c.Width <= 0 || c.Height <= 0:
		return eris.Wrapf(ErrInvalidConfig, "canvas size must be positive, got %dx%d", c.Width, c.Height)
	case c.CellWidth <= 0 || c.CellHeight <= 0:
		return eris.Wrapf(ErrInvalidConfig, "cell size must be positive, got %dx%d", c.CellWidth, c.CellHeight)
	case c.MaxTicks < 0:
		return eris.Wrapf(ErrInvalidConfig, "max ticks must not be negative, got %d", c.MaxTicks)
	}
	return nil
}

// TickInterval returns the fixed simulation period
// Only meaningful on a validated config
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TicksPerSecond)
}

// FrameInterval returns the presentation loop period
func (c Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FrameRate)
}
