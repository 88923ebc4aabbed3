// Package config loads the user's canvas settings from a TOML file in the
// XDG config directory.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"smART/internal/state"
)

const (
	appDir     = "smart"
	configFile = "config.toml"
)

// Config is the complete application configuration.
type Config struct {
	Brush    BrushConfig    `toml:"brush"`
	Eraser   EraserConfig   `toml:"eraser"`
	Library  LibraryConfig  `toml:"library"`
	Backdrop BackdropConfig `toml:"backdrop"`
	Share    ShareConfig    `toml:"share"`
	Export   ExportConfig   `toml:"export"`
}

// BrushConfig holds the initial tool state and what the toolbar offers.
type BrushConfig struct {
	Color   string    `toml:"color"`
	Width   float64   `toml:"width"`
	Palette []string  `toml:"palette"`
	Sizes   []float64 `toml:"sizes"`
}

// EraserConfig controls the flashing eraser trace.
type EraserConfig struct {
	FlashPalette    []string `toml:"flash_palette"`
	FlashIntervalMS int      `toml:"flash_interval_ms"`
}

// LibraryConfig is where saved pictures go. An empty Dir means ~/Pictures.
type LibraryConfig struct {
	Dir   string `toml:"dir"`
	Album string `toml:"album"`
}

// BackdropConfig limits imported background photos.
type BackdropConfig struct {
	MaxDimension int `toml:"max_dimension"`
}

// ShareConfig controls the LAN share hub.
type ShareConfig struct {
	Enabled   bool `toml:"enabled"`
	Port      int  `toml:"port"`
	Advertise bool `toml:"advertise"`
}

// ExportConfig is the image size used by headless rendering.
type ExportConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Default returns the built-in configuration.
func Default() Config {
	palette := make([]string, 0, len(state.DefaultPalette))
	for _, c := range state.DefaultPalette {
		palette = append(palette, string(c))
	}
	flash := make([]string, 0, len(state.DefaultFlashPalette))
	for _, c := range state.DefaultFlashPalette {
		flash = append(flash, string(c))
	}
	return Config{
		Brush: BrushConfig{
			Color:   string(state.DefaultColor),
			Width:   state.DefaultWidth,
			Palette: palette,
			Sizes:   append([]float64(nil), state.DefaultSizes...),
		},
		Eraser: EraserConfig{
			FlashPalette:    flash,
			FlashIntervalMS: int(state.DefaultFlashInterval / time.Millisecond),
		},
		Library:  LibraryConfig{Album: "smART"},
		Backdrop: BackdropConfig{MaxDimension: 2048},
		Share:    ShareConfig{Enabled: false, Port: 8888, Advertise: true},
		Export:   ExportConfig{Width: 1080, Height: 1920},
	}
}

// Dir returns the directory holding the config file.
func Dir() string {
	return filepath.Join(xdgOrFallback("XDG_CONFIG_HOME", filepath.Join(os.Getenv("HOME"), ".config")), appDir)
}

// DefaultPath returns the config file location.
func DefaultPath() string {
	return filepath.Join(Dir(), configFile)
}

// Load reads path on top of the defaults, so keys missing from the file
// keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		log.Printf("[CONFIG] Ignoring unknown key %q in %s", key.String(), path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// EnsureFile writes the default configuration to path unless a file is
// already there.
func EnsureFile(path string) error {
	ok, err := exists(path)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	log.Printf("[CONFIG] Initializing config at %s", path)
	return Save(path, Default())
}

// Validate checks every value that the canvas would otherwise reject later.
func (c Config) Validate() error {
	var errs []error
	if _, err := state.ParseColor(c.Brush.Color); err != nil {
		errs = append(errs, fmt.Errorf("brush.color: %w", err))
	}
	if !state.ValidWidth(c.Brush.Width) {
		errs = append(errs, fmt.Errorf("brush.width: %w", state.ErrInvalidWidth))
	}
	if len(c.Brush.Palette) == 0 {
		errs = append(errs, errors.New("brush.palette: must not be empty"))
	}
	for _, s := range c.Brush.Palette {
		if _, err := state.ParseColor(s); err != nil {
			errs = append(errs, fmt.Errorf("brush.palette: %w", err))
		}
	}
	if len(c.Brush.Sizes) == 0 {
		errs = append(errs, errors.New("brush.sizes: must not be empty"))
	}
	for _, w := range c.Brush.Sizes {
		if !state.ValidWidth(w) {
			errs = append(errs, fmt.Errorf("brush.sizes: %v: %w", w, state.ErrInvalidWidth))
		}
	}
	if len(c.Eraser.FlashPalette) == 0 {
		errs = append(errs, errors.New("eraser.flash_palette: must not be empty"))
	}
	for _, s := range c.Eraser.FlashPalette {
		if _, err := state.ParseColor(s); err != nil {
			errs = append(errs, fmt.Errorf("eraser.flash_palette: %w", err))
		}
	}
	if c.Eraser.FlashIntervalMS <= 0 {
		errs = append(errs, errors.New("eraser.flash_interval_ms: must be positive"))
	}
	if c.Backdrop.MaxDimension <= 0 {
		errs = append(errs, errors.New("backdrop.max_dimension: must be positive"))
	}
	if c.Share.Port <= 0 || c.Share.Port > 65535 {
		errs = append(errs, fmt.Errorf("share.port: %d out of range", c.Share.Port))
	}
	if c.Export.Width <= 0 || c.Export.Height <= 0 {
		errs = append(errs, errors.New("export: width and height must be positive"))
	}
	return errors.Join(errs...)
}

// BrushColor returns the validated initial colour.
func (c Config) BrushColor() state.Color {
	col, err := state.ParseColor(c.Brush.Color)
	if err != nil {
		return state.DefaultColor
	}
	return col
}

// Palette returns the toolbar colours, skipping invalid entries.
func (c Config) Palette() []state.Color {
	return colors(c.Brush.Palette)
}

// FlashPalette returns the eraser trace colours, skipping invalid entries.
func (c Config) FlashPalette() []state.Color {
	return colors(c.Eraser.FlashPalette)
}

// FlashInterval returns the eraser flash period.
func (c Config) FlashInterval() time.Duration {
	return time.Duration(c.Eraser.FlashIntervalMS) * time.Millisecond
}

// LibraryDir returns the picture library root.
func (c Config) LibraryDir() string {
	if c.Library.Dir != "" {
		return c.Library.Dir
	}
	return filepath.Join(os.Getenv("HOME"), "Pictures")
}

func colors(in []string) []state.Color {
	out := make([]state.Color, 0, len(in))
	for _, s := range in {
		if col, err := state.ParseColor(s); err == nil {
			out = append(out, col)
		}
	}
	return out
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func xdgOrFallback(xdg string, fallback string) string {
	dir := os.Getenv(xdg)
	if dir != "" {
		if ok, err := exists(dir); ok && err == nil {
			return dir
		}
	}
	return fallback
}
