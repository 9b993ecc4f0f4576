// Package config loads SketchBoard settings from a TOML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration is a time.Duration written as "1s", "250ms", ... in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config holds every setting.
type Config struct {
	AppID    string `toml:"app_id"`
	LogLevel string `toml:"log_level"`

	Canvas Canvas `toml:"canvas"`
	Model  Model  `toml:"model"`
	Share  Share  `toml:"share"`
}

// Canvas settings.
type Canvas struct {
	Width        int      `toml:"width"`
	Height       int      `toml:"height"`
	BrushSize    float64  `toml:"brush_size"`
	StorageKey   string   `toml:"storage_key"`
	SaveDebounce Duration `toml:"save_debounce"`
	InkColor     string   `toml:"ink_color"`
}

// Model settings for the remote prediction collaborator.
type Model struct {
	APIKey   string            `toml:"api_key"`
	BaseURL  string            `toml:"base_url"`
	Variant  string            `toml:"variant"`
	Variants map[string]string `toml:"variants"`
	Timeout  Duration          `toml:"timeout"`
}

// Share settings for shared sessions.
type Share struct {
	Port      int  `toml:"port"`
	Advertise bool `toml:"advertise"`
}

// APIKeyEnv overrides Model.APIKey when set.
const APIKeyEnv = "GEMINI_API_KEY"

// Default returns the built-in settings.
func Default() Config {
	return Config{
		AppID:    "io.sketchboard.app",
		LogLevel: "info",
		Canvas: Canvas{
			Width:        512,
			Height:       512,
			BrushSize:    4,
			StorageKey:   "canvas-1",
			SaveDebounce: Duration{time.Second},
			InkColor:     "#000000",
		},
		Model: Model{
			BaseURL: "https://generativelanguage.googleapis.com/",
			Variant: "flash",
			Variants: map[string]string{
				"flash": "gemini-2.5-flash",
				"pro":   "gemini-2.5-pro",
			},
			Timeout: Duration{2 * time.Minute},
		},
		Share: Share{
			Port:      8888,
			Advertise: true,
		},
	}
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "sketchboard.toml"
	}
	return filepath.Join(dir, "sketchboard", "config.toml")
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Debug("no config file, using defaults", "component", "config", "path", path)
	case err != nil:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	default:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			slog.Warn("unknown config keys ignored", "component", "config", "keys", undecoded)
		}
	}
	if key := os.Getenv(APIKeyEnv); key != "" {
		cfg.Model.APIKey = key
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the application cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas size must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height))
	}
	if c.Canvas.BrushSize <= 0 {
		errs = append(errs, fmt.Errorf("brush_size must be positive, got %v", c.Canvas.BrushSize))
	}
	if c.Canvas.StorageKey == "" {
		errs = append(errs, errors.New("storage_key must not be empty"))
	}
	if _, ok := c.Model.Variants[c.Model.Variant]; !ok {
		errs = append(errs, fmt.Errorf("model variant %q is not one of the configured variants", c.Model.Variant))
	}
	if c.Share.Port <= 0 || c.Share.Port > 65535 {
		errs = append(errs, fmt.Errorf("share port out of range: %d", c.Share.Port))
	}
	return errors.Join(errs...)
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
