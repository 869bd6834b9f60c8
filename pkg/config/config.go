// Package config loads and saves the scopeview configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aquilari/scopeview/pkg/scalebar"
	"github.com/aquilari/scopeview/pkg/units"
)

// Config is the on-disk configuration
type Config struct {
	Unit         string  `yaml:"unit"`
	TargetLength float64 `yaml:"target_length"`
	Position     string  `yaml:"position"`
	Theme        string  `yaml:"theme"`
	PluginDir    string  `yaml:"plugin_dir"`
	PixelSize    float64 `yaml:"pixel_size"` // world units per image pixel
}

// Default returns the configuration used when no file exists
func Default() Config {
	return Config{
		Unit:         "px",
		TargetLength: 150,
		Position:     string(scalebar.BottomRight),
		Theme:        "dark",
		PixelSize:    1,
	}
}

// DefaultPath returns the per-user config file location
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(dir, "scopeview", "config.yml"), nil
}

// Load reads the config at path, applying defaults for missing fields.
// A missing file is not an error: defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path, creating parent directories as needed
func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks that the configuration is usable
func (c Config) Validate() error {
	if _, err := units.NewRegistry().Parse(c.Unit); err != nil {
		return err
	}
	if c.TargetLength <= 0 {
		return fmt.Errorf("target_length must be positive, got %v", c.TargetLength)
	}
	if c.PixelSize <= 0 {
		return fmt.Errorf("pixel_size must be positive, got %v", c.PixelSize)
	}
	if !scalebar.Position(c.Position).IsValid() {
		return fmt.Errorf("position %q not recognized", c.Position)
	}
	if c.Theme != "dark" && c.Theme != "light" {
		return fmt.Errorf("invalid theme: %s", c.Theme)
	}
	return nil
}
