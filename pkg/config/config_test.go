package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope", "config.yml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scopeview", "config.yml")

	want := Default()
	want.Unit = "um"
	want.TargetLength = 200
	want.Position = "top_left"
	want.Theme = "light"
	want.PluginDir = "/opt/scopeview/plugins"
	want.PixelSize = 0.65

	if err := Save(path, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != want {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestLoadAppliesDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("unit: mm\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Unit != "mm" {
		t.Errorf("expected unit mm, got %q", cfg.Unit)
	}
	if cfg.TargetLength != Default().TargetLength {
		t.Errorf("expected default target length, got %v", cfg.TargetLength)
	}
	if cfg.Theme != Default().Theme {
		t.Errorf("expected default theme, got %q", cfg.Theme)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown unit", func(c *Config) { c.Unit = "parsec" }},
		{"zero target length", func(c *Config) { c.TargetLength = 0 }},
		{"negative pixel size", func(c *Config) { c.PixelSize = -1 }},
		{"bad position", func(c *Config) { c.Position = "center" }},
		{"bad theme", func(c *Config) { c.Theme = "solarized" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("defaults must validate, got %v", err)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("unit: bogus\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown unit")
	}
}
