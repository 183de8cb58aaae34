package client

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Port != 4545 {
		t.Errorf("default port = %d, want 4545", cfg.Port)
	}
	if cfg.Protocol != "telnet" {
		t.Errorf("default protocol = %q, want telnet", cfg.Protocol)
	}
	if cfg.Mask() != '*' {
		t.Errorf("default mask = %q, want '*'", cfg.Mask())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clc.yaml")
	data := `
host: mud.example.org
port: 6250
protocol: awe
mask_char: "#"
scrollback_lines: 500
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Host != "mud.example.org" || cfg.Port != 6250 {
		t.Errorf("connection = %s:%d, want mud.example.org:6250", cfg.Host, cfg.Port)
	}
	if cfg.Protocol != "awe" {
		t.Errorf("protocol = %q, want awe", cfg.Protocol)
	}
	if cfg.Mask() != '#' {
		t.Errorf("mask = %q, want '#'", cfg.Mask())
	}
	if cfg.ScrollbackLines != 500 {
		t.Errorf("scrollback = %d, want 500", cfg.ScrollbackLines)
	}
}

func TestLoadConfigMissingPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg != DefaultConfig() {
		t.Error("empty path should yield defaults")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"awe", func(c *Config) { c.Protocol = "awe" }, true},
		{"bad protocol", func(c *Config) { c.Protocol = "gopher" }, false},
		{"zero port", func(c *Config) { c.Port = 0 }, false},
		{"huge port", func(c *Config) { c.Port = 70000 }, false},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(&cfg)
		err := cfg.Validate()
		if tt.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("%s: expected an error", tt.name)
		}
	}
}
