// Package client holds the collaborators around the protocol core:
// configuration, transport dialing, the tcell screen compositor, and
// the dispatch loop that moves bytes between them.
package client

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds client settings, loadable from a YAML file. Flags and
// environment variables override file values.
type Config struct {
	// --- Connection ---
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Protocol     string `yaml:"protocol"`      // "telnet" or "awe"
	WebsocketURL string `yaml:"websocket_url"` // ws:// or wss:// endpoint; overrides host/port when set

	// --- Display ---
	MaskChar        string `yaml:"mask_char"`        // shown per input byte when echo is off
	ScrollbackLines int    `yaml:"scrollback_lines"` // main-window history bound

	// --- Logging ---
	LogFile        string `yaml:"log_file"`        // diagnostic log destination; empty discards
	TranscriptFile string `yaml:"transcript_file"` // plain-text transcript of displayed output
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Port:            4545,
		Protocol:        "telnet",
		MaskChar:        "*",
		ScrollbackLines: 2000,
	}
}

// LoadConfig reads a YAML config file over the defaults. A missing
// path returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks settings that have a closed set of values.
func (c Config) Validate() error {
	switch c.Protocol {
	case "telnet", "awe":
	default:
		return fmt.Errorf("unknown protocol %q (want telnet or awe)", c.Protocol)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	return nil
}

// Mask returns the echo-off mask rune.
func (c Config) Mask() rune {
	for _, r := range c.MaskChar {
		return r
	}
	return '*'
}
