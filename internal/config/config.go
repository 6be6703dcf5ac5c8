// Package config provides the YAML-based application configuration,
// including first-run config creation with restrictive permissions.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`

	// DataDir holds the event store, account file and backups.
	DataDir string `yaml:"data_dir"`

	// WeekStart controls which weekday opens a calendar week row.
	// Supported values: "monday" (default), "sunday".
	WeekStart string `yaml:"week_start"`

	// DayStart is the HH:MM anchor for a bare date click with no drag
	// range (default "09:00").
	DayStart string `yaml:"day_start"`

	// SessionTTL is how long a session token stays valid, as a Go
	// duration string (default "168h").
	SessionTTL string `yaml:"session_ttl"`

	// SessionSweep is a cron-style schedule for dropping expired
	// sessions (default every 15 minutes).
	SessionSweep string `yaml:"session_sweep"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:       "127.0.0.1:8080",
		DataDir:      "data",
		WeekStart:    "monday",
		DayStart:     "09:00",
		SessionTTL:   "168h",
		SessionSweep: "*/15 * * * *",
	}
}

// Normalize fills in missing/zero values with defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	d := DefaultConfig()
	if c.Listen == "" {
		c.Listen = d.Listen
	}
	if c.DataDir == "" {
		c.DataDir = d.DataDir
	}
	switch c.WeekStart {
	case "monday", "sunday":
	default:
		c.WeekStart = d.WeekStart
	}
	if c.DayStart == "" {
		c.DayStart = d.DayStart
	}
	if _, err := time.Parse("15:04", c.DayStart); err != nil {
		c.DayStart = d.DayStart
	}
	if _, err := time.ParseDuration(c.SessionTTL); err != nil {
		c.SessionTTL = d.SessionTTL
	}
	if c.SessionSweep == "" {
		c.SessionSweep = d.SessionSweep
	}
}

// SessionTTLDuration returns the parsed session TTL.
func (c *Config) SessionTTLDuration() time.Duration {
	ttl, err := time.ParseDuration(c.SessionTTL)
	if err != nil {
		ttl, _ = time.ParseDuration(DefaultConfig().SessionTTL)
	}
	return ttl
}

// Load reads the config at path. A missing file is created with the
// defaults (0600) so the first run leaves an editable config behind.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to write default config: %w", err)
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes the config as YAML with 0600 permissions.
func Save(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
