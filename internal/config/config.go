// Package config loads the engine configuration file: database location,
// holiday calendar, known sites and the write-debounce window. A missing file
// is materialized with defaults so a fresh checkout runs without setup.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

type Config struct {
	// DBPath is the SQLite file location. ":memory:" is accepted for tests.
	DBPath string `yaml:"db_path"`

	// DebounceMs is the write-coalescing window in milliseconds.
	DebounceMs int `yaml:"debounce_ms"`

	// Sites lists the known site codes. Empty accepts any site.
	Sites []string `yaml:"sites"`

	// Holidays lists non-working dates as YYYY-MM-DD.
	Holidays []string `yaml:"holidays"`
}

// Default returns the configuration used when no file exists yet.
func Default() *Config {
	return &Config{
		DBPath:     "", // resolved by the caller (defaults under the home dir)
		DebounceMs: 500,
	}
}

// Load reads the config at path, creating it with defaults first when absent.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default()
		if writeErr := Write(path, cfg); writeErr != nil {
			return nil, writeErr
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.DebounceMs <= 0 {
		cfg.DebounceMs = 500
	}
	return cfg, nil
}

// Write persists the config, creating parent directories as needed.
func Write(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// HolidayDates parses the configured holiday list.
func (c *Config) HolidayDates() ([]time.Time, error) {
	out := make([]time.Time, 0, len(c.Holidays))
	for _, s := range c.Holidays {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return nil, fmt.Errorf("bad holiday date %q: %w", s, err)
		}
		out = append(out, t)
	}
	return out, nil
}

// Debounce returns the debounce window as a duration.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}
