// Package config loads pacer configuration from pacer.yaml files, layering
// file values over built-in defaults.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Config holds the settings that shape a pacer run.
type Config struct {
	// RefreshPerSecond is the background repaint rate.
	RefreshPerSecond float64
	// AutoRefresh enables the background repaint loop.
	AutoRefresh bool
	// SpeedEstimatePeriod is the sliding window over which task speed is
	// estimated.
	SpeedEstimatePeriod time.Duration
	// BarWidth is the progress bar cell width. Zero selects the renderer's
	// default width.
	BarWidth int
	// EventLogPath is where the JSONL event log is written. Empty disables
	// event logging.
	EventLogPath string
}

// Manager defines the interface for loading and validating configuration.
type Manager interface {
	Load() (*Config, error)
	Validate(cfg *Config) error
}

// viperManager implements Manager using Viper for reading YAML
// configuration files.
type viperManager struct {
	searchPaths []string
}

// NewManager creates a Manager that searches for pacer.yaml in the current
// directory and the user's XDG config directory.
func NewManager() Manager {
	return &viperManager{
		searchPaths: []string{".", filepath.Join(xdg.ConfigHome, "pacer")},
	}
}

// NewManagerWithPaths creates a Manager that searches only the given
// directories, in order.
func NewManagerWithPaths(paths ...string) Manager {
	return &viperManager{searchPaths: paths}
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		RefreshPerSecond:    15,
		AutoRefresh:         true,
		SpeedEstimatePeriod: 30 * time.Second,
		BarWidth:            40,
		EventLogPath:        filepath.Join(xdg.StateHome, "pacer", "events.jsonl"),
	}
}

// Load reads the first pacer.yaml found on the search path using Viper.
// If no file is found, defaults are returned.
func (m *viperManager) Load() (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("pacer")
	v.SetConfigType("yaml")
	for _, p := range m.searchPaths {
		v.AddConfigPath(p)
	}

	// Set Viper defaults so missing keys fall back gracefully. IsSet answers
	// true for defaulted keys, so the two IsSet-guarded keys below must not
	// get one.
	v.SetDefault("refresh.per_second", cfg.RefreshPerSecond)
	v.SetDefault("refresh.auto", cfg.AutoRefresh)
	v.SetDefault("speed.estimate_period", cfg.SpeedEstimatePeriod)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// No config file found, return defaults.
			return cfg, nil
		}
		return nil, fmt.Errorf("reading pacer.yaml: %w", err)
	}

	// Map nested YAML keys to flat Config fields.
	cfg.RefreshPerSecond = v.GetFloat64("refresh.per_second")
	cfg.AutoRefresh = v.GetBool("refresh.auto")
	cfg.SpeedEstimatePeriod = v.GetDuration("speed.estimate_period")

	// Use IsSet to distinguish "not set" (use default 40) from "explicitly
	// set to 0", which selects the renderer's default width.
	if v.IsSet("display.bar_width") {
		cfg.BarWidth = v.GetInt("display.bar_width")
	}

	// Use IsSet so events.path can be explicitly emptied to disable logging.
	if v.IsSet("events.path") {
		cfg.EventLogPath = v.GetString("events.path")
	}

	return cfg, nil
}

// Validate checks the provided configuration for invalid values and returns
// a clear error message identifying the problem.
func (m *viperManager) Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if cfg.RefreshPerSecond <= 0 {
		errs = append(errs, fmt.Sprintf(
			"refresh.per_second must be positive, got %v", cfg.RefreshPerSecond))
	}

	if cfg.SpeedEstimatePeriod <= 0 {
		errs = append(errs, fmt.Sprintf(
			"speed.estimate_period must be positive, got %v", cfg.SpeedEstimatePeriod))
	}

	if cfg.BarWidth < 0 {
		errs = append(errs, fmt.Sprintf(
			"display.bar_width must be non-negative, got %d", cfg.BarWidth))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
