// Package config loads the engine's YAML configuration file: which BAT
// file to load by default, the default split depth, logging shape, and
// the watch loop's debounce interval. Grounded on the teacher's
// internal/config/config.go load-from-file-with-defaults shape
// (DefaultConfig/Load/Save/applyEnvOverrides/Validate), trimmed to this
// engine's own concerns.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the engine's configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	Engine  EngineConfig  `yaml:"engine"`
	Logging LoggingConfig `yaml:"logging"`
	Watch   WatchConfig   `yaml:"watch"`
}

// EngineConfig configures the reasoning engine's default query behavior.
type EngineConfig struct {
	// BATPath is the default basic-action-theory file loaded when a
	// command doesn't name one explicitly.
	BATPath string `yaml:"bat_path"`

	// DefaultDepth is the split-depth budget k used when a query doesn't
	// pass its own --k (spec §4.9's depth parameter to query_test).
	DefaultDepth int `yaml:"default_depth"`

	// QueryTimeout bounds a single Ask/AskGlobal call's wall-clock time.
	QueryTimeout string `yaml:"query_timeout"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
	File   string `yaml:"file"`
}

// WatchConfig configures the BAT file watch loop.
type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms"`
}

// ValidLogLevels lists the zap levels this config accepts.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "limbo",
		Version: "0.1.0",

		Engine: EngineConfig{
			BATPath:      "theory.bat",
			DefaultDepth: 1,
			QueryTimeout: "30s",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File:   "",
		},

		Watch: WatchConfig{
			DebounceMS: 200,
		},
	}
}

// Load loads configuration from a YAML file, falling back to defaults if
// the file doesn't exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides, letting a
// deployment point at a different default theory or log level without
// editing the YAML file.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("LIMBO_BAT_PATH"); path != "" {
		c.Engine.BATPath = path
	}
	if level := os.Getenv("LIMBO_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// GetQueryTimeout parses Engine.QueryTimeout, falling back to 30s on a
// malformed or empty value.
func (c *Config) GetQueryTimeout() time.Duration {
	d, err := time.ParseDuration(c.Engine.QueryTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// Validate checks the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Engine.DefaultDepth < 0 {
		return fmt.Errorf("engine.default_depth must be >= 0, got %d", c.Engine.DefaultDepth)
	}

	validLevel := false
	for _, l := range ValidLogLevels {
		if c.Logging.Level == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid logging level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
	}

	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}

	return nil
}
