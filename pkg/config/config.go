// Package config loads the YAML configuration files for the three
// PlayForge services (data store, lobby, developer). Each service gets
// its own typed config struct and Load function, following the same
// read-file -> expand env vars -> yaml.Unmarshal -> apply defaults shape
// used across the service family.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// LoggingConfig is shared by every service.
type LoggingConfig struct {
	Level  string         `yaml:"level"`  // debug, info, warn, error
	Format string         `yaml:"format"` // json, text
	Output string         `yaml:"output"` // stdout, stderr, file
	File   *LogFileConfig `yaml:"file,omitempty"`
}

// LogFileConfig configures rotation when Output is "file".
type LogFileConfig struct {
	Path     string `yaml:"path"`
	MaxSize  int    `yaml:"max_size_mb"`
	MaxFiles int    `yaml:"max_files"`
	MaxAge   int    `yaml:"max_age_days"`
	Compress bool   `yaml:"compress"`
}

// MetricsConfig is shared by every service.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

func readYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), out); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

func defaultLogging(cfg *LoggingConfig) *LoggingConfig {
	if cfg == nil {
		cfg = &LoggingConfig{}
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
	return cfg
}

func defaultMetrics(cfg *MetricsConfig, port int) *MetricsConfig {
	if cfg == nil {
		cfg = &MetricsConfig{Enabled: true, Port: port}
	}
	if cfg.Port == 0 {
		cfg.Port = port
	}
	return cfg
}

// ParseDuration parses a duration string, falling back to a default on
// error or an empty string.
func ParseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
