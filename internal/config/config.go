// Package config loads optional archive defaults from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the default archive settings. Command-line flags override
// anything set here.
type Config struct {
	OutputDir   string   `yaml:"output_dir"`
	ArchiveName string   `yaml:"archive_name"`
	Level       int      `yaml:"level"`
	Exclude     []string `yaml:"exclude"`
}

// DefaultConfig returns the built-in defaults: archive dist.zip into the
// current working directory at maximum compression.
func DefaultConfig() *Config {
	return &Config{
		ArchiveName: "dist.zip",
		Level:       9,
	}
}

// ConfigPath returns the location of the user config file.
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".distzip", "config.yaml")
}

// Load reads the config file at ConfigPath, overlaying it on the built-in
// defaults. A missing file is not an error; defaults are returned as-is.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads a config file from an explicit path. Used by tests.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // no config file, use defaults
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if cfg.ArchiveName == "" {
		cfg.ArchiveName = "dist.zip"
	}
	if cfg.Level == 0 {
		cfg.Level = 9
	}
	if cfg.Level < 1 || cfg.Level > 9 {
		return nil, fmt.Errorf("parsing %s: level must be between 1 and 9, got %d", path, cfg.Level)
	}

	return cfg, nil
}
