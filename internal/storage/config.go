package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFile is the user configuration file looked up in the
	// working directory.
	DefaultConfigFile = ".tmconfig.yaml"

	// Default configuration values
	DefaultShowTiming = true
	DefaultAutoload   = false
	DefaultLogLevel   = "warn"
)

// Config represents user configuration from .tmconfig.yaml (or a .toml file).
// This file is user-managed and never written by tm.
type Config struct {
	// DefaultFile is the task file used by save and load without a path.
	DefaultFile string `yaml:"default_file" toml:"default_file"`

	// Autoload loads DefaultFile at startup when it exists.
	Autoload bool `yaml:"autoload" toml:"autoload"`

	// ShowTiming prints the elapsed time after every action.
	ShowTiming bool `yaml:"show_timing" toml:"show_timing"`

	// Color forces colour on or off. Nil means detect from the terminal.
	Color *bool `yaml:"color" toml:"color"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" toml:"log_level"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		DefaultFile: DefaultTaskFile,
		Autoload:    DefaultAutoload,
		ShowTiming:  DefaultShowTiming,
		LogLevel:    DefaultLogLevel,
	}
}

// LoadConfig loads the config file at path if it exists, otherwise returns
// defaults. Files ending in .toml are parsed as TOML, anything else as YAML.
// Partial config files are merged with defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file - return defaults
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	// Start with defaults
	cfg := DefaultConfig()

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if cfg.DefaultFile == "" {
		cfg.DefaultFile = DefaultTaskFile
	}
	return cfg, nil
}
