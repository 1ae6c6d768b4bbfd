// Package config loads the settings of the struct-mapper command: a YAML file
// overridden by STRUCT_MAPPER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes the environment overrides.
const EnvPrefix = "STRUCT_MAPPER"

// Config holds the command settings.
type Config struct {
	// MaxDepth limits nested mappings of one call chain, zero means unlimited.
	MaxDepth int `yaml:"max_depth"`

	// LogLevel is a slog level name: debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	// Rules is the path of a YAML rule overlay applied to the sample catalogue.
	Rules string `yaml:"rules,omitempty"`

	// Workers bounds the parallel mappings of the demo, zero means unbounded.
	Workers int `yaml:"workers"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		MaxDepth: 64,
		LogLevel: "info",
		Workers:  4,
	}
}

// Loader reads a Config from a file and the environment.
type Loader struct {
	envPrefix string
	lookupEnv func(key string) (string, bool)
}

func NewLoader() *Loader {
	return &Loader{envPrefix: EnvPrefix, lookupEnv: os.LookupEnv}
}

// Load reads path over the defaults, applies the environment overrides and
// validates the result. An empty path skips the file.
func (l *Loader) Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := l.applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (l *Loader) applyEnvOverrides(cfg *Config) error {
	var errs []error

	if val, ok := l.lookupEnv(l.envPrefix + "_MAX_DEPTH"); ok {
		n, err := strconv.Atoi(val)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s_MAX_DEPTH: %w", l.envPrefix, err))
		} else {
			cfg.MaxDepth = n
		}
	}

	if val, ok := l.lookupEnv(l.envPrefix + "_LOG_LEVEL"); ok {
		cfg.LogLevel = val
	}

	if val, ok := l.lookupEnv(l.envPrefix + "_RULES"); ok {
		cfg.Rules = val
	}

	return errors.Join(errs...)
}

// Validate checks the settings.
func (c *Config) Validate() error {
	var errs []error

	if c.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth))
	}

	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}

	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Level parses LogLevel, empty is info.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return level, nil
	}

	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("log_level: %w", err)
	}

	return level, nil
}

// Logger builds a text logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := c.Level()
	if err != nil {
		return nil, err
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

func (c *Config) String() string {
	return fmt.Sprintf("max_depth=%d log_level=%s rules=%q workers=%d", c.MaxDepth, c.LogLevel, c.Rules, c.Workers)
}
