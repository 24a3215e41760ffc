// Package config loads the command line tool's defaults from a YAML or
// TOML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rawbytedev/serialfield"
)

// Config holds the defaults applied to every command.
type Config struct {
	// Scope is "private", "protected" or "public".
	Scope string `yaml:"scope" toml:"scope"`
	// Owner overrides the type private fields are keyed to.
	Owner   string        `yaml:"owner" toml:"owner"`
	Raw     bool          `yaml:"raw" toml:"raw"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

type LoggingConfig struct {
	Level       string `yaml:"level" toml:"level"`
	Development bool   `yaml:"development" toml:"development"`
}

func Default() *Config {
	return &Config{
		Scope:   serialfield.ScopePrivate.String(),
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path over the defaults. Files ending in .toml are parsed as
// TOML, anything else as YAML. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := serialfield.ParseScope(c.Scope); err != nil {
		return err
	}
	if _, err := zap.ParseAtomicLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging level: %w", err)
	}
	return nil
}

// Options returns the accessor options the config describes.
func (c *Config) Options() (serialfield.Options, error) {
	scope, err := serialfield.ParseScope(c.Scope)
	if err != nil {
		return serialfield.Options{}, err
	}
	return serialfield.Options{InputEncoded: true, OutputEncoded: c.Raw, Scope: scope, Owner: c.Owner}, nil
}

// Build returns a logger for the configured level. verbose forces debug.
func (l LoggingConfig) Build(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if l.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	if l.Level != "" {
		level, err := zap.ParseAtomicLevel(l.Level)
		if err != nil {
			return nil, err
		}
		cfg.Level = level
	}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}
