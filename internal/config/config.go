// Package config provides configuration loading and management for the
// ctlio command line tool. It handles loading configuration from YAML
// files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML.
type Config struct {
	// Read controls behavior of the read/inspect path.
	Read struct {
		// RescaleToHU makes inspect print the rescale pair (slope,
		// intercept, mu water, mu scaling). It does not change pixel
		// decoding: ReadPixels always applies the header's rescale pair.
		RescaleToHU bool `yaml:"rescaleToHU"`
	} `yaml:"read"`

	// Write controls behavior of the write/convert path.
	Write struct {
		// DefaultExtension picks the output format when the caller does
		// not name one explicitly ("isq" or "aim").
		DefaultExtension string `yaml:"defaultExtension"`

		// AIMVersion selects "v020" or "v030" when writing AIM.
		AIMVersion string `yaml:"aimVersion"`
	} `yaml:"write"`

	// Logging holds settings for a rotating log file. No ctlio command
	// reads them; the CLI logs to stderr only.
	Logging struct {
		Path    string `yaml:"path"`
		Verbose bool   `yaml:"verbose"`
	} `yaml:"logging"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Read.RescaleToHU = true
	cfg.Write.DefaultExtension = "isq"
	cfg.Write.AIMVersion = "v030"
	cfg.Logging.Path = "ctlio.log"
	cfg.Logging.Verbose = false
	return cfg
}

// LoadConfig loads configuration from a YAML file. If the file doesn't
// exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
