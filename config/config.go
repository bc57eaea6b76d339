// Package config provides CLI configuration management for the polybites
// command-line tool. It supports loading configuration from YAML files,
// environment variables, and command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// OutputFormat defines the supported output formats for CLI results.
type OutputFormat string

const (
	// OutputFormatText is human-readable plain text output.
	OutputFormatText OutputFormat = "text"
	// OutputFormatJSON is JSON-formatted output for machine processing.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatYAML is YAML-formatted output for machine processing.
	OutputFormatYAML OutputFormat = "yaml"
)

// IsValid reports whether the output format is one of the supported values.
func (f OutputFormat) IsValid() bool {
	switch f {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML:
		return true
	}
	return false
}

// Default configuration values.
const (
	DefaultAPIBaseURL   = "https://polybitesbackend-production.up.railway.app"
	DefaultTimeout      = 30 * time.Second
	DefaultOutputFormat = OutputFormatText
	DefaultPageSize     = 3
	DefaultConfigDir    = ".polybites"
	DefaultConfigFile   = "config.yaml"
)

// CLIConfig holds the CLI configuration settings.
type CLIConfig struct {
	// APIBaseURL is the base URL of the PolyBites REST API.
	APIBaseURL string `yaml:"api_base_url"`

	// Timeout is the default timeout for API requests.
	Timeout time.Duration `yaml:"-"`

	// OutputFormat specifies the default output format for commands.
	OutputFormat OutputFormat `yaml:"output_format"`

	// PageSize is the number of reviews shown per page.
	PageSize int `yaml:"page_size,omitempty"`

	// Debug enables verbose debug logging.
	Debug bool `yaml:"debug,omitempty"`
}

// DefaultConfig returns a CLIConfig with default values.
func DefaultConfig() *CLIConfig {
	return &CLIConfig{
		APIBaseURL:   DefaultAPIBaseURL,
		Timeout:      DefaultTimeout,
		OutputFormat: DefaultOutputFormat,
		PageSize:     DefaultPageSize,
	}
}

// Validate checks the configuration for inconsistent values and normalizes
// anything that can safely fall back to a default.
func (c *CLIConfig) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_base_url must not be empty")
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if !c.OutputFormat.IsValid() {
		c.OutputFormat = DefaultOutputFormat
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	return nil
}

// ConfigDir returns the configuration directory path.
// Uses $POLYBITES_CONFIG_DIR if set, otherwise ~/.polybites
func ConfigDir() (string, error) {
	if dir := os.Getenv("POLYBITES_CONFIG_DIR"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	return filepath.Join(home, DefaultConfigDir), nil
}

// ConfigPath returns the full path to the configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultConfigFile), nil
}

// LoadConfig loads the CLI configuration from file and environment variables.
// Configuration is loaded in this order (later sources override earlier):
//  1. Default values
//  2. Config file (~/.polybites/config.yaml or $POLYBITES_CONFIG_DIR/config.yaml)
//  3. Environment variables (POLYBITES_API_BASE_URL, POLYBITES_TIMEOUT,
//     POLYBITES_OUTPUT_FORMAT, POLYBITES_DEBUG)
func LoadConfig() (*CLIConfig, error) {
	cfg := DefaultConfig()

	configPath, err := ConfigPath()
	if err != nil {
		return nil, fmt.Errorf("getting config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(cfg *CLIConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	// We need a temp struct for unmarshaling duration as string.
	type configFile struct {
		APIBaseURL   string       `yaml:"api_base_url"`
		Timeout      string       `yaml:"timeout"`
		OutputFormat OutputFormat `yaml:"output_format"`
		PageSize     int          `yaml:"page_size"`
		Debug        bool         `yaml:"debug"`
	}

	var fileCfg configFile
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if fileCfg.APIBaseURL != "" {
		cfg.APIBaseURL = fileCfg.APIBaseURL
	}
	if fileCfg.Timeout != "" {
		timeout, err := time.ParseDuration(fileCfg.Timeout)
		if err != nil {
			return fmt.Errorf("parsing timeout: %w", err)
		}
		cfg.Timeout = timeout
	}
	if fileCfg.OutputFormat != "" {
		cfg.OutputFormat = fileCfg.OutputFormat
	}
	if fileCfg.PageSize != 0 {
		cfg.PageSize = fileCfg.PageSize
	}
	cfg.Debug = fileCfg.Debug

	return nil
}

// loadFromEnv overlays environment variables onto the configuration.
func loadFromEnv(cfg *CLIConfig) {
	if v := os.Getenv("POLYBITES_API_BASE_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("POLYBITES_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}
	if v := os.Getenv("POLYBITES_OUTPUT_FORMAT"); v != "" {
		cfg.OutputFormat = OutputFormat(v)
	}
	if v := os.Getenv("POLYBITES_DEBUG"); v == "true" || v == "1" {
		cfg.Debug = true
	}
}

// SaveConfig writes the configuration to the config file, creating the
// config directory if needed.
func SaveConfig(cfg *CLIConfig) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Durations are written as strings so the file stays hand-editable.
	type configFile struct {
		APIBaseURL   string       `yaml:"api_base_url"`
		Timeout      string       `yaml:"timeout"`
		OutputFormat OutputFormat `yaml:"output_format"`
		PageSize     int          `yaml:"page_size,omitempty"`
		Debug        bool         `yaml:"debug,omitempty"`
	}

	data, err := yaml.Marshal(&configFile{
		APIBaseURL:   cfg.APIBaseURL,
		Timeout:      cfg.Timeout.String(),
		OutputFormat: cfg.OutputFormat,
		PageSize:     cfg.PageSize,
		Debug:        cfg.Debug,
	})
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	path := filepath.Join(dir, DefaultConfigFile)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}

	return nil
}
