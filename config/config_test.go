// Package config provides CLI configuration management for the polybites command-line tool.
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestDefaultConfig verifies default configuration values.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}

	if cfg.APIBaseURL != DefaultAPIBaseURL {
		t.Errorf("APIBaseURL = %v, want %v", cfg.APIBaseURL, DefaultAPIBaseURL)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if cfg.OutputFormat != DefaultOutputFormat {
		t.Errorf("OutputFormat = %v, want %v", cfg.OutputFormat, DefaultOutputFormat)
	}
	if cfg.PageSize != 3 {
		t.Errorf("PageSize = %v, want 3", cfg.PageSize)
	}
	if cfg.Debug {
		t.Error("Debug should be false by default")
	}
}

// TestOutputFormat_IsValid verifies output format validation.
func TestOutputFormat_IsValid(t *testing.T) {
	tests := []struct {
		format OutputFormat
		valid  bool
	}{
		{OutputFormatText, true},
		{OutputFormatJSON, true},
		{OutputFormatYAML, true},
		{"invalid", false},
		{"", false},
		{"JSON", false}, // Case sensitive
	}

	for _, tt := range tests {
		if got := tt.format.IsValid(); got != tt.valid {
			t.Errorf("IsValid(%q) = %v, want %v", tt.format, got, tt.valid)
		}
	}
}

// TestLoadConfig_FileAndEnv verifies precedence of file and environment sources.
func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("POLYBITES_CONFIG_DIR", dir)

	contents := []byte("api_base_url: http://file.example\ntimeout: 5s\noutput_format: json\n")
	if err := os.WriteFile(filepath.Join(dir, DefaultConfigFile), contents, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.APIBaseURL != "http://file.example" {
		t.Errorf("APIBaseURL = %v, want file value", cfg.APIBaseURL)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Timeout)
	}
	if cfg.OutputFormat != OutputFormatJSON {
		t.Errorf("OutputFormat = %v, want json", cfg.OutputFormat)
	}

	// Environment overrides the file.
	t.Setenv("POLYBITES_API_BASE_URL", "http://env.example")
	t.Setenv("POLYBITES_TIMEOUT", "7s")
	t.Setenv("POLYBITES_DEBUG", "1")

	cfg, err = LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.APIBaseURL != "http://env.example" {
		t.Errorf("APIBaseURL = %v, want env value", cfg.APIBaseURL)
	}
	if cfg.Timeout != 7*time.Second {
		t.Errorf("Timeout = %v, want 7s", cfg.Timeout)
	}
	if !cfg.Debug {
		t.Error("Debug should be set from environment")
	}
}

// TestLoadConfig_MissingFile verifies defaults are used when no file exists.
func TestLoadConfig_MissingFile(t *testing.T) {
	t.Setenv("POLYBITES_CONFIG_DIR", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.APIBaseURL != DefaultAPIBaseURL {
		t.Errorf("APIBaseURL = %v, want default", cfg.APIBaseURL)
	}
}

// TestLoadConfig_InvalidValuesFallBack verifies bad values degrade to defaults.
func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("POLYBITES_CONFIG_DIR", dir)

	contents := []byte("output_format: xml\npage_size: -1\n")
	if err := os.WriteFile(filepath.Join(dir, DefaultConfigFile), contents, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.OutputFormat != DefaultOutputFormat {
		t.Errorf("OutputFormat = %v, want default", cfg.OutputFormat)
	}
	if cfg.PageSize != 3 {
		t.Errorf("PageSize = %v, want 3", cfg.PageSize)
	}
}

// TestSaveConfig_RoundTrip verifies save followed by load preserves values.
func TestSaveConfig_RoundTrip(t *testing.T) {
	t.Setenv("POLYBITES_CONFIG_DIR", t.TempDir())

	want := DefaultConfig()
	want.APIBaseURL = "http://localhost:5000"
	want.Timeout = 12 * time.Second

	if err := SaveConfig(want); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}

	got, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if got.APIBaseURL != want.APIBaseURL {
		t.Errorf("APIBaseURL = %v, want %v", got.APIBaseURL, want.APIBaseURL)
	}
	if got.Timeout != want.Timeout {
		t.Errorf("Timeout = %v, want %v", got.Timeout, want.Timeout)
	}
}
