// Package config provides layered configuration loading for formcheck.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formcheck/pkg/watch"
)

// Config represents the complete formcheck configuration.
type Config struct {
	// Suite is a built-in suite name or a path to a suite YAML file.
	Suite string `yaml:"suite"`
	// Format selects the report writer (text, json, html, markdown).
	Format string `yaml:"format"`
	// Output is the report destination; empty means stdout.
	Output string `yaml:"output"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// Snippets toggles element snippets in failures.
	Snippets *bool        `yaml:"snippets,omitempty"`
	HTTP     HTTPConfig   `yaml:"http"`
	Watch    watch.Config `yaml:"watch"`
	Report   ReportConfig `yaml:"report"`
}

// HTTPConfig controls loading documents from URLs.
type HTTPConfig struct {
	Allow   bool          `yaml:"allow"`
	Timeout time.Duration `yaml:"timeout"`
}

// ReportConfig customises report writers.
type ReportConfig struct {
	// Theme overrides html report design tokens, e.g. fail: "#b00020".
	Theme map[string]string `yaml:"theme,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Suite:    "registration",
		Format:   "text",
		LogLevel: "warn",
		HTTP: HTTPConfig{
			Timeout: 10 * time.Second,
		},
		Watch: watch.Config{Debounce: watch.DefaultDebounce.String()},
	}
}

var (
	validFormats   = map[string]bool{"text": true, "json": true, "html": true, "markdown": true}
	validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
)

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Suite == "" {
		return fmt.Errorf("suite is required")
	}
	if !validFormats[c.Format] {
		return fmt.Errorf("format %q is not one of text, json, html, markdown", c.Format)
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("log_level %q is not one of debug, info, warn, error", c.LogLevel)
	}
	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("http.timeout must not be negative")
	}
	return nil
}

// SnippetsEnabled reports whether failures should carry element snippets.
func (c *Config) SnippetsEnabled() bool {
	return c.Snippets == nil || *c.Snippets
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Merge merges another config into this one. Non-zero values in other win.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.Suite != "" {
		c.Suite = other.Suite
	}
	if other.Format != "" {
		c.Format = other.Format
	}
	if other.Output != "" {
		c.Output = other.Output
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.Snippets != nil {
		enabled := *other.Snippets
		c.Snippets = &enabled
	}
	if other.HTTP.Allow {
		c.HTTP.Allow = true
	}
	if other.HTTP.Timeout != 0 {
		c.HTTP.Timeout = other.HTTP.Timeout
	}
	if other.Watch.Debounce != "" {
		c.Watch.Debounce = other.Watch.Debounce
	}
	if len(other.Report.Theme) > 0 {
		if c.Report.Theme == nil {
			c.Report.Theme = make(map[string]string, len(other.Report.Theme))
		}
		for token, value := range other.Report.Theme {
			c.Report.Theme[token] = value
		}
	}
}
