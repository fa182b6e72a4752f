// Package config reads and writes the ledger's per-directory configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"go.uber.org/zap/zapcore"
)

// CurrentVersion is written into new config files.
const CurrentVersion = "1"

// Output formats
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Log formats
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

var (
	outputFormats = []string{OutputText, OutputJSON, OutputYAML}
	logFormats    = []string{LogFormatConsole, LogFormatJSON}
)

// Config represents the flat ledger configuration
type Config struct {
	Version      string `json:"version"`
	DBPath       string `json:"db_path,omitempty"`       // empty means ~/.ledger/ledger.db
	LogLevel     string `json:"log_level,omitempty"`     // zap level name
	LogFormat    string `json:"log_format,omitempty"`    // "console" or "json"
	Output       string `json:"output,omitempty"`        // "text", "json" or "yaml"
	BranchPrefix string `json:"branch_prefix,omitempty"` // prefix of generated shipment branches
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Version:   CurrentVersion,
		LogLevel:  "warn",
		LogFormat: LogFormatConsole,
		Output:    OutputText,
	}
}

// Path returns the config file location for dir.
func Path(dir string) string {
	return filepath.Join(dir, ".ledger", "config.json")
}

// LoadConfig reads .ledger/config.json from the specified directory.
// Unset fields take their default value.
func LoadConfig(dir string) (*Config, error) {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault is LoadConfig, except that a missing file yields Default().
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := LoadConfig(dir)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	ledgerDir := filepath.Dir(Path(dir))
	if err := os.MkdirAll(ledgerDir, 0755); err != nil {
		return fmt.Errorf("failed to create .ledger dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(Path(dir), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate reports the first field holding an unknown value.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	if !slices.Contains(logFormats, c.LogFormat) {
		return fmt.Errorf("invalid log_format %q (valid: console, json)", c.LogFormat)
	}
	if !slices.Contains(outputFormats, c.Output) {
		return fmt.Errorf("invalid output %q (valid: text, json, yaml)", c.Output)
	}
	return nil
}
