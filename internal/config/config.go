// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/planmyjob/internal/types"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Candidate info, used to sign letters
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`

	// Letter defaults
	Tone            string   `json:"tone,omitempty"`             // auto, classic, modern or startup
	YearsExperience *float64 `json:"years_experience,omitempty"` // Candidate years of experience
	Templates       string   `json:"templates,omitempty"`        // Path to a letter templates JSON file

	// Behavior
	UseBrowser bool `json:"use_browser,omitempty"` // Use headless browser for client-rendered boards
	Verbose    bool `json:"verbose,omitempty"`     // Print detailed debug information
	Port       int  `json:"port,omitempty"`        // HTTP API port for serve
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if _, ok := types.ParseTone(c.Tone); !ok {
		return fmt.Errorf("config error: 'tone' must be one of auto, classic, modern, startup (got %q)", c.Tone)
	}

	if c.YearsExperience != nil && *c.YearsExperience < 0 {
		return fmt.Errorf("config error: 'years_experience' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}

	if c.Templates != "" {
		if _, err := os.Stat(c.Templates); os.IsNotExist(err) {
			return fmt.Errorf("config error: templates file not found: %s", c.Templates)
		}
	}

	return nil
}

// SignatureName is "First Last", or "" when neither name is set.
func (c *Config) SignatureName() string {
	switch {
	case c.FirstName != "" && c.LastName != "":
		return c.FirstName + " " + c.LastName
	case c.FirstName != "":
		return c.FirstName
	default:
		return c.LastName
	}
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.FirstName == "" {
		result.FirstName = defaults.FirstName
	}
	if result.LastName == "" {
		result.LastName = defaults.LastName
	}
	if result.Tone == "" {
		result.Tone = defaults.Tone
	}
	if result.Templates == "" {
		result.Templates = defaults.Templates
	}
	if result.YearsExperience == nil {
		result.YearsExperience = defaults.YearsExperience
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
