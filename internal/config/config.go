// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Environment variables recognized by the CLI. Values from the environment
// override the config file but lose to explicit CLI flags.
const (
	EnvAPIURL    = "NEXOPEAK_API_URL"
	EnvTokenFile = "NEXOPEAK_TOKEN_FILE"
)

// DefaultAPIURL is the production backend origin.
const DefaultAPIURL = "https://nexopeak-backend-54df3b2cdfbe.herokuapp.com"

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// APIURL is the backend origin, e.g. https://api.nexopeak.io.
	APIURL string `json:"api_url,omitempty"`
	// TokenFile overrides where stored credentials live.
	TokenFile string `json:"token_file,omitempty"`
	// CampaignID is a default campaign for commands that take one.
	CampaignID string `json:"campaign_id,omitempty"`
	// OptimizationType selects the analysis scope (full, timing, platform, budget).
	OptimizationType string `json:"optimization_type,omitempty"`
	// AnswersFile points at a prepared questionnaire answer file (JSON or YAML).
	AnswersFile string `json:"answers_file,omitempty"`

	// PollIntervalSeconds and PollCeilingSeconds tune the analysis wait loop.
	PollIntervalSeconds int `json:"poll_interval_seconds,omitempty"`
	PollCeilingSeconds  int `json:"poll_ceiling_seconds,omitempty"`

	// Verbose prints detailed progress information.
	Verbose bool `json:"verbose,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
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

// FromEnv returns a Config populated from environment variables only.
func FromEnv() Config {
	return Config{
		APIURL:    os.Getenv(EnvAPIURL),
		TokenFile: os.Getenv(EnvTokenFile),
	}
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.APIURL != "" {
		parsed, err := url.Parse(c.APIURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("config error: 'api_url' is not a valid URL: %s", c.APIURL)
		}
	}

	switch c.OptimizationType {
	case "", "full", "timing", "platform", "budget":
	default:
		return fmt.Errorf("config error: 'optimization_type' must be one of full, timing, platform, budget")
	}

	if c.PollIntervalSeconds < 0 {
		return fmt.Errorf("config error: 'poll_interval_seconds' must be non-negative")
	}
	if c.PollCeilingSeconds < 0 {
		return fmt.Errorf("config error: 'poll_ceiling_seconds' must be non-negative")
	}

	if c.AnswersFile != "" {
		if _, err := os.Stat(c.AnswersFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: answers file not found: %s", c.AnswersFile)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.APIURL == "" {
		result.APIURL = defaults.APIURL
	}
	if result.TokenFile == "" {
		result.TokenFile = defaults.TokenFile
	}
	if result.CampaignID == "" {
		result.CampaignID = defaults.CampaignID
	}
	if result.OptimizationType == "" {
		result.OptimizationType = defaults.OptimizationType
	}
	if result.AnswersFile == "" {
		result.AnswersFile = defaults.AnswersFile
	}

	// Int fields: use default if zero
	if result.PollIntervalSeconds == 0 {
		result.PollIntervalSeconds = defaults.PollIntervalSeconds
	}
	if result.PollCeilingSeconds == 0 {
		result.PollCeilingSeconds = defaults.PollCeilingSeconds
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// PollInterval converts the configured interval to a duration, zero when unset.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// PollCeiling converts the configured ceiling to a duration, zero when unset.
func (c *Config) PollCeiling() time.Duration {
	return time.Duration(c.PollCeilingSeconds) * time.Second
}
