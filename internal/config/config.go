// Package config provides configuration loading and validation for the layout engine.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Default configuration values, shared so all estimates stay internally consistent.
const (
	DefaultCharsPerLine          = 100
	DefaultPageOneLines          = 46
	DefaultPageTwoLines          = 52
	DefaultRoleHeaderLines       = 2
	DefaultEngagementHeaderLines = 1
	DefaultMinBullets            = 2
	DefaultMaxBullets            = 5
	DefaultMaxEngagements        = 3
	DefaultCompressionTrigger    = 4
	DefaultBlockCharsPerLine     = 90
)

// Config holds every tunable the engine consumes. All fields are optional in
// the JSON file; missing values take defaults. Validation failures are hard
// caller errors, never recovered locally.
type Config struct {
	// CharsPerLine is the wrap width used by every cost estimate.
	CharsPerLine int `json:"chars_per_line" validate:"gt=0"`

	// Page capacities, in line units.
	PageOneLines int `json:"page_one_lines" validate:"gt=0"`
	PageTwoLines int `json:"page_two_lines" validate:"gt=0"`

	// Header costs. A role header may take a second line when location and
	// dates wrap.
	RoleHeaderLines       int `json:"role_header_lines" validate:"min=1,max=2"`
	EngagementHeaderLines int `json:"engagement_header_lines" validate:"min=1,max=2"`

	// Per-role bullet bounds applied when a role does not carry its own.
	MinBullets int `json:"min_bullets" validate:"min=1"`
	MaxBullets int `json:"max_bullets" validate:"min=1,gtefield=MinBullets"`

	// MaxEngagementsPerRole caps engagements kept per consulting role.
	MaxEngagementsPerRole int `json:"max_engagements_per_role" validate:"min=1,max=3"`

	// CompressionTriggerLines is the largest budget deficit, in lines, that
	// compression is allowed to try to absorb before content is dropped.
	CompressionTriggerLines int `json:"compression_trigger_lines" validate:"min=0"`

	// BlockCharsPerLine is the average per-line capacity used for block
	// sections (summary, skills), which render wider than bullets.
	BlockCharsPerLine int `json:"block_chars_per_line" validate:"gt=0"`
}

// InvalidConfigurationError reports a configuration the engine refuses to run
// with, such as a non-positive page capacity.
type InvalidConfigurationError struct {
	Message string
	Cause   error
}

func (e *InvalidConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid configuration: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid configuration: %s", e.Message)
}

func (e *InvalidConfigurationError) Unwrap() error {
	return e.Cause
}

// Default returns a Config populated with the default values.
func Default() *Config {
	return &Config{
		CharsPerLine:            DefaultCharsPerLine,
		PageOneLines:            DefaultPageOneLines,
		PageTwoLines:            DefaultPageTwoLines,
		RoleHeaderLines:         DefaultRoleHeaderLines,
		EngagementHeaderLines:   DefaultEngagementHeaderLines,
		MinBullets:              DefaultMinBullets,
		MaxBullets:              DefaultMaxBullets,
		MaxEngagementsPerRole:   DefaultMaxEngagements,
		CompressionTriggerLines: DefaultCompressionTrigger,
		BlockCharsPerLine:       DefaultBlockCharsPerLine,
	}
}

// Load reads a JSON config file, fills unset fields with defaults, and
// validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, &InvalidConfigurationError{Message: "config path is empty"}
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

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration. It fails fast: a non-positive page
// capacity or wrap width cannot be degraded around.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return &InvalidConfigurationError{
			Message: "configuration failed validation",
			Cause:   err,
		}
	}
	return nil
}
