package transcript

import (
	"fmt"

	"golang.org/x/text/language"
)

// DefaultLanguage is requested when neither the config nor the caller
// names a language.
const DefaultLanguage = "en"

// Config controls the fallback chain.
type Config struct {
	// Language is the caption and recognition language (BCP 47).
	Language string `yaml:"language" mapstructure:"language"`
	// FallbackEnabled turns on speech recognition when no captions are obtained.
	FallbackEnabled bool `yaml:"fallback_enabled" mapstructure:"fallback_enabled"`
	// StrictToolErrors fails the request on a downloader failure instead of
	// treating it as a missing source.
	StrictToolErrors bool `yaml:"strict_tool_errors" mapstructure:"strict_tool_errors"`
	// Model is the speech model size passed to the provider ("base", "small").
	Model string `yaml:"model" mapstructure:"model"`
	// TempDir is the parent for per-request work directories. Empty uses
	// the system temp dir.
	TempDir string `yaml:"temp_dir" mapstructure:"temp_dir"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := ValidateLanguage(c.Language); err != nil {
		return fmt.Errorf("resolver.language: %w", err)
	}
	return nil
}

// ValidateLanguage checks that lang parses as a BCP 47 tag.
func ValidateLanguage(lang string) error {
	if lang == "" {
		return fmt.Errorf("language is required")
	}
	if _, err := language.Parse(lang); err != nil {
		return fmt.Errorf("invalid language %q: %w", lang, err)
	}
	return nil
}
