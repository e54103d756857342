// Package app assembles the transcript service: typed configuration, the
// resolver with its downloader and speech backend, telemetry, tool checks
// and the HTTP server.
package app

import (
	"fmt"
	"time"

	"github.com/kbukum/ytranscript/auth"
	"github.com/kbukum/ytranscript/config"
	"github.com/kbukum/ytranscript/observability"
	"github.com/kbukum/ytranscript/server"
	"github.com/kbukum/ytranscript/transcript"
	"github.com/kbukum/ytranscript/transcription/localwhisper"
	"github.com/kbukum/ytranscript/transcription/whisper"
	"github.com/kbukum/ytranscript/ytdlp"
)

// ServiceName is the config and env namespace of the service.
const ServiceName = "ytranscript"

// Config is the full service configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Resolver      transcript.Config    `yaml:"resolver" mapstructure:"resolver"`
	Speech        SpeechConfig         `yaml:"speech" mapstructure:"speech"`
	Downloader    ytdlp.Config         `yaml:"downloader" mapstructure:"downloader"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Auth          auth.Config          `yaml:"auth" mapstructure:"auth"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// SpeechConfig selects and configures the speech-to-text backend used by
// the fallback.
type SpeechConfig struct {
	// Backend is "local" (whisper CLI) or "http" (faster-whisper sidecar).
	Backend string `yaml:"backend" mapstructure:"backend"`
	// Model is the model size ("tiny", "base", "small", ...).
	Model string `yaml:"model" mapstructure:"model"`
	// Binary is the whisper executable for the local backend.
	Binary string `yaml:"binary" mapstructure:"binary"`
	// URL is the sidecar base URL for the http backend.
	URL         string        `yaml:"url" mapstructure:"url"`
	Device      string        `yaml:"device" mapstructure:"device"`
	ComputeType string        `yaml:"compute_type" mapstructure:"compute_type"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ApplyDefaults sets default values for unset fields.
func (c *SpeechConfig) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = localwhisper.ProviderName
	}
	if c.Model == "" {
		c.Model = "base"
	}
	if c.Binary == "" {
		c.Binary = "whisper"
	}
}

// Validate checks the configuration.
func (c *SpeechConfig) Validate() error {
	switch c.Backend {
	case localwhisper.ProviderName, whisper.ProviderName:
	default:
		return fmt.Errorf("speech.backend must be %q or %q, got %q", localwhisper.ProviderName, whisper.ProviderName, c.Backend)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("speech.timeout must not be negative")
	}
	return nil
}

// Options returns the factory options for the selected backend.
func (c *SpeechConfig) Options() map[string]any {
	return map[string]any{
		"model":        c.Model,
		"binary":       c.Binary,
		"url":          c.URL,
		"device":       c.Device,
		"compute_type": c.ComputeType,
		"timeout":      c.Timeout,
	}
}

// ApplyDefaults applies defaults to every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = ServiceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Speech.ApplyDefaults()
	if c.Resolver.Model == "" {
		c.Resolver.Model = c.Speech.Model
	}
	c.Resolver.ApplyDefaults()
	c.Downloader.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Auth.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate validates every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Resolver.Validate(); err != nil {
		return err
	}
	if err := c.Speech.Validate(); err != nil {
		return err
	}
	if err := c.Downloader.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.Observability.Validate()
}

// Load reads the configuration from file, .env and YTRANSCRIPT_* variables.
// An empty path searches the default locations.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	opts := []config.LoaderOption{config.WithEnvPrefix(ServiceName)}
	if path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	if err := config.LoadConfig(ServiceName, cfg, opts...); err != nil {
		return nil, err
	}
	return cfg, nil
}
