package ytdlp

import (
	"fmt"
	"time"
)

// Probe modes.
const (
	ProbeText = "text"
	ProbeJSON = "json"
)

// DefaultBinary is looked up on PATH when no binary is configured.
const DefaultBinary = "yt-dlp"

// Config holds downloader settings.
type Config struct {
	// Binary is the yt-dlp executable path or name.
	Binary string `yaml:"binary" mapstructure:"binary"`
	// Probe selects how caption availability is detected: "text" scans the
	// --list-subs listing for marker strings, "json" reads the -J metadata.
	Probe string `yaml:"probe" mapstructure:"probe"`
	// Timeout bounds every yt-dlp invocation. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// GracePeriod is the wait between SIGTERM and SIGKILL on cancellation.
	GracePeriod time.Duration `yaml:"grace_period" mapstructure:"grace_period"`
	// ExtraArgs are inserted before the URL on every call (cookies, proxy).
	ExtraArgs []string `yaml:"extra_args" mapstructure:"extra_args"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Binary == "" {
		c.Binary = DefaultBinary
	}
	if c.Probe == "" {
		c.Probe = ProbeText
	}
	if c.GracePeriod == 0 {
		c.GracePeriod = 5 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Binary == "" {
		return fmt.Errorf("downloader.binary is required")
	}
	if c.Probe != ProbeText && c.Probe != ProbeJSON {
		return fmt.Errorf("downloader.probe must be %q or %q, got %q", ProbeText, ProbeJSON, c.Probe)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("downloader.timeout must not be negative")
	}
	return nil
}
