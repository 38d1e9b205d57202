package config

import (
	"fmt"
	"time"

	"github.com/yildizm/bfhl/internal/bfhl/client"
	"github.com/yildizm/bfhl/internal/filter"
)

// Config holds the complete application configuration
type Config struct {
	Version string       `yaml:"version" json:"version"`
	Client  ClientConfig `yaml:"client" json:"client"`
	Filters FilterConfig `yaml:"filters" json:"filters"`
	Output  OutputConfig `yaml:"output" json:"output"`
	UI      UIConfig     `yaml:"ui" json:"ui"`
}

// ClientConfig configures the remote service client
type ClientConfig struct {
	Endpoint   string        `yaml:"endpoint" json:"endpoint"`       // service URL
	Timeout    time.Duration `yaml:"timeout" json:"timeout"`         // 0 = no deadline
	MaxRetries int           `yaml:"max_retries" json:"max_retries"` // retry count, 0 = single attempt
}

// FilterConfig configures the preselected filters
type FilterConfig struct {
	Default []string `yaml:"default" json:"default"`
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // text|json|markdown
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Verbose       bool   `yaml:"verbose" json:"verbose"`
	NoEmoji       bool   `yaml:"no_emoji" json:"no_emoji"`
}

// UIConfig configures the terminal widget
type UIConfig struct {
	Theme string `yaml:"theme" json:"theme"` // default|high-contrast|minimal
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Client: ClientConfig{
			Endpoint:   client.DefaultEndpoint,
			Timeout:    client.DefaultTimeout,
			MaxRetries: client.DefaultMaxRetries,
		},
		Filters: FilterConfig{
			Default: []string{},
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
		},
		UI: UIConfig{
			Theme: "default",
		},
	}
}

// ClientSettings converts the client section for the client package
func (c *Config) ClientSettings() *client.Config {
	return &client.Config{
		Endpoint:   c.Client.Endpoint,
		Timeout:    c.Client.Timeout,
		MaxRetries: c.Client.MaxRetries,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateClientConfig(); err != nil {
		return err
	}
	if err := c.validateFilterConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	return c.validateUIConfig()
}

// validateClientConfig validates the remote client settings
func (c *Config) validateClientConfig() error {
	if err := c.ClientSettings().Validate(); err != nil {
		return fmt.Errorf("client: %w", err)
	}
	return nil
}

// validateFilterConfig rejects unknown default filters
func (c *Config) validateFilterConfig() error {
	for _, name := range c.Filters.Default {
		if _, ok := filter.Normalize(name); !ok {
			return fmt.Errorf("unknown default filter: %s", name)
		}
	}
	return nil
}

// ValidFormats lists the supported output formats
var ValidFormats = []string{"text", "json", "markdown"}

// ValidThemes lists the supported UI themes
var ValidThemes = []string{"default", "high-contrast", "minimal"}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" && !contains(ValidFormats, c.Output.DefaultFormat) {
		return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown)", c.Output.DefaultFormat)
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	return nil
}

// validateUIConfig validates the theme name
func (c *Config) validateUIConfig() error {
	if c.UI.Theme != "" && !contains(ValidThemes, c.UI.Theme) {
		return fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, minimal)", c.UI.Theme)
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
