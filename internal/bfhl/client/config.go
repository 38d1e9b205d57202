package client

import (
	"fmt"
	"net/url"
	"time"
)

const (
	// DefaultEndpoint is the service the widget was built against
	DefaultEndpoint   = "https://akshat-bajaj-backend-1.onrender.com/bfhl"
	DefaultTimeout    = time.Duration(0) // transport default, no deadline
	DefaultMaxRetries = 0
	// MaxResponseBytes caps how much of a response body is read
	MaxResponseBytes = 10 << 20
)

// Config configures the remote client
type Config struct {
	Endpoint   string        `json:"endpoint"`
	Timeout    time.Duration `json:"timeout"`
	MaxRetries int           `json:"max_retries"`
}

// DefaultConfig returns the built-in client settings
func DefaultConfig() *Config {
	return &Config{
		Endpoint:   DefaultEndpoint,
		Timeout:    DefaultTimeout,
		MaxRetries: DefaultMaxRetries,
	}
}

// Validate checks the client settings
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}

	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint must include a host")
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}
	return nil
}
