package analytics

import (
	"fmt"
	"net/url"
	"time"
)

// Config contains configuration for the analytics client.
type Config struct {
	// BaseURL is the root of the analytics service, e.g. http://localhost:8787
	BaseURL string

	// Timeout bounds each HTTP request
	// Default: 60 seconds (model fitting is slow)
	Timeout time.Duration

	// MaxAttempts is how many times a request is tried when the network fails
	// Default: 2
	MaxAttempts int
}

// Validate checks that required config fields are set.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("BaseURL is required")
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("BaseURL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("BaseURL must be an http or https URL")
	}
	if u.Host == "" {
		return fmt.Errorf("BaseURL must include a host")
	}

	return nil
}

// SetDefaults fills in default values for optional fields.
func (c *Config) SetDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 60 * time.Second
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 2
	}
}
