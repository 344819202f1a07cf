package httpclient

import (
	"fmt"
	"time"

	"github.com/kbukum/wispchat/resilience"
)

const (
	defaultTimeout = 120 * time.Second
)

// Config configures the HTTP client.
type Config struct {
	// BaseURL is the base URL prepended to all request paths.
	BaseURL string

	// Timeout is the request timeout for non-streaming calls. Defaults to 120s.
	// Streaming calls ignore it; cancellation comes from the context.
	Timeout time.Duration

	// Auth configures default authentication applied to all requests.
	// Individual requests can override this.
	Auth *AuthConfig

	// Headers are default headers applied to all requests.
	Headers map[string]string

	// Retry configures retry behavior. Nil disables retry.
	Retry *resilience.RetryConfig
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("httpclient: base URL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	return nil
}

// DefaultRetryConfig returns a retry config that retries the transient
// error classes (timeout, connection, rate limit, 5xx) and nothing else.
func DefaultRetryConfig() *resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.RetryIf = IsRetryable
	return &cfg
}
