package httpapi

import (
	"net/http"
	"time"

	"github.com/petal-labs/ocbot/core"
)

// Config holds the configuration for the HTTP runtime.
type Config struct {
	// Token authorizes actions whose context carries no token of its own.
	Token core.Secret

	// BaseURL is the platform API root. When empty, the APIGateway of each
	// action context is used.
	BaseURL string

	// HTTPClient is the HTTP client to use for requests.
	// Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Headers contains additional HTTP headers to include in requests.
	Headers http.Header

	// Timeout bounds every request. Zero means no timeout beyond ctx.
	Timeout time.Duration
}

// Option is a function that configures the HTTP runtime.
type Option func(*Config)

// WithBaseURL sets the platform API root, overriding the context gateway.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithHeader adds an HTTP header to every request.
func WithHeader(key, value string) Option {
	return func(c *Config) {
		if c.Headers == nil {
			c.Headers = make(http.Header)
		}
		c.Headers.Add(key, value)
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}
