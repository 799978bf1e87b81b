// Package http builds retrying HTTP clients for the outbound integrations
// (RPC nodes, the shielded-pool relayer, the Telegram Bot API). It wraps
// HashiCorp's retryablehttp.Client behind functional options.
package http

import (
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	defaultTimeout      = 5 * time.Second
	defaultRetryWaitMin = 1 * time.Second
	defaultRetryWaitMax = 5 * time.Second
	defaultRetryMax     = 2
)

// config holds the client's tunables.
type config struct {
	timeout      time.Duration // per-request deadline
	retryWaitMin time.Duration // minimum backoff between attempts
	retryWaitMax time.Duration // maximum backoff between attempts
	retryMax     int           // retries after the first attempt
}

// Option overrides a default client setting.
type Option func(*config)

// NewClient returns a retryablehttp.Client with the library's internal
// logging disabled and the package defaults applied: a 5s request timeout
// and up to 2 retries backing off between 1s and 5s.
func NewClient(opts ...Option) *retryablehttp.Client {
	cfg := config{
		timeout:      defaultTimeout,
		retryWaitMin: defaultRetryWaitMin,
		retryWaitMax: defaultRetryWaitMax,
		retryMax:     defaultRetryMax,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	client := retryablehttp.NewClient()
	client.Logger = nil
	client.HTTPClient.Timeout = cfg.timeout
	client.RetryWaitMin = cfg.retryWaitMin
	client.RetryWaitMax = cfg.retryWaitMax
	client.RetryMax = cfg.retryMax
	return client
}

// WithTimeout sets the per-request deadline. Default: 5s.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithRetryWaitMin sets the minimum backoff between attempts. Default: 1s.
func WithRetryWaitMin(d time.Duration) Option {
	return func(c *config) {
		c.retryWaitMin = d
	}
}

// WithRetryWaitMax sets the maximum backoff between attempts. Default: 5s.
func WithRetryWaitMax(d time.Duration) Option {
	return func(c *config) {
		c.retryWaitMax = d
	}
}

// WithRetryMax sets how many times a failed request is retried. Default: 2.
func WithRetryMax(n int) Option {
	return func(c *config) {
		c.retryMax = n
	}
}
