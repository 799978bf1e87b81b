// Package retry provides a configurable retry mechanism for operations that may fail temporarily.
// It wraps the retry-go package from Avast and exposes a simple interface with functional
// options for customizing retry behavior.
//
// The package implements an exponential backoff strategy by default. For upstreams whose
// rate limiting expects a steadily growing wait (attempt * delay), WithLinearDelay switches
// the strategy to linear backoff. WithRetryIf restricts retries to errors matching a
// caller-supplied predicate, so permanent failures surface immediately.
//
// Basic usage:
//
//	r := retry.New()
//	err := r.Execute(context.Background(), func() error {
//	    return someOperation()
//	})
package retry

import (
	"context"
	"time"

	retry "github.com/avast/retry-go/v4"
)

// Retry defines the interface for retry operations.
// Implementations of this interface provide a mechanism to execute operations
// with automatic retry logic in case of failures.
type Retry interface {
	// Execute runs the given function with configured retry logic.
	//
	// The context allows for cancellation and timeout control. If the context
	// is canceled or times out, the operation will stop retrying and return
	// the context error.
	//
	// The operation function should be idempotent and should return nil on
	// success or an error on failure.
	Execute(ctx context.Context, operation func() error) error
}

// config holds internal settings for the retry mechanism.
type config struct {
	attempts    uint             // maximum number of attempts, including the first
	delay       time.Duration    // base delay between retry attempts
	maxDelay    time.Duration    // maximum delay between retry attempts
	lastErrOnly bool             // whether to return only the last error
	linearDelay bool             // linear (attempt * delay) instead of exponential backoff
	retryIf     func(error) bool // predicate deciding whether an error is retryable
}

// Option defines a functional option for configuring the retry mechanism.
// Options are applied in the order they are provided to New().
type Option func(*config)

// retrier implements the Retry interface using the retry-go package.
type retrier struct {
	cfg config
}

// Compile-time assertion that retrier implements Retry interface
var _ Retry = (*retrier)(nil)

// New creates and returns a Retry implementation configured with
// the provided options. If no options are given, default values are used.
//
// Default configuration:
//   - attempts:    3 (1 initial attempt + 2 retries)
//   - delay:       1 second
//   - maxDelay:    5 seconds
//   - lastErrOnly: true
//   - delayType:   exponential backoff (see WithLinearDelay)
//   - retryIf:     every error is retryable (see WithRetryIf)
func New(opts ...Option) Retry {
	cfg := config{
		attempts:    3,
		delay:       1 * time.Second,
		maxDelay:    5 * time.Second,
		lastErrOnly: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &retrier{
		cfg: cfg,
	}
}

// Execute implements the Retry interface.
// It runs the given operation with retry logic according to the configured parameters.
func (r *retrier) Execute(ctx context.Context, operation func() error) error {
	delayType := retry.BackOffDelay
	if r.cfg.linearDelay {
		delayType = linearDelay
	}

	options := []retry.Option{
		retry.Attempts(r.cfg.attempts),
		retry.Delay(r.cfg.delay),
		retry.MaxDelay(r.cfg.maxDelay),
		retry.DelayType(delayType),
		retry.LastErrorOnly(r.cfg.lastErrOnly),
		retry.Context(ctx),
	}

	if r.cfg.retryIf != nil {
		options = append(options, retry.RetryIf(r.cfg.retryIf))
	}

	return retry.Do(operation, options...)
}

// linearDelay grows the wait proportionally to the attempt number:
// the wait before retry n is (n+1) * base delay.
func linearDelay(n uint, _ error, config *retry.Config) time.Duration {
	return time.Duration(n+1) * retry.FixedDelay(0, nil, config)
}

// WithAttempts sets the maximum number of attempts (including the initial attempt).
// Default: 3 (1 initial attempt + 2 retries).
func WithAttempts(n uint) Option {
	return func(c *config) {
		c.attempts = n
	}
}

// WithDelay sets the base delay between retry attempts.
// Default: 1 second.
func WithDelay(d time.Duration) Option {
	return func(c *config) {
		c.delay = d
	}
}

// WithMaxDelay sets the maximum delay between retry attempts.
// This caps the growth of the delay to prevent excessively long waits.
// Default: 5 seconds.
func WithMaxDelay(d time.Duration) Option {
	return func(c *config) {
		c.maxDelay = d
	}
}

// WithLastErrorOnly sets whether to return only the last error.
// When false, all errors from all attempts are combined.
// Default: true.
func WithLastErrorOnly(b bool) Option {
	return func(c *config) {
		c.lastErrOnly = b
	}
}

// WithLinearDelay switches the delay strategy from exponential backoff to a
// linear one, where the wait before the n-th retry is n * base delay.
func WithLinearDelay() Option {
	return func(c *config) {
		c.linearDelay = true
	}
}

// WithRetryIf restricts retries to errors for which the given predicate
// returns true. Any other error is returned immediately without further
// attempts.
func WithRetryIf(f func(error) bool) Option {
	return func(c *config) {
		c.retryIf = f
	}
}
