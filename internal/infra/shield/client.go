// Package shield implements the balances.ShieldedClient interface over the
// shielded-pool relayer's JSON-RPC API.
//
// The relayer rate-limits aggressively. Rate-limited calls are retried with a
// linearly growing delay before the error is surfaced to callers; every other
// failure propagates immediately.
package shield

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/pvtsol/shieldwatch/internal/balances"
	"github.com/pvtsol/shieldwatch/internal/pkg/resilience/retry"
	"github.com/pvtsol/shieldwatch/internal/pkg/transport/jsonrpc"
	"github.com/pvtsol/shieldwatch/internal/walletregistry"
)

const (
	// defaultRateLimitAttempts is the total number of tries for a
	// rate-limited call.
	defaultRateLimitAttempts = 3

	// defaultRateLimitBaseDelay is the delay unit between retries: the n-th
	// retry waits n times this value.
	defaultRateLimitBaseDelay = 500 * time.Millisecond
)

// config holds the dialer's retry tuning.
type config struct {
	rateLimitAttempts  uint
	rateLimitBaseDelay time.Duration
}

// Option overrides a default dialer setting.
type Option func(*config)

// WithRateLimitAttempts sets the total number of tries for rate-limited
// calls.
func WithRateLimitAttempts(n uint) Option {
	return func(c *config) {
		c.rateLimitAttempts = n
	}
}

// WithRateLimitBaseDelay sets the delay unit between rate-limit retries.
func WithRateLimitBaseDelay(d time.Duration) Option {
	return func(c *config) {
		c.rateLimitBaseDelay = d
	}
}

// dialer builds shielded-pool clients bound to a wallet address, sharing one
// relayer connection and one retry policy across all of them.
type dialer struct {
	conn    jsonrpc.Client
	retrier retry.Retry
}

// Ensure dialer implements the walletregistry.ShieldedDialer interface at
// compile time.
var _ walletregistry.ShieldedDialer = (*dialer)(nil)

// NewDialer creates a shielded-pool dialer using the provided JSON-RPC
// connection to the relayer.
func NewDialer(conn jsonrpc.Client, opts ...Option) *dialer {
	cfg := config{
		rateLimitAttempts:  defaultRateLimitAttempts,
		rateLimitBaseDelay: defaultRateLimitBaseDelay,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &dialer{
		conn: conn,
		retrier: retry.New(
			retry.WithAttempts(cfg.rateLimitAttempts),
			retry.WithDelay(cfg.rateLimitBaseDelay),
			retry.WithLinearDelay(),
			retry.WithRetryIf(isRateLimited),
			retry.WithLastErrorOnly(true),
		),
	}
}

// ClientFor returns a shielded-pool client scoped to the given wallet
// address.
func (d *dialer) ClientFor(address string) balances.ShieldedClient {
	return &client{
		conn:    d.conn,
		retrier: d.retrier,
		address: address,
	}
}

// client reads one wallet's balances inside the privacy pool.
type client struct {
	conn    jsonrpc.Client
	retrier retry.Retry
	address string
}

// Ensure client implements the balances.ShieldedClient interface at compile
// time.
var _ balances.ShieldedClient = (*client)(nil)

// shieldedBalanceResponse represents the relayer's balance result. Balance is
// a base-unit integer encoded as a string; a wallet with no shielded deposits
// yields null.
type shieldedBalanceResponse struct {
	Balance *string `json:"balance"`
}

// PrivateBalance returns the wallet's shielded SOL balance in lamports.
func (c *client) PrivateBalance(ctx context.Context) (uint64, error) {
	return c.fetchBalance(ctx, "getShieldedBalance", c.address)
}

// PrivateTokenBalance returns the wallet's shielded balance for the given
// mint in base units.
func (c *client) PrivateTokenBalance(ctx context.Context, mint string) (uint64, error) {
	return c.fetchBalance(ctx, "getShieldedTokenBalance", c.address, mint)
}

// fetchBalance performs one relayer call under the rate-limit retry policy.
// A null balance means the wallet never deposited: zero, not an error.
func (c *client) fetchBalance(ctx context.Context, method string, params ...any) (uint64, error) {
	var balance uint64

	err := c.retrier.Execute(ctx, func() error {
		data, err := c.conn.Fetch(ctx, method, params...)
		if err != nil {
			return err
		}

		var resp shieldedBalanceResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return err
		}

		if resp.Balance == nil {
			balance = 0
			return nil
		}

		balance, err = strconv.ParseUint(*resp.Balance, 10, 64)
		return err
	})

	return balance, err
}

// isRateLimited reports whether the error chain describes a relayer rate
// limit, matched loosely on the HTTP status code or its reason phrase.
func isRateLimited(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "too many requests")
}
