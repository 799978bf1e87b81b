// Package balances implements the balance-read coordination layer: a cached,
// queue-serialized view over the rate-limited upstream balance sources.
//
// Reads are cache-first with a short TTL; misses and forced refreshes go
// through a request queue that bounds global concurrency and guarantees
// at most one in-flight fetch per user. Mutating operations elsewhere in the
// application must invalidate the user's cache so the next read reflects the
// new state.
package balances

import (
	"context"
	"time"

	"github.com/pvtsol/shieldwatch/internal/pkg/cache"
	"github.com/pvtsol/shieldwatch/internal/pkg/requestqueue"
)

const (
	// Queue priorities: the fast path preempts pending full-snapshot
	// fetches at the next scheduling decision.
	priorityFull = 1
	priorityFast = 2
)

// Service is the read entry point for user balances.
type Service interface {
	// GetBalances returns the user's full balance snapshot, serving from
	// cache unless forceRefresh is set. It returns (nil, nil) when the
	// user has no registered wallet.
	GetBalances(ctx context.Context, chatID int64, forceRefresh bool) (*Snapshot, error)

	// GetFastBalance returns only the native-asset public/private pair,
	// with its own shorter TTL and a higher queue priority. It returns
	// (nil, nil) when the user has no registered wallet.
	GetFastBalance(ctx context.Context, chatID int64) (*AssetBalance, error)

	// InvalidateCache drops every cached balance for the user. Call it
	// after any successful mutating operation so the next read bypasses
	// pre-transaction figures even inside the TTL window.
	InvalidateCache(chatID int64)

	// Disconnect drops the user's cached balances and removes any of its
	// not-yet-started queued fetches. An already-executing fetch is not
	// canceled.
	Disconnect(chatID int64)

	// Close stops the cache sweepers and rejects further queued work.
	Close()
}

type service struct {
	registry WalletRegistry
	chain    ChainReader
	tokens   []Token

	snapshots *cache.Cache[int64, Snapshot]
	fast      *cache.Cache[int64, AssetBalance]
	queue     *requestqueue.Queue[int64]
}

var _ Service = (*service)(nil)

// config holds construction-time settings for the coordinator.
type config struct {
	snapshotTTL   time.Duration
	fastTTL       time.Duration
	sweepInterval time.Duration
	maxConcurrent int
}

// Option configures the coordinator before construction.
type Option func(*config)

// WithSnapshotTTL sets how long a full snapshot stays cached. Default: 30s.
func WithSnapshotTTL(d time.Duration) Option {
	return func(c *config) {
		c.snapshotTTL = d
	}
}

// WithFastTTL sets how long a fast native-asset balance stays cached.
// Default: 15s.
func WithFastTTL(d time.Duration) Option {
	return func(c *config) {
		c.fastTTL = d
	}
}

// WithCacheSweepInterval sets how often expired cache entries are reaped.
// Default: 60s.
func WithCacheSweepInterval(d time.Duration) Option {
	return func(c *config) {
		c.sweepInterval = d
	}
}

// WithMaxConcurrentFetches bounds how many upstream fetches may run at once
// across all users. Default: 3.
func WithMaxConcurrentFetches(n int) Option {
	return func(c *config) {
		c.maxConcurrent = n
	}
}

// New creates the balance coordinator over the given registry, chain reader,
// and supported token list.
func New(registry WalletRegistry, chain ChainReader, tokens []Token, opts ...Option) *service {
	cfg := config{
		snapshotTTL:   30 * time.Second,
		fastTTL:       15 * time.Second,
		sweepInterval: 60 * time.Second,
		maxConcurrent: 3,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &service{
		registry: registry,
		chain:    chain,
		tokens:   tokens,
		snapshots: cache.New[int64, Snapshot](
			cache.WithTTL(cfg.snapshotTTL),
			cache.WithSweepInterval(cfg.sweepInterval),
		),
		fast: cache.New[int64, AssetBalance](
			cache.WithTTL(cfg.fastTTL),
			cache.WithSweepInterval(cfg.sweepInterval),
		),
		queue: requestqueue.New[int64](requestqueue.WithMaxConcurrent(cfg.maxConcurrent)),
	}
}

// GetBalances implements the primary read path: cache hit fast-path, then a
// queued fetch that re-checks the cache before touching the upstream (a
// concurrent caller may have populated it while this one waited its turn).
func (s *service) GetBalances(ctx context.Context, chatID int64, forceRefresh bool) (*Snapshot, error) {
	if !forceRefresh {
		if snap, ok := s.snapshots.Get(chatID); ok {
			return &snap, nil
		}
	}

	var result *Snapshot
	err := s.queue.Do(ctx, chatID, priorityFull, func(ctx context.Context) error {
		if !forceRefresh {
			if snap, ok := s.snapshots.Get(chatID); ok {
				result = &snap
				return nil
			}
		}

		wallet, err := s.registry.Wallet(ctx, chatID)
		if err != nil {
			return err
		}
		if wallet == nil {
			return nil
		}

		snap, err := s.fetchSnapshot(ctx, *wallet)
		if err != nil {
			return err
		}

		s.snapshots.Set(chatID, snap)
		result = &snap
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetFastBalance implements the native-asset-only fast path.
func (s *service) GetFastBalance(ctx context.Context, chatID int64) (*AssetBalance, error) {
	if balance, ok := s.fast.Get(chatID); ok {
		return &balance, nil
	}

	var result *AssetBalance
	err := s.queue.Do(ctx, chatID, priorityFast, func(ctx context.Context) error {
		if balance, ok := s.fast.Get(chatID); ok {
			result = &balance
			return nil
		}

		wallet, err := s.registry.Wallet(ctx, chatID)
		if err != nil {
			return err
		}
		if wallet == nil {
			return nil
		}

		balance, err := s.fetchFastBalance(ctx, *wallet)
		if err != nil {
			return err
		}

		s.fast.Set(chatID, balance)
		result = &balance
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// InvalidateCache drops both cached resources for the user.
func (s *service) InvalidateCache(chatID int64) {
	s.snapshots.Delete(chatID)
	s.fast.Delete(chatID)
}

// Disconnect drops the user's caches and queued work.
func (s *service) Disconnect(chatID int64) {
	s.InvalidateCache(chatID)
	s.queue.ClearKey(chatID)
}

// Close shuts down the caches and the queue.
func (s *service) Close() {
	s.snapshots.Close()
	s.fast.Close()
	s.queue.Close()
}
