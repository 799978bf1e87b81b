// Package balancewatch implements the periodic balance monitor: a scheduled
// sweep over every opted-in user that polls the balance coordinator, diffs
// each result against the last seen snapshot, and sends an aggregated
// change notification when anything moved.
package balancewatch

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pvtsol/shieldwatch/internal/balances"
	"github.com/pvtsol/shieldwatch/internal/pkg/logger"
	"github.com/pvtsol/shieldwatch/internal/pkg/types"
	"github.com/pvtsol/shieldwatch/internal/pkg/x/chflow"
)

// notificationHeader introduces every aggregated change message.
const notificationHeader = "Balance change detected:"

// Service defines the monitor lifecycle and its snapshot maintenance hooks.
type Service interface {
	// Start launches the recurring sweep. Calling Start on an already
	// running monitor logs a warning and does nothing.
	Start(ctx context.Context) error

	// Close stops the sweep timer. It is safe to call Close even if the
	// monitor was never started.
	Close()

	// RefreshUserBalance forces a fresh fetch and overwrites the stored
	// baseline. Call it right after a mutating operation so the next tick
	// diffs against post-transaction state instead of re-reporting the
	// transaction's own effect.
	RefreshUserBalance(ctx context.Context, chatID int64) error

	// ClearUserBalance drops the stored baseline, so a future reconnect
	// starts fresh rather than diffing against another wallet's figures.
	ClearUserBalance(chatID int64)
}

// closeFunc defines a cleanup routine to stop the sweep goroutine.
type closeFunc func()

type service struct {
	mu        sync.Mutex // protects lifecycle state
	isStarted bool
	closeFunc closeFunc

	// sweepMu is try-acquired per tick: if a previous sweep is still
	// running, the tick is skipped rather than overlapped.
	sweepMu sync.Mutex

	balances BalanceSource
	users    UserSource
	notifier Notifier

	decimals map[string]uint8 // token symbol -> base-unit decimals

	pollInterval time.Duration
	userDelay    time.Duration

	// previous holds the last seen snapshot per user, owned exclusively
	// by the monitor.
	snapMu   sync.Mutex
	previous map[int64]balances.Snapshot
}

var _ Service = (*service)(nil)

// config holds construction-time settings for the monitor.
type config struct {
	pollInterval time.Duration
	userDelay    time.Duration
}

// Option configures the monitor before construction.
type Option func(*config)

// WithPollInterval sets how often a sweep is started. Default: 60s.
func WithPollInterval(d time.Duration) Option {
	return func(c *config) {
		c.pollInterval = d
	}
}

// WithUserDelay sets the pause between consecutive users inside one sweep,
// throttling the upstream request rate. Default: 1s.
func WithUserDelay(d time.Duration) Option {
	return func(c *config) {
		c.userDelay = d
	}
}

// New creates the balance monitor over the given balance source, user
// source, and notifier. The token list supplies the decimals used when
// rendering change lines.
func New(bs BalanceSource, us UserSource, n Notifier, tokens []balances.Token, opts ...Option) *service {
	cfg := config{
		pollInterval: 60 * time.Second,
		userDelay:    1 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	decimals := make(map[string]uint8, len(tokens))
	for _, token := range tokens {
		decimals[token.Symbol] = token.Decimals
	}

	return &service{
		balances:     bs,
		users:        us,
		notifier:     n,
		decimals:     decimals,
		pollInterval: cfg.pollInterval,
		userDelay:    cfg.userDelay,
		previous:     make(map[int64]balances.Snapshot),
	}
}

// Start launches the recurring sweep goroutine.
func (s *service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isStarted {
		logger.Warn(ctx, "balance monitor already started")
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	go s.run(ctx)

	s.closeFunc = closeFunc(cancel)
	s.isStarted = true
	return nil
}

// Close stops the sweep timer and marks the monitor stopped.
func (s *service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closeFunc != nil {
		s.closeFunc()
	}
	s.closeFunc = nil
	s.isStarted = false
}

// run ticks until the context is canceled. Each tick launches a sweep in its
// own goroutine; the sweep itself decides whether the previous one is still
// running and skips if so.
func (s *service) run(ctx context.Context) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		if _, ok := chflow.Receive(ctx, ticker.C); !ok {
			return
		}

		go s.sweep(ctx)
	}
}

// sweep checks every opted-in user once, sequentially, throttled by the
// configured inter-user delay. One user's failure never aborts the sweep.
func (s *service) sweep(ctx context.Context) {
	if !s.sweepMu.TryLock() {
		logger.Debug(ctx, "previous balance sweep still running, skipping tick")
		return
	}
	defer s.sweepMu.Unlock()

	users, err := s.users.MonitoredUsers(ctx)
	if err != nil {
		logger.Error(ctx, "failed to list monitored users", "error", err)
		return
	}

	monitored := types.NewSet[int64]()
	for _, user := range users {
		if user.MonitoringEnabled {
			monitored.Add(user.ChatID)
		}
	}
	s.pruneBaselines(monitored)

	for _, user := range users {
		if !user.MonitoringEnabled {
			continue
		}

		s.checkUser(ctx, user.ChatID)

		if !sleep(ctx, s.userDelay) {
			return
		}
	}
}

// pruneBaselines drops the stored baseline of every user that is no longer
// swept, whether monitoring was disabled or the registration disappeared.
// A surviving baseline would otherwise be diffed after a re-enable or a
// re-register, reporting movement from the unmonitored gap as a change.
func (s *service) pruneBaselines(monitored types.Set[int64]) {
	s.snapMu.Lock()
	defer s.snapMu.Unlock()

	for chatID := range s.previous {
		if !monitored.Contains(chatID) {
			delete(s.previous, chatID)
		}
	}
}

// checkUser polls one user's balances and notifies on change. Fetch and
// delivery failures are logged and isolated to this user.
func (s *service) checkUser(ctx context.Context, chatID int64) {
	snap, err := s.balances.GetBalances(ctx, chatID, false)
	if err != nil {
		logger.Warn(ctx, "balance fetch failed during sweep",
			"chat.id", chatID,
			"error", err,
		)
		return
	}
	if snap == nil {
		return
	}

	s.compareAndNotify(ctx, chatID, *snap)
}

// compareAndNotify diffs the current snapshot against the stored baseline,
// replaces the baseline unconditionally, and sends a single aggregated
// message when at least one field changed. The first observation only
// establishes the baseline.
func (s *service) compareAndNotify(ctx context.Context, chatID int64, cur balances.Snapshot) {
	s.snapMu.Lock()
	prev, hasBaseline := s.previous[chatID]
	s.previous[chatID] = cur
	s.snapMu.Unlock()

	if !hasBaseline {
		logger.Debug(ctx, "stored first balance snapshot", "chat.id", chatID)
		return
	}

	lines := diffSnapshots(prev, cur, s.decimals)
	if len(lines) == 0 {
		return
	}

	text := notificationHeader + "\n" + strings.Join(lines, "\n")
	if err := s.notifier.SendMessage(ctx, chatID, text); err != nil {
		logger.Warn(ctx, "balance change notification delivery failed",
			"chat.id", chatID,
			"error", err,
		)
	}
}

// RefreshUserBalance forces a fetch and overwrites the baseline. A user
// whose wallet disappeared has its baseline dropped instead.
func (s *service) RefreshUserBalance(ctx context.Context, chatID int64) error {
	snap, err := s.balances.GetBalances(ctx, chatID, true)
	if err != nil {
		return err
	}

	s.snapMu.Lock()
	defer s.snapMu.Unlock()

	if snap == nil {
		delete(s.previous, chatID)
		return nil
	}

	s.previous[chatID] = *snap
	return nil
}

// ClearUserBalance drops the stored baseline for the user.
func (s *service) ClearUserBalance(chatID int64) {
	s.snapMu.Lock()
	defer s.snapMu.Unlock()

	delete(s.previous, chatID)
}

// sleep waits for the given duration or until the context is canceled,
// returning false on cancellation.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	_, ok := chflow.Receive(ctx, timer.C)
	return ok
}
