package balancewatch

import (
	"context"

	"github.com/pvtsol/shieldwatch/internal/balances"
)

// Notifier delivers balance-change messages to users.
//
// Delivery failures (for example, the user blocked the bot) are logged by the
// monitor and never retried; they must not affect other users or future
// sweeps.
type Notifier interface {
	// SendMessage sends the given text to the chat identified by chatID.
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// BalanceSource is the read path the monitor polls. It is satisfied by the
// balance coordinator.
type BalanceSource interface {
	// GetBalances returns the user's balance snapshot, or (nil, nil) when
	// the user has no registered wallet.
	GetBalances(ctx context.Context, chatID int64, forceRefresh bool) (*balances.Snapshot, error)
}

// UserSource lists the users eligible for monitoring. It is satisfied by the
// wallet registry.
type UserSource interface {
	MonitoredUsers(ctx context.Context) ([]balances.MonitoredUser, error)
}
