package walletregistry

import (
	"context"
	"errors"

	"github.com/pvtsol/shieldwatch/internal/pkg/validator"
)

// ErrWalletNotFound is returned by WalletStorage lookups when no wallet is
// registered for the requested chat id.
var ErrWalletNotFound = errors.New("wallet not found")

// WalletRecord is the persisted association between a chat user and their
// wallet, together with the monitoring opt-in flag.
//
// ChatID and Address are required and validated before persistence.
type WalletRecord struct {
	ChatID            int64  `validate:"required"` // Telegram chat id owning the wallet
	Address           string `validate:"required"` // Wallet public key used for on-chain lookups
	MonitoringEnabled bool   // Whether the balance monitor sweeps this user
}

// WalletStorage defines the persistence interface for wallet registrations.
//
// Implementations must treat SaveWallet as an upsert and make
// SetMonitoring/DeleteWallet safe to call for unknown ids.
type WalletStorage interface {
	// SaveWallet persists the given record, replacing any previous
	// registration for the same chat id.
	SaveWallet(ctx context.Context, record WalletRecord) error

	// DeleteWallet removes the registration for the given chat id. Deleting
	// an unregistered id is a no-op.
	DeleteWallet(ctx context.Context, chatID int64) error

	// FindWallet returns the record registered for the given chat id, or
	// ErrWalletNotFound when the user has none.
	FindWallet(ctx context.Context, chatID int64) (WalletRecord, error)

	// SetMonitoring flips the monitoring flag for the given chat id. It
	// returns ErrWalletNotFound when the user has no wallet.
	SetMonitoring(ctx context.Context, chatID int64, enabled bool) error

	// ListWallets returns every registered record.
	ListWallets(ctx context.Context) ([]WalletRecord, error)
}

// buildWalletRecord constructs and validates a WalletRecord from user input.
// Monitoring starts enabled; users opt out explicitly.
func buildWalletRecord(chatID int64, address string) (WalletRecord, error) {
	record := WalletRecord{
		ChatID:            chatID,
		Address:           address,
		MonitoringEnabled: true,
	}

	return record, validator.Validate(record)
}
