package walletregistry

import (
	"context"
	"errors"

	"github.com/pvtsol/shieldwatch/internal/balances"
)

// ShieldedDialer builds shielded-pool clients bound to a wallet address.
//
// The registry resolves persisted addresses into balances.Wallet handles and
// needs a session-bound client for the privacy pool alongside the public
// address; the dialer supplies it during wiring.
type ShieldedDialer interface {
	// ClientFor returns a shielded-pool client scoped to the given wallet
	// address.
	ClientFor(address string) balances.ShieldedClient
}

// Service defines the interface for managing wallet registrations and the
// per-user monitoring opt-in.
//
// Implementations validate input and delegate persistence to the configured
// WalletStorage. The service also acts as the wallet resolver for the
// balance coordinator and monitor, via the balances.WalletRegistry methods.
type Service interface {
	// Register associates a wallet address with the given chat id,
	// replacing any previous registration. Monitoring starts enabled.
	Register(ctx context.Context, chatID int64, address string) error

	// Unregister removes the wallet registered for the given chat id.
	// Unregistering a user without a wallet is a no-op.
	Unregister(ctx context.Context, chatID int64) error

	// EnableMonitoring opts the user into periodic balance sweeps. It
	// returns ErrWalletNotFound when the user has no wallet.
	EnableMonitoring(ctx context.Context, chatID int64) error

	// DisableMonitoring opts the user out of periodic balance sweeps. It
	// returns ErrWalletNotFound when the user has no wallet.
	DisableMonitoring(ctx context.Context, chatID int64) error

	// Wallet returns the wallet registered for the given chat id, or
	// (nil, nil) when the user has none.
	Wallet(ctx context.Context, chatID int64) (*balances.Wallet, error)

	// MonitoredUsers lists every registered user together with its
	// monitoring opt-in flag.
	MonitoredUsers(ctx context.Context) ([]balances.MonitoredUser, error)
}

// service is the concrete implementation of the Service interface.
type service struct {
	storage WalletStorage
	dialer  ShieldedDialer
}

// Ensure compile-time compliance with the interfaces the service serves.
var (
	_ Service                 = (*service)(nil)
	_ balances.WalletRegistry = (*service)(nil)
)

// New creates a new wallet registry service backed by the provided storage
// and shielded-pool dialer.
func New(ws WalletStorage, dialer ShieldedDialer) *service {
	return &service{
		storage: ws,
		dialer:  dialer,
	}
}

// Register validates the input and persists the registration.
func (s *service) Register(ctx context.Context, chatID int64, address string) error {
	record, err := buildWalletRecord(chatID, address)
	if err != nil {
		return err
	}

	return s.storage.SaveWallet(ctx, record)
}

// Unregister removes the registration for the given chat id.
func (s *service) Unregister(ctx context.Context, chatID int64) error {
	return s.storage.DeleteWallet(ctx, chatID)
}

// EnableMonitoring opts the user into balance sweeps.
func (s *service) EnableMonitoring(ctx context.Context, chatID int64) error {
	return s.storage.SetMonitoring(ctx, chatID, true)
}

// DisableMonitoring opts the user out of balance sweeps.
func (s *service) DisableMonitoring(ctx context.Context, chatID int64) error {
	return s.storage.SetMonitoring(ctx, chatID, false)
}

// Wallet resolves the chat id into a balance-readable wallet handle. Absence
// is not an error: an unregistered user yields (nil, nil).
func (s *service) Wallet(ctx context.Context, chatID int64) (*balances.Wallet, error) {
	record, err := s.storage.FindWallet(ctx, chatID)
	if err != nil {
		if errors.Is(err, ErrWalletNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &balances.Wallet{
		Address:  record.Address,
		Shielded: s.dialer.ClientFor(record.Address),
	}, nil
}

// MonitoredUsers lists every registered user with its monitoring flag.
func (s *service) MonitoredUsers(ctx context.Context) ([]balances.MonitoredUser, error) {
	records, err := s.storage.ListWallets(ctx)
	if err != nil {
		return nil, err
	}

	users := make([]balances.MonitoredUser, len(records))
	for i, record := range records {
		users[i] = balances.MonitoredUser{
			ChatID:            record.ChatID,
			MonitoringEnabled: record.MonitoringEnabled,
		}
	}

	return users, nil
}
