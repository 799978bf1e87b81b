package balances

import "context"

// Wallet is the per-user handle the coordinator reads balances through: the
// user's public address for on-chain lookups and a session-bound client for
// the shielded pool.
type Wallet struct {
	// Address is the wallet's public key, used for native and token
	// account lookups.
	Address string

	// Shielded reads the wallet's balances inside the privacy pool.
	Shielded ShieldedClient
}

// MonitoredUser pairs a chat id with its monitoring opt-in flag, as reported
// by the wallet registry.
type MonitoredUser struct {
	ChatID            int64
	MonitoringEnabled bool
}

// WalletRegistry resolves chat users to their wallets.
//
// A user without a wallet is absence, never an error: Wallet returns
// (nil, nil) and callers must render a "no wallet" outcome rather than a
// failure. Errors are reserved for lookup infrastructure faults.
type WalletRegistry interface {
	// Wallet returns the wallet registered for the given chat id, or
	// (nil, nil) when the user has none.
	Wallet(ctx context.Context, chatID int64) (*Wallet, error)

	// MonitoredUsers lists every registered user together with its
	// monitoring opt-in flag.
	MonitoredUsers(ctx context.Context) ([]MonitoredUser, error)
}
