package balances

import "context"

// ChainReader reads public (on-chain) balances. Implementations talk to a
// rate-limited RPC endpoint; the coordinator never calls them without going
// through the request queue.
type ChainReader interface {
	// NativeBalance returns the native-asset balance of the given address
	// in base units (lamports).
	NativeBalance(ctx context.Context, address string) (uint64, error)

	// TokenBalance returns the public balance of the given token mint held
	// by owner, in the token's base units. A token account that does not
	// exist yet is a balance of zero, not an error.
	TokenBalance(ctx context.Context, mint, owner string) (uint64, error)
}

// ShieldedClient reads a single wallet's balances inside the privacy pool.
// Instances are bound to one wallet; they are obtained through the registry's
// Wallet lookup.
type ShieldedClient interface {
	// PrivateBalance returns the wallet's shielded native-asset balance in
	// base units. A wallet with no shielded balance yet returns zero.
	PrivateBalance(ctx context.Context) (uint64, error)

	// PrivateTokenBalance returns the wallet's shielded balance of the
	// given token mint in base units. No shielded notes for the mint is a
	// balance of zero, not an error.
	PrivateTokenBalance(ctx context.Context, mint string) (uint64, error)
}
