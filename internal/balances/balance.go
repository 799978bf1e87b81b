package balances

import (
	"context"
	"errors"
	"sync"

	"github.com/pvtsol/shieldwatch/internal/pkg/logger"
)

// SolDecimals is the number of base-unit decimals of the native asset
// (1 SOL = 1e9 lamports).
const SolDecimals uint8 = 9

// AssetBalance holds the public (on-chain) and private (shielded) amounts of
// a single asset, in base integer units.
type AssetBalance struct {
	Public  uint64
	Private uint64
}

// Snapshot is a point-in-time view of every balance tracked for one user:
// the native asset plus each supported token, keyed by token symbol.
//
// A Snapshot is produced only by the coordinator's fetch path and is
// immutable once returned.
type Snapshot struct {
	Sol    AssetBalance
	Tokens map[string]AssetBalance
}

// Token describes one supported SPL token: its display symbol, mint address,
// and the number of base-unit decimals used for rendering amounts.
type Token struct {
	Symbol   string `validate:"required"`
	Mint     string `validate:"required"`
	Decimals uint8
}

// fetchSnapshot reads every balance for the given wallet and assembles a
// Snapshot. The two native-asset reads run concurrently and are both
// load-bearing: if either fails, the whole fetch fails. Token reads also run
// concurrently but are isolated per token: a failed read is logged and
// defaulted to zero so one token's outage never blocks the rest of the
// snapshot.
func (s *service) fetchSnapshot(ctx context.Context, wallet Wallet) (Snapshot, error) {
	var (
		snap                  Snapshot
		solPubErr, solPrivErr error

		wg sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		snap.Sol.Public, solPubErr = s.chain.NativeBalance(ctx, wallet.Address)
	}()
	go func() {
		defer wg.Done()
		snap.Sol.Private, solPrivErr = wallet.Shielded.PrivateBalance(ctx)
	}()

	tokenBalances := make([]AssetBalance, len(s.tokens))
	for i, token := range s.tokens {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tokenBalances[i] = s.fetchTokenBalance(ctx, wallet, token)
		}()
	}

	wg.Wait()

	if err := errors.Join(solPubErr, solPrivErr); err != nil {
		return Snapshot{}, err
	}

	snap.Tokens = make(map[string]AssetBalance, len(s.tokens))
	for i, token := range s.tokens {
		snap.Tokens[token.Symbol] = tokenBalances[i]
	}

	return snap, nil
}

// fetchTokenBalance reads one token's public and private balances,
// swallowing failures into zero values.
func (s *service) fetchTokenBalance(ctx context.Context, wallet Wallet, token Token) AssetBalance {
	public, err := s.chain.TokenBalance(ctx, token.Mint, wallet.Address)
	if err != nil {
		logger.Warn(ctx, "token public balance read failed, defaulting to zero",
			"token.symbol", token.Symbol,
			"token.mint", token.Mint,
			"error", err,
		)
		public = 0
	}

	private, err := wallet.Shielded.PrivateTokenBalance(ctx, token.Mint)
	if err != nil {
		logger.Warn(ctx, "token private balance read failed, defaulting to zero",
			"token.symbol", token.Symbol,
			"token.mint", token.Mint,
			"error", err,
		)
		private = 0
	}

	return AssetBalance{Public: public, Private: private}
}

// fetchFastBalance reads only the native-asset public and private pair,
// for call sites that need a quick fee-sufficiency check without paying for
// the full token sweep. Both reads are load-bearing.
func (s *service) fetchFastBalance(ctx context.Context, wallet Wallet) (AssetBalance, error) {
	var (
		balance         AssetBalance
		pubErr, privErr error

		wg sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		balance.Public, pubErr = s.chain.NativeBalance(ctx, wallet.Address)
	}()
	go func() {
		defer wg.Done()
		balance.Private, privErr = wallet.Shielded.PrivateBalance(ctx)
	}()
	wg.Wait()

	if err := errors.Join(pubErr, privErr); err != nil {
		return AssetBalance{}, err
	}

	return balance, nil
}
