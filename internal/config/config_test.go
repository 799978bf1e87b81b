package config

import (
	"testing"
	"time"

	"github.com/pvtsol/shieldwatch/internal/balances"
	"github.com/pvtsol/shieldwatch/internal/pkg/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("fails without the required variables", func(t *testing.T) {
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("applies defaults", func(t *testing.T) {
		t.Setenv("SHIELDWATCH_TELEGRAM_BOT_TOKEN", "test-token")
		t.Setenv("SHIELDWATCH_SOLANA_RPC_ENDPOINT", "http://localhost:8899")
		t.Setenv("SHIELDWATCH_SHIELD_RELAYER_ENDPOINT", "http://localhost:9000")

		c, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "info", c.LogLevel)
		assert.Equal(t, 30*time.Second, c.SnapshotTTL)
		assert.Equal(t, 15*time.Second, c.FastTTL)
		assert.Equal(t, 60*time.Second, c.CacheSweepInterval)
		assert.Equal(t, 3, c.MaxConcurrentFetches)
		assert.Equal(t, 60*time.Second, c.PollInterval)
		assert.Equal(t, time.Second, c.UserDelay)
		assert.Equal(t, "localhost:6379", c.RedisAddr)
	})

	t.Run("rejects a non-positive concurrency cap", func(t *testing.T) {
		t.Setenv("SHIELDWATCH_TELEGRAM_BOT_TOKEN", "test-token")
		t.Setenv("SHIELDWATCH_SOLANA_RPC_ENDPOINT", "http://localhost:8899")
		t.Setenv("SHIELDWATCH_SHIELD_RELAYER_ENDPOINT", "http://localhost:9000")
		t.Setenv("SHIELDWATCH_MAX_CONCURRENT_FETCHES", "0")

		_, err := Load()
		assert.ErrorIs(t, err, validator.ErrValidationFailed)
	})

	t.Run("rejects a non-positive snapshot ttl", func(t *testing.T) {
		t.Setenv("SHIELDWATCH_TELEGRAM_BOT_TOKEN", "test-token")
		t.Setenv("SHIELDWATCH_SOLANA_RPC_ENDPOINT", "http://localhost:8899")
		t.Setenv("SHIELDWATCH_SHIELD_RELAYER_ENDPOINT", "http://localhost:9000")
		t.Setenv("SHIELDWATCH_SNAPSHOT_TTL", "0s")

		_, err := Load()
		assert.ErrorIs(t, err, validator.ErrValidationFailed)
	})

	t.Run("rejects a malformed endpoint", func(t *testing.T) {
		t.Setenv("SHIELDWATCH_TELEGRAM_BOT_TOKEN", "test-token")
		t.Setenv("SHIELDWATCH_SOLANA_RPC_ENDPOINT", "not a url")
		t.Setenv("SHIELDWATCH_SHIELD_RELAYER_ENDPOINT", "http://localhost:9000")

		_, err := Load()
		assert.ErrorIs(t, err, validator.ErrValidationFailed)
	})

	t.Run("reads overrides", func(t *testing.T) {
		t.Setenv("SHIELDWATCH_TELEGRAM_BOT_TOKEN", "test-token")
		t.Setenv("SHIELDWATCH_SOLANA_RPC_ENDPOINT", "http://localhost:8899")
		t.Setenv("SHIELDWATCH_SHIELD_RELAYER_ENDPOINT", "http://localhost:9000")
		t.Setenv("SHIELDWATCH_SNAPSHOT_TTL", "10s")
		t.Setenv("SHIELDWATCH_TOKENS", "USDC:EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v:6")

		c, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 10*time.Second, c.SnapshotTTL)
		assert.Equal(t, []string{"USDC:EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v:6"}, c.Tokens)
	})
}

func TestConfig_TokenList(t *testing.T) {
	t.Run("parses token entries", func(t *testing.T) {
		c := Config{Tokens: []string{
			"USDC:EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v:6",
			"USDT:Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB:6",
		}}

		tokens, err := c.TokenList()
		require.NoError(t, err)

		assert.Equal(t, []balances.Token{
			{Symbol: "USDC", Mint: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", Decimals: 6},
			{Symbol: "USDT", Mint: "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB", Decimals: 6},
		}, tokens)
	})

	t.Run("rejects a malformed entry", func(t *testing.T) {
		c := Config{Tokens: []string{"USDC"}}

		_, err := c.TokenList()
		assert.ErrorContains(t, err, "malformed token entry")
	})

	t.Run("rejects non-numeric decimals", func(t *testing.T) {
		c := Config{Tokens: []string{"USDC:EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v:six"}}

		_, err := c.TokenList()
		assert.ErrorContains(t, err, "decimals")
	})

	t.Run("empty list yields no tokens", func(t *testing.T) {
		tokens, err := Config{}.TokenList()
		require.NoError(t, err)
		assert.Empty(t, tokens)
	})
}
