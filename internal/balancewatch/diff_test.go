package balancewatch

import (
	"testing"

	"github.com/pvtsol/shieldwatch/internal/balances"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	t.Run("scales by decimals", func(t *testing.T) {
		assert.Equal(t, "1", FormatAmount(1_000_000_000, 9))
		assert.Equal(t, "0.5", FormatAmount(500_000_000, 9))
		assert.Equal(t, "1.5", FormatAmount(1_500_000, 6))
	})

	t.Run("zero decimals renders raw units", func(t *testing.T) {
		assert.Equal(t, "123", FormatAmount(123, 0))
	})

	t.Run("trims trailing fractional zeros", func(t *testing.T) {
		assert.Equal(t, "0.000000001", FormatAmount(1, 9))
		assert.Equal(t, "2.25", FormatAmount(2_250_000, 6))
	})

	t.Run("zero amount", func(t *testing.T) {
		assert.Equal(t, "0", FormatAmount(0, 9))
	})
}

func TestPercentChange(t *testing.T) {
	t.Run("previous zero yields infinity sentinel", func(t *testing.T) {
		assert.Equal(t, "∞%", percentChange(0, 500))
	})

	t.Run("increase", func(t *testing.T) {
		assert.Equal(t, "+50.00%", percentChange(100, 150))
	})

	t.Run("decrease", func(t *testing.T) {
		assert.Equal(t, "-25.00%", percentChange(200, 150))
	})
}

func TestChangeLine(t *testing.T) {
	t.Run("increase from zero", func(t *testing.T) {
		line := changeLine("SOL (Private)", 0, 500_000_000, 9)
		assert.Equal(t, "SOL (Private): 0 → 0.5 (+0.5, ∞%)", line)
	})

	t.Run("decrease", func(t *testing.T) {
		line := changeLine("SOL (Public)", 1_000_000_000, 500_000_000, 9)
		assert.Equal(t, "SOL (Public): 1 → 0.5 (-0.5, -50.00%)", line)
	})
}

func TestDiffSnapshots(t *testing.T) {
	decimals := map[string]uint8{"USDC": 6, "USDT": 6}

	t.Run("identical snapshots yield no lines", func(t *testing.T) {
		snap := balances.Snapshot{
			Sol:    balances.AssetBalance{Public: 10, Private: 20},
			Tokens: map[string]balances.AssetBalance{"USDC": {Public: 5}},
		}

		assert.Empty(t, diffSnapshots(snap, snap, decimals))
	})

	t.Run("every changed field produces one line, deterministically ordered", func(t *testing.T) {
		prev := balances.Snapshot{
			Sol: balances.AssetBalance{Public: 1_000_000_000, Private: 0},
			Tokens: map[string]balances.AssetBalance{
				"USDC": {Public: 1_000_000, Private: 0},
				"USDT": {Public: 0, Private: 0},
			},
		}
		cur := balances.Snapshot{
			Sol: balances.AssetBalance{Public: 500_000_000, Private: 500_000_000},
			Tokens: map[string]balances.AssetBalance{
				"USDC": {Public: 2_000_000, Private: 0},
				"USDT": {Public: 0, Private: 3_000_000},
			},
		}

		lines := diffSnapshots(prev, cur, decimals)

		require.Len(t, lines, 4)
		assert.Equal(t, "SOL (Public): 1 → 0.5 (-0.5, -50.00%)", lines[0])
		assert.Equal(t, "SOL (Private): 0 → 0.5 (+0.5, ∞%)", lines[1])
		assert.Equal(t, "USDC (Public): 1 → 2 (+1, +100.00%)", lines[2])
		assert.Equal(t, "USDT (Private): 0 → 3 (+3, ∞%)", lines[3])
	})

	t.Run("token present in only one snapshot diffs against zero", func(t *testing.T) {
		prev := balances.Snapshot{Tokens: map[string]balances.AssetBalance{}}
		cur := balances.Snapshot{
			Tokens: map[string]balances.AssetBalance{"USDC": {Public: 1_000_000}},
		}

		lines := diffSnapshots(prev, cur, decimals)

		require.Len(t, lines, 1)
		assert.Equal(t, "USDC (Public): 0 → 1 (+1, ∞%)", lines[0])
	})
}
