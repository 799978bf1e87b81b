package balancewatch

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/pvtsol/shieldwatch/internal/balances"
	"github.com/pvtsol/shieldwatch/internal/pkg/types"
)

// infinitePercent is the sentinel rendered when the previous amount was
// exactly zero, since a percentage change from zero is undefined.
const infinitePercent = "∞%"

// diffSnapshots compares two snapshots field by field using exact inequality
// and returns one formatted line per changed field. Lines are ordered
// deterministically: SOL public, SOL private, then each token sorted by
// symbol, public before private. An empty result means nothing changed.
func diffSnapshots(prev, cur balances.Snapshot, decimals map[string]uint8) []string {
	var lines []string

	appendChange := func(label string, prevAmount, curAmount uint64, dec uint8) {
		if prevAmount != curAmount {
			lines = append(lines, changeLine(label, prevAmount, curAmount, dec))
		}
	}

	appendChange("SOL (Public)", prev.Sol.Public, cur.Sol.Public, balances.SolDecimals)
	appendChange("SOL (Private)", prev.Sol.Private, cur.Sol.Private, balances.SolDecimals)

	// Union of token symbols: a token present in only one snapshot still
	// diffs against a zero balance on the other side.
	symbols := types.NewSet[string]()
	for symbol := range prev.Tokens {
		symbols.Add(symbol)
	}
	for symbol := range cur.Tokens {
		symbols.Add(symbol)
	}

	sorted := symbols.ToSlice()
	slices.Sort(sorted)

	for _, symbol := range sorted {
		dec := decimals[symbol]
		appendChange(symbol+" (Public)", prev.Tokens[symbol].Public, cur.Tokens[symbol].Public, dec)
		appendChange(symbol+" (Private)", prev.Tokens[symbol].Private, cur.Tokens[symbol].Private, dec)
	}

	return lines
}

// changeLine renders a single changed field: label, previous and current
// amounts, signed absolute delta, and percentage change.
func changeLine(label string, prev, cur uint64, decimals uint8) string {
	sign, delta := "+", cur-prev
	if cur < prev {
		sign, delta = "-", prev-cur
	}

	return fmt.Sprintf("%s: %s → %s (%s%s, %s)",
		label,
		FormatAmount(prev, decimals),
		FormatAmount(cur, decimals),
		sign,
		FormatAmount(delta, decimals),
		percentChange(prev, cur),
	)
}

// percentChange renders the relative change between two amounts, falling
// back to the infinity sentinel when the previous amount was zero.
func percentChange(prev, cur uint64) string {
	if prev == 0 {
		return infinitePercent
	}

	pct := (float64(cur) - float64(prev)) / float64(prev) * 100
	return fmt.Sprintf("%+.2f%%", pct)
}

// FormatAmount renders a base-unit amount scaled by the asset's decimals,
// trimming trailing fractional zeros ("0.5", not "0.500000000").
func FormatAmount(units uint64, decimals uint8) string {
	if decimals == 0 {
		return strconv.FormatUint(units, 10)
	}

	pow := uint64(1)
	for range decimals {
		pow *= 10
	}

	whole, frac := units/pow, units%pow
	if frac == 0 {
		return strconv.FormatUint(whole, 10)
	}

	fracStr := strings.TrimRight(fmt.Sprintf("%0*d", decimals, frac), "0")
	return fmt.Sprintf("%d.%s", whole, fracStr)
}
