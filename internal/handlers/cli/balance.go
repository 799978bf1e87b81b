package cli

import (
	"context"
	"fmt"

	"github.com/pvtsol/shieldwatch/internal/balances"
	"github.com/pvtsol/shieldwatch/internal/balancewatch"

	"github.com/urfave/cli/v3"
)

// readBalanceCommand returns a CLI command that reads one chat's balances
// and prints them, one asset per line.
//
// Usage example:
//
//	shieldwatch balance --chat-id 100
//	shieldwatch balance --chat-id 100 --fast
//	shieldwatch balance --chat-id 100 --force
func readBalanceCommand(bs balances.Service, tokens []balances.Token) *cli.Command {
	decimals := make(map[string]uint8, len(tokens))
	for _, token := range tokens {
		decimals[token.Symbol] = token.Decimals
	}

	return &cli.Command{
		Name:        "balance",
		Description: "Read a chat's public and shielded balances.",
		Usage:       "Prints the balances of a registered chat. --fast reads only SOL, --force bypasses the cache.",
		Flags: []cli.Flag{
			chatIDFlag(),
			&cli.BoolFlag{
				Name:  "fast",
				Usage: "Read only the SOL pair, with the short-TTL fast path",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Bypass the cache and fetch fresh balances",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			chatID := int64(c.Int("chat-id"))

			if c.Bool("fast") {
				sol, err := bs.GetFastBalance(ctx, chatID)
				if err != nil {
					return err
				}
				if sol == nil {
					fmt.Fprintln(c.Root().Writer, "no wallet registered")
					return nil
				}

				printAssetBalance(c, "SOL", *sol, balances.SolDecimals)
				return nil
			}

			snap, err := bs.GetBalances(ctx, chatID, c.Bool("force"))
			if err != nil {
				return err
			}
			if snap == nil {
				fmt.Fprintln(c.Root().Writer, "no wallet registered")
				return nil
			}

			printAssetBalance(c, "SOL", snap.Sol, balances.SolDecimals)
			for _, token := range tokens {
				printAssetBalance(c, token.Symbol, snap.Tokens[token.Symbol], decimals[token.Symbol])
			}

			return nil
		},
	}
}

// printAssetBalance writes one asset's public/private pair.
func printAssetBalance(c *cli.Command, symbol string, balance balances.AssetBalance, decimals uint8) {
	fmt.Fprintf(c.Root().Writer, "%s (Public): %s\n", symbol, balancewatch.FormatAmount(balance.Public, decimals))
	fmt.Fprintf(c.Root().Writer, "%s (Private): %s\n", symbol, balancewatch.FormatAmount(balance.Private, decimals))
}
