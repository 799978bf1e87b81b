// Package cli exposes the shieldwatch services as command-line commands.
package cli

import (
	"context"
	"os"

	"github.com/pvtsol/shieldwatch/internal/balances"
	"github.com/pvtsol/shieldwatch/internal/balancewatch"
	"github.com/pvtsol/shieldwatch/internal/walletregistry"

	"github.com/urfave/cli/v3"
)

// Run initializes and executes the shieldwatch CLI application.
//
// It registers all available commands:
//
//   - `start`: runs the balance monitor until interrupted.
//   - `register` / `unregister`: manage the wallet bound to a chat.
//   - `watch` / `unwatch`: toggle balance-change notifications for a chat.
//   - `balance`: one-shot balance read for a chat.
//
// Parameters:
//   - ctx: context used to control the lifecycle of the CLI application.
//   - wr: the walletregistry service implementation used by wallet commands.
//   - bs: the balances service implementation used by the balance command.
//   - bw: the balancewatch service implementation used by the start command.
//   - tokens: the tracked SPL tokens, used to format token balances.
func Run(ctx context.Context, wr walletregistry.Service, bs balances.Service, bw balancewatch.Service, tokens []balances.Token) error {
	app := &cli.Command{
		EnableShellCompletion: true,
		Name:                  "shieldwatch",
		Description:           "Command-line interface for the shieldwatch balance monitor.",
		Usage:                 "shieldwatch [command] [flags]",
		Commands: []*cli.Command{
			startMonitorCommand(bw),
			registerWalletCommand(wr),
			unregisterWalletCommand(wr),
			enableMonitoringCommand(wr),
			disableMonitoringCommand(wr),
			readBalanceCommand(bs, tokens),
		},
	}

	return app.Run(ctx, os.Args)
}
