package cli

import (
	"context"

	"github.com/pvtsol/shieldwatch/internal/walletregistry"

	"github.com/urfave/cli/v3"
)

// chatIDFlag is the flag every per-user command shares.
func chatIDFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:     "chat-id",
		Usage:    "Telegram chat id of the user",
		Required: true,
	}
}

// registerWalletCommand returns a CLI command that binds a wallet address to
// a chat. Monitoring starts enabled.
//
// Usage example:
//
//	shieldwatch register --chat-id 100 --address 7VHUFJ...
func registerWalletCommand(wr walletregistry.Service) *cli.Command {
	return &cli.Command{
		Name:        "register",
		Description: "Register a wallet address for a chat, replacing any previous registration.",
		Usage:       "Registers a wallet. Must provide both chat-id and address.",
		Flags: []cli.Flag{
			chatIDFlag(),
			&cli.StringFlag{
				Name:     "address",
				Usage:    "Wallet public key to register",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			var (
				chatID  = c.Int("chat-id")
				address = c.String("address")
			)

			return wr.Register(ctx, int64(chatID), address)
		},
	}
}

// unregisterWalletCommand returns a CLI command that removes a chat's wallet
// registration.
//
// Usage example:
//
//	shieldwatch unregister --chat-id 100
func unregisterWalletCommand(wr walletregistry.Service) *cli.Command {
	return &cli.Command{
		Name:        "unregister",
		Description: "Remove the wallet registered for a chat.",
		Usage:       "Unregisters a chat's wallet. Unregistering a chat without a wallet is a no-op.",
		Flags: []cli.Flag{
			chatIDFlag(),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return wr.Unregister(ctx, int64(c.Int("chat-id")))
		},
	}
}

// enableMonitoringCommand returns a CLI command that opts a chat into
// balance-change notifications.
//
// Usage example:
//
//	shieldwatch watch --chat-id 100
func enableMonitoringCommand(wr walletregistry.Service) *cli.Command {
	return &cli.Command{
		Name:        "watch",
		Description: "Opt a chat into periodic balance sweeps and change notifications.",
		Usage:       "Enables monitoring for a registered chat.",
		Flags: []cli.Flag{
			chatIDFlag(),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return wr.EnableMonitoring(ctx, int64(c.Int("chat-id")))
		},
	}
}

// disableMonitoringCommand returns a CLI command that opts a chat out of
// balance-change notifications.
//
// Usage example:
//
//	shieldwatch unwatch --chat-id 100
func disableMonitoringCommand(wr walletregistry.Service) *cli.Command {
	return &cli.Command{
		Name:        "unwatch",
		Description: "Opt a chat out of periodic balance sweeps.",
		Usage:       "Disables monitoring for a registered chat.",
		Flags: []cli.Flag{
			chatIDFlag(),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return wr.DisableMonitoring(ctx, int64(c.Int("chat-id")))
		},
	}
}
