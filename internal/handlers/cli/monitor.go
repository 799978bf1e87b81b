package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pvtsol/shieldwatch/internal/balancewatch"

	"github.com/urfave/cli/v3"
)

// startMonitorCommand returns a CLI command that starts the periodic balance
// monitor.
//
// Usage example:
//
//	shieldwatch start
//
// The process runs indefinitely until it receives an interrupt (SIGINT or SIGTERM).
func startMonitorCommand(bw balancewatch.Service) *cli.Command {
	return &cli.Command{
		Name:        "start",
		Description: "Starts the periodic balance monitor and notification delivery.",
		Usage:       "Initializes and runs the monitor. Terminates gracefully on Ctrl+C or termination signals.",
		Action: func(ctx context.Context, c *cli.Command) error {
			quit := make(chan os.Signal, 1)
			defer close(quit)

			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			if err := bw.Start(ctx); err != nil {
				return err
			}
			defer bw.Close()

			<-quit
			return nil
		},
	}
}
