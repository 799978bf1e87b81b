package main

import (
	"context"
	"time"

	"github.com/pvtsol/shieldwatch/internal/balances"
	"github.com/pvtsol/shieldwatch/internal/balancewatch"
	"github.com/pvtsol/shieldwatch/internal/config"
	"github.com/pvtsol/shieldwatch/internal/handlers/cli"
	"github.com/pvtsol/shieldwatch/internal/infra/shield"
	"github.com/pvtsol/shieldwatch/internal/infra/solana"
	"github.com/pvtsol/shieldwatch/internal/infra/storage/redis"
	"github.com/pvtsol/shieldwatch/internal/infra/telegram"
	"github.com/pvtsol/shieldwatch/internal/pkg/logger"
	"github.com/pvtsol/shieldwatch/internal/pkg/telemetry"
	transporthttp "github.com/pvtsol/shieldwatch/internal/pkg/transport/http"
	"github.com/pvtsol/shieldwatch/internal/pkg/transport/jsonrpc"
	"github.com/pvtsol/shieldwatch/internal/walletregistry"
)

const serviceName = "shieldwatch"

// initObservability wires telemetry before the logger: the logger attaches
// its OTEL bridge core only when a logger provider already exists, so the
// order is load-bearing. Neither step logs, so failures surface as plain
// errors for main to panic on.
func initObservability(ctx context.Context, cfg config.Config) (telemetry.ShutdownFunc, error) {
	var shutdown telemetry.ShutdownFunc
	if cfg.TelemetryEnabled {
		var err error
		if shutdown, err = telemetry.Init(ctx, serviceName); err != nil {
			return nil, err
		}
	}

	return shutdown, logger.Init(logger.WithLevel(cfg.LogLevel))
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	telemetryShutdown, err := initObservability(ctx, cfg)
	if err != nil {
		panic(err)
	}
	if telemetryShutdown != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := telemetryShutdown(shutdownCtx); err != nil {
				logger.Error(shutdownCtx, "failed to shut down telemetry", "error", err)
			}
		}()
	}

	tokens, err := cfg.TokenList()
	if err != nil {
		logger.Fatal(ctx, "failed to parse token list", "error", err)
	}

	redisClient, err := redis.NewClient(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal(ctx, "failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	var (
		solanaConn = jsonrpc.NewClient(transporthttp.NewClient().StandardClient(), cfg.SolanaRPCEndpoint)
		shieldConn = jsonrpc.NewClient(transporthttp.NewClient().StandardClient(), cfg.ShieldRelayerEndpoint)
	)

	registry := walletregistry.New(redisClient, shield.NewDialer(shieldConn))

	balancesSvc := balances.New(registry, solana.NewClient(solanaConn), tokens,
		balances.WithSnapshotTTL(cfg.SnapshotTTL),
		balances.WithFastTTL(cfg.FastTTL),
		balances.WithCacheSweepInterval(cfg.CacheSweepInterval),
		balances.WithMaxConcurrentFetches(cfg.MaxConcurrentFetches),
	)
	defer balancesSvc.Close()

	notifier := telegram.NewNotifier(transporthttp.NewClient(), cfg.TelegramBotToken)

	monitor := balancewatch.New(balancesSvc, registry, notifier, tokens,
		balancewatch.WithPollInterval(cfg.PollInterval),
		balancewatch.WithUserDelay(cfg.UserDelay),
	)

	if err := cli.Run(ctx, registry, balancesSvc, monitor, tokens); err != nil {
		logger.Fatal(ctx, "command failed", "error", err)
	}
}
