// Package config loads the application configuration from the environment.
//
// Every variable is prefixed with SHIELDWATCH_, e.g. SHIELDWATCH_LOG_LEVEL.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pvtsol/shieldwatch/internal/balances"
	"github.com/pvtsol/shieldwatch/internal/pkg/validator"

	"github.com/kelseyhightower/envconfig"
)

// envPrefix is the prefix shared by every environment variable.
const envPrefix = "shieldwatch"

// Config holds every runtime setting of the service.
type Config struct {
	LogLevel         string `envconfig:"LOG_LEVEL" default:"info" validate:"required"`
	TelemetryEnabled bool   `envconfig:"TELEMETRY_ENABLED" default:"false"`

	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true" validate:"required"`

	SolanaRPCEndpoint     string `envconfig:"SOLANA_RPC_ENDPOINT" required:"true" validate:"required,url"`
	ShieldRelayerEndpoint string `envconfig:"SHIELD_RELAYER_ENDPOINT" required:"true" validate:"required,url"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379" validate:"required"`
	RedisUsername string `envconfig:"REDIS_USERNAME"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0" validate:"gte=0"`

	SnapshotTTL          time.Duration `envconfig:"SNAPSHOT_TTL" default:"30s" validate:"gt=0"`
	FastTTL              time.Duration `envconfig:"FAST_TTL" default:"15s" validate:"gt=0"`
	CacheSweepInterval   time.Duration `envconfig:"CACHE_SWEEP_INTERVAL" default:"60s" validate:"gt=0"`
	MaxConcurrentFetches int           `envconfig:"MAX_CONCURRENT_FETCHES" default:"3" validate:"gte=1"`

	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"60s" validate:"gt=0"`
	UserDelay    time.Duration `envconfig:"USER_DELAY" default:"1s" validate:"gte=0"`

	// Tokens lists the tracked SPL tokens as "SYMBOL:mint:decimals"
	// entries, comma separated.
	Tokens []string `envconfig:"TOKENS"`
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var c Config
	if err := envconfig.Process(envPrefix, &c); err != nil {
		return Config{}, err
	}

	return c, validator.Validate(c)
}

// TokenList parses the Tokens entries into balances.Token values.
func (c Config) TokenList() ([]balances.Token, error) {
	tokens := make([]balances.Token, len(c.Tokens))
	for i, entry := range c.Tokens {
		token, err := parseToken(entry)
		if err != nil {
			return nil, err
		}

		tokens[i] = token
	}

	return tokens, nil
}

// parseToken parses one "SYMBOL:mint:decimals" entry.
func parseToken(entry string) (balances.Token, error) {
	parts := strings.Split(entry, ":")
	if len(parts) != 3 {
		return balances.Token{}, fmt.Errorf("malformed token entry %q: want SYMBOL:mint:decimals", entry)
	}

	decimals, err := strconv.ParseUint(parts[2], 10, 8)
	if err != nil {
		return balances.Token{}, fmt.Errorf("malformed token decimals in %q: %w", entry, err)
	}

	return balances.Token{
		Symbol:   parts[0],
		Mint:     parts[1],
		Decimals: uint8(decimals),
	}, nil
}
