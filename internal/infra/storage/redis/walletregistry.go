package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/pvtsol/shieldwatch/internal/walletregistry"

	"github.com/redis/go-redis/v9"
)

const (
	// walletKeyPrefix is the Redis key namespace for wallet registrations.
	walletKeyPrefix = "wallet"

	// walletFieldAddress and walletFieldMonitoring are the hash fields of a
	// registration record.
	walletFieldAddress    = "address"
	walletFieldMonitoring = "monitoring"
)

// walletRecordKey builds the Redis key of one user's registration hash.
//
// Format: "wallet:record:{chatID}"
func walletRecordKey(chatID int64) string {
	return fmt.Sprintf("%s:record:%d", walletKeyPrefix, chatID)
}

// walletIndexKey is the Redis set holding every registered chat id. It backs
// ListWallets without a SCAN over the keyspace.
func walletIndexKey() string {
	return fmt.Sprintf("%s:index", walletKeyPrefix)
}

// SaveWallet upserts the registration hash and indexes the chat id, atomically
// via a transactional pipeline.
func (c *client) SaveWallet(ctx context.Context, record walletregistry.WalletRecord) error {
	_, err := c.conn.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, walletRecordKey(record.ChatID),
			walletFieldAddress, record.Address,
			walletFieldMonitoring, strconv.FormatBool(record.MonitoringEnabled),
		)
		pipe.SAdd(ctx, walletIndexKey(), record.ChatID)
		return nil
	})

	return err
}

// DeleteWallet removes the registration hash and de-indexes the chat id.
// Deleting an unregistered id is a no-op.
func (c *client) DeleteWallet(ctx context.Context, chatID int64) error {
	_, err := c.conn.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, walletRecordKey(chatID))
		pipe.SRem(ctx, walletIndexKey(), chatID)
		return nil
	})

	return err
}

// FindWallet loads one user's registration, translating an empty hash into
// walletregistry.ErrWalletNotFound.
func (c *client) FindWallet(ctx context.Context, chatID int64) (walletregistry.WalletRecord, error) {
	fields, err := c.conn.HGetAll(ctx, walletRecordKey(chatID)).Result()
	if err != nil {
		return walletregistry.WalletRecord{}, err
	}

	return buildWalletRecord(chatID, fields)
}

// SetMonitoring flips the monitoring flag of an existing registration. It
// returns walletregistry.ErrWalletNotFound when the user has no wallet.
func (c *client) SetMonitoring(ctx context.Context, chatID int64, enabled bool) error {
	key := walletRecordKey(chatID)

	exists, err := c.conn.Exists(ctx, key).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return walletregistry.ErrWalletNotFound
	}

	return c.conn.HSet(ctx, key, walletFieldMonitoring, strconv.FormatBool(enabled)).Err()
}

// ListWallets loads every registration referenced by the index set. Ids whose
// hash disappeared are skipped.
func (c *client) ListWallets(ctx context.Context) ([]walletregistry.WalletRecord, error) {
	ids, err := c.conn.SMembers(ctx, walletIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	records := make([]walletregistry.WalletRecord, 0, len(ids))
	for _, id := range ids {
		chatID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return nil, err
		}

		record, err := c.FindWallet(ctx, chatID)
		if err != nil {
			if errors.Is(err, walletregistry.ErrWalletNotFound) {
				continue
			}
			return nil, err
		}

		records = append(records, record)
	}

	return records, nil
}

// buildWalletRecord converts a registration hash into a WalletRecord. An
// empty hash means the key does not exist.
func buildWalletRecord(chatID int64, fields map[string]string) (walletregistry.WalletRecord, error) {
	if len(fields) == 0 {
		return walletregistry.WalletRecord{}, walletregistry.ErrWalletNotFound
	}

	monitoring, err := strconv.ParseBool(fields[walletFieldMonitoring])
	if err != nil {
		return walletregistry.WalletRecord{}, err
	}

	return walletregistry.WalletRecord{
		ChatID:            chatID,
		Address:           fields[walletFieldAddress],
		MonitoringEnabled: monitoring,
	}, nil
}

// Compile-time assertion to ensure *client satisfies the
// walletregistry.WalletStorage interface
var _ walletregistry.WalletStorage = new(client)
