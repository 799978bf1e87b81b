package solana

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jsonrpcFake implements jsonrpc.Client with a function field.
type jsonrpcFake struct {
	fetchFn func(ctx context.Context, method string, params ...any) (json.RawMessage, error)
}

func (f *jsonrpcFake) Fetch(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	return f.fetchFn(ctx, method, params...)
}

const (
	testOwner = "7VHUFJHWu2CuExkJcJrzhQPJ2oygupTWkL2A2For4BmE"
	testMint  = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
)

func TestClient_NativeBalance(t *testing.T) {
	t.Run("returns the lamport balance", func(t *testing.T) {
		conn := &jsonrpcFake{
			fetchFn: func(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
				assert.Equal(t, "getBalance", method)
				require.Len(t, params, 1)
				assert.Equal(t, testOwner, params[0])

				return json.RawMessage(`{"context":{"slot":123456},"value":1500000000}`), nil
			},
		}

		c := NewClient(conn)

		balance, err := c.NativeBalance(t.Context(), testOwner)
		require.NoError(t, err)
		assert.Equal(t, uint64(1_500_000_000), balance)
	})

	t.Run("propagates transport errors", func(t *testing.T) {
		wantErr := errors.New("rpc unavailable")
		conn := &jsonrpcFake{
			fetchFn: func(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
				return nil, wantErr
			},
		}

		c := NewClient(conn)

		_, err := c.NativeBalance(t.Context(), testOwner)
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("fails on a malformed result", func(t *testing.T) {
		conn := &jsonrpcFake{
			fetchFn: func(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
				return json.RawMessage(`"not an object"`), nil
			},
		}

		c := NewClient(conn)

		_, err := c.NativeBalance(t.Context(), testOwner)
		assert.Error(t, err)
	})
}

func TestClient_TokenBalance(t *testing.T) {
	t.Run("sums base-unit amounts across token accounts", func(t *testing.T) {
		conn := &jsonrpcFake{
			fetchFn: func(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
				assert.Equal(t, "getTokenAccountsByOwner", method)
				require.Len(t, params, 3)
				assert.Equal(t, testOwner, params[0])
				assert.Equal(t, map[string]any{"mint": testMint}, params[1])
				assert.Equal(t, map[string]any{"encoding": "jsonParsed"}, params[2])

				return json.RawMessage(`{
					"context": {"slot": 123456},
					"value": [
						{"account": {"data": {"parsed": {"info": {"tokenAmount": {"amount": "2500000", "decimals": 6}}}}}},
						{"account": {"data": {"parsed": {"info": {"tokenAmount": {"amount": "500000", "decimals": 6}}}}}}
					]
				}`), nil
			},
		}

		c := NewClient(conn)

		balance, err := c.TokenBalance(t.Context(), testMint, testOwner)
		require.NoError(t, err)
		assert.Equal(t, uint64(3_000_000), balance)
	})

	t.Run("owner without a token account holds zero", func(t *testing.T) {
		conn := &jsonrpcFake{
			fetchFn: func(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
				return json.RawMessage(`{"context":{"slot":123456},"value":[]}`), nil
			},
		}

		c := NewClient(conn)

		balance, err := c.TokenBalance(t.Context(), testMint, testOwner)
		require.NoError(t, err)
		assert.Zero(t, balance)
	})

	t.Run("propagates transport errors", func(t *testing.T) {
		wantErr := errors.New("rpc unavailable")
		conn := &jsonrpcFake{
			fetchFn: func(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
				return nil, wantErr
			},
		}

		c := NewClient(conn)

		_, err := c.TokenBalance(t.Context(), testMint, testOwner)
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("fails on a non-numeric amount", func(t *testing.T) {
		conn := &jsonrpcFake{
			fetchFn: func(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
				return json.RawMessage(`{"value":[{"account":{"data":{"parsed":{"info":{"tokenAmount":{"amount":"abc","decimals":6}}}}}}]}`), nil
			},
		}

		c := NewClient(conn)

		_, err := c.TokenBalance(t.Context(), testMint, testOwner)
		assert.Error(t, err)
	})
}
