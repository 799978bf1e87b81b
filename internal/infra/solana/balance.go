package solana

import (
	"context"
	"encoding/json"
	"strconv"
)

type (
	// balanceResponse represents the result of a getBalance call. The RPC
	// context envelope is ignored.
	balanceResponse struct {
		Value uint64 `json:"value"`
	}

	// tokenAmountResponse represents the tokenAmount object inside a
	// jsonParsed token account. Amount is a base-unit integer encoded as a
	// string.
	tokenAmountResponse struct {
		Amount   string `json:"amount"`
		Decimals uint8  `json:"decimals"`
	}

	// tokenAccountResponse represents a single entry of a
	// getTokenAccountsByOwner result, narrowed to the fields we read.
	tokenAccountResponse struct {
		Account struct {
			Data struct {
				Parsed struct {
					Info struct {
						TokenAmount tokenAmountResponse `json:"tokenAmount"`
					} `json:"info"`
				} `json:"parsed"`
			} `json:"data"`
		} `json:"account"`
	}

	// tokenAccountsResponse represents the result of a
	// getTokenAccountsByOwner call.
	tokenAccountsResponse struct {
		Value []tokenAccountResponse `json:"value"`
	}
)

// NativeBalance returns the wallet's SOL balance in lamports.
func (c *client) NativeBalance(ctx context.Context, address string) (uint64, error) {
	data, err := c.conn.Fetch(ctx, "getBalance", address)
	if err != nil {
		return 0, err
	}

	var balance balanceResponse
	if err := json.Unmarshal(data, &balance); err != nil {
		return 0, err
	}

	return balance.Value, nil
}

// TokenBalance returns the owner's balance for the given mint in base units,
// summed across every token account holding that mint. An owner with no
// token account for the mint holds zero.
func (c *client) TokenBalance(ctx context.Context, mint, owner string) (uint64, error) {
	data, err := c.conn.Fetch(ctx, "getTokenAccountsByOwner",
		owner,
		map[string]any{"mint": mint},
		map[string]any{"encoding": "jsonParsed"},
	)
	if err != nil {
		return 0, err
	}

	var accounts tokenAccountsResponse
	if err := json.Unmarshal(data, &accounts); err != nil {
		return 0, err
	}

	var total uint64
	for _, account := range accounts.Value {
		amount, err := strconv.ParseUint(account.Account.Data.Parsed.Info.TokenAmount.Amount, 10, 64)
		if err != nil {
			return 0, err
		}

		total += amount
	}

	return total, nil
}
