// Package solana implements the balances.ChainReader interface over the
// Solana JSON-RPC API.
package solana

import (
	"github.com/pvtsol/shieldwatch/internal/balances"
	"github.com/pvtsol/shieldwatch/internal/pkg/transport/jsonrpc"
)

// client reads public balances from a Solana RPC node.
type client struct {
	conn jsonrpc.Client // Underlying JSON-RPC client used to interact with the RPC node
}

// Ensure client implements the balances.ChainReader interface at compile time.
var _ balances.ChainReader = (*client)(nil)

// NewClient creates a new Solana chain reader using the provided JSON-RPC
// connection.
func NewClient(conn jsonrpc.Client) *client {
	return &client{
		conn: conn,
	}
}
