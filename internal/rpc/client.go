package rpc

import (
	"context"
	"math/big"

	"github.com/cryptohub-labs/walletalert/pkg/config"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// EthClient is the chain read interface the portfolio aggregator consumes.
type EthClient interface {
	NativeBalance(ctx context.Context, account common.Address) (*big.Int, error)
	CallContract(ctx context.Context, contract common.Address, data []byte) ([]byte, error)
	Close()
}

// Compile-time check to ensure Client implements the EthClient interface.
var _ EthClient = (*Client)(nil)

// Client wraps the Ethereum RPC client with retrying read methods.
type Client struct {
	eth   *ethclient.Client
	retry *config.RetryConfig
}

// NewClient creates a new RPC client connected to the given endpoint.
// A nil retry config disables retries.
func NewClient(ctx context.Context, endpoint string, retry *config.RetryConfig) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	return &Client{
		eth:   ethclient.NewClient(rpcClient),
		retry: retry,
	}, nil
}

// Close closes the RPC client connection.
func (c *Client) Close() {
	c.eth.Close()
}

// NativeBalance retrieves the latest native asset balance in wei.
func (c *Client) NativeBalance(ctx context.Context, account common.Address) (*big.Int, error) {
	var balance *big.Int
	err := retryWithBackoff(ctx, c.retry, "eth_getBalance", func() error {
		var callErr error
		balance, callErr = c.eth.BalanceAt(ctx, account, nil)
		return callErr
	})
	return balance, err
}

// CallContract executes a read-only contract call against the latest block.
func (c *Client) CallContract(ctx context.Context, contract common.Address, data []byte) ([]byte, error) {
	msg := ethereum.CallMsg{
		To:   &contract,
		Data: data,
	}

	var result []byte
	err := retryWithBackoff(ctx, c.retry, "eth_call", func() error {
		var callErr error
		result, callErr = c.eth.CallContract(ctx, msg, nil)
		return callErr
	})
	return result, err
}
