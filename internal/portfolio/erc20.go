package portfolio

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	walletrpc "github.com/cryptohub-labs/walletalert/internal/rpc"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Minimal ERC-20 read interface: the three views the dashboard needs.
const erc20ABIJSON = `[
	{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"type":"function"}
]`

var erc20ABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		panic(err)
	}
	return parsed
}()

// erc20BalanceOf reads the token balance of owner.
func erc20BalanceOf(ctx context.Context, client walletrpc.EthClient, token, owner common.Address) (*big.Int, error) {
	data, err := erc20ABI.Pack("balanceOf", owner)
	if err != nil {
		return nil, fmt.Errorf("failed to pack balanceOf: %w", err)
	}

	out, err := client.CallContract(ctx, token, data)
	if err != nil {
		return nil, fmt.Errorf("balanceOf call failed: %w", err)
	}

	results, err := erc20ABI.Unpack("balanceOf", out)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack balanceOf: %w", err)
	}

	balance, ok := results[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected balanceOf result type %T", results[0])
	}
	return balance, nil
}

// erc20Decimals reads the token's decimal count.
func erc20Decimals(ctx context.Context, client walletrpc.EthClient, token common.Address) (uint8, error) {
	data, err := erc20ABI.Pack("decimals")
	if err != nil {
		return 0, fmt.Errorf("failed to pack decimals: %w", err)
	}

	out, err := client.CallContract(ctx, token, data)
	if err != nil {
		return 0, fmt.Errorf("decimals call failed: %w", err)
	}

	results, err := erc20ABI.Unpack("decimals", out)
	if err != nil {
		return 0, fmt.Errorf("failed to unpack decimals: %w", err)
	}

	decimals, ok := results[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("unexpected decimals result type %T", results[0])
	}
	return decimals, nil
}
