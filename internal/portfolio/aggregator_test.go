package portfolio

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/cryptohub-labs/walletalert/internal/logger"
	walletrpc "github.com/cryptohub-labs/walletalert/internal/rpc"
	"github.com/cryptohub-labs/walletalert/pkg/config"
)

const (
	testWallet   = "0xAbC1230000000000000000000000000000000001"
	usdcContract = "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"
	linkContract = "0x514910771af9ca656af840dff83e8264ecf986ca"
)

type fakeChainClient struct {
	mu        sync.Mutex
	native    *big.Int
	balances  map[ethcommon.Address]*big.Int
	decimals  map[ethcommon.Address]uint8
	nativeErr error
	closed    bool
}

func (f *fakeChainClient) NativeBalance(_ context.Context, _ ethcommon.Address) (*big.Int, error) {
	if f.nativeErr != nil {
		return nil, f.nativeErr
	}
	return f.native, nil
}

func (f *fakeChainClient) CallContract(_ context.Context, contract ethcommon.Address, data []byte) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	method, err := erc20ABI.MethodById(data[:4])
	if err != nil {
		return nil, err
	}

	switch method.Name {
	case "balanceOf":
		balance, ok := f.balances[contract]
		if !ok {
			return nil, errors.New("execution reverted")
		}
		return method.Outputs.Pack(balance)
	case "decimals":
		return method.Outputs.Pack(f.decimals[contract])
	default:
		return nil, errors.New("unexpected method " + method.Name)
	}
}

func (f *fakeChainClient) Close() {
	f.closed = true
}

type fakeQuotes struct {
	mu        sync.Mutex
	prices    map[string]float64
	requested [][]string
	failErr   error
}

func (f *fakeQuotes) Quote(_ context.Context, ids []string) (map[string]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return nil, f.failErr
	}
	f.requested = append(f.requested, ids)

	result := make(map[string]float64, len(ids))
	for _, id := range ids {
		if price, ok := f.prices[id]; ok {
			result[id] = price
		}
	}
	return result, nil
}

func testChains() []config.ChainConfig {
	return []config.ChainConfig{
		{
			Name:          "ethereum",
			Network:       "ETH_MAINNET",
			RPCURL:        "https://rpc.test",
			NativeSymbol:  "ETH",
			NativeQuoteID: "ethereum",
			Tokens: []config.TokenConfig{
				{Symbol: "USDC", Address: usdcContract, QuoteID: "usd-coin"},
				{Symbol: "LINK", Address: linkContract, QuoteID: "chainlink"},
			},
		},
	}
}

func factoryFor(clients map[string]walletrpc.EthClient) ClientFactory {
	return func(_ context.Context, rpcURL string, _ *config.RetryConfig) (walletrpc.EthClient, error) {
		client, ok := clients[rpcURL]
		if !ok {
			return nil, errors.New("dial failed")
		}
		return client, nil
	}
}

func wei(eth int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(eth), big.NewInt(1e18))
}

func TestAggregator_Aggregate(t *testing.T) {
	chain := &fakeChainClient{
		native: wei(2),
		balances: map[ethcommon.Address]*big.Int{
			ethcommon.HexToAddress(usdcContract): big.NewInt(100_000_000), // 100 USDC at 6 decimals
			ethcommon.HexToAddress(linkContract): big.NewInt(0),
		},
		decimals: map[ethcommon.Address]uint8{
			ethcommon.HexToAddress(usdcContract): 6,
			ethcommon.HexToAddress(linkContract): 18,
		},
	}
	quotes := &fakeQuotes{prices: map[string]float64{
		"ethereum": 2000,
		"usd-coin": 1,
	}}

	agg := NewAggregator(testChains(), nil, quotes,
		factoryFor(map[string]walletrpc.EthClient{"https://rpc.test": chain}),
		logger.NewNopLogger())

	pf, err := agg.Aggregate(context.Background(), testWallet)
	require.NoError(t, err)

	require.Equal(t, "0xabc1230000000000000000000000000000000001", pf.Wallet)
	require.Len(t, pf.Holdings, 3)
	require.True(t, pf.TotalUSD.Equal(decimal.NewFromInt(4100)), "total %s", pf.TotalUSD)

	// Sorted by USD value descending
	require.Equal(t, "ETH", pf.Holdings[0].Symbol)
	require.True(t, pf.Holdings[0].ValueUSD.Equal(decimal.NewFromInt(4000)))
	require.Equal(t, "USDC", pf.Holdings[1].Symbol)
	require.True(t, pf.Holdings[1].Balance.Equal(decimal.NewFromInt(100)))
	require.Equal(t, "LINK", pf.Holdings[2].Symbol)
	require.True(t, pf.Holdings[2].ValueUSD.IsZero())

	require.True(t, chain.closed)
}

func TestAggregator_ZeroBalancesSkipQuotes(t *testing.T) {
	chain := &fakeChainClient{
		native: wei(1),
		balances: map[ethcommon.Address]*big.Int{
			ethcommon.HexToAddress(usdcContract): big.NewInt(0),
			ethcommon.HexToAddress(linkContract): big.NewInt(0),
		},
		decimals: map[ethcommon.Address]uint8{
			ethcommon.HexToAddress(usdcContract): 6,
			ethcommon.HexToAddress(linkContract): 18,
		},
	}
	quotes := &fakeQuotes{prices: map[string]float64{"ethereum": 2000}}

	agg := NewAggregator(testChains(), nil, quotes,
		factoryFor(map[string]walletrpc.EthClient{"https://rpc.test": chain}),
		logger.NewNopLogger())

	_, err := agg.Aggregate(context.Background(), testWallet)
	require.NoError(t, err)

	// Only the non-zero native position needed a price
	require.Len(t, quotes.requested, 1)
	require.Equal(t, []string{"ethereum"}, quotes.requested[0])
}

func TestAggregator_InvalidWallet(t *testing.T) {
	agg := NewAggregator(testChains(), nil, &fakeQuotes{}, factoryFor(nil), logger.NewNopLogger())

	_, err := agg.Aggregate(context.Background(), "0x123")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid wallet address")
}

func TestAggregator_FailingChainIsSkipped(t *testing.T) {
	quotes := &fakeQuotes{prices: map[string]float64{}}

	// Every dial fails; the portfolio is empty but not an error
	agg := NewAggregator(testChains(), nil, quotes, factoryFor(nil), logger.NewNopLogger())

	pf, err := agg.Aggregate(context.Background(), testWallet)
	require.NoError(t, err)
	require.Empty(t, pf.Holdings)
	require.True(t, pf.TotalUSD.IsZero())
}

func TestAggregator_UnreadableTokenIsSkipped(t *testing.T) {
	chain := &fakeChainClient{
		native: wei(1),
		// LINK is missing from balances, so its balanceOf reverts
		balances: map[ethcommon.Address]*big.Int{
			ethcommon.HexToAddress(usdcContract): big.NewInt(5_000_000),
		},
		decimals: map[ethcommon.Address]uint8{
			ethcommon.HexToAddress(usdcContract): 6,
		},
	}
	quotes := &fakeQuotes{prices: map[string]float64{"ethereum": 2000, "usd-coin": 1}}

	agg := NewAggregator(testChains(), nil, quotes,
		factoryFor(map[string]walletrpc.EthClient{"https://rpc.test": chain}),
		logger.NewNopLogger())

	pf, err := agg.Aggregate(context.Background(), testWallet)
	require.NoError(t, err)
	require.Len(t, pf.Holdings, 2)
	for _, h := range pf.Holdings {
		require.NotEqual(t, "LINK", h.Symbol)
	}
}

func TestAggregator_QuoteFailure(t *testing.T) {
	chain := &fakeChainClient{
		native:   wei(1),
		balances: map[ethcommon.Address]*big.Int{},
		decimals: map[ethcommon.Address]uint8{},
	}
	quotes := &fakeQuotes{failErr: errors.New("price api down")}

	chains := testChains()
	chains[0].Tokens = nil

	agg := NewAggregator(chains, nil, quotes,
		factoryFor(map[string]walletrpc.EthClient{"https://rpc.test": chain}),
		logger.NewNopLogger())

	_, err := agg.Aggregate(context.Background(), testWallet)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to fetch quotes")
}

func TestSortHoldings_TieBreaksOnBalance(t *testing.T) {
	holdings := []Holding{
		{Symbol: "A", ValueUSD: decimal.Zero, Balance: decimal.NewFromInt(1)},
		{Symbol: "B", ValueUSD: decimal.Zero, Balance: decimal.NewFromInt(10)},
		{Symbol: "C", ValueUSD: decimal.NewFromInt(50), Balance: decimal.NewFromInt(1)},
	}

	sortHoldings(holdings)

	require.Equal(t, "C", holdings[0].Symbol)
	require.Equal(t, "B", holdings[1].Symbol)
	require.Equal(t, "A", holdings[2].Symbol)
}
