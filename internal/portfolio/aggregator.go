package portfolio

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cryptohub-labs/walletalert/internal/common"
	"github.com/cryptohub-labs/walletalert/internal/logger"
	walletrpc "github.com/cryptohub-labs/walletalert/internal/rpc"
	"github.com/cryptohub-labs/walletalert/pkg/config"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const tokenReadConcurrency = 4

// Holding is one asset position in the portfolio view.
type Holding struct {
	Chain    string          `json:"chain"`
	Symbol   string          `json:"symbol"`
	Contract string          `json:"contract,omitempty"`
	Native   bool            `json:"native"`
	Balance  decimal.Decimal `json:"balance"`
	PriceUSD decimal.Decimal `json:"priceUsd"`
	ValueUSD decimal.Decimal `json:"valueUsd"`
}

// Portfolio is the aggregated view for one wallet across all configured
// chains, sorted by USD value descending, ties broken by raw balance.
type Portfolio struct {
	Wallet   string          `json:"wallet"`
	TotalUSD decimal.Decimal `json:"totalUsd"`
	Holdings []Holding       `json:"holdings"`
}

// QuoteProvider returns quote-currency prices per asset identifier.
type QuoteProvider interface {
	Quote(ctx context.Context, ids []string) (map[string]float64, error)
}

// ClientFactory dials a chain read client for an RPC endpoint. Injected so
// tests can substitute a fake chain.
type ClientFactory func(ctx context.Context, rpcURL string, retry *config.RetryConfig) (walletrpc.EthClient, error)

// Aggregator assembles the portfolio view: native balance plus the fixed
// configured token list per chain, each valued in USD. The token lists are
// static configuration; there is no dynamic token discovery.
type Aggregator struct {
	chains  []config.ChainConfig
	retry   *config.RetryConfig
	prices  QuoteProvider
	dial    ClientFactory
	log     *logger.Logger
	weiUnit decimal.Decimal
}

// NewAggregator creates a portfolio aggregator over the configured chains.
func NewAggregator(chains []config.ChainConfig, retry *config.RetryConfig, prices QuoteProvider, dial ClientFactory, log *logger.Logger) *Aggregator {
	if dial == nil {
		dial = func(ctx context.Context, rpcURL string, retry *config.RetryConfig) (walletrpc.EthClient, error) {
			return walletrpc.NewClient(ctx, rpcURL, retry)
		}
	}

	return &Aggregator{
		chains:  chains,
		retry:   retry,
		prices:  prices,
		dial:    dial,
		log:     log.WithComponent(common.ComponentPortfolio),
		weiUnit: decimal.New(1, 18),
	}
}

// Aggregate builds the portfolio for one wallet. A chain that fails to
// respond is skipped with a log entry; the remaining chains still render.
func (a *Aggregator) Aggregate(ctx context.Context, wallet string) (*Portfolio, error) {
	if !common.IsValidWalletAddress(wallet) {
		return nil, fmt.Errorf("invalid wallet address: %s", wallet)
	}

	normalized := common.NormalizeAddress(wallet)
	account := ethcommon.HexToAddress(normalized)

	var holdings []Holding
	for i := range a.chains {
		chainHoldings, err := a.aggregateChain(ctx, &a.chains[i], account)
		if err != nil {
			a.log.Warnw("chain aggregation failed, skipping", "chain", a.chains[i].Name, "error", err)
			continue
		}
		holdings = append(holdings, chainHoldings...)
	}

	holdings, total, err := a.value(ctx, holdings)
	if err != nil {
		return nil, err
	}

	sortHoldings(holdings)

	return &Portfolio{
		Wallet:   normalized,
		TotalUSD: total,
		Holdings: holdings,
	}, nil
}

// aggregateChain reads the native balance and every configured token
// balance on one chain. Token reads run concurrently with a small limit.
func (a *Aggregator) aggregateChain(ctx context.Context, chain *config.ChainConfig, account ethcommon.Address) ([]Holding, error) {
	client, err := a.dial(ctx, chain.RPCURL, a.retry)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", chain.Name, err)
	}
	defer client.Close()

	holdings := make([]Holding, 0, len(chain.Tokens)+1)

	native, err := client.NativeBalance(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("native balance read failed: %w", err)
	}
	holdings = append(holdings, Holding{
		Chain:   chain.Name,
		Symbol:  chain.NativeSymbol,
		Native:  true,
		Balance: decimal.NewFromBigInt(native, 0).Div(a.weiUnit),
	})

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(tokenReadConcurrency)

	for _, token := range chain.Tokens {
		g.Go(func() error {
			h, err := a.readToken(gctx, client, chain.Name, token, account)
			if err != nil {
				// One unreadable token must not sink the chain.
				a.log.Warnw("token read failed", "chain", chain.Name, "token", token.Symbol, "error", err)
				return nil
			}
			mu.Lock()
			holdings = append(holdings, h)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return holdings, nil
}

func (a *Aggregator) readToken(ctx context.Context, client walletrpc.EthClient, chainName string, token config.TokenConfig, account ethcommon.Address) (Holding, error) {
	contract := ethcommon.HexToAddress(token.Address)

	balance, err := erc20BalanceOf(ctx, client, contract, account)
	if err != nil {
		return Holding{}, err
	}

	decimals, err := erc20Decimals(ctx, client, contract)
	if err != nil {
		return Holding{}, err
	}

	return Holding{
		Chain:    chainName,
		Symbol:   token.Symbol,
		Contract: common.NormalizeAddress(token.Address),
		Balance:  decimal.NewFromBigInt(balance, -int32(decimals)),
	}, nil
}

// value attaches USD prices. Quotes are only fetched for non-zero
// positions; a zero balance is worth zero regardless of price.
func (a *Aggregator) value(ctx context.Context, holdings []Holding) ([]Holding, decimal.Decimal, error) {
	ids := make([]string, 0, len(holdings))
	idFor := a.quoteIDs()

	for i := range holdings {
		if holdings[i].Balance.IsZero() {
			continue
		}
		if id := idFor(&holdings[i]); id != "" {
			ids = append(ids, id)
		}
	}

	total := decimal.Zero
	if len(ids) == 0 {
		return holdings, total, nil
	}

	quotes, err := a.prices.Quote(ctx, ids)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("failed to fetch quotes: %w", err)
	}

	for i := range holdings {
		id := idFor(&holdings[i])
		price, ok := quotes[id]
		if !ok || holdings[i].Balance.IsZero() {
			continue
		}
		holdings[i].PriceUSD = decimal.NewFromFloat(price)
		holdings[i].ValueUSD = holdings[i].Balance.Mul(holdings[i].PriceUSD)
		total = total.Add(holdings[i].ValueUSD)
	}

	return holdings, total, nil
}

// quoteIDs returns a resolver from holding to price API identifier.
func (a *Aggregator) quoteIDs() func(*Holding) string {
	byChainSymbol := make(map[string]string)
	for _, chain := range a.chains {
		byChainSymbol[chain.Name+"/"+chain.NativeSymbol] = chain.NativeQuoteID
		for _, token := range chain.Tokens {
			byChainSymbol[chain.Name+"/"+token.Symbol] = token.QuoteID
		}
	}

	return func(h *Holding) string {
		return byChainSymbol[h.Chain+"/"+h.Symbol]
	}
}

func sortHoldings(holdings []Holding) {
	sort.SliceStable(holdings, func(i, j int) bool {
		if !holdings[i].ValueUSD.Equal(holdings[j].ValueUSD) {
			return holdings[i].ValueUSD.GreaterThan(holdings[j].ValueUSD)
		}
		return holdings[i].Balance.GreaterThan(holdings[j].Balance)
	})
}
