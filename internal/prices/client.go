package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cryptohub-labs/walletalert/internal/common"
	"github.com/cryptohub-labs/walletalert/internal/logger"
	"github.com/cryptohub-labs/walletalert/pkg/config"
	"github.com/jellydator/ttlcache/v3"
)

const requestTimeout = 10 * time.Second

// Client fetches quotes from a CoinGecko-compatible price API. Quotes are
// cached with a TTL so a webhook burst or a portfolio render does not
// hammer the API.
type Client struct {
	baseURL  string
	apiKey   string
	currency string
	http     *http.Client
	cache    *ttlcache.Cache[string, float64]
	log      *logger.Logger
}

// NewClient creates a price client. apiKey may be empty for keyless access.
func NewClient(cfg config.PricesConfig, apiKey string, log *logger.Logger) *Client {
	cache := ttlcache.New[string, float64](
		ttlcache.WithTTL[string, float64](cfg.CacheTTL.Duration),
	)
	go cache.Start()

	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   apiKey,
		currency: cfg.Currency,
		http:     &http.Client{Timeout: requestTimeout},
		cache:    cache,
		log:      log.WithComponent(common.ComponentPrices),
	}
}

// Stop stops the cache janitor.
func (c *Client) Stop() {
	c.cache.Stop()
}

// Quote returns the quote-currency price for each asset identifier.
// Identifiers missing from the API response are absent from the result,
// not an error.
func (c *Client) Quote(ctx context.Context, ids []string) (map[string]float64, error) {
	result := make(map[string]float64, len(ids))

	var missing []string
	for _, id := range ids {
		if item := c.cache.Get(id); item != nil {
			result[id] = item.Value()
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return result, nil
	}

	fetched, err := c.fetch(ctx, missing)
	if err != nil {
		return nil, err
	}

	for id, price := range fetched {
		c.cache.Set(id, price, ttlcache.DefaultTTL)
		result[id] = price
	}

	return result, nil
}

func (c *Client) fetch(ctx context.Context, ids []string) (map[string]float64, error) {
	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=%s",
		c.baseURL, url.QueryEscape(strings.Join(ids, ",")), url.QueryEscape(c.currency))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build price request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("price request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price API returned status %d", resp.StatusCode)
	}

	// Response shape: {"ethereum":{"usd":1234.5},...}
	var payload map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode price response: %w", err)
	}

	quotes := make(map[string]float64, len(payload))
	for id, currencies := range payload {
		if price, ok := currencies[c.currency]; ok {
			quotes[id] = price
		}
	}

	c.log.Debugw("fetched quotes", "requested", len(ids), "received", len(quotes))
	return quotes, nil
}
