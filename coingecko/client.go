package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/status-im/crypto-converter/config"
	"github.com/status-im/crypto-converter/identifiers"
	"github.com/status-im/crypto-converter/interfaces"
	"github.com/status-im/crypto-converter/metrics"
	"github.com/status-im/crypto-converter/upstream"
)

// ProviderName identifies CoinGecko in logs and metrics
const ProviderName = config.ProviderCoingecko

// Client implements interfaces.Upstream for the CoinGecko REST API
type Client struct {
	config          config.UpstreamConfig
	currency        string
	days            string
	keyManager      upstream.IAPIKeyManager
	httpClient      *upstream.HTTPClientWithRetries
	normalizer      *identifiers.IDNormalizer
	metricsWriter   *metrics.MetricsWriter
	successfulFetch atomic.Bool
}

// NewClient creates a CoinGecko client. limiterManager may be shared with
// other clients so API key budgets are enforced process-wide.
func NewClient(cfg *config.Config, limiterManager upstream.IRateLimiterManager) *Client {
	retryOpts := upstream.DefaultRetryOptions()
	retryOpts.LogPrefix = "CoinGecko"
	retryOpts.MaxRetries = cfg.Upstream.MaxRetries
	retryOpts.BaseBackoff = cfg.Upstream.BaseBackoff
	retryOpts.RequestTimeout = cfg.Upstream.RequestTimeout
	retryOpts.ConnectionTimeout = cfg.Upstream.ConnectionTimeout

	metricsWriter := metrics.NewMetricsWriter(ProviderName).WithProvider(ProviderName)

	return &Client{
		config:        cfg.Upstream,
		currency:      cfg.Prices.Currency,
		days:          cfg.Trend.Days,
		keyManager:    upstream.NewAPIKeyManager(cfg.APITokens),
		httpClient:    upstream.NewHTTPClientWithRetries(retryOpts, metricsWriter, limiterManager),
		normalizer:    identifiers.NewIDNormalizer(),
		metricsWriter: metricsWriter,
	}
}

// Name returns the provider name
func (c *Client) Name() string {
	return ProviderName
}

// Normalizer returns the id-keyed normalizer
func (c *Client) Normalizer() interfaces.IdentifierNormalizer {
	return c.normalizer
}

// Healthy checks if the API has had at least one successful fetch
func (c *Client) Healthy() bool {
	return c.successfulFetch.Load()
}

// FetchPrices fetches USD prices for ids in a single request. Ids unknown
// to CoinGecko are absent from the result.
func (c *Client) FetchPrices(ctx context.Context, ids []string) (map[string]float64, error) {
	if len(ids) == 0 {
		return map[string]float64{}, nil
	}

	body, err := c.get(ctx, "/api/v3/simple/price", map[string]string{
		"ids":           strings.Join(ids, ","),
		"vs_currencies": c.currency,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch prices: %w", err)
	}

	var raw simplePriceResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, upstream.Unavailable("error parsing prices response: %v", err)
	}

	result := make(map[string]float64, len(raw))
	for id, byCurrency := range raw {
		if price, ok := byCurrency[c.currency]; ok && price != nil {
			result[id] = *price
		}
	}

	log.Printf("CoinGecko: Fetched prices for %d of %d ids", len(result), len(ids))
	return result, nil
}

// FetchCoinList fetches the full coin catalog
func (c *Client) FetchCoinList(ctx context.Context) ([]interfaces.RawCoin, error) {
	body, err := c.get(ctx, "/api/v3/coins/list", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch coin list: %w", err)
	}

	var entries []coinListEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, upstream.Unavailable("error parsing coin list response: %v", err)
	}

	coins := make([]interfaces.RawCoin, 0, len(entries))
	for _, e := range entries {
		coins = append(coins, interfaces.RawCoin{ID: e.ID, Symbol: e.Symbol, Name: e.Name})
	}

	log.Printf("CoinGecko: Fetched coin list with %d entries", len(coins))
	return coins, nil
}

// FetchTrend fetches the price history of id over the configured window
func (c *Client) FetchTrend(ctx context.Context, id string) ([]interfaces.RawPoint, error) {
	if id == "" {
		return nil, fmt.Errorf("fetch trend: %w", interfaces.ErrInvalidIdentifier)
	}

	path := "/api/v3/coins/" + url.PathEscape(id) + "/market_chart"
	body, err := c.get(ctx, path, map[string]string{
		"vs_currency": c.currency,
		"days":        c.days,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch trend for %s: %w", id, err)
	}

	var chart marketChartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, upstream.Unavailable("error parsing market chart for %s: %v", id, err)
	}

	points := make([]interfaces.RawPoint, 0, len(chart.Prices))
	for _, p := range chart.Prices {
		if len(p) < 2 {
			continue
		}
		points = append(points, interfaces.RawPoint{TimestampMs: int64(p[0]), Value: p[1]})
	}
	return points, nil
}

// get runs a GET request against path, trying API keys in order
func (c *Client) get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	start := time.Now()
	body, err := upstream.TryWithKeys(c.keyManager, "CoinGecko", func(key upstream.APIKey) ([]byte, error) {
		rb := upstream.NewRequestBuilder(GetApiBaseUrl(c.config, key.Type), path).WithApiKey(key)
		for k, v := range params {
			rb.With(k, v)
		}

		req, err := rb.Build(ctx)
		if err != nil {
			return nil, fmt.Errorf("error building request: %w", err)
		}
		return c.httpClient.ExecuteRequest(req)
	})
	if err != nil {
		return nil, err
	}

	c.metricsWriter.RecordDataFetch(time.Since(start))
	c.successfulFetch.Store(true)
	return body, nil
}
