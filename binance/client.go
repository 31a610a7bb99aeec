package binance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/status-im/crypto-converter/config"
	"github.com/status-im/crypto-converter/identifiers"
	"github.com/status-im/crypto-converter/interfaces"
	"github.com/status-im/crypto-converter/metrics"
	"github.com/status-im/crypto-converter/upstream"
)

const (
	// ProviderName identifies Binance in logs and metrics
	ProviderName = config.ProviderBinance
	// BASE_REST_URL is the public spot API
	BASE_REST_URL = "https://api.binance.com"

	statusTrading = "TRADING"
	klineInterval = "1h"
)

// Client implements interfaces.Upstream for the Binance spot REST API.
// Identifiers are base asset symbols such as "BTC", priced against the
// configured quote asset.
type Client struct {
	baseURL         string
	quoteAsset      string
	points          int
	quoteMaxAge     time.Duration
	quotes          *QuotesManager
	httpClient      *upstream.HTTPClientWithRetries
	normalizer      *identifiers.SymbolNormalizer
	metricsWriter   *metrics.MetricsWriter
	successfulFetch atomic.Bool
}

// NewClient creates a Binance client. quotes may be nil when the websocket
// stream is disabled.
func NewClient(cfg *config.Config, limiterManager upstream.IRateLimiterManager, quotes *QuotesManager) *Client {
	retryOpts := upstream.DefaultRetryOptions()
	retryOpts.LogPrefix = "Binance"
	retryOpts.MaxRetries = cfg.Upstream.MaxRetries
	retryOpts.BaseBackoff = cfg.Upstream.BaseBackoff
	retryOpts.RequestTimeout = cfg.Upstream.RequestTimeout
	retryOpts.ConnectionTimeout = cfg.Upstream.ConnectionTimeout

	baseURL := cfg.Upstream.OverrideBinanceURL
	if baseURL == "" {
		baseURL = BASE_REST_URL
	}

	metricsWriter := metrics.NewMetricsWriter(ProviderName).WithProvider(ProviderName)

	return &Client{
		baseURL:       baseURL,
		quoteAsset:    strings.ToUpper(cfg.Binance.QuoteAsset),
		points:        cfg.Trend.Points,
		quoteMaxAge:   cfg.Binance.QuoteMaxAge,
		quotes:        quotes,
		httpClient:    upstream.NewHTTPClientWithRetries(retryOpts, metricsWriter, limiterManager),
		normalizer:    identifiers.NewSymbolNormalizer(),
		metricsWriter: metricsWriter,
	}
}

// Name returns the provider name
func (c *Client) Name() string {
	return ProviderName
}

// Normalizer returns the symbol-keyed normalizer
func (c *Client) Normalizer() interfaces.IdentifierNormalizer {
	return c.normalizer
}

// Healthy checks if the API has had at least one successful fetch
func (c *Client) Healthy() bool {
	return c.successfulFetch.Load()
}

// FetchPrices returns prices for base symbols. Recent streamed quotes are
// used first; the rest come from one ticker request.
func (c *Client) FetchPrices(ctx context.Context, symbols []string) (map[string]float64, error) {
	result := make(map[string]float64, len(symbols))
	if len(symbols) == 0 {
		return result, nil
	}

	remaining := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		if symbol == c.quoteAsset {
			result[symbol] = 1
			continue
		}
		remaining = append(remaining, symbol)
	}

	if c.quotes != nil && len(remaining) > 0 {
		streamed := c.quotes.FreshPrices(remaining, c.quoteAsset, c.quoteMaxAge)
		if len(streamed) > 0 {
			pending := remaining[:0]
			for _, symbol := range remaining {
				if price, ok := streamed[symbol]; ok {
					result[symbol] = price
				} else {
					pending = append(pending, symbol)
				}
			}
			remaining = pending
		}
	}

	if len(remaining) == 0 {
		return result, nil
	}

	body, err := c.get(ctx, "/api/v3/ticker/price", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch prices: %w", err)
	}

	var tickers []tickerPrice
	if err := json.Unmarshal(body, &tickers); err != nil {
		return nil, upstream.Unavailable("error parsing ticker response: %v", err)
	}

	wanted := make(map[string]string, len(remaining))
	for _, symbol := range remaining {
		wanted[symbol+c.quoteAsset] = symbol
	}
	for _, t := range tickers {
		base, ok := wanted[t.Symbol]
		if !ok {
			continue
		}
		price, err := t.Price.Float64()
		if err != nil {
			log.Printf("Binance: Skipping %s with unparsable price %q", t.Symbol, t.Price)
			continue
		}
		result[base] = price
	}

	log.Printf("Binance: Fetched prices for %d of %d symbols", len(result), len(symbols))
	return result, nil
}

// FetchCoinList lists base assets tradable against the quote asset.
// Binance has no display names, so the symbol doubles as the name.
func (c *Client) FetchCoinList(ctx context.Context) ([]interfaces.RawCoin, error) {
	body, err := c.get(ctx, "/api/v3/exchangeInfo", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch coin list: %w", err)
	}

	var info exchangeInfoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, upstream.Unavailable("error parsing exchange info: %v", err)
	}

	coins := make([]interfaces.RawCoin, 0, len(info.Symbols))
	for _, s := range info.Symbols {
		if s.Status != statusTrading || s.QuoteAsset != c.quoteAsset {
			continue
		}
		coins = append(coins, interfaces.RawCoin{Symbol: s.BaseAsset, Name: s.BaseAsset})
	}

	log.Printf("Binance: Fetched %d %s trading pairs", len(coins), c.quoteAsset)
	return coins, nil
}

// FetchTrend returns hourly close prices for symbol
func (c *Client) FetchTrend(ctx context.Context, symbol string) ([]interfaces.RawPoint, error) {
	if symbol == "" {
		return nil, fmt.Errorf("fetch trend: %w", interfaces.ErrInvalidIdentifier)
	}

	body, err := c.get(ctx, "/api/v3/klines", map[string]string{
		"symbol":   symbol + c.quoteAsset,
		"interval": klineInterval,
		"limit":    strconv.Itoa(c.points),
	})
	if err != nil {
		return nil, fmt.Errorf("fetch trend for %s: %w", symbol, err)
	}

	var klines [][]json.RawMessage
	if err := json.Unmarshal(body, &klines); err != nil {
		return nil, upstream.Unavailable("error parsing klines for %s: %v", symbol, err)
	}

	points := make([]interfaces.RawPoint, 0, len(klines))
	for _, k := range klines {
		point, ok := parseKline(k)
		if !ok {
			continue
		}
		points = append(points, point)
	}
	return points, nil
}

// parseKline reads open time (index 0) and close price (index 4)
func parseKline(k []json.RawMessage) (interfaces.RawPoint, bool) {
	if len(k) < 5 {
		return interfaces.RawPoint{}, false
	}

	var openTime int64
	if err := json.Unmarshal(k[0], &openTime); err != nil {
		return interfaces.RawPoint{}, false
	}

	var closeStr string
	if err := json.Unmarshal(k[4], &closeStr); err != nil {
		return interfaces.RawPoint{}, false
	}
	value, err := strconv.ParseFloat(closeStr, 64)
	if err != nil {
		return interfaces.RawPoint{}, false
	}

	return interfaces.RawPoint{TimestampMs: openTime, Value: value}, true
}

func (c *Client) get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	rb := upstream.NewRequestBuilder(c.baseURL, path)
	for k, v := range params {
		rb.With(k, v)
	}

	req, err := rb.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("error building request: %w", err)
	}

	start := time.Now()
	body, err := c.httpClient.ExecuteRequest(req)
	if err != nil {
		return nil, classifyBinanceError(err)
	}

	c.metricsWriter.RecordDataFetch(time.Since(start))
	c.successfulFetch.Store(true)
	return body, nil
}

// classifyBinanceError refines generic status errors with Binance specifics:
// an unknown pair is reported as 400/-1121 and an IP ban as 418.
func classifyBinanceError(err error) error {
	var statusErr *upstream.StatusError
	if !errors.As(err, &statusErr) {
		return err
	}

	switch statusErr.StatusCode {
	case http.StatusTeapot:
		return &upstream.StatusError{Kind: upstream.ErrRateLimited, StatusCode: statusErr.StatusCode, Body: statusErr.Body}
	case http.StatusBadRequest:
		var apiErr apiError
		if json.Unmarshal([]byte(statusErr.Body), &apiErr) == nil && apiErr.Code == codeInvalidSymbol {
			return &upstream.StatusError{Kind: upstream.ErrNotFound, StatusCode: statusErr.StatusCode, Body: statusErr.Body}
		}
	}
	return err
}
