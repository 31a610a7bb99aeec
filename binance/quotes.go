package binance

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// QuotesManager keeps the latest streamed quote for each watched symbol
type QuotesManager struct {
	mu sync.RWMutex
	// Map of full symbol to quote (e.g. "BTCUSDT" -> Quote)
	quotes map[string]Quote
	// Map of full symbol to base symbol (e.g. "BTCUSDT" -> "BTC")
	baseSymbols map[string]string
	now         func() time.Time
}

// NewQuotesManager creates a new QuotesManager
func NewQuotesManager() *QuotesManager {
	return &QuotesManager{
		quotes:      make(map[string]Quote),
		baseSymbols: make(map[string]string),
		now:         time.Now,
	}
}

// SetWatchList replaces the watched symbols. Quotes of symbols that stay on
// the list are kept.
func (qm *QuotesManager) SetWatchList(baseSymbols []string, quoteSymbol string) {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	watched := make(map[string]string, len(baseSymbols))
	for _, baseSymbol := range baseSymbols {
		watched[baseSymbol+quoteSymbol] = baseSymbol
	}

	for fullSymbol := range qm.quotes {
		if _, ok := watched[fullSymbol]; !ok {
			delete(qm.quotes, fullSymbol)
		}
	}
	qm.baseSymbols = watched
}

// WatchListSize returns the number of watched symbols
func (qm *QuotesManager) WatchListSize() int {
	qm.mu.RLock()
	defer qm.mu.RUnlock()
	return len(qm.baseSymbols)
}

// GetLatestQuotes returns the latest quotes keyed by base symbol
func (qm *QuotesManager) GetLatestQuotes() map[string]Quote {
	qm.mu.RLock()
	defer qm.mu.RUnlock()

	quotesCopy := make(map[string]Quote, len(qm.quotes))
	for fullSymbol, quote := range qm.quotes {
		if baseSymbol, ok := qm.baseSymbols[fullSymbol]; ok {
			quotesCopy[baseSymbol] = quote
		}
	}
	return quotesCopy
}

// FreshPrices returns prices for the base symbols whose quote is younger
// than maxAge
func (qm *QuotesManager) FreshPrices(baseSymbols []string, quoteSymbol string, maxAge time.Duration) map[string]float64 {
	qm.mu.RLock()
	defer qm.mu.RUnlock()

	now := qm.now()
	result := make(map[string]float64)
	for _, base := range baseSymbols {
		quote, ok := qm.quotes[base+quoteSymbol]
		if !ok || now.Sub(quote.UpdatedAt) > maxAge {
			continue
		}
		result[base] = quote.Price
	}
	return result
}

// UpdateQuotes updates quotes from a WebSocket message
func (qm *QuotesManager) UpdateQuotes(message []byte) error {
	// Try to unmarshal as array of tickers first
	var tickers []Ticker
	if err := json.Unmarshal(message, &tickers); err != nil {
		var ticker Ticker
		if err := json.Unmarshal(message, &ticker); err != nil {
			return fmt.Errorf("failed to unmarshal ticker message: %v", err)
		}
		tickers = []Ticker{ticker}
	}

	qm.mu.Lock()
	defer qm.mu.Unlock()

	now := qm.now()
	for i := range tickers {
		ticker := &tickers[i]
		if _, ok := qm.baseSymbols[ticker.Symbol]; !ok {
			continue
		}

		price, err := ticker.LastPrice.Float64()
		if err != nil {
			return fmt.Errorf("failed to parse price for %s: %v", ticker.Symbol, err)
		}

		// Change percent is informational; a missing value is not an error
		percentChange24h, _ := ticker.PriceChangePercent.Float64()

		qm.quotes[ticker.Symbol] = Quote{
			Price:            price,
			PercentChange24h: percentChange24h,
			UpdatedAt:        now,
		}
	}

	return nil
}
