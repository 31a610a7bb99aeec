package interfaces

import "context"

//go:generate mockgen -destination=mocks/resolvers.go . CatalogProvider

// CatalogProvider exposes the catalog already held in memory without
// triggering an upstream call
type CatalogProvider interface {
	Catalog() []Coin
}

// PriceResult is the outcome of a price batch, keyed by the requested ids.
// Ids without a price are absent from both maps.
type PriceResult struct {
	Prices      map[string]float64
	Sources     map[string]Source
	CacheStatus CacheStatus
}

// Degraded reports whether any returned price is not fresh
func (r PriceResult) Degraded() bool {
	for _, source := range r.Sources {
		if source.Degraded() {
			return true
		}
	}
	return false
}

// CoinList is the catalog handed to the serving layer
type CoinList struct {
	Coins  []Coin
	Source Source
}

// TrendSeries is an ascending-by-time series for one identifier
type TrendSeries struct {
	ID     string
	Points []TrendPoint
	Source Source
}

type PriceResolver interface {
	ResolvePrices(ctx context.Context, ids []string) (PriceResult, error)
}

type CoinListResolver interface {
	ListCoins(ctx context.Context) CoinList
}

type TrendResolver interface {
	GetTrend(ctx context.Context, id string) (TrendSeries, error)
}
