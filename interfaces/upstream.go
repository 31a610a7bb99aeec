package interfaces

import "context"

//go:generate mockgen -destination=mocks/upstream.go . Upstream,IdentifierNormalizer

// Upstream is the price API the resolvers consume.
// Failures are reported with the upstream package error kinds
// (rate limited, unavailable, unauthorized, not found).
type Upstream interface {
	// Name identifies the provider in logs and metrics
	Name() string

	// FetchPrices returns USD prices keyed by the identifiers it was asked for.
	// Identifiers the upstream does not know are simply absent.
	FetchPrices(ctx context.Context, ids []string) (map[string]float64, error)

	// FetchCoinList returns the full catalog
	FetchCoinList(ctx context.Context) ([]RawCoin, error)

	// FetchTrend returns the recent historical series for one identifier
	FetchTrend(ctx context.Context, id string) ([]RawPoint, error)

	// Normalizer returns the identifier strategy matching this upstream's id scheme
	Normalizer() IdentifierNormalizer

	// Healthy reports whether at least one call has succeeded
	Healthy() bool
}

// IdentifierNormalizer maps requested identifiers onto the form an upstream
// and the caches understand
type IdentifierNormalizer interface {
	// Canonical returns the cache key and upstream request form of id
	Canonical(id string) string

	// Alias derives an alternate canonical identifier for id from the catalog.
	// ok is false when the catalog offers nothing different to retry with.
	Alias(id string, catalog []Coin) (alias string, ok bool)
}
