package core

import (
	"context"
	"fmt"
	"log"

	"github.com/status-im/crypto-converter/api"
	"github.com/status-im/crypto-converter/binance"
	"github.com/status-im/crypto-converter/cache"
	"github.com/status-im/crypto-converter/coingecko"
	"github.com/status-im/crypto-converter/coins"
	"github.com/status-im/crypto-converter/config"
	"github.com/status-im/crypto-converter/events"
	"github.com/status-im/crypto-converter/interfaces"
	"github.com/status-im/crypto-converter/prices"
	"github.com/status-im/crypto-converter/trend"
	"github.com/status-im/crypto-converter/upstream"
)

// Setup creates and registers all services
func Setup(ctx context.Context, cfg *config.Config) (*Registry, error) {
	registry := NewRegistry()

	// Shared caches and their retention purge
	caches := cache.NewCaches(cfg.Cache, cache.SystemClock)
	registry.Register(cache.NewPurgeService(caches, cfg.Cache))

	limiterManager := upstream.NewRateLimiterManager(cfg.Upstream.APIKeys)
	catalogEvents := events.NewSubscriptionManager()

	var (
		up     interfaces.Upstream
		quotes *binance.QuotesManager
	)
	switch cfg.Upstream.Provider {
	case config.ProviderCoingecko:
		up = coingecko.NewClient(cfg, limiterManager)
	case config.ProviderBinance:
		quotes = binance.NewQuotesManager()
		up = binance.NewClient(cfg, limiterManager, quotes)
	default:
		return nil, fmt.Errorf("unknown upstream provider %q", cfg.Upstream.Provider)
	}
	log.Printf("Setup: using %s upstream", up.Name())

	coinsService := coins.NewService(up, caches, cfg.CoinsList, catalogEvents)

	// The stream subscribes to catalog events, so it starts before the
	// coins service emits its first refresh
	if quotes != nil {
		registry.Register(binance.NewStreamService(cfg.Binance, quotes, coinsService, catalogEvents))
	}
	registry.Register(coinsService)

	pricesService := prices.NewService(up, coinsService, caches, cfg.Prices)
	registry.Register(pricesService)

	trendService := trend.NewService(up, caches, cfg.Trend)
	registry.Register(trendService)

	// Create HTTP server and register it as a core
	server := api.New(cfg.Server, pricesService, coinsService, trendService, up)
	registry.Register(server)

	return registry, nil
}
