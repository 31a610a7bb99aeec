package coins

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/status-im/crypto-converter/cache"
	"github.com/status-im/crypto-converter/config"
	"github.com/status-im/crypto-converter/events"
	"github.com/status-im/crypto-converter/interfaces"
	"github.com/status-im/crypto-converter/metrics"
	"github.com/status-im/crypto-converter/scheduler"
	"github.com/status-im/crypto-converter/upstream"
)

var errEmptyCatalog = errors.New("upstream returned no usable coins")

// Service resolves the coin catalog: fresh cache, then upstream, then the
// stale cache, then the compiled-in list. It never returns an empty list.
type Service struct {
	upstream      interfaces.Upstream
	caches        *cache.Caches
	config        config.CoinsListConfig
	events        events.ISubscriptionManager
	metricsWriter *metrics.MetricsWriter
	scheduler     *scheduler.Scheduler
}

// NewService creates a coin list service. catalogEvents may be nil.
func NewService(up interfaces.Upstream, caches *cache.Caches, cfg config.CoinsListConfig, catalogEvents events.ISubscriptionManager) *Service {
	return &Service{
		upstream:      up,
		caches:        caches,
		config:        cfg,
		events:        catalogEvents,
		metricsWriter: metrics.NewMetricsWriter(metrics.ServiceCoins),
	}
}

// Start implements core.Interface
func (s *Service) Start(ctx context.Context) error {
	if s.upstream == nil || s.caches == nil {
		return fmt.Errorf("coins service not properly initialized")
	}
	if s.config.RefreshInterval <= 0 {
		return nil
	}

	s.scheduler = scheduler.New("coins-refresh", s.config.RefreshInterval, func(ctx context.Context) error {
		if _, err := s.refresh(ctx); err != nil {
			return fmt.Errorf("catalog refresh (%s): %w", upstream.KindOf(err), err)
		}
		return nil
	})
	s.scheduler.Start(ctx, true)
	return nil
}

// Stop implements core.Interface
func (s *Service) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// ListCoins returns the best available catalog
func (s *Service) ListCoins(ctx context.Context) interfaces.CoinList {
	cached, fresh, found := s.caches.Coins.Get(cache.CoinsKey)
	if found && fresh {
		return s.result(cached, interfaces.SourceFresh)
	}

	coins, err := s.refresh(ctx)
	if err == nil {
		return s.result(coins, interfaces.SourceFresh)
	}

	if found && len(cached) > 0 {
		log.Printf("CoinsService: refresh failed (%s), serving stale catalog of %d coins: %v",
			upstream.KindOf(err), len(cached), err)
		return s.result(cached, interfaces.SourceStale)
	}

	log.Printf("CoinsService: refresh failed (%s), serving fallback catalog: %v", upstream.KindOf(err), err)
	return s.result(FallbackCoins(), interfaces.SourceFallback)
}

// Catalog returns the catalog currently held in memory, fresh or stale, or
// the fallback list. It never calls the upstream.
func (s *Service) Catalog() []interfaces.Coin {
	if coins, ok := s.caches.Coins.GetStale(cache.CoinsKey); ok && len(coins) > 0 {
		return coins
	}
	return FallbackCoins()
}

// refresh fetches, normalizes and stores the catalog
func (s *Service) refresh(ctx context.Context) ([]interfaces.Coin, error) {
	start := time.Now()
	raw, err := s.upstream.FetchCoinList(ctx)
	if err != nil {
		return nil, err
	}
	s.metricsWriter.RecordDataFetch(time.Since(start))

	coins := NormalizeCoins(raw)
	if len(coins) == 0 {
		return nil, fmt.Errorf("%w: %d raw records", errEmptyCatalog, len(raw))
	}

	s.caches.Coins.Put(cache.CoinsKey, coins, s.config.TTL)
	log.Printf("CoinsService: catalog refreshed with %d coins", len(coins))

	if s.events != nil {
		s.events.Emit(ctx)
	}
	return coins, nil
}

func (s *Service) result(coins []interfaces.Coin, source interfaces.Source) interfaces.CoinList {
	s.metricsWriter.RecordResult(source.String(), 1)
	return interfaces.CoinList{Coins: coins, Source: source}
}
