package trend

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/status-im/crypto-converter/cache"
	"github.com/status-im/crypto-converter/config"
	"github.com/status-im/crypto-converter/interfaces"
	"github.com/status-im/crypto-converter/metrics"
	"github.com/status-im/crypto-converter/upstream"
)

var errEmptySeries = errors.New("upstream returned an empty series")

// Service resolves short-term trend series per identifier
type Service struct {
	upstream      interfaces.Upstream
	caches        *cache.Caches
	config        config.TrendConfig
	random        func() float64
	metricsWriter *metrics.MetricsWriter
}

// NewService creates a trend service
func NewService(up interfaces.Upstream, caches *cache.Caches, cfg config.TrendConfig) *Service {
	return &Service{
		upstream:      up,
		caches:        caches,
		config:        cfg,
		metricsWriter: metrics.NewMetricsWriter(metrics.ServiceTrend),
	}
}

// Start implements core.Interface
func (s *Service) Start(ctx context.Context) error {
	if s.upstream == nil || s.caches == nil {
		return fmt.Errorf("trend service not properly initialized")
	}
	return nil
}

// Stop implements core.Interface
func (s *Service) Stop() {}

// GetTrend returns the series for id. Upstream failures fall back to the
// stale cache and then to a synthetic series, so the result is never empty.
func (s *Service) GetTrend(ctx context.Context, id string) (interfaces.TrendSeries, error) {
	if strings.TrimSpace(id) == "" {
		return interfaces.TrendSeries{}, fmt.Errorf("empty id in trend request: %w", interfaces.ErrInvalidIdentifier)
	}
	key := s.upstream.Normalizer().Canonical(id)

	cached, fresh, found := s.caches.Trends.Get(key)
	if found && fresh {
		return s.result(id, cached, interfaces.SourceFresh), nil
	}

	points, err := s.fetch(ctx, key)
	if err == nil {
		s.caches.Trends.Put(key, points, s.config.TTL)
		return s.result(id, points, interfaces.SourceFresh), nil
	}

	if found && len(cached) > 0 {
		log.Printf("TrendService: fetch for %s failed (%s), serving stale series: %v", key, upstream.KindOf(err), err)
		return s.result(id, cached, interfaces.SourceStale), nil
	}

	log.Printf("TrendService: fetch for %s failed (%s), serving synthetic series: %v", key, upstream.KindOf(err), err)
	synthetic := SyntheticSeries(s.caches.Clock.Now(), s.config.Points, s.random)
	return s.result(id, synthetic, interfaces.SourceSynthetic), nil
}

func (s *Service) fetch(ctx context.Context, key string) ([]interfaces.TrendPoint, error) {
	start := time.Now()
	raw, err := s.upstream.FetchTrend(ctx, key)
	if err != nil {
		return nil, err
	}
	s.metricsWriter.RecordDataFetch(time.Since(start))

	points := BuildSeries(raw, s.config.Points)
	if len(points) == 0 {
		return nil, errEmptySeries
	}
	return points, nil
}

func (s *Service) result(id string, points []interfaces.TrendPoint, source interfaces.Source) interfaces.TrendSeries {
	s.metricsWriter.RecordResult(source.String(), 1)
	return interfaces.TrendSeries{ID: id, Points: points, Source: source}
}
