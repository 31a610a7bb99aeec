package prices

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/status-im/crypto-converter/cache"
	"github.com/status-im/crypto-converter/config"
	"github.com/status-im/crypto-converter/interfaces"
	"github.com/status-im/crypto-converter/metrics"
	"github.com/status-im/crypto-converter/upstream"
)

// Service resolves USD prices for batches of identifiers.
//
// Every call performs at most two upstream requests: one batch for the ids
// missing from the cache and, when some of them are unknown to the
// upstream, one batch for their catalog aliases.
type Service struct {
	upstream      interfaces.Upstream
	catalog       interfaces.CatalogProvider
	caches        *cache.Caches
	config        config.PricesConfig
	metricsWriter *metrics.MetricsWriter
}

// NewService creates a price service. catalog may be nil, which disables
// alias resolution.
func NewService(up interfaces.Upstream, catalog interfaces.CatalogProvider, caches *cache.Caches, cfg config.PricesConfig) *Service {
	return &Service{
		upstream:      up,
		catalog:       catalog,
		caches:        caches,
		config:        cfg,
		metricsWriter: metrics.NewMetricsWriter(metrics.ServicePrices),
	}
}

// Start implements core.Interface
func (s *Service) Start(ctx context.Context) error {
	if s.upstream == nil || s.caches == nil {
		return fmt.Errorf("prices service not properly initialized")
	}
	return nil
}

// Stop implements core.Interface
func (s *Service) Stop() {}

// request tracks one requested id and the upstream key it maps to
type request struct {
	id  string
	key string
}

// ResolvePrices returns prices for ids, keyed by the ids as given. Ids
// without a price are absent from the result. Upstream failures are never
// returned; only malformed input is.
func (s *Service) ResolvePrices(ctx context.Context, ids []string) (interfaces.PriceResult, error) {
	result := interfaces.PriceResult{
		Prices:      make(map[string]float64),
		Sources:     make(map[string]interfaces.Source),
		CacheStatus: interfaces.CacheStatusMiss,
	}

	normalizer := s.upstream.Normalizer()
	requests, err := s.collect(ids, normalizer)
	if err != nil {
		return result, err
	}
	if len(requests) == 0 {
		result.CacheStatus = interfaces.CacheStatusFull
		return result, nil
	}

	// 1. fresh cache hits
	var missing []request
	for _, r := range requests {
		if price, fresh, found := s.caches.Prices.Get(r.key); found && fresh {
			s.set(&result, r.id, price, interfaces.SourceFresh)
			continue
		}
		missing = append(missing, r)
	}
	result.CacheStatus = interfaces.CacheStatusFromHits(len(requests)-len(missing), len(requests))

	if len(missing) == 0 {
		s.record(result)
		return result, nil
	}

	// 2. one batched upstream call for everything missing
	err = s.fetchBatch(ctx, missing, func(r request) string { return r.key }, &result)
	if err != nil {
		s.record(result)
		return result, nil
	}

	// 3. at most one alias retry for ids the upstream did not know
	var unresolved []request
	for _, r := range missing {
		if _, ok := result.Prices[r.id]; !ok {
			unresolved = append(unresolved, r)
		}
	}
	if len(unresolved) > 0 {
		s.resolveAliases(ctx, unresolved, normalizer, &result)
	}

	s.record(result)
	return result, nil
}

// collect validates, canonicalizes and deduplicates the requested ids
func (s *Service) collect(ids []string, normalizer interfaces.IdentifierNormalizer) ([]request, error) {
	requests := make([]request, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))

	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("empty id in price request: %w", interfaces.ErrInvalidIdentifier)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		requests = append(requests, request{id: id, key: normalizer.Canonical(id)})
	}
	return requests, nil
}

// fetchBatch issues one upstream call for the keys of batch. On success
// every returned positive price is cached under the key chosen by keyOf
// and under the request's own key; other values leave the id unresolved. On a rate limit the stale value of each entry is
// served and its expiry pushed back by the cooldown. Other failures are
// logged and leave the ids unresolved. The upstream error is returned so
// the caller can stop further calls.
func (s *Service) fetchBatch(ctx context.Context, batch []request, keyOf func(request) string, result *interfaces.PriceResult) error {
	keys := uniqueKeys(batch, keyOf)

	start := time.Now()
	prices, err := s.upstream.FetchPrices(ctx, keys)
	if err == nil {
		s.metricsWriter.RecordDataFetch(time.Since(start))
		for _, r := range batch {
			key := keyOf(r)
			price, ok := prices[key]
			if !ok || !validPrice(price) {
				continue
			}
			s.caches.Prices.Put(key, price, s.config.TTL)
			if r.key != key {
				s.caches.Prices.Put(r.key, price, s.config.TTL)
			}
			s.set(result, r.id, price, interfaces.SourceFresh)
		}
		return nil
	}

	if !errors.Is(err, upstream.ErrRateLimited) {
		log.Printf("PricesService: upstream failed for %d ids (%s), returning partial result: %v",
			len(keys), upstream.KindOf(err), err)
		return err
	}

	extended := 0
	for _, r := range batch {
		price, ok := s.caches.Prices.GetStale(keyOf(r))
		if !ok {
			continue
		}
		if s.caches.Prices.Extend(keyOf(r), s.config.RateLimitCooldown) {
			extended++
		}
		s.set(result, r.id, price, interfaces.SourceStale)
	}
	s.metricsWriter.RecordCooldownExtensions(extended)
	log.Printf("PricesService: upstream rate limited, served %d of %d ids from stale cache, cooldown %s",
		extended, len(batch), s.config.RateLimitCooldown)
	return err
}

// resolveAliases maps unresolved ids to catalog aliases and retries them in
// a single batch. Aliases already fresh in the cache need no request.
func (s *Service) resolveAliases(ctx context.Context, unresolved []request, normalizer interfaces.IdentifierNormalizer, result *interfaces.PriceResult) {
	if s.catalog == nil {
		return
	}
	catalog := s.catalog.Catalog()

	aliasOf := make(map[string]string, len(unresolved))
	var retry []request
	for _, r := range unresolved {
		alias, ok := normalizer.Alias(r.id, catalog)
		if !ok {
			continue
		}
		aliasKey := normalizer.Canonical(alias)
		if aliasKey == "" || aliasKey == r.key {
			continue
		}

		if price, fresh, found := s.caches.Prices.Get(aliasKey); found && fresh {
			s.caches.Prices.Put(r.key, price, s.config.TTL)
			s.set(result, r.id, price, interfaces.SourceFresh)
			continue
		}
		aliasOf[r.id] = aliasKey
		retry = append(retry, r)
	}

	if len(retry) == 0 {
		return
	}

	s.metricsWriter.RecordAliasRetry()
	log.Printf("PricesService: retrying %d ids through catalog aliases", len(retry))
	if err := s.fetchBatch(ctx, retry, func(r request) string { return aliasOf[r.id] }, result); err != nil {
		log.Printf("PricesService: alias retry left %d ids unresolved (%s)", len(retry), upstream.KindOf(err))
	}
}

func (s *Service) set(result *interfaces.PriceResult, id string, price float64, source interfaces.Source) {
	result.Prices[id] = price
	result.Sources[id] = source
}

func (s *Service) record(result interfaces.PriceResult) {
	counts := make(map[interfaces.Source]int)
	for _, source := range result.Sources {
		counts[source]++
	}
	for source, n := range counts {
		s.metricsWriter.RecordResult(source.String(), n)
	}
}

// validPrice rejects the zero, negative and non-finite values some upstreams
// report for delisted assets
func validPrice(price float64) bool {
	return price > 0 && !math.IsInf(price, 1)
}

func uniqueKeys(batch []request, keyOf func(request) string) []string {
	keys := make([]string, 0, len(batch))
	seen := make(map[string]struct{}, len(batch))
	for _, r := range batch {
		key := keyOf(r)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}
