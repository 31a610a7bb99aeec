package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache lookup results
const (
	CacheHit   = "hit"
	CacheStale = "stale"
	CacheMiss  = "miss"
)

var (
	// Cardinality: ~9 (3 caches × 3 results)
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "cache_lookups_total",
			Help: "Cache lookups grouped by cache and result",
		},
		[]string{"cache", "result"},
	)

	CacheSizeGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricsPrefix + "cache_size",
			Help: "Number of entries held by each cache",
		},
		[]string{"cache"},
	)

	CacheEvictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "cache_evictions_total",
			Help: "Entries removed from a cache by capacity eviction or retention purge",
		},
		[]string{"cache", "reason"},
	)

	// Request latency per endpoint
	// Cardinality: ~6 (number of API endpoints)
	RequestLatencyHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: MetricsPrefix + "request_latency_seconds",
			Help: "HTTP request latency by endpoint",
		},
		[]string{"endpoint"},
	)
)

// RecordCacheLookup counts a single cache lookup
func RecordCacheLookup(cache, result string) {
	CacheLookupsTotal.WithLabelValues(cache, result).Inc()
}

// RecordCacheSize records the current number of entries in cache
func RecordCacheSize(cache string, size int) {
	CacheSizeGauge.WithLabelValues(cache).Set(float64(size))
}

// RecordCacheEvictions counts entries removed from cache for reason
func RecordCacheEvictions(cache, reason string, n int) {
	if n <= 0 {
		return
	}
	CacheEvictionsTotal.WithLabelValues(cache, reason).Add(float64(n))
}

// RecordRequestLatency measures the time spent serving endpoint since start
func RecordRequestLatency(endpoint string, start time.Time) {
	RequestLatencyHistogram.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}
