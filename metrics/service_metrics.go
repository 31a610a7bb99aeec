package metrics

import (
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsPrefix is the prefix used for all metrics
const MetricsPrefix = "crypto_converter_"

// Service constants
const (
	ServicePrices = "prices"
	ServiceCoins  = "coins"
	ServiceTrend  = "trend"
)

var (
	// Global upstream request counter (all services)
	// Cardinality: ~10 (2 providers × 5 statuses)
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "upstream_requests_total",
			Help: "Total number of HTTP requests to the upstream market data provider",
		},
		[]string{"provider", "status"},
	)

	// Service-specific upstream request counter
	// Cardinality: ~15 (3 services × 5 statuses)
	ServiceUpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "service_upstream_requests_total",
			Help: "Total number of HTTP requests to the upstream provider per service",
		},
		[]string{"service", "status"},
	)

	// Retry attempts counter
	// Cardinality: ~3 (number of services)
	ServiceRetryCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "service_retry_attempts_total",
			Help: "Total number of retry attempts per service",
		},
		[]string{"service"},
	)

	// Resolver results by the source that produced them
	// Cardinality: ~12 (3 services × 4 sources)
	ResolverResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "resolver_results_total",
			Help: "Number of values returned by resolvers grouped by source",
		},
		[]string{"service", "source"},
	)

	// Stale entries whose expiry was pushed forward after a rate limit
	CooldownExtensionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "rate_limit_cooldown_extensions_total",
			Help: "Number of cache entries extended by the rate limit cooldown",
		},
		[]string{"service"},
	)

	AliasRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "alias_retries_total",
			Help: "Number of batched upstream retries issued for aliased identifiers",
		},
		[]string{"service"},
	)

	// Data fetch duration per service
	DataFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: MetricsPrefix + "data_fetch_duration_seconds",
			Help: "Time taken to fetch data from the upstream provider",
		},
		[]string{"service"},
	)
)

// MetricsWriter provides a unified interface for recording service metrics
type MetricsWriter struct {
	serviceName  string
	providerName string
}

// NewMetricsWriter creates a new MetricsWriter for the specified service
func NewMetricsWriter(serviceName string) *MetricsWriter {
	return &MetricsWriter{
		serviceName:  serviceName,
		providerName: "unknown",
	}
}

// WithProvider returns a copy of the writer that labels upstream requests with provider
func (mw *MetricsWriter) WithProvider(provider string) *MetricsWriter {
	return &MetricsWriter{
		serviceName:  mw.serviceName,
		providerName: provider,
	}
}

// GetServiceName returns the service name
func (mw *MetricsWriter) GetServiceName() string {
	return mw.serviceName
}

// RecordUpstreamRequest records an upstream request with its status
func (mw *MetricsWriter) RecordUpstreamRequest(status string) {
	UpstreamRequestsTotal.WithLabelValues(mw.providerName, status).Inc()
	ServiceUpstreamRequestsTotal.WithLabelValues(mw.serviceName, status).Inc()
}

// RecordRetryAttempt records a retry attempt
func (mw *MetricsWriter) RecordRetryAttempt() {
	ServiceRetryCounter.WithLabelValues(mw.serviceName).Inc()
	log.Printf("Metrics: %s recorded a retry attempt", mw.serviceName)
}

// RecordResult counts n values served from source
func (mw *MetricsWriter) RecordResult(source string, n int) {
	if n <= 0 {
		return
	}
	ResolverResultsTotal.WithLabelValues(mw.serviceName, source).Add(float64(n))
}

// RecordCooldownExtensions counts cache entries extended after a rate limit
func (mw *MetricsWriter) RecordCooldownExtensions(n int) {
	if n <= 0 {
		return
	}
	CooldownExtensionsTotal.WithLabelValues(mw.serviceName).Add(float64(n))
}

// RecordAliasRetry counts an alias retry batch
func (mw *MetricsWriter) RecordAliasRetry() {
	AliasRetriesTotal.WithLabelValues(mw.serviceName).Inc()
}

// RecordDataFetch records the duration of an upstream fetch
func (mw *MetricsWriter) RecordDataFetch(duration time.Duration) {
	DataFetchDuration.WithLabelValues(mw.serviceName).Observe(duration.Seconds())
}

// Implement HttpStatusHandler interface for MetricsWriter
// OnRequest records an HTTP request with its status
func (mw *MetricsWriter) OnRequest(status string) {
	mw.RecordUpstreamRequest(status)
}

// OnRetry records an HTTP retry attempt
func (mw *MetricsWriter) OnRetry() {
	mw.RecordRetryAttempt()
}
