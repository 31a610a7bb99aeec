package upstream

import (
	"math"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/status-im/crypto-converter/config"
)

// IRateLimiterManager provides a way to get a rate limiter for an outgoing request
//
//go:generate mockgen -destination=mocks/rate_limiter_manager.go . IRateLimiterManager
type IRateLimiterManager interface {
	GetLimiterForRequest(req *http.Request) *rate.Limiter
}

// Defaults in requests per minute, used when config is not provided
const (
	defaultProRPM   = 500
	defaultDemoRPM  = 30
	defaultNoKeyRPM = 30
)

// RateLimiterManager manages outbound limiters per API key, and per host for
// anonymous requests
type RateLimiterManager struct {
	mu           sync.RWMutex
	keyToLimiter map[string]*rate.Limiter
	config       config.APIKeyConfig
}

// NewRateLimiterManager creates a manager using cfg for limits
func NewRateLimiterManager(cfg config.APIKeyConfig) *RateLimiterManager {
	return &RateLimiterManager{
		keyToLimiter: make(map[string]*rate.Limiter),
		config:       cfg,
	}
}

// GetLimiterForRequest inspects the API key headers to pick a limiter.
// Requests without a key share one limiter per host.
func (m *RateLimiterManager) GetLimiterForRequest(req *http.Request) *rate.Limiter {
	if m == nil || req == nil || req.URL == nil {
		return nil
	}

	if v := req.Header.Get(HeaderProAPIKey); v != "" {
		return m.getLimiterForKey("key:"+v, ProKey)
	}
	if v := req.Header.Get(HeaderDemoAPIKey); v != "" {
		return m.getLimiterForKey("key:"+v, DemoKey)
	}

	host := req.URL.Hostname()
	if host == "" {
		return nil
	}
	return m.getLimiterForKey("host:"+host, NoKey)
}

// getLimiterForKey returns a limiter for a given map key and type, creating it if missing
func (m *RateLimiterManager) getLimiterForKey(mapKey string, keyType KeyType) *rate.Limiter {
	mapKey = keyType.String() + "|" + mapKey

	m.mu.RLock()
	if lim, ok := m.keyToLimiter[mapKey]; ok {
		m.mu.RUnlock()
		return lim
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if lim, ok := m.keyToLimiter[mapKey]; ok {
		return lim
	}

	limit := m.limitForType(keyType)
	limiter := rate.NewLimiter(limit, m.burstForType(keyType, limit))
	m.keyToLimiter[mapKey] = limiter
	return limiter
}

func (m *RateLimiterManager) limitForType(keyType KeyType) rate.Limit {
	var rpm int
	switch keyType {
	case ProKey:
		rpm = m.config.Pro.RateLimitPerMinute
		if rpm <= 0 {
			rpm = defaultProRPM
		}
	case DemoKey:
		rpm = m.config.Demo.RateLimitPerMinute
		if rpm <= 0 {
			rpm = defaultDemoRPM
		}
	default:
		rpm = m.config.NoKey.RateLimitPerMinute
		if rpm <= 0 {
			rpm = defaultNoKeyRPM
		}
	}
	return rate.Limit(float64(rpm) / 60.0)
}

func (m *RateLimiterManager) burstForType(keyType KeyType, limit rate.Limit) int {
	var burst int
	switch keyType {
	case ProKey:
		burst = m.config.Pro.Burst
	case DemoKey:
		burst = m.config.Demo.Burst
	default:
		burst = m.config.NoKey.Burst
	}
	if burst > 0 {
		return burst
	}
	return defaultBurstForLimit(limit)
}

func defaultBurstForLimit(limit rate.Limit) int {
	if limit <= 1.0 {
		return 1
	}
	return int(math.Ceil(float64(limit)))
}
