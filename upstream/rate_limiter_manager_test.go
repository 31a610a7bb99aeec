package upstream

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/status-im/crypto-converter/config"
)

func testAPIKeyConfig() config.APIKeyConfig {
	return config.APIKeyConfig{
		Pro:   config.RateLimit{RateLimitPerMinute: 300, Burst: 10},
		Demo:  config.RateLimit{RateLimitPerMinute: 60, Burst: 2},
		NoKey: config.RateLimit{RateLimitPerMinute: 30, Burst: 1},
	}
}

func requestWithHeader(t *testing.T, url, header, value string) *http.Request {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if header != "" {
		req.Header.Set(header, value)
	}
	return req
}

func TestRateLimiterManager_GetLimiterForRequest(t *testing.T) {
	manager := NewRateLimiterManager(testAPIKeyConfig())

	tests := []struct {
		name      string
		req       *http.Request
		wantLimit rate.Limit
		wantBurst int
	}{
		{
			name:      "pro key",
			req:       requestWithHeader(t, "https://pro-api.coingecko.com/api/v3/simple/price", HeaderProAPIKey, "pro"),
			wantLimit: rate.Limit(5),
			wantBurst: 10,
		},
		{
			name:      "demo key",
			req:       requestWithHeader(t, "https://api.coingecko.com/api/v3/simple/price", HeaderDemoAPIKey, "demo"),
			wantLimit: rate.Limit(1),
			wantBurst: 2,
		},
		{
			name:      "anonymous",
			req:       requestWithHeader(t, "https://api.binance.com/api/v3/ticker/price", "", ""),
			wantLimit: rate.Limit(0.5),
			wantBurst: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := manager.GetLimiterForRequest(tt.req)
			require.NotNil(t, limiter)
			assert.InDelta(t, float64(tt.wantLimit), float64(limiter.Limit()), 1e-9)
			assert.Equal(t, tt.wantBurst, limiter.Burst())
		})
	}
}

func TestRateLimiterManager_SharesLimiters(t *testing.T) {
	manager := NewRateLimiterManager(testAPIKeyConfig())

	a := manager.GetLimiterForRequest(requestWithHeader(t, "https://api.coingecko.com/a", HeaderDemoAPIKey, "k1"))
	b := manager.GetLimiterForRequest(requestWithHeader(t, "https://api.coingecko.com/b", HeaderDemoAPIKey, "k1"))
	c := manager.GetLimiterForRequest(requestWithHeader(t, "https://api.coingecko.com/b", HeaderDemoAPIKey, "k2"))
	assert.Same(t, a, b)
	assert.NotSame(t, a, c)

	anon1 := manager.GetLimiterForRequest(requestWithHeader(t, "https://api.coingecko.com/a", "", ""))
	anon2 := manager.GetLimiterForRequest(requestWithHeader(t, "https://api.coingecko.com/b", "", ""))
	other := manager.GetLimiterForRequest(requestWithHeader(t, "https://api.binance.com/b", "", ""))
	assert.Same(t, anon1, anon2)
	assert.NotSame(t, anon1, other)
}

func TestRateLimiterManager_Defaults(t *testing.T) {
	manager := NewRateLimiterManager(config.APIKeyConfig{})

	pro := manager.GetLimiterForRequest(requestWithHeader(t, "https://x.test/", HeaderProAPIKey, "p"))
	assert.InDelta(t, float64(defaultProRPM)/60.0, float64(pro.Limit()), 1e-9)
	assert.Equal(t, 9, pro.Burst())

	anon := manager.GetLimiterForRequest(requestWithHeader(t, "https://x.test/", "", ""))
	assert.InDelta(t, float64(defaultNoKeyRPM)/60.0, float64(anon.Limit()), 1e-9)
	assert.Equal(t, 1, anon.Burst())
}

func TestRateLimiterManager_NilSafe(t *testing.T) {
	var manager *RateLimiterManager
	assert.Nil(t, manager.GetLimiterForRequest(requestWithHeader(t, "https://x.test/", "", "")))
	assert.Nil(t, NewRateLimiterManager(config.APIKeyConfig{}).GetLimiterForRequest(nil))
}
