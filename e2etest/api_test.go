package e2etest

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/status-im/crypto-converter/config"
)

func TestHealthEndpoint(t *testing.T) {
	env := SetupTest(t, config.ProviderCoingecko)
	defer env.TearDown()

	resp, body := getJSON(t, env.ServerBaseURL+"/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])

	services, ok := body["services"].(map[string]interface{})
	require.True(t, ok, "Response should contain 'services' object")
	assert.Contains(t, services, "coingecko")
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestConvertEndpoint(t *testing.T) {
	env := SetupTest(t, config.ProviderCoingecko)
	defer env.TearDown()

	resp, body := getJSON(t, env.ServerBaseURL+"/api/convert?from=bitcoin&to=ethereum&amount=2")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, 40.0, body["result"])
	assert.Equal(t, false, body["degraded"])

	// A second conversion within the TTL is served from cache
	resp, _ = getJSON(t, env.ServerBaseURL+"/api/convert?from=ethereum&to=bitcoin&amount=1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(1), env.MockServer.Requests("/api/v3/simple/price"))
}

func TestConvertEndpoint_UnknownCoin(t *testing.T) {
	env := SetupTest(t, config.ProviderCoingecko)
	defer env.TearDown()

	resp, body := getJSON(t, env.ServerBaseURL+"/api/convert?from=bitcoin&to=not-a-coin&amount=1")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, false, body["success"])
}

func TestPricesEndpoint_SymbolAlias(t *testing.T) {
	env := SetupTest(t, config.ProviderCoingecko)
	defer env.TearDown()

	// Load the catalog first so "btc" can be resolved through it
	resp, _ := getJSON(t, env.ServerBaseURL+"/api/coins")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := getJSON(t, env.ServerBaseURL+"/api/prices?ids=btc,ethereum")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]interface{}{"btc": 50000.0, "ethereum": 2500.0}, body["data"])
	assert.Equal(t, int64(2), env.MockServer.Requests("/api/v3/simple/price"))
}

func TestPricesEndpoint_CacheStatus(t *testing.T) {
	env := SetupTest(t, config.ProviderCoingecko)
	defer env.TearDown()

	resp, body := getJSON(t, env.ServerBaseURL+"/api/prices?ids=bitcoin")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "miss", resp.Header.Get("Cache-Status"))
	assert.Equal(t, map[string]interface{}{"bitcoin": 50000.0}, body["data"])

	resp, _ = getJSON(t, env.ServerBaseURL+"/api/prices?ids=bitcoin,tether")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "partial", resp.Header.Get("Cache-Status"))

	// Upstream throttling now; both prices are still fresh in cache
	env.MockServer.ForceStatus(http.StatusTooManyRequests)
	resp, body = getJSON(t, env.ServerBaseURL+"/api/prices?ids=bitcoin,tether")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "full", resp.Header.Get("Cache-Status"))
	assert.Equal(t, false, body["degraded"])
}

func TestCoinsEndpoint(t *testing.T) {
	env := SetupTest(t, config.ProviderCoingecko)
	defer env.TearDown()

	resp, body := getJSON(t, env.ServerBaseURL+"/api/coins")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "fresh", body["source"])

	coins, ok := body["data"].([]interface{})
	require.True(t, ok)
	assert.Len(t, coins, 3, "The record without id and name should be dropped")
}

func TestCoinsEndpoint_Fallback(t *testing.T) {
	env := SetupTest(t, config.ProviderCoingecko)
	defer env.TearDown()
	env.MockServer.ForceStatus(http.StatusServiceUnavailable)

	resp, body := getJSON(t, env.ServerBaseURL+"/api/coins")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "fallback", body["source"])
	assert.Equal(t, true, body["degraded"])

	coins, ok := body["data"].([]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, coins)
}

func TestTrendEndpoint(t *testing.T) {
	env := SetupTest(t, config.ProviderCoingecko)
	defer env.TearDown()

	resp, body := getJSON(t, env.ServerBaseURL+"/api/trend?coin=bitcoin")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "fresh", body["source"])

	points, ok := body["data"].([]interface{})
	require.True(t, ok)
	assert.Len(t, points, 24)
	assertAscending(t, points)
}

func TestTrendEndpoint_Synthetic(t *testing.T) {
	env := SetupTest(t, config.ProviderCoingecko)
	defer env.TearDown()
	env.MockServer.ForceStatus(http.StatusUnauthorized)

	resp, body := getJSON(t, env.ServerBaseURL+"/api/trend?coin=bitcoin")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "synthetic", body["source"])

	points, ok := body["data"].([]interface{})
	require.True(t, ok)
	assert.Len(t, points, 24)
	assertAscending(t, points)
}

func assertAscending(t *testing.T, points []interface{}) {
	var last float64
	for i, p := range points {
		point, ok := p.(map[string]interface{})
		require.True(t, ok)
		ts, ok := point["time"].(float64)
		require.True(t, ok)
		if i > 0 {
			assert.Greater(t, ts, last, "points must be ascending")
		}
		last = ts
	}
}
