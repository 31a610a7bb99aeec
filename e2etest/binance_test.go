package e2etest

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/status-im/crypto-converter/config"
)

func TestBinanceConvert(t *testing.T) {
	env := SetupTest(t, config.ProviderBinance)
	defer env.TearDown()

	resp, body := getJSON(t, env.ServerBaseURL+"/api/convert?from=btc&to=eth&amount=2")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 40.0, body["result"])
}

func TestBinanceCoins(t *testing.T) {
	env := SetupTest(t, config.ProviderBinance)
	defer env.TearDown()

	resp, body := getJSON(t, env.ServerBaseURL+"/api/coins")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "fresh", body["source"])

	coins, ok := body["data"].([]interface{})
	require.True(t, ok)
	assert.Len(t, coins, 2, "Only TRADING pairs quoted in USDT are listed")
}

func TestBinanceTrend(t *testing.T) {
	env := SetupTest(t, config.ProviderBinance)
	defer env.TearDown()

	resp, body := getJSON(t, env.ServerBaseURL+"/api/trend?coin=eth")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "fresh", body["source"])

	points, ok := body["data"].([]interface{})
	require.True(t, ok)
	assert.Len(t, points, 24)
	assertAscending(t, points)
}
