package prices

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/status-im/crypto-converter/cache"
	"github.com/status-im/crypto-converter/config"
	"github.com/status-im/crypto-converter/identifiers"
	"github.com/status-im/crypto-converter/interfaces"
	mock_interfaces "github.com/status-im/crypto-converter/interfaces/mocks"
	"github.com/status-im/crypto-converter/upstream"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

var catalog = []interfaces.Coin{
	{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"},
	{ID: "ethereum", Symbol: "eth", Name: "Ethereum"},
}

type fixture struct {
	service  *Service
	upstream *mock_interfaces.MockUpstream
	catalog  *mock_interfaces.MockCatalogProvider
	caches   *cache.Caches
	clock    *cache.ManualClock
}

func testPricesConfig() config.PricesConfig {
	return config.PricesConfig{
		TTL:               5 * time.Minute,
		RateLimitCooldown: 60 * time.Second,
		Currency:          "usd",
	}
}

func newFixture(t *testing.T, normalizer interfaces.IdentifierNormalizer) *fixture {
	ctrl := gomock.NewController(t)
	clock := cache.NewManualClock(epoch)
	caches := cache.NewCaches(config.CacheConfig{PricesCapacity: 100, TrendsCapacity: 10}, clock)

	up := mock_interfaces.NewMockUpstream(ctrl)
	up.EXPECT().Normalizer().Return(normalizer).AnyTimes()
	catalogProvider := mock_interfaces.NewMockCatalogProvider(ctrl)
	catalogProvider.EXPECT().Catalog().Return(catalog).AnyTimes()

	return &fixture{
		service:  NewService(up, catalogProvider, caches, testPricesConfig()),
		upstream: up,
		catalog:  catalogProvider,
		caches:   caches,
		clock:    clock,
	}
}

func TestResolvePrices_FetchesMissingInOneBatch(t *testing.T) {
	f := newFixture(t, identifiers.NewIDNormalizer())
	f.upstream.EXPECT().
		FetchPrices(gomock.Any(), []string{"bitcoin", "ethereum"}).
		Return(map[string]float64{"bitcoin": 65000, "ethereum": 3000}, nil).
		Times(1)

	res, err := f.service.ResolvePrices(context.Background(), []string{"bitcoin", "ethereum"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"bitcoin": 65000, "ethereum": 3000}, res.Prices)
	assert.Equal(t, interfaces.SourceFresh, res.Sources["bitcoin"])
	assert.Equal(t, interfaces.CacheStatusMiss, res.CacheStatus)
	assert.False(t, res.Degraded())
}

func TestResolvePrices_IdempotentWithinTTL(t *testing.T) {
	f := newFixture(t, identifiers.NewIDNormalizer())
	f.upstream.EXPECT().
		FetchPrices(gomock.Any(), gomock.Any()).
		Return(map[string]float64{"bitcoin": 65000, "ethereum": 3000}, nil).
		Times(1)

	_, err := f.service.ResolvePrices(context.Background(), []string{"bitcoin", "ethereum"})
	require.NoError(t, err)

	f.clock.Advance(4 * time.Minute)
	res, err := f.service.ResolvePrices(context.Background(), []string{"ethereum", "bitcoin"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"bitcoin": 65000, "ethereum": 3000}, res.Prices)
	assert.Equal(t, interfaces.CacheStatusFull, res.CacheStatus)
}

func TestResolvePrices_PartialCacheHit(t *testing.T) {
	f := newFixture(t, identifiers.NewIDNormalizer())
	f.caches.Prices.Put("bitcoin", 65000, time.Minute)
	f.upstream.EXPECT().
		FetchPrices(gomock.Any(), []string{"ethereum"}).
		Return(map[string]float64{"ethereum": 3000}, nil)

	res, err := f.service.ResolvePrices(context.Background(), []string{"bitcoin", "ethereum"})
	require.NoError(t, err)
	assert.Len(t, res.Prices, 2)
	assert.Equal(t, interfaces.CacheStatusPartial, res.CacheStatus)
}

func TestResolvePrices_PartialResult(t *testing.T) {
	f := newFixture(t, identifiers.NewIDNormalizer())
	f.upstream.EXPECT().
		FetchPrices(gomock.Any(), []string{"bitcoin", "unknown-coin"}).
		Return(map[string]float64{"bitcoin": 65000}, nil)

	res, err := f.service.ResolvePrices(context.Background(), []string{"bitcoin", "unknown-coin"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"bitcoin": 65000}, res.Prices)
	assert.NotContains(t, res.Sources, "unknown-coin")
}

func TestResolvePrices_NonPositivePriceIsMissing(t *testing.T) {
	f := newFixture(t, identifiers.NewIDNormalizer())
	ids := []string{"bitcoin", "deadcoin", "neg", "nan-coin", "inf-coin"}
	f.upstream.EXPECT().
		FetchPrices(gomock.Any(), ids).
		Return(map[string]float64{
			"bitcoin":  65000,
			"deadcoin": 0,
			"neg":      -1,
			"nan-coin": math.NaN(),
			"inf-coin": math.Inf(1),
		}, nil).
		Times(1)

	res, err := f.service.ResolvePrices(context.Background(), ids)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"bitcoin": 65000}, res.Prices)
	assert.NotContains(t, res.Sources, "deadcoin")

	for _, id := range ids[1:] {
		_, _, found := f.caches.Prices.Get(id)
		assert.False(t, found, "%s must not be cached", id)
	}
}

func TestResolvePrices_ZeroPriceTakesAliasPath(t *testing.T) {
	f := newFixture(t, identifiers.NewIDNormalizer())
	gomock.InOrder(
		f.upstream.EXPECT().
			FetchPrices(gomock.Any(), []string{"btc"}).
			Return(map[string]float64{"btc": 0}, nil),
		f.upstream.EXPECT().
			FetchPrices(gomock.Any(), []string{"bitcoin"}).
			Return(map[string]float64{"bitcoin": 65000}, nil),
	)

	res, err := f.service.ResolvePrices(context.Background(), []string{"btc"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"btc": 65000}, res.Prices)
}

func TestResolvePrices_RateLimitServesStaleAndExtends(t *testing.T) {
	f := newFixture(t, identifiers.NewIDNormalizer())
	f.caches.Prices.Put("bitcoin", 64000, 5*time.Minute)
	f.clock.Advance(10 * time.Minute)

	f.upstream.EXPECT().
		FetchPrices(gomock.Any(), []string{"bitcoin", "ethereum"}).
		Return(nil, upstream.NewStatusError(429, []byte("Too Many Requests"))).
		Times(1)

	res, err := f.service.ResolvePrices(context.Background(), []string{"bitcoin", "ethereum"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"bitcoin": 64000}, res.Prices)
	assert.Equal(t, interfaces.SourceStale, res.Sources["bitcoin"])
	assert.True(t, res.Degraded())

	expiresAt, ok := f.caches.Prices.ExpiresAt("bitcoin")
	require.True(t, ok)
	assert.Equal(t, f.clock.Now().Add(60*time.Second), expiresAt)

	// During the cooldown the extended entry answers without an upstream call
	f.clock.Advance(30 * time.Second)
	res, err = f.service.ResolvePrices(context.Background(), []string{"bitcoin"})
	require.NoError(t, err)
	assert.Equal(t, 64000.0, res.Prices["bitcoin"])
}

func TestResolvePrices_OtherFailureReturnsFreshOnly(t *testing.T) {
	f := newFixture(t, identifiers.NewIDNormalizer())
	f.caches.Prices.Put("bitcoin", 65000, 5*time.Minute)
	f.caches.Prices.Put("ethereum", 2900, time.Minute)
	f.clock.Advance(2 * time.Minute)

	f.upstream.EXPECT().
		FetchPrices(gomock.Any(), []string{"ethereum"}).
		Return(nil, upstream.Unavailable("timeout")).
		Times(1)

	res, err := f.service.ResolvePrices(context.Background(), []string{"bitcoin", "ethereum"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"bitcoin": 65000}, res.Prices)

	// The stale entry was not touched
	expiresAt, _ := f.caches.Prices.ExpiresAt("ethereum")
	assert.Equal(t, epoch.Add(time.Minute), expiresAt)
}

func TestResolvePrices_AliasRetry(t *testing.T) {
	f := newFixture(t, identifiers.NewIDNormalizer())
	gomock.InOrder(
		f.upstream.EXPECT().
			FetchPrices(gomock.Any(), []string{"btc"}).
			Return(map[string]float64{}, nil),
		f.upstream.EXPECT().
			FetchPrices(gomock.Any(), []string{"bitcoin"}).
			Return(map[string]float64{"bitcoin": 65000}, nil),
	)

	res, err := f.service.ResolvePrices(context.Background(), []string{"btc"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"btc": 65000}, res.Prices)

	// Cached under both the alias and the requested key
	_, fresh, found := f.caches.Prices.Get("bitcoin")
	assert.True(t, found && fresh)
	_, fresh, found = f.caches.Prices.Get("btc")
	assert.True(t, found && fresh)
}

func TestResolvePrices_AliasRetryBound(t *testing.T) {
	f := newFixture(t, identifiers.NewIDNormalizer())

	// "btc" and "eth" both alias; still exactly two calls in total
	f.upstream.EXPECT().
		FetchPrices(gomock.Any(), []string{"btc", "eth", "nothing"}).
		Return(map[string]float64{}, nil)
	f.upstream.EXPECT().
		FetchPrices(gomock.Any(), []string{"bitcoin", "ethereum"}).
		Return(map[string]float64{}, nil)

	res, err := f.service.ResolvePrices(context.Background(), []string{"btc", "eth", "nothing"})
	require.NoError(t, err)
	assert.Empty(t, res.Prices)
}

func TestResolvePrices_AliasBatchFailureKeepsFirstBatch(t *testing.T) {
	f := newFixture(t, identifiers.NewIDNormalizer())
	gomock.InOrder(
		f.upstream.EXPECT().
			FetchPrices(gomock.Any(), []string{"tether", "btc"}).
			Return(map[string]float64{"tether": 1}, nil),
		f.upstream.EXPECT().
			FetchPrices(gomock.Any(), []string{"bitcoin"}).
			Return(nil, upstream.NewStatusError(503, nil)),
	)

	res, err := f.service.ResolvePrices(context.Background(), []string{"tether", "btc"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"tether": 1}, res.Prices)
	assert.False(t, res.Degraded())
}

func TestResolvePrices_AliasFromFreshCache(t *testing.T) {
	f := newFixture(t, identifiers.NewIDNormalizer())
	f.caches.Prices.Put("bitcoin", 65000, time.Minute)

	f.upstream.EXPECT().
		FetchPrices(gomock.Any(), []string{"btc"}).
		Return(map[string]float64{}, nil).
		Times(1)

	res, err := f.service.ResolvePrices(context.Background(), []string{"btc"})
	require.NoError(t, err)
	assert.Equal(t, 65000.0, res.Prices["btc"])
}

func TestResolvePrices_NoAliasRetryAfterFailure(t *testing.T) {
	f := newFixture(t, identifiers.NewIDNormalizer())
	f.upstream.EXPECT().
		FetchPrices(gomock.Any(), []string{"btc"}).
		Return(nil, upstream.NewStatusError(503, nil)).
		Times(1)

	res, err := f.service.ResolvePrices(context.Background(), []string{"btc"})
	require.NoError(t, err)
	assert.Empty(t, res.Prices)
}

func TestResolvePrices_SymbolUpstream(t *testing.T) {
	f := newFixture(t, identifiers.NewSymbolNormalizer())
	gomock.InOrder(
		f.upstream.EXPECT().
			FetchPrices(gomock.Any(), []string{"BTC", "ETHEREUM"}).
			Return(map[string]float64{"BTC": 65000}, nil),
		f.upstream.EXPECT().
			FetchPrices(gomock.Any(), []string{"ETH"}).
			Return(map[string]float64{"ETH": 3000}, nil),
	)

	res, err := f.service.ResolvePrices(context.Background(), []string{"btc", "ethereum"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"btc": 65000, "ethereum": 3000}, res.Prices)
}

func TestResolvePrices_DuplicatesCollapsed(t *testing.T) {
	f := newFixture(t, identifiers.NewIDNormalizer())
	f.upstream.EXPECT().
		FetchPrices(gomock.Any(), []string{"bitcoin"}).
		Return(map[string]float64{"bitcoin": 65000}, nil)

	res, err := f.service.ResolvePrices(context.Background(), []string{"bitcoin", "bitcoin", "bitcoin"})
	require.NoError(t, err)
	assert.Len(t, res.Prices, 1)
}

func TestResolvePrices_InvalidInput(t *testing.T) {
	f := newFixture(t, identifiers.NewIDNormalizer())

	_, err := f.service.ResolvePrices(context.Background(), []string{"bitcoin", "  "})
	assert.True(t, errors.Is(err, interfaces.ErrInvalidIdentifier))

	res, err := f.service.ResolvePrices(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Prices)
}

func TestService_StartNotInitialized(t *testing.T) {
	s := &Service{}
	assert.Error(t, s.Start(context.Background()))
}
