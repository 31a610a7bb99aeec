package cache

import (
	"time"

	"github.com/status-im/crypto-converter/config"
	"github.com/status-im/crypto-converter/interfaces"
)

// Cache names used in metrics
const (
	NamePrices = "prices"
	NameCoins  = "coins"
	NameTrends = "trends"
)

// CoinsKey is the single slot the coin catalog lives under
const CoinsKey = "catalog"

// Caches holds the three caches shared by the resolvers. It is built once at
// startup and handed to each service.
type Caches struct {
	Prices *TTLCache[float64]
	Coins  *TTLCache[[]interfaces.Coin]
	Trends *TTLCache[[]interfaces.TrendPoint]
	Clock  Clock
}

// NewCaches creates the cache bundle sized by cfg
func NewCaches(cfg config.CacheConfig, clock Clock) *Caches {
	if clock == nil {
		clock = SystemClock
	}
	return &Caches{
		Prices: NewTTLCache[float64](NamePrices, cfg.PricesCapacity, clock),
		Coins:  NewTTLCache[[]interfaces.Coin](NameCoins, 1, clock),
		Trends: NewTTLCache[[]interfaces.TrendPoint](NameTrends, cfg.TrendsCapacity, clock),
		Clock:  clock,
	}
}

// PurgeOlderThan drops entries expired longer than retention from the
// per-id caches. The catalog slot is kept: a stale catalog is still served
// during an upstream outage of any length.
func (c *Caches) PurgeOlderThan(retention time.Duration) int {
	return c.Prices.PurgeOlderThan(retention) +
		c.Trends.PurgeOlderThan(retention)
}
