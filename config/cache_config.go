package config

import "time"

// CacheConfig represents sizing and retention of the in-memory caches
type CacheConfig struct {
	// PricesCapacity is the maximum number of cached prices
	PricesCapacity int `yaml:"prices_capacity"`
	// TrendsCapacity is the maximum number of cached trend series
	TrendsCapacity int `yaml:"trends_capacity"`

	// StaleRetention is how long an expired entry stays available for stale fallback
	StaleRetention time.Duration `yaml:"stale_retention"`
	// PurgeInterval is how often entries past their retention are dropped
	PurgeInterval time.Duration `yaml:"purge_interval"`
}

func (c *CacheConfig) applyDefaults() {
	if c.PricesCapacity <= 0 {
		c.PricesCapacity = 5000
	}
	if c.TrendsCapacity <= 0 {
		c.TrendsCapacity = 500
	}
	if c.StaleRetention <= 0 {
		c.StaleRetention = 24 * time.Hour
	}
	if c.PurgeInterval <= 0 {
		c.PurgeInterval = 10 * time.Minute
	}
}
