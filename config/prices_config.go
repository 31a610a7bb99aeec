package config

import "time"

const (
	MinPriceTTL = 1 * time.Minute
	MaxPriceTTL = 5 * time.Minute
)

// PricesConfig represents configuration for the price resolver
type PricesConfig struct {
	// TTL of a cached price, clamped to [MinPriceTTL, MaxPriceTTL]
	TTL time.Duration `yaml:"ttl"`
	// RateLimitCooldown is how far a stale entry is pushed forward when the upstream throttles us
	RateLimitCooldown time.Duration `yaml:"rate_limit_cooldown"`
	// Currency is the quote currency requested from the upstream
	Currency string `yaml:"currency"`
}

func (c *PricesConfig) applyDefaults() {
	c.TTL = clampTTL(c.TTL, MinPriceTTL, MaxPriceTTL, MaxPriceTTL)
	if c.RateLimitCooldown <= 0 {
		c.RateLimitCooldown = 60 * time.Second
	}
	if c.Currency == "" {
		c.Currency = "usd"
	}
}

// clampTTL returns def for unset values and bounds everything else
func clampTTL(ttl, lo, hi, def time.Duration) time.Duration {
	if ttl <= 0 {
		return def
	}
	if ttl < lo {
		return lo
	}
	if ttl > hi {
		return hi
	}
	return ttl
}
