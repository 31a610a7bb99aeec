package config

import "time"

const (
	MinTrendTTL = 1 * time.Minute
	MaxTrendTTL = 10 * time.Minute
)

// TrendConfig defines configuration for the trend resolver
type TrendConfig struct {
	// TTL of a cached series, clamped to [MinTrendTTL, MaxTrendTTL]
	TTL time.Duration `yaml:"ttl"`

	// Days is the historical window requested from the upstream
	Days string `yaml:"days"`

	// Points is the number of hourly points kept (and synthesized on fallback)
	Points int `yaml:"points"`
}

func (c *TrendConfig) applyDefaults() {
	c.TTL = clampTTL(c.TTL, MinTrendTTL, MaxTrendTTL, MaxTrendTTL)
	if c.Days == "" {
		c.Days = "1"
	}
	if c.Points <= 0 {
		c.Points = 24
	}
}
