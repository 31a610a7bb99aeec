package config

import "time"

type CoinsListConfig struct {
	TTL time.Duration `yaml:"ttl"`
	// RefreshInterval enables a background catalog refresh when > 0
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

func (c *CoinsListConfig) applyDefaults() {
	if c.TTL <= 0 {
		c.TTL = 12 * time.Hour
	}
}
