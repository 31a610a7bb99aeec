package config

import "time"

type ServerConfig struct {
	Port string `yaml:"port"`

	// RateLimitPerMinute is the inbound request budget per client address
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`
	// ClientIdleTTL drops a client's limiter after this long without requests
	ClientIdleTTL time.Duration `yaml:"client_idle_ttl"`
}

func (c *ServerConfig) applyDefaults() {
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.RateLimitPerMinute <= 0 {
		c.RateLimitPerMinute = 60
	}
	if c.ClientIdleTTL <= 0 {
		c.ClientIdleTTL = 10 * time.Minute
	}
}
