package config

import "time"

const (
	ProviderCoingecko = "coingecko"
	ProviderBinance   = "binance"
)

// UpstreamConfig describes how the price API is reached
type UpstreamConfig struct {
	// Provider selects the upstream implementation: "coingecko" or "binance"
	Provider string `yaml:"provider"`

	// RequestTimeout bounds a whole request including reading the body
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// ConnectionTimeout bounds dialing only
	ConnectionTimeout time.Duration `yaml:"connection_timeout"`

	// MaxRetries is the number of attempts per upstream call; 1 disables retries.
	// Only transport errors and 5xx responses are retried.
	MaxRetries  int           `yaml:"max_retries"`
	BaseBackoff time.Duration `yaml:"base_backoff"`

	OverrideCoingeckoPublicURL string `yaml:"override_coingecko_public_url"`
	OverrideCoingeckoProURL    string `yaml:"override_coingecko_pro_url"`
	OverrideBinanceURL         string `yaml:"override_binance_url"`

	APIKeys APIKeyConfig `yaml:"api_keys"`
}

func (c *UpstreamConfig) applyDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderCoingecko
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 8 * time.Second
	}
	if c.ConnectionTimeout <= 0 {
		c.ConnectionTimeout = 5 * time.Second
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 1
	}
	if c.BaseBackoff <= 0 {
		c.BaseBackoff = time.Second
	}
}

// APIKeyConfig configures outbound rate limiting per API key type.
// Zero values fall back to the limiter defaults.
type APIKeyConfig struct {
	Pro   RateLimit `yaml:"pro"`
	Demo  RateLimit `yaml:"demo"`
	NoKey RateLimit `yaml:"nokey"`
}

// RateLimit is a requests-per-minute budget with its burst
type RateLimit struct {
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`
	Burst              int `yaml:"burst"`
}
