package config

import "time"

type BinanceConfig struct {
	// QuoteAsset is the stable asset every symbol is priced against
	QuoteAsset string `yaml:"quote_asset"`

	// StreamEnabled turns on the websocket ticker feed
	StreamEnabled bool   `yaml:"stream_enabled"`
	WSURL         string `yaml:"ws_url"`

	// QuoteMaxAge is how old a streamed quote may be and still replace a REST call
	QuoteMaxAge time.Duration `yaml:"quote_max_age"`
}

func (c *BinanceConfig) applyDefaults() {
	if c.QuoteAsset == "" {
		c.QuoteAsset = "USDT"
	}
	if c.QuoteMaxAge <= 0 {
		c.QuoteMaxAge = 30 * time.Second
	}
}
