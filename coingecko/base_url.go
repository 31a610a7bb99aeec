package coingecko

import (
	"github.com/status-im/crypto-converter/config"
	"github.com/status-im/crypto-converter/upstream"
)

const (
	// Base URL for public API
	COINGECKO_PUBLIC_URL = "https://api.coingecko.com"
	// Base URL for Pro API
	COINGECKO_PRO_URL = "https://pro-api.coingecko.com"
)

// GetApiBaseUrl returns the API URL for the key type, honouring overrides
func GetApiBaseUrl(cfg config.UpstreamConfig, keyType upstream.KeyType) string {
	if keyType == upstream.ProKey {
		if cfg.OverrideCoingeckoProURL != "" {
			return cfg.OverrideCoingeckoProURL
		}
		return COINGECKO_PRO_URL
	}
	if cfg.OverrideCoingeckoPublicURL != "" {
		return cfg.OverrideCoingeckoPublicURL
	}
	return COINGECKO_PUBLIC_URL
}
