package e2etest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/status-im/crypto-converter/config"
)

// createTestConfig creates a test configuration and returns the path to the file
func createTestConfig(provider, mockURL, mockWSURL string) (string, error) {
	// Create a temporary directory for configuration
	tempDir, err := os.MkdirTemp("", "crypto-converter-test")
	if err != nil {
		return "", err
	}

	configContent := `
upstream:
  provider: "%s"
  request_timeout: 2s
  connection_timeout: 1s
  max_retries: 1
  override_coingecko_public_url: "%s"  # URL for CoinGecko public API
  override_coingecko_pro_url: "%s"     # URL for CoinGecko Pro API
  override_binance_url: "%s"           # URL for Binance REST API

prices:
  ttl: 1m
  rate_limit_cooldown: 30s

coins_list:
  ttl: 12h

trend:
  ttl: 1m
  days: "1"
  points: 24

cache:
  prices_capacity: 100
  trends_capacity: 10
  purge_interval: 1m

binance:
  quote_asset: "USDT"
  stream_enabled: %t
  ws_url: "%s"
  quote_max_age: 10s

server:
  rate_limit_per_minute: 1000

tokens_file: "%s"           # path to tokens file will be inserted
`

	// Create tokens file
	tokensFilePath := filepath.Join(tempDir, "tokens.json")
	tokensContent := `
{
  "api_tokens": [],
  "demo_api_tokens": ["test-demo-key"]
}
`

	if err := os.WriteFile(tokensFilePath, []byte(tokensContent), 0644); err != nil {
		os.RemoveAll(tempDir)
		return "", err
	}

	streamEnabled := provider == config.ProviderBinance
	configContent = fmt.Sprintf(configContent, provider, mockURL, mockURL, mockURL, streamEnabled, mockWSURL, tokensFilePath)

	configPath := filepath.Join(tempDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		os.RemoveAll(tempDir)
		return "", err
	}

	return configPath, nil
}

// loadTestConfig creates and loads test configuration
func loadTestConfig(provider, mockURL, mockWSURL string) (*config.Config, string, error) {
	configPath, err := createTestConfig(provider, mockURL, mockWSURL)
	if err != nil {
		return nil, "", err
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		os.RemoveAll(filepath.Dir(configPath))
		return nil, "", err
	}

	return cfg, configPath, nil
}

// cleanupTestConfig removes the temporary directory with configuration
func cleanupTestConfig(configPath string) {
	os.RemoveAll(filepath.Dir(configPath))
}
