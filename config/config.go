package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Upstream   UpstreamConfig  `yaml:"upstream"`
	Prices     PricesConfig    `yaml:"prices"`
	CoinsList  CoinsListConfig `yaml:"coins_list"`
	Trend      TrendConfig     `yaml:"trend"`
	Cache      CacheConfig     `yaml:"cache"`
	Binance    BinanceConfig   `yaml:"binance"`
	Server     ServerConfig    `yaml:"server"`
	TokensFile string          `yaml:"tokens_file"`
	APITokens  *APITokens      `yaml:"-"`
}

// DefaultConfig returns a configuration with every section at its default
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	cfg.APITokens = &APITokens{Tokens: []string{}}
	return cfg
}

// ApplyDefaults fills zero values and clamps TTLs into their allowed ranges
func (c *Config) ApplyDefaults() {
	c.Upstream.applyDefaults()
	c.Prices.applyDefaults()
	c.CoinsList.applyDefaults()
	c.Trend.applyDefaults()
	c.Cache.applyDefaults()
	c.Binance.applyDefaults()
	c.Server.applyDefaults()
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, err
	}
	config.ApplyDefaults()

	if port := os.Getenv("PORT"); port != "" {
		config.Server.Port = port
	}

	apiTokens, err := LoadAPITokens(config.TokensFile)
	if err != nil {
		log.Printf("Warning: Error loading API tokens from %s: %v. Using public API without authentication.",
			config.TokensFile, err)
		config.APITokens = &APITokens{Tokens: []string{}}
	} else {
		config.APITokens = apiTokens
	}

	return &config, nil
}
