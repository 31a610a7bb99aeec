package coins

import "github.com/status-im/crypto-converter/interfaces"

// fallbackCoins is served when no catalog was ever fetched
var fallbackCoins = []interfaces.Coin{
	{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"},
	{ID: "ethereum", Symbol: "eth", Name: "Ethereum"},
	{ID: "tether", Symbol: "usdt", Name: "Tether"},
	{ID: "binancecoin", Symbol: "bnb", Name: "BNB"},
	{ID: "solana", Symbol: "sol", Name: "Solana"},
	{ID: "ripple", Symbol: "xrp", Name: "XRP"},
	{ID: "usd-coin", Symbol: "usdc", Name: "USDC"},
	{ID: "cardano", Symbol: "ada", Name: "Cardano"},
	{ID: "dogecoin", Symbol: "doge", Name: "Dogecoin"},
	{ID: "tron", Symbol: "trx", Name: "TRON"},
	{ID: "polkadot", Symbol: "dot", Name: "Polkadot"},
	{ID: "litecoin", Symbol: "ltc", Name: "Litecoin"},
}

// FallbackCoins returns a copy of the compiled-in catalog
func FallbackCoins() []interfaces.Coin {
	return append([]interfaces.Coin(nil), fallbackCoins...)
}
