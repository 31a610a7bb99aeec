// Package identifiers holds the strategies that map a requested currency
// identifier onto the key shape a given upstream provider understands.
package identifiers

import (
	"strings"

	"github.com/status-im/crypto-converter/interfaces"
)

// IDNormalizer serves upstreams keyed by slug identifiers such as "bitcoin"
type IDNormalizer struct{}

// NewIDNormalizer creates an IDNormalizer
func NewIDNormalizer() *IDNormalizer {
	return &IDNormalizer{}
}

// Canonical lowercases and trims id
func (n *IDNormalizer) Canonical(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// Alias finds the catalog id for id. An exact name match wins; a symbol
// match is used only when exactly one coin carries that symbol, since
// tickers are reused across wrapped and copycat tokens.
func (n *IDNormalizer) Alias(id string, catalog []interfaces.Coin) (string, bool) {
	canonical := n.Canonical(id)
	if canonical == "" {
		return "", false
	}

	var bySymbol []string
	for _, coin := range catalog {
		if coin.ID == "" || coin.ID == canonical {
			continue
		}
		if strings.EqualFold(coin.Name, canonical) {
			return coin.ID, true
		}
		if strings.EqualFold(coin.Symbol, canonical) {
			bySymbol = append(bySymbol, coin.ID)
		}
	}

	if len(bySymbol) != 1 {
		return "", false
	}
	return bySymbol[0], true
}

// SymbolNormalizer serves upstreams keyed by ticker symbols such as "BTC"
type SymbolNormalizer struct{}

// NewSymbolNormalizer creates a SymbolNormalizer
func NewSymbolNormalizer() *SymbolNormalizer {
	return &SymbolNormalizer{}
}

// Canonical uppercases and trims id
func (n *SymbolNormalizer) Canonical(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// Alias finds the symbol of the coin whose id equals id, falling back to
// the first case-insensitive name match
func (n *SymbolNormalizer) Alias(id string, catalog []interfaces.Coin) (string, bool) {
	lowered := strings.ToLower(strings.TrimSpace(id))
	if lowered == "" {
		return "", false
	}

	byName := ""
	for _, coin := range catalog {
		if coin.Symbol == "" {
			continue
		}
		symbol := strings.ToUpper(coin.Symbol)
		if symbol == strings.ToUpper(lowered) {
			continue
		}
		if coin.ID == lowered {
			return symbol, true
		}
		if byName == "" && strings.EqualFold(coin.Name, lowered) {
			byName = symbol
		}
	}
	return byName, byName != ""
}
