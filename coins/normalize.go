package coins

import (
	"strings"

	"github.com/status-im/crypto-converter/interfaces"
)

// NormalizeCoins converts raw upstream records into catalog entries.
//
// The id is the record's own ID lowercased, or the lowercased symbol when
// the upstream has no dedicated identifier field. Records left without an
// id or a name are dropped. For duplicate ids the first record wins.
func NormalizeCoins(raw []interfaces.RawCoin) []interfaces.Coin {
	coins := make([]interfaces.Coin, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for _, r := range raw {
		symbol := strings.TrimSpace(r.Symbol)
		name := strings.TrimSpace(r.Name)

		id := strings.ToLower(strings.TrimSpace(r.ID))
		if id == "" {
			id = strings.ToLower(symbol)
		}
		if id == "" || name == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		coins = append(coins, interfaces.Coin{ID: id, Symbol: symbol, Name: name})
	}
	return coins
}
