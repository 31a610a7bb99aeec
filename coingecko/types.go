package coingecko

// simplePriceResponse is the /simple/price payload: id -> currency -> price.
// Unknown ids are omitted by CoinGecko, prices may be null.
type simplePriceResponse map[string]map[string]*float64

// coinListEntry is one element of /coins/list
type coinListEntry struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// marketChartResponse is the /coins/{id}/market_chart payload.
// Each point is [timestamp_ms, value].
type marketChartResponse struct {
	Prices [][]float64 `json:"prices"`
}
