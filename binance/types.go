package binance

import (
	"encoding/json"
	"time"
)

// Quote represents price data for a symbol
type Quote struct {
	Price            float64   `json:"price"`
	PercentChange24h float64   `json:"percent_change_24h"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Ticker represents a Binance WebSocket ticker message
type Ticker struct {
	EventType          string      `json:"e"` // Event type
	EventTime          int64       `json:"E"` // Event time
	Symbol             string      `json:"s"` // Symbol
	PriceChange        json.Number `json:"p"` // Price change
	PriceChangePercent json.Number `json:"P"` // Price change percent
	LastPrice          json.Number `json:"c"` // Last price
	Volume24h          json.Number `json:"v"` // Total traded base asset volume
	OpenPrice          json.Number `json:"o"` // Open price
	HighPrice          json.Number `json:"h"` // High price
	LowPrice           json.Number `json:"l"` // Low price
	QuoteVolume        json.Number `json:"q"` // Quote asset volume
	OpenTime           int64       `json:"O"` // Open time
	CloseTime          int64       `json:"C"` // Close time
	FirstTradeID       int64       `json:"F"` // First trade ID
	LastTradeID        int64       `json:"L"` // Last trade ID
	TradeCount         int64       `json:"n"` // Number of trades
}

// tickerPrice is one element of /api/v3/ticker/price
type tickerPrice struct {
	Symbol string      `json:"symbol"`
	Price  json.Number `json:"price"`
}

// exchangeInfoResponse is the subset of /api/v3/exchangeInfo we read
type exchangeInfoResponse struct {
	Symbols []symbolInfo `json:"symbols"`
}

type symbolInfo struct {
	Symbol     string `json:"symbol"`
	Status     string `json:"status"`
	BaseAsset  string `json:"baseAsset"`
	QuoteAsset string `json:"quoteAsset"`
}

// apiError is the error body Binance returns with 4xx responses
type apiError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// Binance error code for an unknown trading pair
const codeInvalidSymbol = -1121
