package interfaces

import "errors"

// ErrInvalidIdentifier is returned for identifiers the serving layer should have rejected
var ErrInvalidIdentifier = errors.New("invalid identifier")

// Coin is a catalog entry. ID is the canonical lowercase token.
type Coin struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// TrendPoint is one sample of a trend series
type TrendPoint struct {
	// Time in unix seconds
	Time  int64   `json:"time"`
	Value float64 `json:"value"`
}

// RawCoin is a catalog record as delivered by an upstream, before normalization
type RawCoin struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// RawPoint is a historical sample as delivered by an upstream
type RawPoint struct {
	TimestampMs int64
	Value       float64
}
