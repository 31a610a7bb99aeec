package prices

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/status-im/crypto-converter/interfaces"
)

// ConversionPlaces is the number of decimal places a conversion is rounded to
const ConversionPlaces = 12

// ErrPriceUnavailable is returned when a conversion side has no price
var ErrPriceUnavailable = errors.New("price unavailable")

// Conversion is the result of converting Amount of From into To
type Conversion struct {
	From       string
	To         string
	Amount     decimal.Decimal
	Result     decimal.Decimal
	FromUSD    float64
	ToUSD      float64
	FromSource interfaces.Source
	ToSource   interfaces.Source
}

// Degraded reports whether either price was not fresh
func (c Conversion) Degraded() bool {
	return c.FromSource.Degraded() || c.ToSource.Degraded()
}

// Rate is the price of one From in To
func (c Conversion) Rate() decimal.Decimal {
	return decimal.NewFromFloat(c.FromUSD).Div(decimal.NewFromFloat(c.ToUSD)).Round(ConversionPlaces)
}

// Convert resolves both prices in one batch and returns amount*from/to
// rounded to ConversionPlaces
func (s *Service) Convert(ctx context.Context, from, to string, amount decimal.Decimal) (Conversion, error) {
	res, err := s.ResolvePrices(ctx, []string{from, to})
	if err != nil {
		return Conversion{}, err
	}

	var missing []string
	fromUSD, ok := res.Prices[from]
	if !ok || fromUSD <= 0 {
		missing = append(missing, from)
	}
	toUSD, ok := res.Prices[to]
	if !ok || toUSD <= 0 {
		missing = append(missing, to)
	}
	if len(missing) > 0 {
		return Conversion{}, fmt.Errorf("%w for %s", ErrPriceUnavailable, strings.Join(missing, ", "))
	}

	return Conversion{
		From:       from,
		To:         to,
		Amount:     amount,
		Result:     ConvertAmount(amount, fromUSD, toUSD),
		FromUSD:    fromUSD,
		ToUSD:      toUSD,
		FromSource: res.Sources[from],
		ToSource:   res.Sources[to],
	}, nil
}

// ConvertAmount computes amount*fromUSD/toUSD rounded to ConversionPlaces.
// toUSD must not be zero.
func ConvertAmount(amount decimal.Decimal, fromUSD, toUSD float64) decimal.Decimal {
	return amount.
		Mul(decimal.NewFromFloat(fromUSD)).
		Div(decimal.NewFromFloat(toUSD)).
		Round(ConversionPlaces)
}
