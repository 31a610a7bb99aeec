package prices

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/status-im/crypto-converter/identifiers"
	"github.com/status-im/crypto-converter/interfaces"
	"github.com/status-im/crypto-converter/upstream"
)

func TestConvertAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		fromUSD float64
		toUSD   float64
		want    string
	}{
		{"whole", "2", 65000, 3250, "40"},
		{"fraction", "1", 1, 3, "0.333333333333"},
		{"rounds half up", "1", 2, 3, "0.666666666667"},
		{"small amount", "0.0001", 65000, 1, "6.5"},
		{"same price", "123.456", 42, 42, "123.456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConvertAmount(decimal.RequireFromString(tt.amount), tt.fromUSD, tt.toUSD)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got.String())
		})
	}
}

func TestConvert(t *testing.T) {
	f := newFixture(t, identifiers.NewIDNormalizer())
	f.upstream.EXPECT().
		FetchPrices(gomock.Any(), []string{"bitcoin", "ethereum"}).
		Return(map[string]float64{"bitcoin": 60000, "ethereum": 3000}, nil).
		Times(1)

	conv, err := f.service.Convert(context.Background(), "bitcoin", "ethereum", decimal.NewFromInt(2))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(40).Equal(conv.Result))
	assert.True(t, decimal.NewFromInt(20).Equal(conv.Rate()))
	assert.Equal(t, 60000.0, conv.FromUSD)
	assert.Equal(t, 3000.0, conv.ToUSD)
	assert.False(t, conv.Degraded())
}

func TestConvert_SameCoin(t *testing.T) {
	f := newFixture(t, identifiers.NewIDNormalizer())
	f.upstream.EXPECT().
		FetchPrices(gomock.Any(), []string{"bitcoin"}).
		Return(map[string]float64{"bitcoin": 60000}, nil)

	conv, err := f.service.Convert(context.Background(), "bitcoin", "bitcoin", decimal.NewFromFloat(1.5))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromFloat(1.5).Equal(conv.Result))
}

func TestConvert_PriceUnavailable(t *testing.T) {
	tests := []struct {
		name   string
		prices map[string]float64
		err    error
	}{
		{"missing target", map[string]float64{"bitcoin": 60000}, nil},
		{"zero target", map[string]float64{"bitcoin": 60000, "ethereum": 0}, nil},
		{"zero source", map[string]float64{"bitcoin": 0, "ethereum": 3000}, nil},
		{"negative source", map[string]float64{"bitcoin": -2, "ethereum": 3000}, nil},
		{"upstream down", nil, upstream.NewStatusError(503, nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, identifiers.NewIDNormalizer())
			f.upstream.EXPECT().
				FetchPrices(gomock.Any(), gomock.Any()).
				Return(tt.prices, tt.err).
				AnyTimes()

			_, err := f.service.Convert(context.Background(), "bitcoin", "ethereum", decimal.NewFromInt(1))
			assert.True(t, errors.Is(err, ErrPriceUnavailable))
		})
	}
}

func TestConvert_InvalidIdentifier(t *testing.T) {
	f := newFixture(t, identifiers.NewIDNormalizer())

	_, err := f.service.Convert(context.Background(), "", "ethereum", decimal.NewFromInt(1))
	assert.True(t, errors.Is(err, interfaces.ErrInvalidIdentifier))
}

func TestConvert_DegradedWhenStale(t *testing.T) {
	f := newFixture(t, identifiers.NewIDNormalizer())
	f.caches.Prices.Put("bitcoin", 60000, 0)
	f.caches.Prices.Put("ethereum", 3000, 0)
	f.clock.Advance(1)

	f.upstream.EXPECT().
		FetchPrices(gomock.Any(), gomock.Any()).
		Return(nil, upstream.NewStatusError(429, nil))

	conv, err := f.service.Convert(context.Background(), "bitcoin", "ethereum", decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.Equal(t, interfaces.SourceStale, conv.FromSource)
	assert.True(t, conv.Degraded())
}
