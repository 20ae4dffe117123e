package landedcost

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruxshona2103/Primier-Print/internal/domain/shared"
	"github.com/ruxshona2103/Primier-Print/internal/domain/shared/valueobject"
)

type stubRateSource struct {
	rates map[string]decimal.Decimal
	err   error
}

func (s *stubRateSource) Rate(_ context.Context, from, to valueobject.Currency, _ time.Time) (decimal.Decimal, error) {
	if s.err != nil {
		return decimal.Zero, s.err
	}
	if r, ok := s.rates[string(from)+"/"+string(to)]; ok {
		return r, nil
	}
	return decimal.Zero, shared.ErrRateUnavailable
}

func rateSourceWith(pair string, rate string) *stubRateSource {
	d, _ := decimal.NewFromString(rate)
	return &stubRateSource{rates: map[string]decimal.Decimal{pair: d}}
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestNormalizeSameCurrency(t *testing.T) {
	n := NewCurrencyNormalizer(&stubRateSource{})
	conv, err := n.Normalize(context.Background(), decimal.NewFromInt(500), valueobject.UZS, valueobject.UZS, decimal.NewFromInt(42), time.Now())
	require.NoError(t, err)
	assert.Equal(t, DecisionUnchanged, conv.Decision)
	assert.Equal(t, "500", conv.Result.String())
}

func TestNormalizeDirectionSymmetry(t *testing.T) {
	// 50,000 UZS to USD. The authoritative rate is 0.00008265 USD per UZS.
	// Whether the operator entered the rate as UZS-per-USD or USD-per-UZS,
	// the result must land on the same value.
	source := rateSourceWith("UZS/USD", "0.00008265")
	n := NewCurrencyNormalizer(source)
	amount := decimal.NewFromInt(50000)

	t.Run("rate entered for the reverse pair is divided", func(t *testing.T) {
		conv, err := n.Normalize(context.Background(), amount, valueobject.UZS, valueobject.USD, mustDecimal(t, "12099.18"), time.Now())
		require.NoError(t, err)
		assert.Equal(t, DecisionDivided, conv.Decision)
		assert.True(t, conv.Result.Sub(mustDecimal(t, "4.13")).Abs().LessThan(Materiality),
			"got %s", conv.Result)
	})

	t.Run("rate matching the authoritative one is multiplied", func(t *testing.T) {
		conv, err := n.Normalize(context.Background(), amount, valueobject.UZS, valueobject.USD, mustDecimal(t, "0.00008265"), time.Now())
		require.NoError(t, err)
		assert.Equal(t, DecisionMultiplied, conv.Decision)
		assert.True(t, conv.Result.Sub(mustDecimal(t, "4.13")).Abs().LessThan(Materiality),
			"got %s", conv.Result)
	})
}

func TestNormalizeRateDefaulting(t *testing.T) {
	n := NewCurrencyNormalizer(&stubRateSource{})

	conv, err := n.Normalize(context.Background(), decimal.NewFromInt(100), valueobject.USD, valueobject.UZS, decimal.NewFromInt(-5), time.Now())
	require.NoError(t, err)
	assert.True(t, conv.RateDefaulted)
	assert.True(t, conv.RateUnavailable)
	assert.Equal(t, "100", conv.Result.String())
}

func TestNormalizeNoAuthoritativeRate(t *testing.T) {
	n := NewCurrencyNormalizer(&stubRateSource{})

	conv, err := n.Normalize(context.Background(), decimal.NewFromInt(100), valueobject.EUR, valueobject.UZS, decimal.NewFromInt(14000), time.Now())
	require.NoError(t, err)
	assert.True(t, conv.RateUnavailable)
	assert.Equal(t, DecisionMultiplied, conv.Decision)
	assert.Equal(t, "1400000", conv.Result.String())
}

func TestNormalizeGreyZone(t *testing.T) {
	t.Run("authoritative below one rejects supplied above one", func(t *testing.T) {
		n := NewCurrencyNormalizer(rateSourceWith("UZS/USD", "0.5"))
		conv, err := n.Normalize(context.Background(), decimal.NewFromInt(10), valueobject.UZS, valueobject.USD, decimal.NewFromInt(2), time.Now())
		require.NoError(t, err)
		assert.Equal(t, DecisionDivided, conv.Decision)
		assert.Equal(t, "5", conv.Result.String())
	})

	t.Run("authoritative above one rejects supplied below one", func(t *testing.T) {
		n := NewCurrencyNormalizer(rateSourceWith("USD/UZS", "12500"))
		conv, err := n.Normalize(context.Background(), decimal.NewFromInt(100), valueobject.USD, valueobject.UZS, mustDecimal(t, "0.00008"), time.Now())
		require.NoError(t, err)
		assert.Equal(t, DecisionDivided, conv.Decision)
		assert.Equal(t, "1250000", conv.Result.String())
	})

	t.Run("moderate deviation in the right direction is trusted", func(t *testing.T) {
		n := NewCurrencyNormalizer(rateSourceWith("USD/UZS", "12500"))
		conv, err := n.Normalize(context.Background(), decimal.NewFromInt(100), valueobject.USD, valueobject.UZS, decimal.NewFromInt(13000), time.Now())
		require.NoError(t, err)
		assert.Equal(t, DecisionMultiplied, conv.Decision)
		assert.Equal(t, "1300000", conv.Result.String())
	})
}
