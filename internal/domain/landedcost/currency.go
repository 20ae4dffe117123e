package landedcost

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ruxshona2103/Primier-Print/internal/domain/accounting"
	"github.com/ruxshona2103/Primier-Print/internal/domain/shared"
	"github.com/ruxshona2103/Primier-Print/internal/domain/shared/valueobject"
)

// RateDecision records how a supplied exchange rate was applied
type RateDecision string

const (
	DecisionUnchanged  RateDecision = "unchanged"
	DecisionMultiplied RateDecision = "multiplied"
	DecisionDivided    RateDecision = "divided"
)

// Operators routinely enter the rate for the opposite direction of the pair,
// which is off by many orders of magnitude for UZS pairs. A supplied rate
// within this band of the authoritative one is trusted as-is; beyond the
// extreme ratio it is assumed inverted.
var (
	deviationBand    = decimal.NewFromFloat(0.10)
	extremeDeviation = decimal.NewFromInt(100)
	one              = decimal.NewFromInt(1)
)

// Conversion is the audit record of one normalization
type Conversion struct {
	Amount            decimal.Decimal
	FromCurrency      valueobject.Currency
	ToCurrency        valueobject.Currency
	SuppliedRate      decimal.Decimal
	AuthoritativeRate decimal.Decimal
	RateDefaulted     bool
	RateUnavailable   bool
	Decision          RateDecision
	Result            decimal.Decimal
}

// CurrencyNormalizer converts document amounts into the home currency while
// defending against exchange rates supplied in the wrong direction.
type CurrencyNormalizer struct {
	rates  accounting.RateSource
	logger *zap.Logger
}

// NormalizerOption configures a CurrencyNormalizer
type NormalizerOption func(*CurrencyNormalizer)

// WithNormalizerLogger sets the logger
func WithNormalizerLogger(logger *zap.Logger) NormalizerOption {
	return func(n *CurrencyNormalizer) {
		n.logger = logger
	}
}

// NewCurrencyNormalizer creates a currency normalizer
func NewCurrencyNormalizer(rates accounting.RateSource, opts ...NormalizerOption) *CurrencyNormalizer {
	n := &CurrencyNormalizer{
		rates:  rates,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize converts amount from one currency to another using the supplied
// rate, deciding whether to multiply or divide by comparing the supplied rate
// against the authoritative one as of the document posting date. A zero asOf
// falls back to the current time.
func (n *CurrencyNormalizer) Normalize(ctx context.Context, amount decimal.Decimal, from, to valueobject.Currency, suppliedRate decimal.Decimal, asOf time.Time) (Conversion, error) {
	conv := Conversion{
		Amount:       amount,
		FromCurrency: from,
		ToCurrency:   to,
		SuppliedRate: suppliedRate,
	}

	if from == to {
		conv.Decision = DecisionUnchanged
		conv.Result = amount
		return conv, nil
	}

	rate := suppliedRate
	if !rate.IsPositive() {
		rate = one
		conv.RateDefaulted = true
		conv.SuppliedRate = rate
		n.logger.Info("non-positive exchange rate defaulted to 1",
			zap.String("from", string(from)),
			zap.String("to", string(to)),
		)
	}

	if asOf.IsZero() {
		asOf = time.Now()
	}
	authoritative, err := n.rates.Rate(ctx, from, to, asOf)
	if err != nil {
		if !errors.Is(err, shared.ErrRateUnavailable) {
			return conv, err
		}
		conv.RateUnavailable = true
		conv.Decision = DecisionMultiplied
		conv.Result = amount.Mul(rate)
		n.logger.Warn("no authoritative rate for pair, trusting supplied rate direction",
			zap.String("from", string(from)),
			zap.String("to", string(to)),
			zap.String("supplied_rate", rate.String()),
		)
		return conv, nil
	}
	conv.AuthoritativeRate = authoritative

	conv.Decision = decideDirection(rate, authoritative)
	switch conv.Decision {
	case DecisionDivided:
		conv.Result = amount.Div(rate)
	default:
		conv.Result = amount.Mul(rate)
	}

	if conv.Decision == DecisionDivided {
		n.logger.Warn("supplied exchange rate looks inverted, dividing instead",
			zap.String("from", string(from)),
			zap.String("to", string(to)),
			zap.String("supplied_rate", rate.String()),
			zap.String("authoritative_rate", authoritative.String()),
		)
	}
	return conv, nil
}

// decideDirection compares the supplied rate against the authoritative one.
// Close agreement means the direction is right. A ratio beyond the extreme
// threshold in either direction means the rate was entered for the reverse
// pair. In the grey zone between, the authoritative magnitude decides: a pair
// whose true rate is below 1 cannot have a correct supplied rate above 1, and
// vice versa.
func decideDirection(supplied, authoritative decimal.Decimal) RateDecision {
	if !authoritative.IsPositive() {
		return DecisionMultiplied
	}

	deviation := supplied.Div(authoritative)
	inverse := authoritative.Div(supplied)

	if deviation.Sub(one).Abs().LessThan(deviationBand) {
		return DecisionMultiplied
	}
	if deviation.GreaterThan(extremeDeviation) || inverse.GreaterThan(extremeDeviation) {
		return DecisionDivided
	}
	if authoritative.LessThan(one) && supplied.GreaterThan(one) {
		return DecisionDivided
	}
	if authoritative.GreaterThan(one) && supplied.LessThan(one) {
		return DecisionDivided
	}
	return DecisionMultiplied
}
