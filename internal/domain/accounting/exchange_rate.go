package accounting

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ruxshona2103/Primier-Print/internal/domain/shared"
	"github.com/ruxshona2103/Primier-Print/internal/domain/shared/valueobject"
)

// ExchangeRate is an authoritative market rate for a currency pair
type ExchangeRate struct {
	shared.BaseEntity
	FromCurrency valueobject.Currency `gorm:"type:varchar(8);not null;index:idx_rate_pair_date"`
	ToCurrency   valueobject.Currency `gorm:"type:varchar(8);not null;index:idx_rate_pair_date"`
	Rate         decimal.Decimal      `gorm:"type:decimal(18,8);not null"`
	EffectiveOn  time.Time            `gorm:"not null;index:idx_rate_pair_date"`
}

// NewExchangeRate creates an exchange rate record
func NewExchangeRate(from, to valueobject.Currency, rate decimal.Decimal, effectiveOn time.Time) (*ExchangeRate, error) {
	if from == "" || to == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "exchange rate currencies are required")
	}
	if !rate.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "exchange rate must be positive")
	}
	return &ExchangeRate{
		BaseEntity:   shared.NewBaseEntity(),
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         rate,
		EffectiveOn:  effectiveOn,
	}, nil
}

// RateSource supplies authoritative exchange rates
type RateSource interface {
	// Rate returns the authoritative rate converting one unit of from into to,
	// as of the given posting date. Implementations should fall back to the
	// reciprocal of the reverse pair. Returns shared.ErrRateUnavailable when
	// neither direction is known.
	Rate(ctx context.Context, from, to valueobject.Currency, asOf time.Time) (decimal.Decimal, error)
}

// RateLookup implements RateSource on top of an ExchangeRateRepository,
// trying the direct pair first and the reciprocal of the reverse pair second.
type RateLookup struct {
	rates ExchangeRateRepository
}

// NewRateLookup creates a repository-backed rate source
func NewRateLookup(rates ExchangeRateRepository) *RateLookup {
	return &RateLookup{rates: rates}
}

// Rate implements RateSource
func (l *RateLookup) Rate(ctx context.Context, from, to valueobject.Currency, asOf time.Time) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	direct, err := l.rates.FindLatest(ctx, from, to, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	if direct != nil {
		return direct.Rate, nil
	}

	reverse, err := l.rates.FindLatest(ctx, to, from, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	if reverse != nil && !reverse.Rate.IsZero() {
		return decimal.NewFromInt(1).Div(reverse.Rate), nil
	}

	return decimal.Zero, shared.ErrRateUnavailable
}

var _ RateSource = (*RateLookup)(nil)
