package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ruxshona2103/Primier-Print/internal/domain/accounting"
	"github.com/ruxshona2103/Primier-Print/internal/domain/shared/valueobject"
)

// GormExchangeRateRepository implements ExchangeRateRepository using GORM
type GormExchangeRateRepository struct {
	db *gorm.DB
}

// NewGormExchangeRateRepository creates a new GormExchangeRateRepository
func NewGormExchangeRateRepository(db *gorm.DB) *GormExchangeRateRepository {
	return &GormExchangeRateRepository{db: db}
}

// FindLatest returns the most recent rate for the exact pair effective on or
// before asOf, or (nil, nil)
func (r *GormExchangeRateRepository) FindLatest(ctx context.Context, from, to valueobject.Currency, asOf time.Time) (*accounting.ExchangeRate, error) {
	var rate accounting.ExchangeRate
	if err := r.db.WithContext(ctx).
		Where("from_currency = ? AND to_currency = ? AND effective_on <= ?", from, to, asOf).
		Order("effective_on DESC").
		First(&rate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rate, nil
}

// Save creates or updates an exchange rate record
func (r *GormExchangeRateRepository) Save(ctx context.Context, rate *accounting.ExchangeRate) error {
	return r.db.WithContext(ctx).Save(rate).Error
}

var _ accounting.ExchangeRateRepository = (*GormExchangeRateRepository)(nil)
