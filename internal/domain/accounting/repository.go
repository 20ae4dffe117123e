package accounting

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ruxshona2103/Primier-Print/internal/domain/shared/valueobject"
)

// CompanyRepository persists companies
type CompanyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)
	FindByName(ctx context.Context, name string) (*Company, error)
	Save(ctx context.Context, company *Company) error
}

// AccountRepository persists ledger accounts
type AccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	// FindByName returns the enabled account with the exact name, or (nil, nil)
	FindByName(ctx context.Context, companyID uuid.UUID, name string) (*Account, error)
	// FindFirstByType returns the first enabled account of the type, ordered by name
	FindFirstByType(ctx context.Context, companyID uuid.UUID, accountType AccountType) (*Account, error)
	// FindByNameKeyword returns the first enabled account whose name contains the
	// keyword, optionally restricted to the given types, ordered by name
	FindByNameKeyword(ctx context.Context, companyID uuid.UUID, keyword string, types ...AccountType) (*Account, error)
	Save(ctx context.Context, account *Account) error
}

// ExchangeRateRepository persists authoritative exchange rates
type ExchangeRateRepository interface {
	// FindLatest returns the most recent rate for the exact pair effective on
	// or before asOf, or (nil, nil)
	FindLatest(ctx context.Context, from, to valueobject.Currency, asOf time.Time) (*ExchangeRate, error)
	Save(ctx context.Context, rate *ExchangeRate) error
}
