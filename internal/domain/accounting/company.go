package accounting

import (
	"strings"

	"github.com/google/uuid"

	"github.com/ruxshona2103/Primier-Print/internal/domain/shared"
	"github.com/ruxshona2103/Primier-Print/internal/domain/shared/valueobject"
)

// Company represents a legal entity that owns purchasing documents.
// All engine amounts are ultimately expressed in the company home currency.
type Company struct {
	shared.BaseAggregateRoot
	Name                    string               `gorm:"type:varchar(255);not null;uniqueIndex"`
	Abbreviation            string               `gorm:"type:varchar(16);not null"`
	HomeCurrency            valueobject.Currency `gorm:"type:varchar(8);not null"`
	DefaultSRBNBAccountID   *uuid.UUID           `gorm:"type:uuid"`
	DefaultExpenseAccountID *uuid.UUID           `gorm:"type:uuid"`
}

// NewCompany creates a company with the given home currency
func NewCompany(name, abbreviation string, homeCurrency valueobject.Currency) (*Company, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "company name is required")
	}
	if homeCurrency == "" {
		homeCurrency = valueobject.DefaultCurrency
	}
	return &Company{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Abbreviation:      abbreviation,
		HomeCurrency:      homeCurrency,
	}, nil
}

// SetDefaultSRBNBAccount sets the default stock-received-but-not-billed account
func (c *Company) SetDefaultSRBNBAccount(accountID uuid.UUID) {
	c.DefaultSRBNBAccountID = &accountID
}

// SetDefaultExpenseAccount sets the default valuation expense account
func (c *Company) SetDefaultExpenseAccount(accountID uuid.UUID) {
	c.DefaultExpenseAccountID = &accountID
}
