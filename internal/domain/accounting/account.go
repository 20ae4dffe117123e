package accounting

import (
	"strings"

	"github.com/google/uuid"

	"github.com/ruxshona2103/Primier-Print/internal/domain/shared"
)

// AccountType classifies ledger accounts
type AccountType string

const (
	AccountTypeStockReceivedNotBilled      AccountType = "Stock Received But Not Billed"
	AccountTypeExpensesIncludedInValuation AccountType = "Expenses Included In Valuation"
	AccountTypeExpense                     AccountType = "Expense Account"
	AccountTypePayable                     AccountType = "Payable"
	AccountTypeStock                       AccountType = "Stock"
)

// IsExpenseType reports whether the type can carry landed cost charges
func (t AccountType) IsExpenseType() bool {
	switch t {
	case AccountTypeExpense, AccountTypeExpensesIncludedInValuation, AccountTypeStockReceivedNotBilled:
		return true
	}
	return false
}

// Account is a ledger account belonging to a company
type Account struct {
	shared.BaseAggregateRoot
	Name      string      `gorm:"type:varchar(255);not null;index:idx_account_company_name,unique"`
	Type      AccountType `gorm:"type:varchar(64);not null;index"`
	CompanyID uuid.UUID   `gorm:"type:uuid;not null;index:idx_account_company_name,unique"`
	Disabled  bool        `gorm:"not null;default:false"`
}

// NewAccount creates an account for the given company
func NewAccount(name string, accountType AccountType, companyID uuid.UUID) (*Account, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "account name is required")
	}
	if accountType == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "account type is required")
	}
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "account company is required")
	}
	return &Account{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Type:              accountType,
		CompanyID:         companyID,
	}, nil
}

// Disable marks the account unusable for new postings
func (a *Account) Disable() {
	a.Disabled = true
}
