package accounting

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ruxshona2103/Primier-Print/internal/domain/shared"
)

const srbnbNameKeyword = "Stock Received"

// AccountResolver resolves the accounts landed cost adjustments post against.
// Lookup failures are hard errors carrying a remediation hint, because a
// missing account means the adjustment cannot be booked at all.
type AccountResolver struct {
	companies CompanyRepository
	accounts  AccountRepository
	logger    *zap.Logger
}

// ResolverOption configures an AccountResolver
type ResolverOption func(*AccountResolver)

// WithResolverLogger sets the logger
func WithResolverLogger(logger *zap.Logger) ResolverOption {
	return func(r *AccountResolver) {
		r.logger = logger
	}
}

// NewAccountResolver creates an account resolver
func NewAccountResolver(companies CompanyRepository, accounts AccountRepository, opts ...ResolverOption) *AccountResolver {
	r := &AccountResolver{
		companies: companies,
		accounts:  accounts,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveSRBNB finds the stock-received-but-not-billed account for a company.
// Chain: company default, then first enabled account of the SRBNB type, then
// first enabled account whose name contains "Stock Received".
func (r *AccountResolver) ResolveSRBNB(ctx context.Context, companyID uuid.UUID) (*Account, error) {
	company, err := r.companies.FindByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("loading company: %w", err)
	}
	if company == nil {
		return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("company %s not found", companyID))
	}

	if company.DefaultSRBNBAccountID != nil {
		account, err := r.accounts.FindByID(ctx, *company.DefaultSRBNBAccountID)
		if err != nil {
			return nil, fmt.Errorf("loading default srbnb account: %w", err)
		}
		if account != nil && !account.Disabled {
			return account, nil
		}
		r.logger.Warn("company default srbnb account missing or disabled, falling back",
			zap.String("company", company.Name),
		)
	}

	account, err := r.accounts.FindFirstByType(ctx, companyID, AccountTypeStockReceivedNotBilled)
	if err != nil {
		return nil, fmt.Errorf("searching srbnb account by type: %w", err)
	}
	if account != nil {
		return account, nil
	}

	account, err = r.accounts.FindByNameKeyword(ctx, companyID, srbnbNameKeyword)
	if err != nil {
		return nil, fmt.Errorf("searching srbnb account by name: %w", err)
	}
	if account != nil {
		return account, nil
	}

	return nil, shared.NewDomainError("ACCOUNT_NOT_FOUND", fmt.Sprintf(
		"no %q account found for company %s; create one or set it as the company default",
		AccountTypeStockReceivedNotBilled, company.Name,
	))
}

// ResolveTransport finds the transport expense account for a company.
// Chain: exact configured name, then first enabled expense-type account whose
// name contains "Transport".
func (r *AccountResolver) ResolveTransport(ctx context.Context, companyID uuid.UUID, configuredName string) (*Account, error) {
	company, err := r.companies.FindByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("loading company: %w", err)
	}
	if company == nil {
		return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("company %s not found", companyID))
	}

	if configuredName != "" {
		account, err := r.accounts.FindByName(ctx, companyID, configuredName)
		if err != nil {
			return nil, fmt.Errorf("searching transport account by name: %w", err)
		}
		if account != nil {
			return account, nil
		}
		r.logger.Warn("configured transport account not found, falling back to keyword search",
			zap.String("company", company.Name),
			zap.String("account_name", configuredName),
		)
	}

	account, err := r.accounts.FindByNameKeyword(ctx, companyID, "Transport",
		AccountTypeExpense, AccountTypeExpensesIncludedInValuation)
	if err != nil {
		return nil, fmt.Errorf("searching transport account by keyword: %w", err)
	}
	if account != nil {
		return account, nil
	}

	return nil, shared.NewDomainError("ACCOUNT_NOT_FOUND", fmt.Sprintf(
		"no transport expense account found for company %s; create an expense account whose name contains \"Transport\"",
		company.Name,
	))
}
