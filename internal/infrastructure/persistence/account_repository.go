package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ruxshona2103/Primier-Print/internal/domain/accounting"
)

// GormAccountRepository implements AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByID finds an account by its ID, returning (nil, nil) when absent
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.Account, error) {
	var account accounting.Account
	if err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// FindByName finds the enabled account with the exact name within a company
func (r *GormAccountRepository) FindByName(ctx context.Context, companyID uuid.UUID, name string) (*accounting.Account, error) {
	var account accounting.Account
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND name = ? AND disabled = ?", companyID, name, false).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// FindFirstByType finds the first enabled account of the type, ordered by name
func (r *GormAccountRepository) FindFirstByType(ctx context.Context, companyID uuid.UUID, accountType accounting.AccountType) (*accounting.Account, error) {
	var account accounting.Account
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND type = ? AND disabled = ?", companyID, accountType, false).
		Order("name").
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// FindByNameKeyword finds the first enabled account whose name contains the
// keyword, optionally restricted to the given types, ordered by name
func (r *GormAccountRepository) FindByNameKeyword(ctx context.Context, companyID uuid.UUID, keyword string, types ...accounting.AccountType) (*accounting.Account, error) {
	query := r.db.WithContext(ctx).
		Where("company_id = ? AND name LIKE ? AND disabled = ?", companyID, "%"+keyword+"%", false)
	if len(types) > 0 {
		query = query.Where("type IN ?", types)
	}

	var account accounting.Account
	if err := query.Order("name").First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// Save creates or updates an account
func (r *GormAccountRepository) Save(ctx context.Context, account *accounting.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}

var _ accounting.AccountRepository = (*GormAccountRepository)(nil)
