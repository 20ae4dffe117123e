package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ruxshona2103/Primier-Print/internal/domain/accounting"
)

// GormCompanyRepository implements CompanyRepository using GORM
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// FindByID finds a company by its ID, returning (nil, nil) when absent
func (r *GormCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.Company, error) {
	var company accounting.Company
	if err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &company, nil
}

// FindByName finds a company by its exact name
func (r *GormCompanyRepository) FindByName(ctx context.Context, name string) (*accounting.Company, error) {
	var company accounting.Company
	if err := r.db.WithContext(ctx).First(&company, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &company, nil
}

// Save creates or updates a company
func (r *GormCompanyRepository) Save(ctx context.Context, company *accounting.Company) error {
	return r.db.WithContext(ctx).Save(company).Error
}

var _ accounting.CompanyRepository = (*GormCompanyRepository)(nil)
