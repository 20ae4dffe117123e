package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ruxshona2103/Primier-Print/internal/domain/procurement"
	"github.com/ruxshona2103/Primier-Print/internal/domain/shared"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by its ID with lines in document order,
// returning (nil, nil) when absent
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.PurchaseInvoice, error) {
	var invoice procurement.PurchaseInvoice
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("idx") }).
		First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

// FindSubmittedByReceipt returns submitted invoices with at least one line
// referencing the receipt
func (r *GormInvoiceRepository) FindSubmittedByReceipt(ctx context.Context, receiptID uuid.UUID) ([]procurement.PurchaseInvoice, error) {
	var invoices []procurement.PurchaseInvoice
	subQuery := r.db.Model(&procurement.InvoiceLine{}).
		Select("invoice_id").
		Where("receipt_id = ?", receiptID)
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("idx") }).
		Where("status = ? AND id IN (?)", procurement.StatusSubmitted, subQuery).
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Save creates or updates an invoice and its lines
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *procurement.PurchaseInvoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(invoice).Error; err != nil {
			return err
		}

		currentIDs := make([]uuid.UUID, len(invoice.Lines))
		for i := range invoice.Lines {
			invoice.Lines[i].InvoiceID = invoice.ID
			currentIDs[i] = invoice.Lines[i].ID
		}
		if len(currentIDs) > 0 {
			if err := tx.Where("invoice_id = ? AND id NOT IN ?", invoice.ID, currentIDs).
				Delete(&procurement.InvoiceLine{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("invoice_id = ?", invoice.ID).
				Delete(&procurement.InvoiceLine{}).Error; err != nil {
				return err
			}
		}
		for i := range invoice.Lines {
			if err := tx.Save(&invoice.Lines[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveWithLock updates the invoice root guarded by the aggregate version.
// Lines are not touched. Returns a concurrency conflict when the stored
// version no longer matches.
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *procurement.PurchaseInvoice) error {
	currentVersion := invoice.Version
	invoice.IncrementVersion()

	result := r.db.WithContext(ctx).
		Model(invoice).
		Omit("Lines").
		Where("id = ? AND version = ?", invoice.ID, currentVersion).
		Updates(invoice)
	if result.Error != nil {
		invoice.Version = currentVersion
		return result.Error
	}
	if result.RowsAffected == 0 {
		invoice.Version = currentVersion
		return shared.ErrConcurrencyConflict
	}
	return nil
}

var _ procurement.InvoiceRepository = (*GormInvoiceRepository)(nil)
