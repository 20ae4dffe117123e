package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ruxshona2103/Primier-Print/internal/domain/procurement"
)

// GormReceiptRepository implements ReceiptRepository using GORM
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

// FindByID finds a receipt by its ID with lines in document order,
// returning (nil, nil) when absent
func (r *GormReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.PurchaseReceipt, error) {
	var receipt procurement.PurchaseReceipt
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("idx") }).
		First(&receipt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &receipt, nil
}

// Save creates or updates a receipt and its lines
func (r *GormReceiptRepository) Save(ctx context.Context, receipt *procurement.PurchaseReceipt) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(receipt).Error; err != nil {
			return err
		}

		currentIDs := make([]uuid.UUID, len(receipt.Lines))
		for i := range receipt.Lines {
			receipt.Lines[i].ReceiptID = receipt.ID
			currentIDs[i] = receipt.Lines[i].ID
		}
		if len(currentIDs) > 0 {
			if err := tx.Where("receipt_id = ? AND id NOT IN ?", receipt.ID, currentIDs).
				Delete(&procurement.ReceiptLine{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("receipt_id = ?", receipt.ID).
				Delete(&procurement.ReceiptLine{}).Error; err != nil {
				return err
			}
		}
		for i := range receipt.Lines {
			if err := tx.Save(&receipt.Lines[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

var _ procurement.ReceiptRepository = (*GormReceiptRepository)(nil)
