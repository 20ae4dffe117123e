package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ruxshona2103/Primier-Print/internal/domain/landedcost"
)

// GormAdjustmentRepository implements AdjustmentRepository using GORM
type GormAdjustmentRepository struct {
	db *gorm.DB
}

// NewGormAdjustmentRepository creates a new GormAdjustmentRepository
func NewGormAdjustmentRepository(db *gorm.DB) *GormAdjustmentRepository {
	return &GormAdjustmentRepository{db: db}
}

// FindByID finds an adjustment by its ID, returning (nil, nil) when absent
func (r *GormAdjustmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*landedcost.Adjustment, error) {
	var adjustment landedcost.Adjustment
	if err := r.preloaded(ctx).First(&adjustment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &adjustment, nil
}

// FindByInvoice returns all adjustments produced for the invoice, newest first
func (r *GormAdjustmentRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]landedcost.Adjustment, error) {
	var adjustments []landedcost.Adjustment
	if err := r.preloaded(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at DESC").
		Find(&adjustments).Error; err != nil {
		return nil, err
	}
	return adjustments, nil
}

// Save creates or updates an adjustment and its child lines
func (r *GormAdjustmentRepository) Save(ctx context.Context, adjustment *landedcost.Adjustment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("ReceiptRefs", "ChargeLines", "Allocations").Save(adjustment).Error; err != nil {
			return err
		}

		for i := range adjustment.ReceiptRefs {
			adjustment.ReceiptRefs[i].AdjustmentID = adjustment.ID
			if err := tx.Save(&adjustment.ReceiptRefs[i]).Error; err != nil {
				return err
			}
		}
		for i := range adjustment.ChargeLines {
			adjustment.ChargeLines[i].AdjustmentID = adjustment.ID
			if err := tx.Save(&adjustment.ChargeLines[i]).Error; err != nil {
				return err
			}
		}
		for i := range adjustment.Allocations {
			adjustment.Allocations[i].AdjustmentID = adjustment.ID
			if err := tx.Save(&adjustment.Allocations[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormAdjustmentRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("ReceiptRefs").
		Preload("ChargeLines").
		Preload("Allocations", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") })
}

var _ landedcost.AdjustmentRepository = (*GormAdjustmentRepository)(nil)
