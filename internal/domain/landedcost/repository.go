package landedcost

import (
	"context"

	"github.com/google/uuid"
)

// AdjustmentRepository persists landed cost adjustments
type AdjustmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Adjustment, error)
	// FindByInvoice returns all adjustments produced for the invoice,
	// newest first
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]Adjustment, error)
	Save(ctx context.Context, adjustment *Adjustment) error
}
