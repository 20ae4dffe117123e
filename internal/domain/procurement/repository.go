package procurement

import (
	"context"

	"github.com/google/uuid"
)

// ReceiptRepository persists purchase receipts.
// Implementations must return lines ordered by idx.
type ReceiptRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseReceipt, error)
	Save(ctx context.Context, receipt *PurchaseReceipt) error
}

// InvoiceRepository persists purchase invoices
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseInvoice, error)
	// FindSubmittedByReceipt returns submitted invoices with at least one line
	// referencing the receipt
	FindSubmittedByReceipt(ctx context.Context, receiptID uuid.UUID) ([]PurchaseInvoice, error)
	Save(ctx context.Context, invoice *PurchaseInvoice) error
	// SaveWithLock updates the invoice root guarded by the aggregate version,
	// returning shared.ErrConcurrencyConflict on a stale version. Lines are
	// left untouched.
	SaveWithLock(ctx context.Context, invoice *PurchaseInvoice) error
}

// PurchaseOrderRepository persists purchase orders
type PurchaseOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	Save(ctx context.Context, order *PurchaseOrder) error
}
