package procurement

import (
	"github.com/google/uuid"

	"github.com/ruxshona2103/Primier-Print/internal/domain/shared"
)

// Event types for purchasing documents
const (
	EventTypeInvoiceSubmitted = "procurement.invoice.submitted"
	EventTypeInvoiceCancelled = "procurement.invoice.cancelled"
	EventTypeReceiptSubmitted = "procurement.receipt.submitted"
)

// PurchaseInvoiceSubmittedEvent is emitted when an invoice is submitted
type PurchaseInvoiceSubmittedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string    `json:"invoice_number"`
	CompanyID     uuid.UUID `json:"company_id"`
	IsReturn      bool      `json:"is_return"`
	UpdateStock   bool      `json:"update_stock"`
}

// NewPurchaseInvoiceSubmittedEvent creates the event from the invoice
func NewPurchaseInvoiceSubmittedEvent(invoice *PurchaseInvoice) *PurchaseInvoiceSubmittedEvent {
	return &PurchaseInvoiceSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceSubmitted, "PurchaseInvoice", invoice.ID),
		InvoiceNumber:   invoice.Number,
		CompanyID:       invoice.CompanyID,
		IsReturn:        invoice.IsReturn,
		UpdateStock:     invoice.UpdateStock,
	}
}

// PurchaseInvoiceCancelledEvent is emitted when an invoice is cancelled
type PurchaseInvoiceCancelledEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string    `json:"invoice_number"`
	CompanyID     uuid.UUID `json:"company_id"`
}

// NewPurchaseInvoiceCancelledEvent creates the event from the invoice
func NewPurchaseInvoiceCancelledEvent(invoice *PurchaseInvoice) *PurchaseInvoiceCancelledEvent {
	return &PurchaseInvoiceCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCancelled, "PurchaseInvoice", invoice.ID),
		InvoiceNumber:   invoice.Number,
		CompanyID:       invoice.CompanyID,
	}
}

// PurchaseReceiptSubmittedEvent is emitted when a receipt is submitted
type PurchaseReceiptSubmittedEvent struct {
	shared.BaseDomainEvent
	ReceiptNumber string    `json:"receipt_number"`
	CompanyID     uuid.UUID `json:"company_id"`
	IsReturn      bool      `json:"is_return"`
}

// NewPurchaseReceiptSubmittedEvent creates the event from the receipt
func NewPurchaseReceiptSubmittedEvent(receipt *PurchaseReceipt) *PurchaseReceiptSubmittedEvent {
	return &PurchaseReceiptSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceiptSubmitted, "PurchaseReceipt", receipt.ID),
		ReceiptNumber:   receipt.Number,
		CompanyID:       receipt.CompanyID,
		IsReturn:        receipt.IsReturn,
	}
}
