package procurement

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ruxshona2103/Primier-Print/internal/domain/shared"
	"github.com/ruxshona2103/Primier-Print/internal/domain/shared/valueobject"
)

// TransportDistribution selects how a transport charge spreads over receipt lines
type TransportDistribution string

const (
	DistributeTransportByQty    TransportDistribution = "qty"
	DistributeTransportByAmount TransportDistribution = "amount"
	DistributeTransportManually TransportDistribution = "manual"
)

// PurchaseInvoice is the supplier bill for previously received goods. Its
// exchange rate comes from the operator and may be supplied in the wrong
// direction, so engine math never uses it without normalization.
type PurchaseInvoice struct {
	shared.BaseAggregateRoot
	Number       string               `gorm:"type:varchar(64);not null;uniqueIndex"`
	SupplierName string               `gorm:"type:varchar(255);not null"`
	CompanyID    uuid.UUID            `gorm:"type:uuid;not null;index"`
	Currency     valueobject.Currency `gorm:"type:varchar(8);not null"`
	ExchangeRate decimal.Decimal      `gorm:"type:decimal(18,8);not null;default:1"`
	// PostingDate anchors as-of exchange rate lookups for this document.
	PostingDate time.Time      `gorm:"not null"`
	Status      DocumentStatus `gorm:"type:varchar(16);not null;default:'draft';index"`
	IsReturn    bool           `gorm:"not null;default:false"`
	UpdateStock bool           `gorm:"not null;default:false"`
	Lines       []InvoiceLine  `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`

	TransportCost         decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	TransportCurrency     valueobject.Currency  `gorm:"type:varchar(8)"`
	TransportExchangeRate decimal.Decimal       `gorm:"type:decimal(18,8);not null;default:0"`
	TransportDistribution TransportDistribution `gorm:"type:varchar(16)"`

	// AdjustmentRefs holds the IDs of landed cost adjustments produced for
	// this invoice, stored as a JSON array in a text column.
	AdjustmentRefs string `gorm:"type:text"`
}

// InvoiceLine is one billed item. ReceiptLineID is the exact receipt line the
// supplier billed against when known; the detector falls back to matching by
// receipt and item code when it is absent.
type InvoiceLine struct {
	shared.BaseEntity
	InvoiceID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Idx             int             `gorm:"not null"`
	ItemCode        string          `gorm:"type:varchar(128);not null;index"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Rate            decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReceiptID       *uuid.UUID      `gorm:"type:uuid;index"`
	ReceiptLineID   *uuid.UUID      `gorm:"type:uuid;index"`
	PurchaseOrderID *uuid.UUID      `gorm:"type:uuid;index"`
	TransportShare  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// NewPurchaseInvoice creates a draft invoice
func NewPurchaseInvoice(number, supplierName string, companyID uuid.UUID, currency valueobject.Currency, exchangeRate decimal.Decimal) (*PurchaseInvoice, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "invoice number is required")
	}
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "invoice company is required")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	return &PurchaseInvoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		SupplierName:      supplierName,
		CompanyID:         companyID,
		Currency:          currency,
		ExchangeRate:      exchangeRate,
		PostingDate:       time.Now(),
		Status:            StatusDraft,
	}, nil
}

// AddLine appends a billed item
func (inv *PurchaseInvoice) AddLine(itemCode string, quantity, rate decimal.Decimal, receiptID, receiptLineID, purchaseOrderID *uuid.UUID) (*InvoiceLine, error) {
	if inv.Status != StatusDraft {
		return nil, shared.ErrInvalidState
	}
	if strings.TrimSpace(itemCode) == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "item code is required")
	}
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "quantity must be positive")
	}

	line := InvoiceLine{
		BaseEntity:      shared.NewBaseEntity(),
		InvoiceID:       inv.ID,
		Idx:             len(inv.Lines) + 1,
		ItemCode:        itemCode,
		Quantity:        quantity,
		Rate:            rate,
		Amount:          quantity.Mul(rate),
		ReceiptID:       receiptID,
		ReceiptLineID:   receiptLineID,
		PurchaseOrderID: purchaseOrderID,
	}
	inv.Lines = append(inv.Lines, line)
	return &inv.Lines[len(inv.Lines)-1], nil
}

// SetTransport sets the transport charge carried on the invoice
func (inv *PurchaseInvoice) SetTransport(cost decimal.Decimal, currency valueobject.Currency, exchangeRate decimal.Decimal, distribution TransportDistribution) {
	inv.TransportCost = cost
	inv.TransportCurrency = currency
	inv.TransportExchangeRate = exchangeRate
	inv.TransportDistribution = distribution
}

// MarkReturn flags the invoice as a purchase return
func (inv *PurchaseInvoice) MarkReturn() {
	inv.IsReturn = true
}

// ReceiptIDs returns the distinct receipts referenced by invoice lines
func (inv *PurchaseInvoice) ReceiptIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, line := range inv.Lines {
		if line.ReceiptID == nil || seen[*line.ReceiptID] {
			continue
		}
		seen[*line.ReceiptID] = true
		ids = append(ids, *line.ReceiptID)
	}
	return ids
}

// PurchaseOrderIDs returns the distinct purchase orders referenced by invoice lines
func (inv *PurchaseInvoice) PurchaseOrderIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, line := range inv.Lines {
		if line.PurchaseOrderID == nil || seen[*line.PurchaseOrderID] {
			continue
		}
		seen[*line.PurchaseOrderID] = true
		ids = append(ids, *line.PurchaseOrderID)
	}
	return ids
}

// CanSubmit reports whether the invoice can be submitted
func (inv *PurchaseInvoice) CanSubmit() error {
	if inv.Status != StatusDraft {
		return shared.ErrInvalidState
	}
	if len(inv.Lines) == 0 {
		return shared.NewDomainError("VALIDATION_FAILED", "invoice has no lines")
	}
	return nil
}

// Submit transitions the invoice to submitted and records the event
func (inv *PurchaseInvoice) Submit() error {
	if err := inv.CanSubmit(); err != nil {
		return err
	}
	inv.Status = StatusSubmitted
	inv.AddDomainEvent(NewPurchaseInvoiceSubmittedEvent(inv))
	return nil
}

// CanCancel reports whether the invoice can be cancelled
func (inv *PurchaseInvoice) CanCancel() error {
	if inv.Status != StatusSubmitted {
		return shared.ErrInvalidState
	}
	return nil
}

// Cancel transitions the invoice to cancelled and records the event
func (inv *PurchaseInvoice) Cancel() error {
	if err := inv.CanCancel(); err != nil {
		return err
	}
	inv.Status = StatusCancelled
	inv.AddDomainEvent(NewPurchaseInvoiceCancelledEvent(inv))
	return nil
}

// AdjustmentRefIDs parses the stored adjustment reference set
func (inv *PurchaseInvoice) AdjustmentRefIDs() ([]uuid.UUID, error) {
	if strings.TrimSpace(inv.AdjustmentRefs) == "" {
		return nil, nil
	}
	var raw []string
	if err := json.Unmarshal([]byte(inv.AdjustmentRefs), &raw); err != nil {
		return nil, fmt.Errorf("parsing adjustment refs: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("parsing adjustment ref %q: %w", s, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// HasAdjustmentRefs reports whether any adjustment references are stored
func (inv *PurchaseInvoice) HasAdjustmentRefs() bool {
	ids, err := inv.AdjustmentRefIDs()
	return err == nil && len(ids) > 0
}

// AppendAdjustmentRef adds an adjustment ID to the reference set.
// Appending an ID that is already present is a no-op.
func (inv *PurchaseInvoice) AppendAdjustmentRef(adjustmentID uuid.UUID) error {
	ids, err := inv.AdjustmentRefIDs()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id == adjustmentID {
			return nil
		}
	}
	return inv.SetAdjustmentRefs(append(ids, adjustmentID))
}

// SetAdjustmentRefs replaces the reference set
func (inv *PurchaseInvoice) SetAdjustmentRefs(ids []uuid.UUID) error {
	if len(ids) == 0 {
		inv.AdjustmentRefs = ""
		return nil
	}
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encoding adjustment refs: %w", err)
	}
	inv.AdjustmentRefs = string(data)
	return nil
}
