package procurement

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ruxshona2103/Primier-Print/internal/domain/shared"
	"github.com/ruxshona2103/Primier-Print/internal/domain/shared/valueobject"
)

// DocumentStatus is the lifecycle state shared by purchasing documents
type DocumentStatus string

const (
	StatusDraft     DocumentStatus = "draft"
	StatusSubmitted DocumentStatus = "submitted"
	StatusCancelled DocumentStatus = "cancelled"
)

// PurchaseReceipt records goods arriving into stock. Line rates and the grand
// total are kept in the document currency; ExchangeRate converts them to the
// company home currency wherever the engine needs valuation amounts.
type PurchaseReceipt struct {
	shared.BaseAggregateRoot
	Number       string               `gorm:"type:varchar(64);not null;uniqueIndex"`
	SupplierName string               `gorm:"type:varchar(255);not null"`
	CompanyID    uuid.UUID            `gorm:"type:uuid;not null;index"`
	Currency     valueobject.Currency `gorm:"type:varchar(8);not null"`
	ExchangeRate decimal.Decimal      `gorm:"type:decimal(18,8);not null;default:1"`
	// PostingDate anchors as-of exchange rate lookups for this document.
	PostingDate time.Time       `gorm:"not null"`
	GrandTotal  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status      DocumentStatus  `gorm:"type:varchar(16);not null;default:'draft';index"`
	IsReturn    bool            `gorm:"not null;default:false"`
	Lines       []ReceiptLine   `gorm:"foreignKey:ReceiptID;constraint:OnDelete:CASCADE"`
}

// ReceiptLine is one received item. Idx preserves document order, which the
// variance detector relies on when matching invoice lines without an exact
// line reference.
type ReceiptLine struct {
	shared.BaseEntity
	ReceiptID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Idx             int             `gorm:"not null"`
	ItemCode        string          `gorm:"type:varchar(128);not null;index"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Rate            decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PurchaseOrderID *uuid.UUID      `gorm:"type:uuid;index"`
}

// NewPurchaseReceipt creates a draft receipt
func NewPurchaseReceipt(number, supplierName string, companyID uuid.UUID, currency valueobject.Currency, exchangeRate decimal.Decimal) (*PurchaseReceipt, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "receipt number is required")
	}
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "receipt company is required")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	if !exchangeRate.IsPositive() {
		exchangeRate = decimal.NewFromInt(1)
	}
	return &PurchaseReceipt{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		SupplierName:      supplierName,
		CompanyID:         companyID,
		Currency:          currency,
		ExchangeRate:      exchangeRate,
		PostingDate:       time.Now(),
		GrandTotal:        decimal.Zero,
		Status:            StatusDraft,
	}, nil
}

// AddLine appends a received item and recalculates the grand total
func (r *PurchaseReceipt) AddLine(itemCode string, quantity, rate decimal.Decimal, purchaseOrderID *uuid.UUID) (*ReceiptLine, error) {
	if r.Status != StatusDraft {
		return nil, shared.ErrInvalidState
	}
	if strings.TrimSpace(itemCode) == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "item code is required")
	}
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "quantity must be positive")
	}

	line := ReceiptLine{
		BaseEntity:      shared.NewBaseEntity(),
		ReceiptID:       r.ID,
		Idx:             len(r.Lines) + 1,
		ItemCode:        itemCode,
		Quantity:        quantity,
		Rate:            rate,
		Amount:          quantity.Mul(rate),
		PurchaseOrderID: purchaseOrderID,
	}
	r.Lines = append(r.Lines, line)
	r.recalculate()
	return &r.Lines[len(r.Lines)-1], nil
}

func (r *PurchaseReceipt) recalculate() {
	total := decimal.Zero
	for _, line := range r.Lines {
		total = total.Add(line.Amount)
	}
	r.GrandTotal = total
}

// MarkReturn flags the receipt as a purchase return
func (r *PurchaseReceipt) MarkReturn() {
	r.IsReturn = true
}

// CanSubmit reports whether the receipt can be submitted
func (r *PurchaseReceipt) CanSubmit() error {
	if r.Status != StatusDraft {
		return shared.ErrInvalidState
	}
	if len(r.Lines) == 0 {
		return shared.NewDomainError("VALIDATION_FAILED", "receipt has no lines")
	}
	return nil
}

// Submit transitions the receipt to submitted and records the event
func (r *PurchaseReceipt) Submit() error {
	if err := r.CanSubmit(); err != nil {
		return err
	}
	r.Status = StatusSubmitted
	r.AddDomainEvent(NewPurchaseReceiptSubmittedEvent(r))
	return nil
}

// Cancel transitions the receipt to cancelled
func (r *PurchaseReceipt) Cancel() error {
	if r.Status != StatusSubmitted {
		return shared.ErrInvalidState
	}
	r.Status = StatusCancelled
	return nil
}

// FindLine returns the line with the given ID, or nil
func (r *PurchaseReceipt) FindLine(lineID uuid.UUID) *ReceiptLine {
	for i := range r.Lines {
		if r.Lines[i].ID == lineID {
			return &r.Lines[i]
		}
	}
	return nil
}

// LinesForItem returns the lines carrying the item, in document order
func (r *PurchaseReceipt) LinesForItem(itemCode string) []*ReceiptLine {
	var matches []*ReceiptLine
	for i := range r.Lines {
		if r.Lines[i].ItemCode == itemCode {
			matches = append(matches, &r.Lines[i])
		}
	}
	return matches
}
