package procurement

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ruxshona2103/Primier-Print/internal/domain/shared"
	"github.com/ruxshona2103/Primier-Print/internal/domain/shared/valueobject"
)

// PurchaseOrder carries the transport terms agreed with the supplier.
// Invoices auto-fill their transport charge from here when the operator
// leaves it empty.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	Number                string               `gorm:"type:varchar(64);not null;uniqueIndex"`
	SupplierName          string               `gorm:"type:varchar(255);not null"`
	CompanyID             uuid.UUID            `gorm:"type:uuid;not null;index"`
	Status                DocumentStatus       `gorm:"type:varchar(16);not null;default:'draft'"`
	TransportCost         decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	TransportCurrency     valueobject.Currency `gorm:"type:varchar(8)"`
	TransportExchangeRate decimal.Decimal      `gorm:"type:decimal(18,8);not null;default:0"`
}

// NewPurchaseOrder creates a draft purchase order
func NewPurchaseOrder(number, supplierName string, companyID uuid.UUID) (*PurchaseOrder, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "order number is required")
	}
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "order company is required")
	}
	return &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		SupplierName:      supplierName,
		CompanyID:         companyID,
		Status:            StatusDraft,
	}, nil
}

// SetTransport sets the agreed transport terms
func (o *PurchaseOrder) SetTransport(cost decimal.Decimal, currency valueobject.Currency, exchangeRate decimal.Decimal) {
	o.TransportCost = cost
	o.TransportCurrency = currency
	o.TransportExchangeRate = exchangeRate
}

// HasTransport reports whether the order carries a transport charge
func (o *PurchaseOrder) HasTransport() bool {
	return o.TransportCost.IsPositive()
}
