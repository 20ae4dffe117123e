package landedcost

import (
	"github.com/google/uuid"

	"github.com/ruxshona2103/Primier-Print/internal/domain/shared"
)

// Event types for landed cost adjustments
const (
	EventTypeAdjustmentSubmitted = "landedcost.adjustment.submitted"
	EventTypeAdjustmentCancelled = "landedcost.adjustment.cancelled"
)

// AdjustmentSubmittedEvent is emitted when an adjustment is submitted
type AdjustmentSubmittedEvent struct {
	shared.BaseDomainEvent
	InvoiceID   uuid.UUID  `json:"invoice_id"`
	ChargeType  ChargeType `json:"charge_type"`
	TotalCharge string     `json:"total_charge"`
}

// NewAdjustmentSubmittedEvent creates the event from the adjustment
func NewAdjustmentSubmittedEvent(a *Adjustment) *AdjustmentSubmittedEvent {
	return &AdjustmentSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAdjustmentSubmitted, "Adjustment", a.ID),
		InvoiceID:       a.InvoiceID,
		ChargeType:      a.ChargeType,
		TotalCharge:     a.TotalCharge().StringFixed(2),
	}
}

// AdjustmentCancelledEvent is emitted when an adjustment is cancelled
type AdjustmentCancelledEvent struct {
	shared.BaseDomainEvent
	InvoiceID  uuid.UUID  `json:"invoice_id"`
	ChargeType ChargeType `json:"charge_type"`
}

// NewAdjustmentCancelledEvent creates the event from the adjustment
func NewAdjustmentCancelledEvent(a *Adjustment) *AdjustmentCancelledEvent {
	return &AdjustmentCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAdjustmentCancelled, "Adjustment", a.ID),
		InvoiceID:       a.InvoiceID,
		ChargeType:      a.ChargeType,
	}
}
