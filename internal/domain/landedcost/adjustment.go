package landedcost

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ruxshona2103/Primier-Print/internal/domain/procurement"
	"github.com/ruxshona2103/Primier-Print/internal/domain/shared"
)

// ChargeType classifies what an adjustment pushes onto stock valuation
type ChargeType string

const (
	ChargePriceVariance ChargeType = "price_variance"
	ChargeTransport     ChargeType = "transport"
)

// DistributionMethod selects how the total charge spreads over allocation lines
type DistributionMethod string

const (
	DistributeManually   DistributionMethod = "manual"
	DistributeByQuantity DistributionMethod = "by_qty"
	DistributeByAmount   DistributionMethod = "by_amount"
)

// AdjustmentStatus is the adjustment lifecycle state
type AdjustmentStatus string

const (
	AdjustmentDraft     AdjustmentStatus = "draft"
	AdjustmentSubmitted AdjustmentStatus = "submitted"
	AdjustmentCancelled AdjustmentStatus = "cancelled"
)

// Materiality is the threshold below which money amounts are ignored.
// Conservation is enforced against the same threshold.
var Materiality = decimal.NewFromFloat(0.01)

// Adjustment is a landed cost adjustment: a charge in the company home
// currency distributed over the lines of one or more purchase receipts.
type Adjustment struct {
	shared.BaseAggregateRoot
	CompanyID    uuid.UUID          `gorm:"type:uuid;not null;index"`
	InvoiceID    uuid.UUID          `gorm:"type:uuid;not null;index"`
	ChargeType   ChargeType         `gorm:"type:varchar(32);not null"`
	Distribution DistributionMethod `gorm:"type:varchar(16);not null"`
	Status       AdjustmentStatus   `gorm:"type:varchar(16);not null;default:'draft';index"`
	Remarks      string             `gorm:"type:text"`
	ReceiptRefs  []ReceiptRef       `gorm:"foreignKey:AdjustmentID;constraint:OnDelete:CASCADE"`
	ChargeLines  []ChargeLine       `gorm:"foreignKey:AdjustmentID;constraint:OnDelete:CASCADE"`
	Allocations  []AllocationLine   `gorm:"foreignKey:AdjustmentID;constraint:OnDelete:CASCADE"`
}

// ReceiptRef ties the adjustment to a receipt. The grand total is stored in
// the company home currency at attach time.
type ReceiptRef struct {
	shared.BaseEntity
	AdjustmentID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ReceiptID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ReceiptNumber string          `gorm:"type:varchar(64);not null"`
	GrandTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// ChargeLine is one charge posted against an expense account, home currency
type ChargeLine struct {
	shared.BaseEntity
	AdjustmentID uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID    uuid.UUID       `gorm:"type:uuid;not null"`
	AccountName  string          `gorm:"type:varchar(255);not null"`
	Description  string          `gorm:"type:varchar(255)"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// AllocationLine mirrors one receipt line and carries the share of the
// total charge applied to it. Lines the distribution does not touch keep
// an applicable charge of exactly zero.
type AllocationLine struct {
	shared.BaseEntity
	AdjustmentID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ReceiptID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ReceiptLineID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemCode         string          `gorm:"type:varchar(128);not null"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Rate             decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ApplicableCharge decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// NewAdjustment creates a draft adjustment for an invoice
func NewAdjustment(companyID, invoiceID uuid.UUID, chargeType ChargeType, distribution DistributionMethod) (*Adjustment, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "adjustment company is required")
	}
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "adjustment source invoice is required")
	}
	switch chargeType {
	case ChargePriceVariance, ChargeTransport:
	default:
		return nil, shared.NewDomainError("VALIDATION_FAILED", fmt.Sprintf("unknown charge type %q", chargeType))
	}
	switch distribution {
	case DistributeManually, DistributeByQuantity, DistributeByAmount:
	default:
		return nil, shared.NewDomainError("VALIDATION_FAILED", fmt.Sprintf("unknown distribution method %q", distribution))
	}
	return &Adjustment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CompanyID:         companyID,
		InvoiceID:         invoiceID,
		ChargeType:        chargeType,
		Distribution:      distribution,
		Status:            AdjustmentDraft,
	}, nil
}

// AttachReceipt references a receipt and mirrors its lines as allocation
// lines with a zero applicable charge. The receipt grand total is converted
// to the home currency using the receipt's own exchange rate.
func (a *Adjustment) AttachReceipt(receipt *procurement.PurchaseReceipt) error {
	if a.Status != AdjustmentDraft {
		return shared.ErrInvalidState
	}
	for _, ref := range a.ReceiptRefs {
		if ref.ReceiptID == receipt.ID {
			return shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("receipt %s already attached", receipt.Number))
		}
	}

	a.ReceiptRefs = append(a.ReceiptRefs, ReceiptRef{
		BaseEntity:    shared.NewBaseEntity(),
		AdjustmentID:  a.ID,
		ReceiptID:     receipt.ID,
		ReceiptNumber: receipt.Number,
		GrandTotal:    receipt.GrandTotal.Mul(receipt.ExchangeRate).Round(2),
	})

	for _, line := range receipt.Lines {
		a.Allocations = append(a.Allocations, AllocationLine{
			BaseEntity:       shared.NewBaseEntity(),
			AdjustmentID:     a.ID,
			ReceiptID:        receipt.ID,
			ReceiptLineID:    line.ID,
			ItemCode:         line.ItemCode,
			Quantity:         line.Quantity,
			Rate:             line.Rate,
			Amount:           line.Amount,
			ApplicableCharge: decimal.Zero,
		})
	}
	return nil
}

// AddChargeLine appends a charge against an expense account
func (a *Adjustment) AddChargeLine(accountID uuid.UUID, accountName, description string, amount decimal.Decimal) error {
	if a.Status != AdjustmentDraft {
		return shared.ErrInvalidState
	}
	if accountID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_FAILED", "charge account is required")
	}
	a.ChargeLines = append(a.ChargeLines, ChargeLine{
		BaseEntity:   shared.NewBaseEntity(),
		AdjustmentID: a.ID,
		AccountID:    accountID,
		AccountName:  accountName,
		Description:  description,
		Amount:       amount,
	})
	return nil
}

// TotalCharge returns the sum of all charge lines
func (a *Adjustment) TotalCharge() decimal.Decimal {
	total := decimal.Zero
	for _, c := range a.ChargeLines {
		total = total.Add(c.Amount)
	}
	return total
}

// TotalApplicable returns the sum of all applicable charges
func (a *Adjustment) TotalApplicable() decimal.Decimal {
	total := decimal.Zero
	for _, l := range a.Allocations {
		total = total.Add(l.ApplicableCharge)
	}
	return total
}

// ApplyManualAllocations sets the applicable charge for the weighted lines,
// keyed by receipt line ID. Every line not named keeps exactly zero. The
// weights must conserve the total charge within Materiality.
func (a *Adjustment) ApplyManualAllocations(weights map[uuid.UUID]decimal.Decimal) error {
	if a.Status != AdjustmentDraft {
		return shared.ErrInvalidState
	}
	if a.Distribution != DistributeManually {
		return shared.NewDomainError("INVALID_STATE", "adjustment does not use manual distribution")
	}

	matched := 0
	for i := range a.Allocations {
		if w, ok := weights[a.Allocations[i].ReceiptLineID]; ok {
			a.Allocations[i].ApplicableCharge = w.Round(2)
			matched++
		} else {
			a.Allocations[i].ApplicableCharge = decimal.Zero
		}
	}
	if matched != len(weights) {
		return shared.NewDomainError("VALIDATION_FAILED",
			fmt.Sprintf("%d of %d weights reference lines not on the attached receipts", len(weights)-matched, len(weights)))
	}

	return a.checkConservation()
}

// DistributeByQty spreads the total charge proportionally to line quantities
func (a *Adjustment) DistributeByQty() error {
	return a.distributeProportionally(func(l AllocationLine) decimal.Decimal { return l.Quantity })
}

// DistributeByAmt spreads the total charge proportionally to line amounts
func (a *Adjustment) DistributeByAmt() error {
	return a.distributeProportionally(func(l AllocationLine) decimal.Decimal { return l.Amount })
}

// distributeProportionally rounds each share to 2 places and pushes the
// rounding residual onto the last weighted line so conservation holds exactly.
func (a *Adjustment) distributeProportionally(weight func(AllocationLine) decimal.Decimal) error {
	if a.Status != AdjustmentDraft {
		return shared.ErrInvalidState
	}
	if len(a.Allocations) == 0 {
		return shared.NewDomainError("VALIDATION_FAILED", "no allocation lines to distribute over")
	}

	totalWeight := decimal.Zero
	for _, l := range a.Allocations {
		totalWeight = totalWeight.Add(weight(l))
	}
	if !totalWeight.IsPositive() {
		return shared.NewDomainError("VALIDATION_FAILED", "distribution weights sum to zero")
	}

	total := a.TotalCharge()
	allocated := decimal.Zero
	lastWeighted := -1
	for i := range a.Allocations {
		w := weight(a.Allocations[i])
		if w.IsZero() {
			a.Allocations[i].ApplicableCharge = decimal.Zero
			continue
		}
		share := total.Mul(w).Div(totalWeight).Round(2)
		a.Allocations[i].ApplicableCharge = share
		allocated = allocated.Add(share)
		lastWeighted = i
	}
	if lastWeighted >= 0 {
		residual := total.Sub(allocated)
		if !residual.IsZero() {
			a.Allocations[lastWeighted].ApplicableCharge = a.Allocations[lastWeighted].ApplicableCharge.Add(residual)
		}
	}

	return a.checkConservation()
}

func (a *Adjustment) checkConservation() error {
	diff := a.TotalApplicable().Sub(a.TotalCharge()).Abs()
	if diff.GreaterThan(Materiality) {
		return shared.NewDomainError("CONSERVATION_VIOLATION",
			fmt.Sprintf("allocated %s does not match total charges %s", a.TotalApplicable(), a.TotalCharge()))
	}
	return nil
}

// CanSubmit reports whether the adjustment can be submitted
func (a *Adjustment) CanSubmit() error {
	if a.Status != AdjustmentDraft {
		return shared.ErrInvalidState
	}
	if len(a.ReceiptRefs) == 0 {
		return shared.NewDomainError("VALIDATION_FAILED", "adjustment references no receipts")
	}
	if len(a.ChargeLines) == 0 {
		return shared.NewDomainError("VALIDATION_FAILED", "adjustment has no charge lines")
	}
	return a.checkConservation()
}

// Submit transitions the adjustment to submitted and records the event
func (a *Adjustment) Submit() error {
	if err := a.CanSubmit(); err != nil {
		return err
	}
	a.Status = AdjustmentSubmitted
	a.AddDomainEvent(NewAdjustmentSubmittedEvent(a))
	return nil
}

// CanCancel reports whether the adjustment can be cancelled
func (a *Adjustment) CanCancel() error {
	if a.Status != AdjustmentSubmitted {
		return shared.ErrInvalidState
	}
	return nil
}

// Cancel transitions the adjustment to cancelled and records the event
func (a *Adjustment) Cancel() error {
	if err := a.CanCancel(); err != nil {
		return err
	}
	a.Status = AdjustmentCancelled
	a.AddDomainEvent(NewAdjustmentCancelledEvent(a))
	return nil
}
