package landedcost

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ruxshona2103/Primier-Print/internal/domain/accounting"
	"github.com/ruxshona2103/Primier-Print/internal/domain/landedcost"
	"github.com/ruxshona2103/Primier-Print/internal/domain/procurement"
	"github.com/ruxshona2103/Primier-Print/internal/domain/shared"
)

// Outcome summarizes what a processing run did
type Outcome string

const (
	OutcomeCreated     Outcome = "created"
	OutcomeNoVariances Outcome = "no_variances"
	OutcomeNoTransport Outcome = "no_transport"
	OutcomeSkipped     Outcome = "skipped"
	OutcomeFailed      Outcome = "failed"
)

// ProcessResult is the outcome of one variance or transport run
type ProcessResult struct {
	Outcome      Outcome
	AdjustmentID *uuid.UUID
	Total        decimal.Decimal
	SkippedLines int
	Reason       string
}

// CancelFailure records one adjustment that could not be cancelled
type CancelFailure struct {
	AdjustmentID uuid.UUID
	Reason       string
}

// CancelResult is the outcome of a cancellation cascade
type CancelResult struct {
	Cancelled []uuid.UUID
	Failed    []CancelFailure
}

// LifecycleService drives landed cost adjustments through their life around
// purchase invoices: creation on submission, transport charges, cancellation
// cascades and reprocessing.
type LifecycleService struct {
	invoices    procurement.InvoiceRepository
	receipts    procurement.ReceiptRepository
	orders      procurement.PurchaseOrderRepository
	adjustments landedcost.AdjustmentRepository
	companies   accounting.CompanyRepository
	resolver    *accounting.AccountResolver
	normalizer  *landedcost.CurrencyNormalizer
	detector    *landedcost.VarianceDetector
	notifier    Notifier
	publisher   shared.EventPublisher
	logger      *zap.Logger

	transportAccountName string
}

// LifecycleOption configures a LifecycleService
type LifecycleOption func(*LifecycleService)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) LifecycleOption {
	return func(s *LifecycleService) {
		s.logger = logger
	}
}

// WithPublisher sets the event publisher for adjustment events
func WithPublisher(publisher shared.EventPublisher) LifecycleOption {
	return func(s *LifecycleService) {
		s.publisher = publisher
	}
}

// WithTransportAccountName sets the configured transport account name
func WithTransportAccountName(name string) LifecycleOption {
	return func(s *LifecycleService) {
		s.transportAccountName = name
	}
}

// NewLifecycleService creates the adjustment lifecycle service
func NewLifecycleService(
	invoices procurement.InvoiceRepository,
	receipts procurement.ReceiptRepository,
	orders procurement.PurchaseOrderRepository,
	adjustments landedcost.AdjustmentRepository,
	companies accounting.CompanyRepository,
	resolver *accounting.AccountResolver,
	normalizer *landedcost.CurrencyNormalizer,
	detector *landedcost.VarianceDetector,
	notifier Notifier,
	opts ...LifecycleOption,
) *LifecycleService {
	s := &LifecycleService{
		invoices:    invoices,
		receipts:    receipts,
		orders:      orders,
		adjustments: adjustments,
		companies:   companies,
		resolver:    resolver,
		normalizer:  normalizer,
		detector:    detector,
		notifier:    notifier,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProcessInvoiceSubmission runs the variance path for a submitted invoice:
// detect billed-vs-received rate differences, build a manually distributed
// adjustment against the SRBNB account, submit it and record the reference
// on the invoice.
func (s *LifecycleService) ProcessInvoiceSubmission(ctx context.Context, invoiceID uuid.UUID) (*ProcessResult, error) {
	invoice, err := s.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("loading invoice: %w", err)
	}
	if invoice == nil {
		return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("invoice %s not found", invoiceID))
	}

	if reason := s.varianceGuard(ctx, invoice); reason != "" {
		s.logger.Debug("variance processing skipped",
			zap.String("invoice", invoice.Number),
			zap.String("reason", reason),
		)
		return &ProcessResult{Outcome: OutcomeSkipped, Reason: reason}, nil
	}

	company, err := s.companies.FindByID(ctx, invoice.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("loading company: %w", err)
	}
	if company == nil {
		return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("company %s not found", invoice.CompanyID))
	}

	receipts, err := s.loadEligibleReceipts(ctx, invoice)
	if err != nil {
		return nil, err
	}

	detection, err := s.detector.Detect(ctx, invoice, receipts, company.HomeCurrency)
	if err != nil {
		return nil, fmt.Errorf("detecting variances: %w", err)
	}
	for _, skipped := range detection.Skipped {
		s.logger.Debug("invoice line skipped",
			zap.String("invoice", invoice.Number),
			zap.String("item", skipped.ItemCode),
			zap.String("reason", skipped.Reason),
		)
	}

	if len(detection.Variances) == 0 {
		s.notifier.Notify(ctx, Notification{
			Severity:  SeverityInfo,
			Code:      "NO_VARIANCES",
			Message:   fmt.Sprintf("invoice %s matches receipt valuations, no adjustment needed", invoice.Number),
			InvoiceID: invoice.ID,
		})
		return &ProcessResult{Outcome: OutcomeNoVariances, SkippedLines: len(detection.Skipped)}, nil
	}

	account, err := s.resolver.ResolveSRBNB(ctx, invoice.CompanyID)
	if err != nil {
		return nil, err
	}

	adjustment, err := landedcost.NewAdjustment(invoice.CompanyID, invoice.ID, landedcost.ChargePriceVariance, landedcost.DistributeManually)
	if err != nil {
		return nil, err
	}

	weights := make(map[uuid.UUID]decimal.Decimal, len(detection.Variances))
	attached := make(map[uuid.UUID]bool)
	for _, v := range detection.Variances {
		weights[v.ReceiptLineID] = v.Amount
		if attached[v.ReceiptID] {
			continue
		}
		if err := adjustment.AttachReceipt(receipts[v.ReceiptID]); err != nil {
			return nil, err
		}
		attached[v.ReceiptID] = true
	}

	total := detection.TotalVariance()
	if err := adjustment.AddChargeLine(account.ID, account.Name,
		fmt.Sprintf("Rate variance from invoice %s", invoice.Number), total); err != nil {
		return nil, err
	}
	if err := adjustment.ApplyManualAllocations(weights); err != nil {
		return nil, err
	}
	if err := adjustment.Submit(); err != nil {
		return nil, err
	}
	if err := s.saveAdjustment(ctx, adjustment); err != nil {
		return nil, err
	}

	if err := invoice.AppendAdjustmentRef(adjustment.ID); err != nil {
		return nil, err
	}
	if err := s.invoices.SaveWithLock(ctx, invoice); err != nil {
		return nil, fmt.Errorf("saving invoice refs: %w", err)
	}

	s.notifier.Notify(ctx, Notification{
		Severity: SeverityInfo,
		Code:     "VARIANCE_ADJUSTED",
		Message: fmt.Sprintf("invoice %s: %s variance pushed to stock valuation across %d lines",
			invoice.Number, total.StringFixed(2), len(detection.Variances)),
		InvoiceID: invoice.ID,
	})

	id := adjustment.ID
	return &ProcessResult{
		Outcome:      OutcomeCreated,
		AdjustmentID: &id,
		Total:        total,
		SkippedLines: len(detection.Skipped),
	}, nil
}

// varianceGuard returns a non-empty skip reason when the invoice must not
// produce a variance adjustment
func (s *LifecycleService) varianceGuard(ctx context.Context, invoice *procurement.PurchaseInvoice) string {
	if invoice.Status != procurement.StatusSubmitted {
		return "invoice is not submitted"
	}
	if invoice.IsReturn {
		return "invoice is a purchase return"
	}
	if !invoice.UpdateStock {
		return "invoice does not update stock"
	}
	if s.hasActiveAdjustment(ctx, invoice, landedcost.ChargePriceVariance) {
		return "invoice already carries a variance adjustment"
	}
	return ""
}

// hasActiveAdjustment reports whether the invoice refs include a submitted
// adjustment of the given charge type
func (s *LifecycleService) hasActiveAdjustment(ctx context.Context, invoice *procurement.PurchaseInvoice, chargeType landedcost.ChargeType) bool {
	ids, err := invoice.AdjustmentRefIDs()
	if err != nil || len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		adjustment, err := s.adjustments.FindByID(ctx, id)
		if err != nil || adjustment == nil {
			continue
		}
		if adjustment.ChargeType == chargeType && adjustment.Status == landedcost.AdjustmentSubmitted {
			return true
		}
	}
	return false
}

// loadEligibleReceipts loads the submitted, non-return receipts the invoice
// references. Ineligible receipts are simply left out; the detector reports
// their lines as skipped.
func (s *LifecycleService) loadEligibleReceipts(ctx context.Context, invoice *procurement.PurchaseInvoice) (map[uuid.UUID]*procurement.PurchaseReceipt, error) {
	receipts := make(map[uuid.UUID]*procurement.PurchaseReceipt)
	for _, id := range invoice.ReceiptIDs() {
		receipt, err := s.receipts.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("loading receipt %s: %w", id, err)
		}
		if receipt == nil || receipt.Status != procurement.StatusSubmitted || receipt.IsReturn {
			continue
		}
		receipts[id] = receipt
	}
	return receipts, nil
}

func (s *LifecycleService) saveAdjustment(ctx context.Context, adjustment *landedcost.Adjustment) error {
	if err := s.adjustments.Save(ctx, adjustment); err != nil {
		return fmt.Errorf("saving adjustment: %w", err)
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, adjustment.GetDomainEvents()...); err != nil {
			s.logger.Warn("publishing adjustment events failed", zap.Error(err))
		}
	}
	adjustment.ClearDomainEvents()
	return nil
}
