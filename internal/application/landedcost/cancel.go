package landedcost

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ruxshona2103/Primier-Print/internal/domain/landedcost"
	"github.com/ruxshona2103/Primier-Print/internal/domain/shared"
)

// CancelAdjustments cancels every adjustment referenced by the invoice.
// Failures are collected, not fatal: successfully cancelled references are
// removed from the invoice, failed ones stay behind for a later retry.
func (s *LifecycleService) CancelAdjustments(ctx context.Context, invoiceID uuid.UUID) (*CancelResult, error) {
	invoice, err := s.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("loading invoice: %w", err)
	}
	if invoice == nil {
		return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("invoice %s not found", invoiceID))
	}

	refs, err := invoice.AdjustmentRefIDs()
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return &CancelResult{}, nil
	}

	result := &CancelResult{}
	for _, id := range refs {
		if reason := s.cancelOne(ctx, id); reason != "" {
			result.Failed = append(result.Failed, CancelFailure{AdjustmentID: id, Reason: reason})
			continue
		}
		result.Cancelled = append(result.Cancelled, id)
	}

	if len(result.Cancelled) > 0 {
		remaining := make([]uuid.UUID, 0, len(result.Failed))
		for _, f := range result.Failed {
			remaining = append(remaining, f.AdjustmentID)
		}
		if err := invoice.SetAdjustmentRefs(remaining); err != nil {
			return nil, err
		}
		if err := s.invoices.SaveWithLock(ctx, invoice); err != nil {
			return nil, fmt.Errorf("saving invoice refs: %w", err)
		}
	}

	for _, f := range result.Failed {
		s.notifier.Notify(ctx, Notification{
			Severity:  SeverityWarn,
			Code:      "ADJUSTMENT_CANCEL_FAILED",
			Message:   fmt.Sprintf("adjustment %s could not be cancelled: %s", f.AdjustmentID, f.Reason),
			InvoiceID: invoice.ID,
		})
	}
	if len(result.Cancelled) > 0 {
		s.notifier.Notify(ctx, Notification{
			Severity:  SeverityInfo,
			Code:      "ADJUSTMENTS_CANCELLED",
			Message:   fmt.Sprintf("invoice %s: %d adjustments cancelled", invoice.Number, len(result.Cancelled)),
			InvoiceID: invoice.ID,
		})
	}

	return result, nil
}

// cancelOne cancels a single referenced adjustment, returning a failure
// reason or empty on success. References to draft or already cancelled
// adjustments are treated as settled.
func (s *LifecycleService) cancelOne(ctx context.Context, id uuid.UUID) string {
	adjustment, err := s.adjustments.FindByID(ctx, id)
	if err != nil {
		return err.Error()
	}
	if adjustment == nil {
		return "adjustment not found"
	}
	if adjustment.Status != landedcost.AdjustmentSubmitted {
		return ""
	}
	if err := adjustment.Cancel(); err != nil {
		return err.Error()
	}
	if err := s.saveAdjustment(ctx, adjustment); err != nil {
		return err.Error()
	}
	return ""
}

// Reprocess tears down the invoice's existing adjustments and runs both the
// variance and transport paths again. Used when receipt valuations changed
// after the invoice was first processed.
func (s *LifecycleService) Reprocess(ctx context.Context, invoiceID uuid.UUID) error {
	cancelled, err := s.CancelAdjustments(ctx, invoiceID)
	if err != nil {
		return err
	}
	if len(cancelled.Failed) > 0 {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("%d adjustments could not be cancelled, reprocess aborted", len(cancelled.Failed)))
	}

	if _, err := s.ProcessInvoiceSubmission(ctx, invoiceID); err != nil {
		return err
	}
	if _, err := s.ProcessTransport(ctx, invoiceID); err != nil {
		return err
	}

	s.logger.Info("invoice reprocessed", zap.String("invoice_id", invoiceID.String()))
	return nil
}
