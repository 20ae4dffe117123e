package landedcost

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ruxshona2103/Primier-Print/internal/domain/procurement"
	"github.com/ruxshona2103/Primier-Print/internal/domain/shared"
)

// InvoiceSubmittedHandler reacts to invoice submission by running the
// variance and transport paths. Engine failures are advisory: they are
// logged and notified but never propagated, so submission is never blocked.
type InvoiceSubmittedHandler struct {
	service  *LifecycleService
	notifier Notifier
	logger   *zap.Logger
}

// NewInvoiceSubmittedHandler creates the handler
func NewInvoiceSubmittedHandler(service *LifecycleService, notifier Notifier, logger *zap.Logger) *InvoiceSubmittedHandler {
	return &InvoiceSubmittedHandler{service: service, notifier: notifier, logger: logger}
}

// Handle implements shared.EventHandler
func (h *InvoiceSubmittedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	submitted, ok := event.(*procurement.PurchaseInvoiceSubmittedEvent)
	if !ok {
		return nil
	}

	if _, err := h.service.ProcessInvoiceSubmission(ctx, submitted.AggregateID()); err != nil {
		h.advise(ctx, submitted, "VARIANCE_PROCESSING_FAILED", err)
	}
	if _, err := h.service.ProcessTransport(ctx, submitted.AggregateID()); err != nil {
		h.advise(ctx, submitted, "TRANSPORT_PROCESSING_FAILED", err)
	}
	return nil
}

func (h *InvoiceSubmittedHandler) advise(ctx context.Context, event *procurement.PurchaseInvoiceSubmittedEvent, code string, err error) {
	h.logger.Error("landed cost processing failed",
		zap.String("invoice", event.InvoiceNumber),
		zap.Error(err),
	)
	h.notifier.Notify(ctx, Notification{
		Severity:  SeverityError,
		Code:      code,
		Message:   fmt.Sprintf("invoice %s: %s", event.InvoiceNumber, err.Error()),
		InvoiceID: event.AggregateID(),
	})
}

// EventTypes implements shared.EventHandler
func (h *InvoiceSubmittedHandler) EventTypes() []string {
	return []string{procurement.EventTypeInvoiceSubmitted}
}

// InvoiceCancelledHandler tears down the invoice's adjustments when the
// invoice is cancelled. Partial failure is fine: failed references stay on
// the invoice and the notifier reports them.
type InvoiceCancelledHandler struct {
	service  *LifecycleService
	notifier Notifier
	logger   *zap.Logger
}

// NewInvoiceCancelledHandler creates the handler
func NewInvoiceCancelledHandler(service *LifecycleService, notifier Notifier, logger *zap.Logger) *InvoiceCancelledHandler {
	return &InvoiceCancelledHandler{service: service, notifier: notifier, logger: logger}
}

// Handle implements shared.EventHandler
func (h *InvoiceCancelledHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	cancelled, ok := event.(*procurement.PurchaseInvoiceCancelledEvent)
	if !ok {
		return nil
	}

	result, err := h.service.CancelAdjustments(ctx, cancelled.AggregateID())
	if err != nil {
		h.logger.Error("adjustment cancellation failed",
			zap.String("invoice", cancelled.InvoiceNumber),
			zap.Error(err),
		)
		h.notifier.Notify(ctx, Notification{
			Severity:  SeverityError,
			Code:      "CANCELLATION_FAILED",
			Message:   fmt.Sprintf("invoice %s: %s", cancelled.InvoiceNumber, err.Error()),
			InvoiceID: cancelled.AggregateID(),
		})
		return nil
	}

	h.logger.Info("adjustments cancelled with invoice",
		zap.String("invoice", cancelled.InvoiceNumber),
		zap.Int("cancelled", len(result.Cancelled)),
		zap.Int("failed", len(result.Failed)),
	)
	return nil
}

// EventTypes implements shared.EventHandler
func (h *InvoiceCancelledHandler) EventTypes() []string {
	return []string{procurement.EventTypeInvoiceCancelled}
}

// ReceiptSubmittedHandler picks up invoices that were submitted before their
// receipt and runs the engine for them once the receipt lands. The active
// adjustment guard makes repeat runs no-ops.
type ReceiptSubmittedHandler struct {
	service  *LifecycleService
	invoices procurement.InvoiceRepository
	logger   *zap.Logger
}

// NewReceiptSubmittedHandler creates the handler
func NewReceiptSubmittedHandler(service *LifecycleService, invoices procurement.InvoiceRepository, logger *zap.Logger) *ReceiptSubmittedHandler {
	return &ReceiptSubmittedHandler{service: service, invoices: invoices, logger: logger}
}

// Handle implements shared.EventHandler
func (h *ReceiptSubmittedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	submitted, ok := event.(*procurement.PurchaseReceiptSubmittedEvent)
	if !ok {
		return nil
	}
	if submitted.IsReturn {
		return nil
	}

	invoices, err := h.invoices.FindSubmittedByReceipt(ctx, submitted.AggregateID())
	if err != nil {
		h.logger.Error("loading invoices for receipt failed",
			zap.String("receipt", submitted.ReceiptNumber),
			zap.Error(err),
		)
		return nil
	}

	for i := range invoices {
		if _, err := h.service.ProcessInvoiceSubmission(ctx, invoices[i].ID); err != nil {
			h.logger.Error("late variance processing failed",
				zap.String("receipt", submitted.ReceiptNumber),
				zap.String("invoice", invoices[i].Number),
				zap.Error(err),
			)
		}
		if _, err := h.service.ProcessTransport(ctx, invoices[i].ID); err != nil {
			h.logger.Error("late transport processing failed",
				zap.String("receipt", submitted.ReceiptNumber),
				zap.String("invoice", invoices[i].Number),
				zap.Error(err),
			)
		}
	}
	return nil
}

// EventTypes implements shared.EventHandler
func (h *ReceiptSubmittedHandler) EventTypes() []string {
	return []string{procurement.EventTypeReceiptSubmitted}
}

var (
	_ shared.EventHandler = (*InvoiceSubmittedHandler)(nil)
	_ shared.EventHandler = (*InvoiceCancelledHandler)(nil)
	_ shared.EventHandler = (*ReceiptSubmittedHandler)(nil)
)
