package landedcost

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ruxshona2103/Primier-Print/internal/domain/landedcost"
	"github.com/ruxshona2103/Primier-Print/internal/domain/procurement"
	"github.com/ruxshona2103/Primier-Print/internal/domain/shared"
)

// ProcessTransport runs the transport charge path for a submitted invoice:
// fill missing transport terms from the linked purchase orders, normalize the
// transport cost to the home currency, distribute it over the referenced
// receipts per the invoice's distribution setting, submit the adjustment and
// record the reference. A foreign-currency charge without a positive exchange
// rate is a no-op.
func (s *LifecycleService) ProcessTransport(ctx context.Context, invoiceID uuid.UUID) (*ProcessResult, error) {
	invoice, err := s.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("loading invoice: %w", err)
	}
	if invoice == nil {
		return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("invoice %s not found", invoiceID))
	}

	if invoice.Status != procurement.StatusSubmitted {
		return &ProcessResult{Outcome: OutcomeSkipped, Reason: "invoice is not submitted"}, nil
	}
	if invoice.IsReturn {
		return &ProcessResult{Outcome: OutcomeSkipped, Reason: "invoice is a purchase return"}, nil
	}

	filled, err := s.AutoFillTransport(ctx, invoice)
	if err != nil {
		return nil, fmt.Errorf("filling transport terms: %w", err)
	}
	if filled {
		if err := s.invoices.SaveWithLock(ctx, invoice); err != nil {
			return nil, fmt.Errorf("saving transport terms: %w", err)
		}
	}

	if !invoice.TransportCost.IsPositive() {
		return &ProcessResult{Outcome: OutcomeNoTransport}, nil
	}
	if s.hasActiveAdjustment(ctx, invoice, landedcost.ChargeTransport) {
		return &ProcessResult{Outcome: OutcomeSkipped, Reason: "invoice already carries a transport adjustment"}, nil
	}

	receipts, err := s.loadEligibleReceipts(ctx, invoice)
	if err != nil {
		return nil, err
	}
	if len(receipts) == 0 {
		s.notifier.Notify(ctx, Notification{
			Severity:  SeverityInfo,
			Code:      "TRANSPORT_NO_RECEIPTS",
			Message:   fmt.Sprintf("invoice %s carries a transport charge but references no eligible receipts", invoice.Number),
			InvoiceID: invoice.ID,
		})
		return &ProcessResult{Outcome: OutcomeSkipped, Reason: "no eligible receipts"}, nil
	}

	company, err := s.companies.FindByID(ctx, invoice.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("loading company: %w", err)
	}
	if company == nil {
		return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("company %s not found", invoice.CompanyID))
	}

	currency := invoice.TransportCurrency
	if currency == "" {
		currency = invoice.Currency
	}
	if currency != company.HomeCurrency && !invoice.TransportExchangeRate.IsPositive() {
		s.logger.Debug("transport charge skipped, foreign cost without an exchange rate",
			zap.String("invoice", invoice.Number),
			zap.String("currency", string(currency)),
		)
		return &ProcessResult{Outcome: OutcomeNoTransport, Reason: "transport exchange rate missing"}, nil
	}

	account, err := s.resolver.ResolveTransport(ctx, invoice.CompanyID, s.transportAccountName)
	if err != nil {
		return nil, err
	}

	conv, err := s.normalizer.Normalize(ctx, invoice.TransportCost, currency, company.HomeCurrency, invoice.TransportExchangeRate, invoice.PostingDate)
	if err != nil {
		return nil, fmt.Errorf("normalizing transport cost: %w", err)
	}
	total := conv.Result.Round(2)

	method := transportDistribution(invoice.TransportDistribution)
	adjustment, err := landedcost.NewAdjustment(invoice.CompanyID, invoice.ID, landedcost.ChargeTransport, method)
	if err != nil {
		return nil, err
	}
	for _, receipt := range receipts {
		if err := adjustment.AttachReceipt(receipt); err != nil {
			return nil, err
		}
	}
	if err := adjustment.AddChargeLine(account.ID, account.Name,
		fmt.Sprintf("Transport charges from invoice %s", invoice.Number), total); err != nil {
		return nil, err
	}

	switch method {
	case landedcost.DistributeByQuantity:
		err = adjustment.DistributeByQty()
	case landedcost.DistributeByAmount:
		err = adjustment.DistributeByAmt()
	default:
		err = adjustment.ApplyManualAllocations(s.manualTransportWeights(invoice, receipts, total))
	}
	if err != nil {
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
		Code:     "TRANSPORT_ADJUSTED",
		Message: fmt.Sprintf("invoice %s: transport charge %s distributed over %d receipts",
			invoice.Number, total.StringFixed(2), len(receipts)),
		InvoiceID: invoice.ID,
	})

	id := adjustment.ID
	return &ProcessResult{Outcome: OutcomeCreated, AdjustmentID: &id, Total: total}, nil
}

// manualTransportWeights turns the transport shares keyed on invoice lines
// into receipt-line weights scaled so they conserve the normalized total.
// The rounding residual lands on the last weighted line.
func (s *LifecycleService) manualTransportWeights(invoice *procurement.PurchaseInvoice, receipts map[uuid.UUID]*procurement.PurchaseReceipt, total decimal.Decimal) map[uuid.UUID]decimal.Decimal {
	type share struct {
		lineID uuid.UUID
		weight decimal.Decimal
	}
	var shares []share
	sum := decimal.Zero
	for _, line := range invoice.Lines {
		if !line.TransportShare.IsPositive() || line.ReceiptID == nil {
			continue
		}
		receipt, ok := receipts[*line.ReceiptID]
		if !ok {
			continue
		}
		receiptLine := matchForTransport(&line, receipt)
		if receiptLine == nil {
			continue
		}
		shares = append(shares, share{lineID: receiptLine.ID, weight: line.TransportShare})
		sum = sum.Add(line.TransportShare)
	}

	weights := make(map[uuid.UUID]decimal.Decimal, len(shares))
	if len(shares) == 0 || !sum.IsPositive() {
		return weights
	}

	allocated := decimal.Zero
	for i, sh := range shares {
		if i == len(shares)-1 {
			weights[sh.lineID] = total.Sub(allocated)
			break
		}
		w := total.Mul(sh.weight).Div(sum).Round(2)
		weights[sh.lineID] = w
		allocated = allocated.Add(w)
	}
	return weights
}

func matchForTransport(line *procurement.InvoiceLine, receipt *procurement.PurchaseReceipt) *procurement.ReceiptLine {
	if line.ReceiptLineID != nil {
		return receipt.FindLine(*line.ReceiptLineID)
	}
	candidates := receipt.LinesForItem(line.ItemCode)
	if len(candidates) == 0 {
		return nil
	}
	for _, candidate := range candidates {
		if candidate.Quantity.Equal(line.Quantity) {
			return candidate
		}
	}
	return candidates[0]
}

func transportDistribution(d procurement.TransportDistribution) landedcost.DistributionMethod {
	switch d {
	case procurement.DistributeTransportByAmount:
		return landedcost.DistributeByAmount
	case procurement.DistributeTransportManually:
		return landedcost.DistributeManually
	default:
		return landedcost.DistributeByQuantity
	}
}

// AutoFillTransport copies the transport terms from the linked purchase
// orders onto the invoice when the operator left them empty, reporting
// whether anything was filled. With several candidate orders the largest
// transport cost wins.
func (s *LifecycleService) AutoFillTransport(ctx context.Context, invoice *procurement.PurchaseInvoice) (bool, error) {
	if invoice.TransportCost.IsPositive() {
		return false, nil
	}

	var best *procurement.PurchaseOrder
	candidates := 0
	for _, orderID := range invoice.PurchaseOrderIDs() {
		order, err := s.orders.FindByID(ctx, orderID)
		if err != nil {
			return false, fmt.Errorf("loading purchase order %s: %w", orderID, err)
		}
		if order == nil || !order.HasTransport() {
			continue
		}
		candidates++
		if best == nil || order.TransportCost.GreaterThan(best.TransportCost) {
			best = order
		}
	}
	if best == nil {
		return false, nil
	}

	distribution := invoice.TransportDistribution
	if distribution == "" {
		distribution = procurement.DistributeTransportByQty
	}
	invoice.SetTransport(best.TransportCost, best.TransportCurrency, best.TransportExchangeRate, distribution)

	if candidates > 1 {
		s.notifier.Notify(ctx, Notification{
			Severity: SeverityWarn,
			Code:     "TRANSPORT_AUTOFILL_AMBIGUOUS",
			Message: fmt.Sprintf("invoice %s links %d orders with transport charges, using the largest from %s",
				invoice.Number, candidates, best.Number),
			InvoiceID: invoice.ID,
		})
	} else {
		s.notifier.Notify(ctx, Notification{
			Severity:  SeverityInfo,
			Code:      "TRANSPORT_AUTOFILLED",
			Message:   fmt.Sprintf("invoice %s: transport charge filled from order %s", invoice.Number, best.Number),
			InvoiceID: invoice.ID,
		})
	}

	s.logger.Info("transport charge auto-filled",
		zap.String("invoice", invoice.Number),
		zap.String("order", best.Number),
		zap.String("cost", best.TransportCost.String()),
	)
	return true, nil
}
