package landedcost

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ruxshona2103/Primier-Print/internal/domain/procurement"
	"github.com/ruxshona2103/Primier-Print/internal/domain/shared/valueobject"
)

// rateEpsilon is the per-unit rate difference below which a variance is noise
var rateEpsilon = decimal.NewFromFloat(0.0001)

// Variance is a billed-vs-received rate difference on one receipt line,
// expressed in the home currency. Duplicate invoice lines hitting the same
// receipt line accumulate into a single entry.
type Variance struct {
	ReceiptID     uuid.UUID
	ReceiptLineID uuid.UUID
	ItemCode      string
	Quantity      decimal.Decimal
	ReceiptRate   decimal.Decimal
	InvoiceRate   decimal.Decimal
	Amount        decimal.Decimal
}

// SkippedLine explains why an invoice line produced no variance
type SkippedLine struct {
	InvoiceLineID uuid.UUID
	ItemCode      string
	Reason        string
}

// DetectionResult is the full outcome of one detection pass
type DetectionResult struct {
	Variances []Variance
	Skipped   []SkippedLine
}

// TotalVariance returns the signed sum of all variance amounts
func (r *DetectionResult) TotalVariance() decimal.Decimal {
	total := decimal.Zero
	for _, v := range r.Variances {
		total = total.Add(v.Amount)
	}
	return total
}

// VarianceDetector matches invoice lines to receipt lines and computes the
// home-currency rate variance for each match.
type VarianceDetector struct {
	normalizer *CurrencyNormalizer
	logger     *zap.Logger
}

// DetectorOption configures a VarianceDetector
type DetectorOption func(*VarianceDetector)

// WithDetectorLogger sets the logger
func WithDetectorLogger(logger *zap.Logger) DetectorOption {
	return func(d *VarianceDetector) {
		d.logger = logger
	}
}

// NewVarianceDetector creates a variance detector
func NewVarianceDetector(normalizer *CurrencyNormalizer, opts ...DetectorOption) *VarianceDetector {
	d := &VarianceDetector{
		normalizer: normalizer,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect computes per-line variances for the invoice against the given
// receipts. The receipts map must contain every receipt the invoice lines
// reference; missing ones are reported as skipped, never as errors.
func (d *VarianceDetector) Detect(ctx context.Context, invoice *procurement.PurchaseInvoice, receipts map[uuid.UUID]*procurement.PurchaseReceipt, homeCurrency valueobject.Currency) (*DetectionResult, error) {
	result := &DetectionResult{}

	type varianceKey struct {
		receiptID uuid.UUID
		lineID    uuid.UUID
	}
	index := make(map[varianceKey]int)

	for _, line := range invoice.Lines {
		if line.ReceiptID == nil {
			result.Skipped = append(result.Skipped, SkippedLine{
				InvoiceLineID: line.ID,
				ItemCode:      line.ItemCode,
				Reason:        "no receipt reference",
			})
			continue
		}
		receipt, ok := receipts[*line.ReceiptID]
		if !ok || receipt == nil {
			result.Skipped = append(result.Skipped, SkippedLine{
				InvoiceLineID: line.ID,
				ItemCode:      line.ItemCode,
				Reason:        "referenced receipt not available",
			})
			continue
		}

		receiptLine := d.matchReceiptLine(&line, receipt)
		if receiptLine == nil {
			result.Skipped = append(result.Skipped, SkippedLine{
				InvoiceLineID: line.ID,
				ItemCode:      line.ItemCode,
				Reason:        fmt.Sprintf("no line for item %s on receipt %s", line.ItemCode, receipt.Number),
			})
			continue
		}

		conv, err := d.normalizer.Normalize(ctx, line.Rate, invoice.Currency, homeCurrency, invoice.ExchangeRate, invoice.PostingDate)
		if err != nil {
			return nil, fmt.Errorf("normalizing invoice rate for %s: %w", line.ItemCode, err)
		}
		invoiceRate := conv.Result

		receiptConv, err := d.normalizer.Normalize(ctx, receiptLine.Rate, receipt.Currency, homeCurrency, receipt.ExchangeRate, receipt.PostingDate)
		if err != nil {
			return nil, fmt.Errorf("normalizing receipt rate for %s: %w", line.ItemCode, err)
		}
		receiptRate := receiptConv.Result

		rateDiff := invoiceRate.Sub(receiptRate)
		if rateDiff.Abs().LessThan(rateEpsilon) {
			result.Skipped = append(result.Skipped, SkippedLine{
				InvoiceLineID: line.ID,
				ItemCode:      line.ItemCode,
				Reason:        "rate difference below threshold",
			})
			continue
		}
		amount := rateDiff.Mul(line.Quantity)
		if amount.Abs().LessThan(Materiality) {
			result.Skipped = append(result.Skipped, SkippedLine{
				InvoiceLineID: line.ID,
				ItemCode:      line.ItemCode,
				Reason:        "variance amount below threshold",
			})
			continue
		}

		key := varianceKey{receiptID: receipt.ID, lineID: receiptLine.ID}
		if i, exists := index[key]; exists {
			result.Variances[i].Amount = result.Variances[i].Amount.Add(amount)
			result.Variances[i].Quantity = result.Variances[i].Quantity.Add(line.Quantity)
			continue
		}
		index[key] = len(result.Variances)
		result.Variances = append(result.Variances, Variance{
			ReceiptID:     receipt.ID,
			ReceiptLineID: receiptLine.ID,
			ItemCode:      line.ItemCode,
			Quantity:      line.Quantity,
			ReceiptRate:   receiptRate,
			InvoiceRate:   invoiceRate,
			Amount:        amount,
		})

		d.logger.Debug("variance detected",
			zap.String("item", line.ItemCode),
			zap.String("receipt", receipt.Number),
			zap.String("amount", amount.StringFixed(2)),
		)
	}

	return result, nil
}

// matchReceiptLine resolves the receipt line an invoice line bills against.
// An exact line reference wins; otherwise a line carrying the same item and
// quantity, in document order, falling back to the first line for the item.
func (d *VarianceDetector) matchReceiptLine(line *procurement.InvoiceLine, receipt *procurement.PurchaseReceipt) *procurement.ReceiptLine {
	if line.ReceiptLineID != nil {
		return receipt.FindLine(*line.ReceiptLineID)
	}

	candidates := receipt.LinesForItem(line.ItemCode)
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Idx < candidates[j].Idx
	})
	for _, candidate := range candidates {
		if candidate.Quantity.Equal(line.Quantity) {
			return candidate
		}
	}
	return candidates[0]
}
