package dto

import (
	"github.com/google/uuid"

	app "github.com/ruxshona2103/Primier-Print/internal/application/landedcost"
	"github.com/ruxshona2103/Primier-Print/internal/domain/landedcost"
)

// ProcessRunResponse describes the outcome of one processing run
type ProcessRunResponse struct {
	Outcome      string     `json:"outcome"`
	AdjustmentID *uuid.UUID `json:"adjustment_id,omitempty"`
	Total        string     `json:"total"`
	SkippedLines int        `json:"skipped_lines,omitempty"`
	Reason       string     `json:"reason,omitempty"`
}

// ProcessResponse carries the variance and transport runs for one invoice
type ProcessResponse struct {
	Variance  ProcessRunResponse `json:"variance"`
	Transport ProcessRunResponse `json:"transport"`
}

// FromProcessResult converts an application result to its API shape
func FromProcessResult(result *app.ProcessResult) ProcessRunResponse {
	return ProcessRunResponse{
		Outcome:      string(result.Outcome),
		AdjustmentID: result.AdjustmentID,
		Total:        result.Total.String(),
		SkippedLines: result.SkippedLines,
		Reason:       result.Reason,
	}
}

// CancelFailureResponse records one adjustment that could not be cancelled
type CancelFailureResponse struct {
	AdjustmentID uuid.UUID `json:"adjustment_id"`
	Reason       string    `json:"reason"`
}

// CancelResponse carries the outcome of a cancellation cascade
type CancelResponse struct {
	Cancelled []uuid.UUID             `json:"cancelled"`
	Failed    []CancelFailureResponse `json:"failed,omitempty"`
}

// FromCancelResult converts an application result to its API shape
func FromCancelResult(result *app.CancelResult) CancelResponse {
	response := CancelResponse{Cancelled: result.Cancelled}
	if response.Cancelled == nil {
		response.Cancelled = []uuid.UUID{}
	}
	for _, failure := range result.Failed {
		response.Failed = append(response.Failed, CancelFailureResponse{
			AdjustmentID: failure.AdjustmentID,
			Reason:       failure.Reason,
		})
	}
	return response
}

// ReceiptRefResponse is one receipt covered by an adjustment
type ReceiptRefResponse struct {
	ReceiptID     uuid.UUID `json:"receipt_id"`
	ReceiptNumber string    `json:"receipt_number"`
	GrandTotal    string    `json:"grand_total"`
}

// ChargeLineResponse is one charge posted against an expense account
type ChargeLineResponse struct {
	AccountID   uuid.UUID `json:"account_id"`
	AccountName string    `json:"account_name"`
	Description string    `json:"description,omitempty"`
	Amount      string    `json:"amount"`
}

// AllocationLineResponse is the share of charge applied to one receipt line
type AllocationLineResponse struct {
	ReceiptID        uuid.UUID `json:"receipt_id"`
	ReceiptLineID    uuid.UUID `json:"receipt_line_id"`
	ItemCode         string    `json:"item_code"`
	Quantity         string    `json:"quantity"`
	Rate             string    `json:"rate"`
	Amount           string    `json:"amount"`
	ApplicableCharge string    `json:"applicable_charge"`
}

// AdjustmentResponse is the full API view of one adjustment
type AdjustmentResponse struct {
	ID           uuid.UUID                `json:"id"`
	CompanyID    uuid.UUID                `json:"company_id"`
	InvoiceID    uuid.UUID                `json:"invoice_id"`
	ChargeType   string                   `json:"charge_type"`
	Distribution string                   `json:"distribution"`
	Status       string                   `json:"status"`
	Remarks      string                   `json:"remarks,omitempty"`
	TotalCharge  string                   `json:"total_charge"`
	ReceiptRefs  []ReceiptRefResponse     `json:"receipt_refs"`
	ChargeLines  []ChargeLineResponse     `json:"charge_lines"`
	Allocations  []AllocationLineResponse `json:"allocations"`
}

// FromAdjustment converts a domain adjustment to its API shape
func FromAdjustment(adjustment *landedcost.Adjustment) AdjustmentResponse {
	response := AdjustmentResponse{
		ID:           adjustment.ID,
		CompanyID:    adjustment.CompanyID,
		InvoiceID:    adjustment.InvoiceID,
		ChargeType:   string(adjustment.ChargeType),
		Distribution: string(adjustment.Distribution),
		Status:       string(adjustment.Status),
		Remarks:      adjustment.Remarks,
		TotalCharge:  adjustment.TotalCharge().String(),
		ReceiptRefs:  []ReceiptRefResponse{},
		ChargeLines:  []ChargeLineResponse{},
		Allocations:  []AllocationLineResponse{},
	}
	for _, ref := range adjustment.ReceiptRefs {
		response.ReceiptRefs = append(response.ReceiptRefs, ReceiptRefResponse{
			ReceiptID:     ref.ReceiptID,
			ReceiptNumber: ref.ReceiptNumber,
			GrandTotal:    ref.GrandTotal.String(),
		})
	}
	for _, charge := range adjustment.ChargeLines {
		response.ChargeLines = append(response.ChargeLines, ChargeLineResponse{
			AccountID:   charge.AccountID,
			AccountName: charge.AccountName,
			Description: charge.Description,
			Amount:      charge.Amount.String(),
		})
	}
	for _, allocation := range adjustment.Allocations {
		response.Allocations = append(response.Allocations, AllocationLineResponse{
			ReceiptID:        allocation.ReceiptID,
			ReceiptLineID:    allocation.ReceiptLineID,
			ItemCode:         allocation.ItemCode,
			Quantity:         allocation.Quantity.String(),
			Rate:             allocation.Rate.String(),
			Amount:           allocation.Amount.String(),
			ApplicableCharge: allocation.ApplicableCharge.String(),
		})
	}
	return response
}

// FromAdjustments converts a list of adjustments
func FromAdjustments(adjustments []landedcost.Adjustment) []AdjustmentResponse {
	responses := make([]AdjustmentResponse, 0, len(adjustments))
	for i := range adjustments {
		responses = append(responses, FromAdjustment(&adjustments[i]))
	}
	return responses
}
