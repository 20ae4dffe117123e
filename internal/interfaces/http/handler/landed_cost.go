package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	app "github.com/ruxshona2103/Primier-Print/internal/application/landedcost"
	"github.com/ruxshona2103/Primier-Print/internal/domain/landedcost"
	"github.com/ruxshona2103/Primier-Print/internal/interfaces/http/dto"
)

// LifecycleService is the slice of the application service the HTTP
// layer depends on.
type LifecycleService interface {
	ProcessInvoiceSubmission(ctx context.Context, invoiceID uuid.UUID) (*app.ProcessResult, error)
	ProcessTransport(ctx context.Context, invoiceID uuid.UUID) (*app.ProcessResult, error)
	CancelAdjustments(ctx context.Context, invoiceID uuid.UUID) (*app.CancelResult, error)
	Reprocess(ctx context.Context, invoiceID uuid.UUID) error
}

// LandedCostHandler exposes adjustment processing over HTTP
type LandedCostHandler struct {
	*BaseHandler
	service     LifecycleService
	adjustments landedcost.AdjustmentRepository
}

// NewLandedCostHandler creates a new landed cost handler
func NewLandedCostHandler(service LifecycleService, adjustments landedcost.AdjustmentRepository, logger *zap.Logger) *LandedCostHandler {
	return &LandedCostHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		adjustments: adjustments,
	}
}

// RegisterRoutes registers landed cost routes
func (h *LandedCostHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/landed-cost")
	{
		group.POST("/invoices/:id/process", h.Process)
		group.POST("/invoices/:id/reprocess", h.Reprocess)
		group.POST("/invoices/:id/cancel", h.Cancel)
		group.GET("/invoices/:id/adjustments", h.ListByInvoice)
		group.GET("/adjustments/:id", h.GetAdjustment)
	}
}

// Process runs the variance and transport passes for a submitted invoice
func (h *LandedCostHandler) Process(c *gin.Context) {
	invoiceID, ok := h.parseID(c)
	if !ok {
		return
	}

	variance, err := h.service.ProcessInvoiceSubmission(c.Request.Context(), invoiceID)
	if err != nil {
		h.Error(c, err)
		return
	}
	transport, err := h.service.ProcessTransport(c.Request.Context(), invoiceID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, dto.ProcessResponse{
		Variance:  dto.FromProcessResult(variance),
		Transport: dto.FromProcessResult(transport),
	})
}

// Reprocess cancels existing adjustments and runs both passes again
func (h *LandedCostHandler) Reprocess(c *gin.Context) {
	invoiceID, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.service.Reprocess(c.Request.Context(), invoiceID); err != nil {
		h.Error(c, err)
		return
	}

	adjustments, err := h.adjustments.FindByInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, dto.FromAdjustments(adjustments))
}

// Cancel cancels every adjustment referenced by the invoice
func (h *LandedCostHandler) Cancel(c *gin.Context) {
	invoiceID, ok := h.parseID(c)
	if !ok {
		return
	}

	result, err := h.service.CancelAdjustments(c.Request.Context(), invoiceID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, dto.FromCancelResult(result))
}

// GetAdjustment returns one adjustment with all its lines
func (h *LandedCostHandler) GetAdjustment(c *gin.Context) {
	adjustmentID, ok := h.parseID(c)
	if !ok {
		return
	}

	adjustment, err := h.adjustments.FindByID(c.Request.Context(), adjustmentID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if adjustment == nil {
		h.NotFound(c, "Adjustment not found")
		return
	}
	h.Success(c, dto.FromAdjustment(adjustment))
}

// ListByInvoice returns all adjustments produced for an invoice, newest first
func (h *LandedCostHandler) ListByInvoice(c *gin.Context) {
	invoiceID, ok := h.parseID(c)
	if !ok {
		return
	}

	adjustments, err := h.adjustments.FindByInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, dto.FromAdjustments(adjustments))
}

func (h *LandedCostHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid ID format")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}
