package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	app "github.com/ruxshona2103/Primier-Print/internal/application/landedcost"
	"github.com/ruxshona2103/Primier-Print/internal/domain/landedcost"
	"github.com/ruxshona2103/Primier-Print/internal/domain/shared"
	"github.com/ruxshona2103/Primier-Print/internal/interfaces/http/dto"
	"github.com/ruxshona2103/Primier-Print/internal/interfaces/http/middleware"
)

type stubService struct {
	processFn   func(ctx context.Context, id uuid.UUID) (*app.ProcessResult, error)
	transportFn func(ctx context.Context, id uuid.UUID) (*app.ProcessResult, error)
	cancelFn    func(ctx context.Context, id uuid.UUID) (*app.CancelResult, error)
	reprocessFn func(ctx context.Context, id uuid.UUID) error
}

func (s *stubService) ProcessInvoiceSubmission(ctx context.Context, id uuid.UUID) (*app.ProcessResult, error) {
	return s.processFn(ctx, id)
}

func (s *stubService) ProcessTransport(ctx context.Context, id uuid.UUID) (*app.ProcessResult, error) {
	return s.transportFn(ctx, id)
}

func (s *stubService) CancelAdjustments(ctx context.Context, id uuid.UUID) (*app.CancelResult, error) {
	return s.cancelFn(ctx, id)
}

func (s *stubService) Reprocess(ctx context.Context, id uuid.UUID) error {
	return s.reprocessFn(ctx, id)
}

type stubAdjustmentRepo struct {
	byID      map[uuid.UUID]*landedcost.Adjustment
	byInvoice map[uuid.UUID][]landedcost.Adjustment
}

func (r *stubAdjustmentRepo) FindByID(_ context.Context, id uuid.UUID) (*landedcost.Adjustment, error) {
	return r.byID[id], nil
}

func (r *stubAdjustmentRepo) FindByInvoice(_ context.Context, invoiceID uuid.UUID) ([]landedcost.Adjustment, error) {
	return r.byInvoice[invoiceID], nil
}

func (r *stubAdjustmentRepo) Save(_ context.Context, _ *landedcost.Adjustment) error {
	return nil
}

func setupRouter(t *testing.T, service LifecycleService, repo landedcost.AdjustmentRepository) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middleware.RequestID())
	h := NewLandedCostHandler(service, repo, zap.NewNop())
	h.RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func doRequest(t *testing.T, engine *gin.Engine, method, path string) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	var body dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestLandedCostHandler_Process(t *testing.T) {
	invoiceID := uuid.New()
	adjustmentID := uuid.New()

	t.Run("returns both run results", func(t *testing.T) {
		service := &stubService{
			processFn: func(_ context.Context, id uuid.UUID) (*app.ProcessResult, error) {
				assert.Equal(t, invoiceID, id)
				return &app.ProcessResult{
					Outcome:      app.OutcomeCreated,
					AdjustmentID: &adjustmentID,
					Total:        decimal.NewFromInt(150),
				}, nil
			},
			transportFn: func(_ context.Context, _ uuid.UUID) (*app.ProcessResult, error) {
				return &app.ProcessResult{Outcome: app.OutcomeNoTransport, Total: decimal.Zero}, nil
			},
		}
		engine := setupRouter(t, service, &stubAdjustmentRepo{})

		rec, body := doRequest(t, engine, http.MethodPost, "/api/v1/landed-cost/invoices/"+invoiceID.String()+"/process")

		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, body.Success)

		var result dto.ProcessResponse
		raw, err := json.Marshal(body.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &result))
		assert.Equal(t, "created", result.Variance.Outcome)
		assert.Equal(t, "150", result.Variance.Total)
		require.NotNil(t, result.Variance.AdjustmentID)
		assert.Equal(t, adjustmentID, *result.Variance.AdjustmentID)
		assert.Equal(t, "no_transport", result.Transport.Outcome)
	})

	t.Run("maps domain errors to HTTP status", func(t *testing.T) {
		service := &stubService{
			processFn: func(_ context.Context, _ uuid.UUID) (*app.ProcessResult, error) {
				return nil, shared.ErrNotFound
			},
		}
		engine := setupRouter(t, service, &stubAdjustmentRepo{})

		rec, body := doRequest(t, engine, http.MethodPost, "/api/v1/landed-cost/invoices/"+invoiceID.String()+"/process")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		require.NotNil(t, body.Error)
		assert.Equal(t, dto.ErrCodeNotFound, body.Error.Code)
		assert.NotEmpty(t, body.Error.RequestID)
	})

	t.Run("rejects malformed invoice IDs", func(t *testing.T) {
		engine := setupRouter(t, &stubService{}, &stubAdjustmentRepo{})

		rec, body := doRequest(t, engine, http.MethodPost, "/api/v1/landed-cost/invoices/not-a-uuid/process")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		require.NotNil(t, body.Error)
		assert.Equal(t, dto.ErrCodeInvalidInput, body.Error.Code)
	})

	t.Run("invalid state maps to 422", func(t *testing.T) {
		service := &stubService{
			processFn: func(_ context.Context, _ uuid.UUID) (*app.ProcessResult, error) {
				return nil, shared.ErrInvalidState
			},
		}
		engine := setupRouter(t, service, &stubAdjustmentRepo{})

		rec, _ := doRequest(t, engine, http.MethodPost, "/api/v1/landed-cost/invoices/"+invoiceID.String()+"/process")

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestLandedCostHandler_Cancel(t *testing.T) {
	invoiceID := uuid.New()
	cancelled := uuid.New()
	failed := uuid.New()

	service := &stubService{
		cancelFn: func(_ context.Context, id uuid.UUID) (*app.CancelResult, error) {
			assert.Equal(t, invoiceID, id)
			return &app.CancelResult{
				Cancelled: []uuid.UUID{cancelled},
				Failed:    []app.CancelFailure{{AdjustmentID: failed, Reason: "already cancelled"}},
			}, nil
		},
	}
	engine := setupRouter(t, service, &stubAdjustmentRepo{})

	rec, body := doRequest(t, engine, http.MethodPost, "/api/v1/landed-cost/invoices/"+invoiceID.String()+"/cancel")

	require.Equal(t, http.StatusOK, rec.Code)
	var result dto.CancelResponse
	raw, err := json.Marshal(body.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &result))
	require.Len(t, result.Cancelled, 1)
	assert.Equal(t, cancelled, result.Cancelled[0])
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "already cancelled", result.Failed[0].Reason)
}

func TestLandedCostHandler_Reprocess(t *testing.T) {
	invoiceID := uuid.New()
	adjustment := newTestAdjustment(t, invoiceID)

	service := &stubService{
		reprocessFn: func(_ context.Context, id uuid.UUID) error {
			assert.Equal(t, invoiceID, id)
			return nil
		},
	}
	repo := &stubAdjustmentRepo{
		byInvoice: map[uuid.UUID][]landedcost.Adjustment{invoiceID: {*adjustment}},
	}
	engine := setupRouter(t, service, repo)

	rec, body := doRequest(t, engine, http.MethodPost, "/api/v1/landed-cost/invoices/"+invoiceID.String()+"/reprocess")

	require.Equal(t, http.StatusOK, rec.Code)
	var result []dto.AdjustmentResponse
	raw, err := json.Marshal(body.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &result))
	require.Len(t, result, 1)
	assert.Equal(t, adjustment.ID, result[0].ID)
}

func TestLandedCostHandler_GetAdjustment(t *testing.T) {
	invoiceID := uuid.New()
	adjustment := newTestAdjustment(t, invoiceID)

	repo := &stubAdjustmentRepo{
		byID: map[uuid.UUID]*landedcost.Adjustment{adjustment.ID: adjustment},
	}
	engine := setupRouter(t, &stubService{}, repo)

	t.Run("returns the adjustment with its lines", func(t *testing.T) {
		rec, body := doRequest(t, engine, http.MethodGet, "/api/v1/landed-cost/adjustments/"+adjustment.ID.String())

		require.Equal(t, http.StatusOK, rec.Code)
		var result dto.AdjustmentResponse
		raw, err := json.Marshal(body.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &result))
		assert.Equal(t, adjustment.ID, result.ID)
		assert.Equal(t, invoiceID, result.InvoiceID)
		assert.Equal(t, "transport", result.ChargeType)
	})

	t.Run("unknown adjustment returns 404", func(t *testing.T) {
		rec, body := doRequest(t, engine, http.MethodGet, "/api/v1/landed-cost/adjustments/"+uuid.NewString())

		assert.Equal(t, http.StatusNotFound, rec.Code)
		require.NotNil(t, body.Error)
		assert.Equal(t, dto.ErrCodeNotFound, body.Error.Code)
	})
}

func TestLandedCostHandler_ListByInvoice(t *testing.T) {
	invoiceID := uuid.New()
	adjustment := newTestAdjustment(t, invoiceID)

	repo := &stubAdjustmentRepo{
		byInvoice: map[uuid.UUID][]landedcost.Adjustment{invoiceID: {*adjustment}},
	}
	engine := setupRouter(t, &stubService{}, repo)

	t.Run("lists adjustments for the invoice", func(t *testing.T) {
		rec, body := doRequest(t, engine, http.MethodGet, "/api/v1/landed-cost/invoices/"+invoiceID.String()+"/adjustments")

		require.Equal(t, http.StatusOK, rec.Code)
		var result []dto.AdjustmentResponse
		raw, err := json.Marshal(body.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &result))
		require.Len(t, result, 1)
	})

	t.Run("empty list for an invoice without adjustments", func(t *testing.T) {
		rec, body := doRequest(t, engine, http.MethodGet, "/api/v1/landed-cost/invoices/"+uuid.NewString()+"/adjustments")

		require.Equal(t, http.StatusOK, rec.Code)
		data, ok := body.Data.([]interface{})
		require.True(t, ok)
		assert.Empty(t, data)
	})
}

func newTestAdjustment(t *testing.T, invoiceID uuid.UUID) *landedcost.Adjustment {
	t.Helper()
	adjustment, err := landedcost.NewAdjustment(uuid.New(), invoiceID, landedcost.ChargeTransport, landedcost.DistributeByQuantity)
	require.NoError(t, err)
	return adjustment
}
