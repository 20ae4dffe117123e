package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ruxshona2103/Primier-Print/internal/domain/procurement"
	"github.com/ruxshona2103/Primier-Print/internal/domain/shared"
	"github.com/ruxshona2103/Primier-Print/internal/domain/shared/valueobject"
)

type capturingHandler struct {
	mu     sync.Mutex
	types  []string
	events []shared.DomainEvent
	err    error
	panics bool
}

func (h *capturingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("boom")
	}
	h.mu.Lock()
	h.events = append(h.events, event)
	h.mu.Unlock()
	return h.err
}

func (h *capturingHandler) EventTypes() []string {
	return h.types
}

func (h *capturingHandler) seen() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func submittedEvent(t *testing.T) shared.DomainEvent {
	t.Helper()
	invoice, err := procurement.NewPurchaseInvoice("PINV-0001", "Global Paper Co", uuid.New(), valueobject.UZS, decimal.NewFromInt(1))
	require.NoError(t, err)
	require.NoError(t, invoice.Submit())
	events := invoice.GetDomainEvents()
	require.Len(t, events, 1)
	return events[0]
}

func TestInMemoryEventBus(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers to subscribed handler", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &capturingHandler{types: []string{procurement.EventTypeInvoiceSubmitted}}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(ctx, submittedEvent(t)))
		assert.Equal(t, 1, handler.seen())
	})

	t.Run("skips handlers for other event types", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &capturingHandler{types: []string{procurement.EventTypeReceiptSubmitted}}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(ctx, submittedEvent(t)))
		assert.Equal(t, 0, handler.seen())
	})

	t.Run("wildcard handler receives everything", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &capturingHandler{}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(ctx, submittedEvent(t)))
		assert.Equal(t, 1, handler.seen())
	})

	t.Run("handler error does not stop other handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &capturingHandler{types: []string{procurement.EventTypeInvoiceSubmitted}, err: errors.New("nope")}
		healthy := &capturingHandler{types: []string{procurement.EventTypeInvoiceSubmitted}}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(ctx, submittedEvent(t)))
		assert.Equal(t, 1, healthy.seen())
	})

	t.Run("panicking handler is contained", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		angry := &capturingHandler{types: []string{procurement.EventTypeInvoiceSubmitted}, panics: true}
		healthy := &capturingHandler{types: []string{procurement.EventTypeInvoiceSubmitted}}
		bus.Subscribe(angry)
		bus.Subscribe(healthy)

		require.NotPanics(t, func() {
			_ = bus.Publish(ctx, submittedEvent(t))
		})
		assert.Equal(t, 1, healthy.seen())
	})

	t.Run("unsubscribe removes the handler", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &capturingHandler{types: []string{procurement.EventTypeInvoiceSubmitted}}
		bus.Subscribe(handler)
		bus.Unsubscribe(handler)

		require.NoError(t, bus.Publish(ctx, submittedEvent(t)))
		assert.Equal(t, 0, handler.seen())
	})

	t.Run("start and stop are idempotent", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		require.NoError(t, bus.Start(ctx))
		require.NoError(t, bus.Stop(ctx))
		require.NoError(t, bus.Stop(ctx))
	})
}
