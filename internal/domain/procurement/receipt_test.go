package procurement

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruxshona2103/Primier-Print/internal/domain/shared/valueobject"
)

func createTestReceipt(t *testing.T) *PurchaseReceipt {
	t.Helper()
	receipt, err := NewPurchaseReceipt("PREC-0001", "Global Paper Co", uuid.New(), valueobject.UZS, decimal.NewFromInt(1))
	require.NoError(t, err)
	return receipt
}

func TestPurchaseReceipt(t *testing.T) {
	t.Run("lines accumulate grand total", func(t *testing.T) {
		receipt := createTestReceipt(t)
		_, err := receipt.AddLine("PAPER-A4", decimal.NewFromInt(10), decimal.NewFromInt(100), nil)
		require.NoError(t, err)
		_, err = receipt.AddLine("INK-BLK", decimal.NewFromInt(2), decimal.NewFromInt(500), nil)
		require.NoError(t, err)

		assert.Equal(t, "2000", receipt.GrandTotal.String())
		assert.Equal(t, 1, receipt.Lines[0].Idx)
		assert.Equal(t, 2, receipt.Lines[1].Idx)
	})

	t.Run("non-positive exchange rate defaults to one", func(t *testing.T) {
		receipt, err := NewPurchaseReceipt("PREC-0002", "Supplier", uuid.New(), valueobject.USD, decimal.Zero)
		require.NoError(t, err)
		assert.Equal(t, "1", receipt.ExchangeRate.String())
	})

	t.Run("submit emits event", func(t *testing.T) {
		receipt := createTestReceipt(t)
		_, err := receipt.AddLine("PAPER-A4", decimal.NewFromInt(10), decimal.NewFromInt(100), nil)
		require.NoError(t, err)

		require.NoError(t, receipt.Submit())
		events := receipt.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeReceiptSubmitted, events[0].EventType())
	})

	t.Run("cannot add lines after submit", func(t *testing.T) {
		receipt := createTestReceipt(t)
		_, err := receipt.AddLine("PAPER-A4", decimal.NewFromInt(10), decimal.NewFromInt(100), nil)
		require.NoError(t, err)
		require.NoError(t, receipt.Submit())

		_, err = receipt.AddLine("INK-BLK", decimal.NewFromInt(1), decimal.NewFromInt(500), nil)
		assert.Error(t, err)
	})

	t.Run("line helpers", func(t *testing.T) {
		receipt := createTestReceipt(t)
		first, err := receipt.AddLine("PAPER-A4", decimal.NewFromInt(10), decimal.NewFromInt(100), nil)
		require.NoError(t, err)
		_, err = receipt.AddLine("PAPER-A4", decimal.NewFromInt(5), decimal.NewFromInt(110), nil)
		require.NoError(t, err)

		found := receipt.FindLine(first.ID)
		require.NotNil(t, found)
		assert.Equal(t, first.ID, found.ID)
		assert.Nil(t, receipt.FindLine(uuid.New()))

		matches := receipt.LinesForItem("PAPER-A4")
		require.Len(t, matches, 2)
		assert.Equal(t, 1, matches[0].Idx)
	})
}
