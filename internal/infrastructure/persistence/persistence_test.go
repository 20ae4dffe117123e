package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ruxshona2103/Primier-Print/internal/domain/accounting"
	"github.com/ruxshona2103/Primier-Print/internal/domain/landedcost"
	"github.com/ruxshona2103/Primier-Print/internal/domain/procurement"
)

// setupTestDB opens an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&accounting.Company{},
		&accounting.Account{},
		&accounting.ExchangeRate{},
		&procurement.PurchaseReceipt{},
		&procurement.ReceiptLine{},
		&procurement.PurchaseInvoice{},
		&procurement.InvoiceLine{},
		&procurement.PurchaseOrder{},
		&landedcost.Adjustment{},
		&landedcost.ReceiptRef{},
		&landedcost.ChargeLine{},
		&landedcost.AllocationLine{},
	)
	require.NoError(t, err)

	return db
}
