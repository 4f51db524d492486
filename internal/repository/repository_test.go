package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/suteetoe/inventory-service/internal/model"
	"github.com/suteetoe/inventory-service/pkg/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// openTestDB opens an isolated in-memory database per test and runs the
// full migration set against it.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedStockRow(t *testing.T, db *gorm.DB, tenantID uint64, sku string, warehouseID uint64, onHand, committed, incoming, damaged int64) {
	t.Helper()
	require.NoError(t, db.Create(&model.StockLevel{
		TenantID:    tenantID,
		ProductSKU:  sku,
		WarehouseID: warehouseID,
		OnHand:      onHand,
		Committed:   committed,
		Incoming:    incoming,
		Damaged:     damaged,
	}).Error)
}

func testCtx() context.Context {
	return context.Background()
}
