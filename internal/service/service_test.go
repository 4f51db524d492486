package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/inventory-service/internal/model"
	"github.com/suteetoe/inventory-service/internal/repository"
	"github.com/suteetoe/inventory-service/pkg/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// fixture wires the full service stack against an in-memory database
// seeded with one tenant, one warehouse and a couple of products.
type fixture struct {
	db          *gorm.DB
	stock       *StockService
	orders      *OrderService
	audit       *AuditService
	stockRepo   *repository.StockRepository
	tenantID    uint64
	userID      uint64
	warehouseID uint64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	tenant := &model.Tenant{Name: "Acme Stores", Plan: "free"}
	require.NoError(t, db.Create(tenant).Error)
	warehouse := &model.Warehouse{TenantID: tenant.ID, WarehouseName: "Main", Currency: "NGN"}
	require.NoError(t, db.Create(warehouse).Error)

	stockRepo := repository.NewStockRepository(db)
	productRepo := repository.NewProductRepository(db)
	warehouseRepo := repository.NewWarehouseRepository(db)
	auditSvc := NewAuditService(repository.NewAuditRepository(db))

	f := &fixture{
		db:          db,
		audit:       auditSvc,
		stockRepo:   stockRepo,
		stock:       NewStockService(db, stockRepo, productRepo, warehouseRepo, auditSvc),
		orders:      NewOrderService(db, repository.NewPurchaseOrderRepository(db), repository.NewSalesOrderRepository(db), stockRepo, productRepo, warehouseRepo, auditSvc),
		tenantID:    tenant.ID,
		userID:      1,
		warehouseID: warehouse.WarehouseID,
	}
	f.seedProduct(t, "SKU-001")
	f.seedProduct(t, "SKU-002")
	return f
}

func (f *fixture) seedProduct(t *testing.T, sku string) {
	t.Helper()
	require.NoError(t, f.db.Create(&model.Product{
		TenantID:  f.tenantID,
		SKU:       sku,
		Name:      "Test Product " + sku,
		Unit:      "pcs",
		CostPrice: decimal.NewFromInt(100),
		SellPrice: decimal.NewFromInt(150),
	}).Error)
}

// seedStock creates the stock row for a SKU at the fixture warehouse and
// puts qty on hand.
func (f *fixture) seedStock(t *testing.T, sku string, onHand int64) {
	t.Helper()
	ctx := context.Background()
	_, err := f.stock.Ensure(ctx, f.tenantID, sku, f.warehouseID)
	require.NoError(t, err)
	if onHand > 0 {
		_, err = f.stock.Adjust(ctx, f.tenantID, f.userID, sku, f.warehouseID, model.StockFieldOnHand, onHand)
		require.NoError(t, err)
	}
}

func (f *fixture) stockLevel(t *testing.T, sku string) *model.StockLevel {
	t.Helper()
	level, err := f.stockRepo.Get(context.Background(), f.tenantID, sku, f.warehouseID)
	require.NoError(t, err)
	return level
}

func (f *fixture) auditCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&model.AuditLog{}).
		Where("tenant_id = ?", f.tenantID).
		Count(&count).Error)
	return count
}

func line(sku string, qty int64, price int64) OrderLineInput {
	return OrderLineInput{SKU: sku, Quantity: qty, UnitPrice: decimal.NewFromInt(price)}
}
