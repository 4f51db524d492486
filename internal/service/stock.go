package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/suteetoe/inventory-service/internal/apperr"
	"github.com/suteetoe/inventory-service/internal/model"
	"github.com/suteetoe/inventory-service/internal/repository"
	"github.com/suteetoe/inventory-service/prometheus"
	"gorm.io/gorm"
)

// StockService is the Stock Ledger: the authoritative counters per
// (tenant, product, warehouse) triple.
type StockService struct {
	db         *gorm.DB
	stock      *repository.StockRepository
	products   *repository.ProductRepository
	warehouses *repository.WarehouseRepository
	audit      *AuditService
}

func NewStockService(db *gorm.DB, stock *repository.StockRepository, products *repository.ProductRepository, warehouses *repository.WarehouseRepository, audit *AuditService) *StockService {
	return &StockService{
		db:         db,
		stock:      stock,
		products:   products,
		warehouses: warehouses,
		audit:      audit,
	}
}

// Ensure creates the zeroed stock row for the triple if it is missing.
// The product and warehouse must already exist for the tenant.
func (s *StockService) Ensure(ctx context.Context, tenantID uint64, sku string, warehouseID uint64) (*model.StockLevel, error) {
	if _, err := s.products.GetBySKU(ctx, tenantID, sku); err != nil {
		return nil, err
	}
	if _, err := s.warehouses.Get(ctx, tenantID, warehouseID); err != nil {
		return nil, err
	}
	if err := s.stock.Ensure(ctx, tenantID, sku, warehouseID); err != nil {
		return nil, err
	}
	return s.stock.Get(ctx, tenantID, sku, warehouseID)
}

// Adjust applies a delta to one counter and audits the movement in the
// same transaction. The caller's user ID attributes the audit row.
func (s *StockService) Adjust(ctx context.Context, tenantID, userID uint64, sku string, warehouseID uint64, field string, delta int64) (*model.StockLevel, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// The snapshot shares the transaction with the adjustment so a
		// concurrent writer cannot slip between them.
		before, err := s.stock.WithTx(tx).Get(ctx, tenantID, sku, warehouseID)
		if err != nil {
			return err
		}
		if err := s.stock.WithTx(tx).Adjust(ctx, tenantID, sku, warehouseID, field, delta); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, tenantID, userID, "stock_adjust", "stock_levels",
			stockRecordID(sku, warehouseID), before, nil,
			map[string]interface{}{"field": field, "delta": delta})
	})
	if err != nil {
		prometheus.RecordStockAdjustment(field, adjustOutcome(err))
		return nil, err
	}

	prometheus.RecordStockAdjustment(field, "ok")
	return s.stock.Get(ctx, tenantID, sku, warehouseID)
}

// Get returns the counters for the triple.
func (s *StockService) Get(ctx context.Context, tenantID uint64, sku string, warehouseID uint64) (*model.StockLevel, error) {
	return s.stock.Get(ctx, tenantID, sku, warehouseID)
}

// ListByProduct returns the product's stock rows across warehouses.
func (s *StockService) ListByProduct(ctx context.Context, tenantID uint64, sku string) ([]model.StockLevel, error) {
	return s.stock.ListByProduct(ctx, tenantID, sku)
}

// ListByWarehouse returns the stock rows held in one warehouse.
func (s *StockService) ListByWarehouse(ctx context.Context, tenantID, warehouseID uint64) ([]model.StockLevel, error) {
	return s.stock.ListByWarehouse(ctx, tenantID, warehouseID)
}

func stockRecordID(sku string, warehouseID uint64) string {
	return fmt.Sprintf("%s@%d", sku, warehouseID)
}

func adjustOutcome(err error) string {
	switch {
	case errors.Is(err, apperr.ErrInsufficientStock):
		return "insufficient"
	case errors.Is(err, apperr.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
