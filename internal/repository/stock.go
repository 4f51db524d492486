package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/suteetoe/inventory-service/internal/apperr"
	"github.com/suteetoe/inventory-service/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockRepository owns the stock_levels table. Every mutation is a
// single guarded UPDATE: the counter predicate rides inside the WHERE
// clause, so concurrent adjustments to the same row serialize on the
// row write lock and an adjustment that would drive a counter negative
// matches zero rows instead of clamping. Adjustments to different rows
// never contend.
type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given
// transaction handle.
func (r *StockRepository) WithTx(tx *gorm.DB) *StockRepository {
	return &StockRepository{db: tx}
}

// Ensure creates the stock row for the triple with all counters at zero
// if it does not exist yet. Safe to call repeatedly.
func (r *StockRepository) Ensure(ctx context.Context, tenantID uint64, sku string, warehouseID uint64) error {
	level := model.StockLevel{
		TenantID:    tenantID,
		ProductSKU:  sku,
		WarehouseID: warehouseID,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "product_sku"}, {Name: "warehouse_id"}},
			DoNothing: true,
		}).
		Create(&level).Error
	// The upsert races with itself under concurrent ensures; a duplicate
	// key here means another caller already created the row.
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

// Adjust atomically adds delta (possibly negative) to one counter of
// the stock row identified by the triple. Returns ErrInsufficientStock
// when the result would go negative and ErrNotFound when no row exists.
func (r *StockRepository) Adjust(ctx context.Context, tenantID uint64, sku string, warehouseID uint64, field string, delta int64) error {
	if !model.ValidStockField(field) {
		return apperr.Validation("unknown stock counter %q", field)
	}
	if delta == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).Model(&model.StockLevel{}).
		Where("tenant_id = ? AND product_sku = ? AND warehouse_id = ?", tenantID, sku, warehouseID).
		Where(fmt.Sprintf("%s + ? >= 0", field), delta).
		Update(field, gorm.Expr(fmt.Sprintf("%s + ?", field), delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.classifyMiss(ctx, tenantID, sku, warehouseID, field)
	}
	return nil
}

// Reserve raises committed by qty, but only while the reservation still
// fits inside on_hand. This is the all-or-nothing guard behind sales
// order confirmation.
func (r *StockRepository) Reserve(ctx context.Context, tenantID uint64, sku string, warehouseID uint64, qty int64) error {
	if qty <= 0 {
		return apperr.Validation("reserve quantity must be positive")
	}

	res := r.db.WithContext(ctx).Model(&model.StockLevel{}).
		Where("tenant_id = ? AND product_sku = ? AND warehouse_id = ?", tenantID, sku, warehouseID).
		Where("on_hand - committed - ? >= 0", qty).
		Update("committed", gorm.Expr("committed + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.classifyMiss(ctx, tenantID, sku, warehouseID, model.StockFieldCommitted)
	}
	return nil
}

// Issue decrements committed and on_hand together by qty, the stock
// movement behind fulfilling a sales order line.
func (r *StockRepository) Issue(ctx context.Context, tenantID uint64, sku string, warehouseID uint64, qty int64) error {
	if qty <= 0 {
		return apperr.Validation("issue quantity must be positive")
	}

	res := r.db.WithContext(ctx).Model(&model.StockLevel{}).
		Where("tenant_id = ? AND product_sku = ? AND warehouse_id = ?", tenantID, sku, warehouseID).
		Where("committed - ? >= 0 AND on_hand - ? >= 0", qty, qty).
		Updates(map[string]interface{}{
			"committed": gorm.Expr("committed - ?", qty),
			"on_hand":   gorm.Expr("on_hand - ?", qty),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.classifyMiss(ctx, tenantID, sku, warehouseID, model.StockFieldOnHand)
	}
	return nil
}

// Receive moves qty from incoming into on_hand, the stock movement
// behind receiving a purchase order line.
func (r *StockRepository) Receive(ctx context.Context, tenantID uint64, sku string, warehouseID uint64, qty int64) error {
	if qty <= 0 {
		return apperr.Validation("receive quantity must be positive")
	}

	res := r.db.WithContext(ctx).Model(&model.StockLevel{}).
		Where("tenant_id = ? AND product_sku = ? AND warehouse_id = ?", tenantID, sku, warehouseID).
		Where("incoming - ? >= 0", qty).
		Updates(map[string]interface{}{
			"incoming": gorm.Expr("incoming - ?", qty),
			"on_hand":  gorm.Expr("on_hand + ?", qty),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.classifyMiss(ctx, tenantID, sku, warehouseID, model.StockFieldIncoming)
	}
	return nil
}

// classifyMiss distinguishes a missing row from a counter that would go
// negative after a guarded update matched nothing.
func (r *StockRepository) classifyMiss(ctx context.Context, tenantID uint64, sku string, warehouseID uint64, field string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.StockLevel{}).
		Where("tenant_id = ? AND product_sku = ? AND warehouse_id = ?", tenantID, sku, warehouseID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperr.NotFound("stock level")
	}
	return apperr.InsufficientStock(sku, warehouseID, field)
}

// Get returns the stock row for the triple.
func (r *StockRepository) Get(ctx context.Context, tenantID uint64, sku string, warehouseID uint64) (*model.StockLevel, error) {
	var level model.StockLevel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_sku = ? AND warehouse_id = ?", tenantID, sku, warehouseID).
		First(&level).Error
	if err != nil {
		return nil, apperr.FromDB(err, "stock level")
	}
	return &level, nil
}

// ListByProduct returns all stock rows of a product across warehouses.
func (r *StockRepository) ListByProduct(ctx context.Context, tenantID uint64, sku string) ([]model.StockLevel, error) {
	var levels []model.StockLevel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_sku = ?", tenantID, sku).
		Order("warehouse_id").
		Find(&levels).Error
	if err != nil {
		return nil, err
	}
	return levels, nil
}

// ListByWarehouse returns all stock rows held in a warehouse.
func (r *StockRepository) ListByWarehouse(ctx context.Context, tenantID uint64, warehouseID uint64) ([]model.StockLevel, error) {
	var levels []model.StockLevel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND warehouse_id = ?", tenantID, warehouseID).
		Order("product_sku").
		Find(&levels).Error
	if err != nil {
		return nil, err
	}
	return levels, nil
}
