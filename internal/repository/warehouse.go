package repository

import (
	"context"

	"github.com/suteetoe/inventory-service/internal/apperr"
	"github.com/suteetoe/inventory-service/internal/model"
	"gorm.io/gorm"
)

// WarehouseRepository owns the warehouses table.
type WarehouseRepository struct {
	db *gorm.DB
}

func NewWarehouseRepository(db *gorm.DB) *WarehouseRepository {
	return &WarehouseRepository{db: db}
}

func (r *WarehouseRepository) WithTx(tx *gorm.DB) *WarehouseRepository {
	return &WarehouseRepository{db: tx}
}

func (r *WarehouseRepository) Create(ctx context.Context, warehouse *model.Warehouse) error {
	if err := r.db.WithContext(ctx).Create(warehouse).Error; err != nil {
		return apperr.FromDB(err, "warehouse")
	}
	return nil
}

func (r *WarehouseRepository) Get(ctx context.Context, tenantID, warehouseID uint64) (*model.Warehouse, error) {
	var warehouse model.Warehouse
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND warehouse_id = ?", tenantID, warehouseID).
		First(&warehouse).Error
	if err != nil {
		return nil, apperr.FromDB(err, "warehouse")
	}
	return &warehouse, nil
}

func (r *WarehouseRepository) List(ctx context.Context, tenantID uint64) ([]model.Warehouse, error) {
	var warehouses []model.Warehouse
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("warehouse_name").
		Find(&warehouses).Error
	if err != nil {
		return nil, err
	}
	return warehouses, nil
}

func (r *WarehouseRepository) Update(ctx context.Context, warehouse *model.Warehouse) error {
	res := r.db.WithContext(ctx).Model(&model.Warehouse{}).
		Where("tenant_id = ? AND warehouse_id = ?", warehouse.TenantID, warehouse.WarehouseID).
		Select("*").
		Updates(warehouse)
	if res.Error != nil {
		return apperr.FromDB(res.Error, "warehouse")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("warehouse")
	}
	return nil
}

// Delete removes a warehouse. Deletion is restricted while stock rows
// still reference it.
func (r *WarehouseRepository) Delete(ctx context.Context, tenantID, warehouseID uint64) error {
	var stock int64
	if err := r.db.WithContext(ctx).Model(&model.StockLevel{}).
		Where("tenant_id = ? AND warehouse_id = ?", tenantID, warehouseID).
		Count(&stock).Error; err != nil {
		return err
	}
	if stock > 0 {
		return apperr.Conflict("warehouse still holds stock")
	}

	res := r.db.WithContext(ctx).
		Where("tenant_id = ? AND warehouse_id = ?", tenantID, warehouseID).
		Delete(&model.Warehouse{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("warehouse")
	}
	return nil
}
