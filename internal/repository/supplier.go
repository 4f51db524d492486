package repository

import (
	"context"

	"github.com/suteetoe/inventory-service/internal/apperr"
	"github.com/suteetoe/inventory-service/internal/model"
	"gorm.io/gorm"
)

// SupplierRepository owns the suppliers table.
type SupplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

func (r *SupplierRepository) WithTx(tx *gorm.DB) *SupplierRepository {
	return &SupplierRepository{db: tx}
}

func (r *SupplierRepository) Create(ctx context.Context, supplier *model.Supplier) error {
	if err := r.db.WithContext(ctx).Create(supplier).Error; err != nil {
		return apperr.FromDB(err, "supplier")
	}
	return nil
}

func (r *SupplierRepository) Get(ctx context.Context, tenantID, id uint64) (*model.Supplier, error) {
	var supplier model.Supplier
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&supplier).Error
	if err != nil {
		return nil, apperr.FromDB(err, "supplier")
	}
	return &supplier, nil
}

func (r *SupplierRepository) List(ctx context.Context, tenantID uint64) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name").
		Find(&suppliers).Error
	if err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (r *SupplierRepository) Update(ctx context.Context, supplier *model.Supplier) error {
	res := r.db.WithContext(ctx).Model(&model.Supplier{}).
		Where("tenant_id = ? AND id = ?", supplier.TenantID, supplier.ID).
		Select("*").
		Updates(supplier)
	if res.Error != nil {
		return apperr.FromDB(res.Error, "supplier")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("supplier")
	}
	return nil
}

func (r *SupplierRepository) Delete(ctx context.Context, tenantID, id uint64) error {
	res := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&model.Supplier{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("supplier")
	}
	return nil
}
