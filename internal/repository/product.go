package repository

import (
	"context"

	"github.com/suteetoe/inventory-service/internal/apperr"
	"github.com/suteetoe/inventory-service/internal/model"
	"gorm.io/gorm"
)

// ProductRepository owns the products table. The composite primary key
// (tenant_id, product_sku) makes every lookup tenant-scoped by
// construction.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	return &ProductRepository{db: tx}
}

// Create inserts a new product. A duplicate SKU within the tenant
// surfaces as a conflict; the same SKU under another tenant is a
// different product entirely.
func (r *ProductRepository) Create(ctx context.Context, product *model.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return apperr.FromDB(err, "product")
	}
	return nil
}

// GetBySKU returns the product for (tenant, sku).
func (r *ProductRepository) GetBySKU(ctx context.Context, tenantID uint64, sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_sku = ?", tenantID, sku).
		First(&product).Error
	if err != nil {
		return nil, apperr.FromDB(err, "product")
	}
	return &product, nil
}

// List returns a page of the tenant's products.
func (r *ProductRepository) List(ctx context.Context, tenantID uint64, offset, limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("product_sku").
		Offset(offset).Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Update saves the given product row. Select("*") writes every column,
// so callers can clear a field back to its zero value.
func (r *ProductRepository) Update(ctx context.Context, product *model.Product) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("tenant_id = ? AND product_sku = ?", product.TenantID, product.SKU).
		Select("*").
		Updates(product)
	if res.Error != nil {
		return apperr.FromDB(res.Error, "product")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("product")
	}
	return nil
}

// Delete removes the product and, by cascade, its stock rows.
func (r *ProductRepository) Delete(ctx context.Context, tenantID uint64, sku string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("tenant_id = ? AND product_sku = ?", tenantID, sku).
			Delete(&model.Product{})
		if res.Error != nil {
			return apperr.FromDB(res.Error, "product")
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("product")
		}
		// Stock rows are owned by the product; deleting the product
		// removes them in the same transaction.
		return tx.Where("tenant_id = ? AND product_sku = ?", tenantID, sku).
			Delete(&model.StockLevel{}).Error
	})
}

// CountBySupplier reports how many products of the tenant reference a
// supplier. Used to block supplier deletion while products point at it.
func (r *ProductRepository) CountBySupplier(ctx context.Context, tenantID, supplierID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("tenant_id = ? AND supplier_id = ?", tenantID, supplierID).
		Count(&count).Error
	return count, err
}
