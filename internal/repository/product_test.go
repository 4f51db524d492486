package repository

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/inventory-service/internal/apperr"
	"github.com/suteetoe/inventory-service/internal/model"
)

func newProduct(tenantID uint64, sku string) *model.Product {
	return &model.Product{
		TenantID:  tenantID,
		SKU:       sku,
		Name:      "Test Product",
		Unit:      "pcs",
		CostPrice: decimal.NewFromInt(100),
		SellPrice: decimal.NewFromInt(150),
	}
}

func TestProductSKUUniquePerTenant(t *testing.T) {
	db := openTestDB(t)
	repo := NewProductRepository(db)
	ctx := testCtx()

	require.NoError(t, repo.Create(ctx, newProduct(1, "SKU-001")))

	// Same SKU, same tenant: rejected.
	err := repo.Create(ctx, newProduct(1, "SKU-001"))
	assert.ErrorIs(t, err, apperr.ErrConflict)

	// Same SKU, different tenant: fine.
	require.NoError(t, repo.Create(ctx, newProduct(2, "SKU-001")))
}

func TestProductCrossTenantLookup(t *testing.T) {
	db := openTestDB(t)
	repo := NewProductRepository(db)
	ctx := testCtx()

	require.NoError(t, repo.Create(ctx, newProduct(1, "SKU-001")))

	_, err := repo.GetBySKU(ctx, 2, "SKU-001")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	product, err := repo.GetBySKU(ctx, 1, "SKU-001")
	require.NoError(t, err)
	assert.Equal(t, "SKU-001", product.SKU)
}

func TestProductUpdateClearsFields(t *testing.T) {
	db := openTestDB(t)
	repo := NewProductRepository(db)
	ctx := testCtx()

	product := newProduct(1, "SKU-001")
	product.Category = "toys"
	product.Description = "wooden blocks"
	require.NoError(t, repo.Create(ctx, product))

	updated, err := repo.GetBySKU(ctx, 1, "SKU-001")
	require.NoError(t, err)
	updated.Category = ""
	updated.CostPrice = decimal.Zero
	require.NoError(t, repo.Update(ctx, updated))

	// Zero values must persist, not silently keep the old row.
	stored, err := repo.GetBySKU(ctx, 1, "SKU-001")
	require.NoError(t, err)
	assert.Empty(t, stored.Category)
	assert.True(t, stored.CostPrice.IsZero())
	assert.Equal(t, "wooden blocks", stored.Description)
}

func TestProductUpdateMissing(t *testing.T) {
	db := openTestDB(t)
	repo := NewProductRepository(db)

	err := repo.Update(testCtx(), newProduct(1, "SKU-MISSING"))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestProductDeleteRemovesStockRows(t *testing.T) {
	db := openTestDB(t)
	repo := NewProductRepository(db)
	ctx := testCtx()

	require.NoError(t, repo.Create(ctx, newProduct(1, "SKU-001")))
	seedStockRow(t, db, 1, "SKU-001", 1, 0, 0, 0, 0)
	seedStockRow(t, db, 1, "SKU-001", 2, 0, 0, 0, 0)
	seedStockRow(t, db, 2, "SKU-001", 1, 5, 0, 0, 0)

	require.NoError(t, repo.Delete(ctx, 1, "SKU-001"))

	_, err := repo.GetBySKU(ctx, 1, "SKU-001")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&model.StockLevel{}).Where("tenant_id = ?", 1).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	// The other tenant's row with the same SKU survives.
	require.NoError(t, db.Model(&model.StockLevel{}).Where("tenant_id = ?", 2).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestProductList(t *testing.T) {
	db := openTestDB(t)
	repo := NewProductRepository(db)
	ctx := testCtx()

	for _, sku := range []string{"SKU-001", "SKU-002", "SKU-003"} {
		require.NoError(t, repo.Create(ctx, newProduct(1, sku)))
	}
	require.NoError(t, repo.Create(ctx, newProduct(2, "SKU-OTHER")))

	products, err := repo.List(ctx, 1, 0, 10)
	require.NoError(t, err)
	assert.Len(t, products, 3)

	page, err := repo.List(ctx, 1, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "SKU-002", page[0].SKU)
}

func TestProductCountBySupplier(t *testing.T) {
	db := openTestDB(t)
	repo := NewProductRepository(db)
	ctx := testCtx()

	supplierID := uint64(7)
	p := newProduct(1, "SKU-001")
	p.SupplierID = &supplierID
	require.NoError(t, repo.Create(ctx, p))
	require.NoError(t, repo.Create(ctx, newProduct(1, "SKU-002")))

	count, err := repo.CountBySupplier(ctx, 1, supplierID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = repo.CountBySupplier(ctx, 2, supplierID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestProductDeleteMissing(t *testing.T) {
	db := openTestDB(t)
	repo := NewProductRepository(db)

	err := repo.Delete(testCtx(), 1, "SKU-MISSING")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
