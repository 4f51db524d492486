package repository

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/inventory-service/internal/apperr"
	"github.com/suteetoe/inventory-service/internal/model"
)

func TestPurchaseOrderStatusGuard(t *testing.T) {
	db := openTestDB(t)
	repo := NewPurchaseOrderRepository(db)
	ctx := testCtx()

	order := &model.PurchaseOrder{
		TenantID:    1,
		WarehouseID: 1,
		OrderDate:   time.Now(),
		Status:      model.POStatusDraft,
		CreatedBy:   1,
		Items: []model.PurchaseOrderItem{
			{TenantID: 1, ProductSKU: "SKU-001", Quantity: 5, UnitCost: decimal.NewFromInt(10)},
		},
	}
	require.NoError(t, repo.Create(ctx, order))

	require.NoError(t, repo.UpdateStatus(ctx, 1, order.ID, model.POStatusDraft, model.POStatusApproved))

	// A stale caller still holding the draft status must not re-apply.
	err := repo.UpdateStatus(ctx, 1, order.ID, model.POStatusDraft, model.POStatusApproved)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	got, err := repo.Get(ctx, 1, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.POStatusApproved, got.Status)
	require.Len(t, got.Items, 1)
}

func TestPurchaseOrderTenantIsolation(t *testing.T) {
	db := openTestDB(t)
	repo := NewPurchaseOrderRepository(db)
	ctx := testCtx()

	order := &model.PurchaseOrder{
		TenantID:    1,
		WarehouseID: 1,
		OrderDate:   time.Now(),
		Status:      model.POStatusDraft,
		CreatedBy:   1,
		Items: []model.PurchaseOrderItem{
			{TenantID: 1, ProductSKU: "SKU-001", Quantity: 5, UnitCost: decimal.NewFromInt(10)},
		},
	}
	require.NoError(t, repo.Create(ctx, order))

	_, err := repo.Get(ctx, 2, order.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	err = repo.UpdateStatus(ctx, 2, order.ID, model.POStatusDraft, model.POStatusCancelled)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	got, err := repo.Get(ctx, 1, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.POStatusDraft, got.Status)
}

func TestAddReceivedQtyCapped(t *testing.T) {
	db := openTestDB(t)
	repo := NewPurchaseOrderRepository(db)
	ctx := testCtx()

	order := &model.PurchaseOrder{
		TenantID:    1,
		WarehouseID: 1,
		OrderDate:   time.Now(),
		Status:      model.POStatusApproved,
		CreatedBy:   1,
		Items: []model.PurchaseOrderItem{
			{TenantID: 1, ProductSKU: "SKU-001", Quantity: 5, UnitCost: decimal.NewFromInt(10)},
		},
	}
	require.NoError(t, repo.Create(ctx, order))
	itemID := order.Items[0].ID

	require.NoError(t, repo.AddReceivedQty(ctx, 1, itemID, 3))

	// Cumulative receipts can never exceed the ordered quantity.
	err := repo.AddReceivedQty(ctx, 1, itemID, 3)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	require.NoError(t, repo.AddReceivedQty(ctx, 1, itemID, 2))

	got, err := repo.Get(ctx, 1, order.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 5, got.Items[0].ReceivedQty)
}

func TestSalesOrderStatusGuard(t *testing.T) {
	db := openTestDB(t)
	repo := NewSalesOrderRepository(db)
	ctx := testCtx()

	order := &model.SalesOrder{
		TenantID:    1,
		WarehouseID: 1,
		OrderDate:   time.Now(),
		Status:      model.SOStatusDraft,
		SubTotal:    decimal.NewFromInt(100),
		CreatedBy:   1,
		Items: []model.SalesOrderItem{
			{TenantID: 1, ProductSKU: "SKU-001", Quantity: 2, UnitPrice: decimal.NewFromInt(50)},
		},
	}
	require.NoError(t, repo.Create(ctx, order))

	require.NoError(t, repo.UpdateStatus(ctx, 1, order.ID, model.SOStatusDraft, model.SOStatusConfirmed))
	err := repo.UpdateStatus(ctx, 1, order.ID, model.SOStatusDraft, model.SOStatusConfirmed)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestAddFulfilledQtyCapped(t *testing.T) {
	db := openTestDB(t)
	repo := NewSalesOrderRepository(db)
	ctx := testCtx()

	order := &model.SalesOrder{
		TenantID:    1,
		WarehouseID: 1,
		OrderDate:   time.Now(),
		Status:      model.SOStatusConfirmed,
		SubTotal:    decimal.NewFromInt(100),
		CreatedBy:   1,
		Items: []model.SalesOrderItem{
			{TenantID: 1, ProductSKU: "SKU-001", Quantity: 2, UnitPrice: decimal.NewFromInt(50)},
		},
	}
	require.NoError(t, repo.Create(ctx, order))

	err := repo.AddFulfilledQty(ctx, 1, order.Items[0].ID, 3)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	require.NoError(t, repo.AddFulfilledQty(ctx, 1, order.Items[0].ID, 2))
}

func TestSalesOrderListNewestFirst(t *testing.T) {
	db := openTestDB(t)
	repo := NewSalesOrderRepository(db)
	ctx := testCtx()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &model.SalesOrder{
			TenantID:    1,
			WarehouseID: 1,
			OrderDate:   time.Now(),
			Status:      model.SOStatusDraft,
			CreatedBy:   1,
			Items: []model.SalesOrderItem{
				{TenantID: 1, ProductSKU: "SKU-001", Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
			},
		}))
	}

	orders, err := repo.List(ctx, 1, 0, 2)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Greater(t, orders[0].ID, orders[1].ID)
	require.Len(t, orders[0].Items, 1)
}
