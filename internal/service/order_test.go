package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/inventory-service/internal/apperr"
	"github.com/suteetoe/inventory-service/internal/model"
)

func TestPurchaseOrderLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.orders.CreatePurchaseOrder(ctx, f.tenantID, f.userID, f.warehouseID, []OrderLineInput{
		line("SKU-001", 10, 100),
		line("SKU-002", 4, 100),
	})
	require.NoError(t, err)
	assert.Equal(t, model.POStatusDraft, order.Status)
	assert.EqualValues(t, 1, f.auditCount(t), "creating the draft writes one audit row")

	// Drafts have no stock impact.
	_, err = f.stockRepo.Get(ctx, f.tenantID, "SKU-001", f.warehouseID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	order, err = f.orders.ApprovePurchaseOrder(ctx, f.tenantID, f.userID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.POStatusApproved, order.Status)
	assert.EqualValues(t, 10, f.stockLevel(t, "SKU-001").Incoming)
	assert.EqualValues(t, 4, f.stockLevel(t, "SKU-002").Incoming)
	assert.EqualValues(t, 2, f.auditCount(t), "approval writes exactly one audit row")

	// Partial receipt.
	order, err = f.orders.ReceivePurchaseOrder(ctx, f.tenantID, f.userID, order.ID, []ReceiveLine{
		{SKU: "SKU-001", Quantity: 6},
	})
	require.NoError(t, err)
	assert.Equal(t, model.POStatusPartiallyReceived, order.Status)

	level := f.stockLevel(t, "SKU-001")
	assert.EqualValues(t, 6, level.OnHand)
	assert.EqualValues(t, 4, level.Incoming)
	assert.EqualValues(t, 3, f.auditCount(t))

	// Receiving the remainder completes the order.
	order, err = f.orders.ReceivePurchaseOrder(ctx, f.tenantID, f.userID, order.ID, []ReceiveLine{
		{SKU: "SKU-001", Quantity: 4},
		{SKU: "SKU-002", Quantity: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, model.POStatusReceived, order.Status)

	level = f.stockLevel(t, "SKU-001")
	assert.EqualValues(t, 10, level.OnHand)
	assert.EqualValues(t, 0, level.Incoming)
	assert.EqualValues(t, 4, f.stockLevel(t, "SKU-002").OnHand)
	assert.EqualValues(t, 4, f.auditCount(t))
}

func TestReceivePurchaseOrderRollsBackOnLineFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.orders.CreatePurchaseOrder(ctx, f.tenantID, f.userID, f.warehouseID, []OrderLineInput{
		line("SKU-001", 5, 100),
		line("SKU-002", 3, 100),
	})
	require.NoError(t, err)
	_, err = f.orders.ApprovePurchaseOrder(ctx, f.tenantID, f.userID, order.ID)
	require.NoError(t, err)
	auditBefore := f.auditCount(t)

	// Second line overshoots its ordered quantity, so the whole receipt
	// must roll back, first line included.
	_, err = f.orders.ReceivePurchaseOrder(ctx, f.tenantID, f.userID, order.ID, []ReceiveLine{
		{SKU: "SKU-001", Quantity: 5},
		{SKU: "SKU-002", Quantity: 7},
	})
	require.ErrorIs(t, err, apperr.ErrOrderProcessing)

	level := f.stockLevel(t, "SKU-001")
	assert.EqualValues(t, 0, level.OnHand)
	assert.EqualValues(t, 5, level.Incoming)

	got, err := f.orders.GetPurchaseOrder(ctx, f.tenantID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.POStatusApproved, got.Status)
	for _, item := range got.Items {
		assert.EqualValues(t, 0, item.ReceivedQty)
	}
	assert.Equal(t, auditBefore, f.auditCount(t), "a failed transition writes no audit row")
}

func TestCancelApprovedPurchaseOrderReleasesIncoming(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.orders.CreatePurchaseOrder(ctx, f.tenantID, f.userID, f.warehouseID, []OrderLineInput{
		line("SKU-001", 8, 100),
	})
	require.NoError(t, err)
	_, err = f.orders.ApprovePurchaseOrder(ctx, f.tenantID, f.userID, order.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 8, f.stockLevel(t, "SKU-001").Incoming)

	order, err = f.orders.CancelPurchaseOrder(ctx, f.tenantID, f.userID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.POStatusCancelled, order.Status)
	assert.EqualValues(t, 0, f.stockLevel(t, "SKU-001").Incoming)
}

func TestCancelReceivedPurchaseOrderRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.orders.CreatePurchaseOrder(ctx, f.tenantID, f.userID, f.warehouseID, []OrderLineInput{
		line("SKU-001", 2, 100),
	})
	require.NoError(t, err)
	_, err = f.orders.ApprovePurchaseOrder(ctx, f.tenantID, f.userID, order.ID)
	require.NoError(t, err)
	_, err = f.orders.ReceivePurchaseOrder(ctx, f.tenantID, f.userID, order.ID, []ReceiveLine{
		{SKU: "SKU-001", Quantity: 2},
	})
	require.NoError(t, err)

	_, err = f.orders.CancelPurchaseOrder(ctx, f.tenantID, f.userID, order.ID)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateOrderValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.orders.CreatePurchaseOrder(ctx, f.tenantID, f.userID, f.warehouseID, nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.orders.CreatePurchaseOrder(ctx, f.tenantID, f.userID, f.warehouseID, []OrderLineInput{
		line("SKU-001", 2, 100),
		line("SKU-001", 3, 100),
	})
	assert.ErrorIs(t, err, apperr.ErrValidation, "duplicate SKUs in one order")

	_, err = f.orders.CreatePurchaseOrder(ctx, f.tenantID, f.userID, f.warehouseID, []OrderLineInput{
		line("SKU-001", 0, 100),
	})
	assert.ErrorIs(t, err, apperr.ErrValidation, "zero quantity")

	_, err = f.orders.CreatePurchaseOrder(ctx, f.tenantID, f.userID, f.warehouseID, []OrderLineInput{
		line("SKU-MISSING", 1, 100),
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound, "unknown product")

	_, err = f.orders.CreatePurchaseOrder(ctx, f.tenantID, f.userID, 999, []OrderLineInput{
		line("SKU-001", 1, 100),
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound, "unknown warehouse")
}

func TestSalesOrderLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedStock(t, "SKU-001", 10)
	auditBase := f.auditCount(t)

	order, err := f.orders.CreateSalesOrder(ctx, f.tenantID, f.userID, f.warehouseID, model.PurchaseMethodCard, []OrderLineInput{
		line("SKU-001", 4, 150),
	})
	require.NoError(t, err)
	assert.Equal(t, model.SOStatusDraft, order.Status)
	assert.Equal(t, "600", order.SubTotal.String())
	assert.Equal(t, auditBase+1, f.auditCount(t))

	order, err = f.orders.ConfirmSalesOrder(ctx, f.tenantID, f.userID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SOStatusConfirmed, order.Status)

	level := f.stockLevel(t, "SKU-001")
	assert.EqualValues(t, 10, level.OnHand, "confirmation reserves, it does not ship")
	assert.EqualValues(t, 4, level.Committed)
	assert.Equal(t, auditBase+2, f.auditCount(t))

	order, err = f.orders.FulfillSalesOrder(ctx, f.tenantID, f.userID, order.ID, []ReceiveLine{
		{SKU: "SKU-001", Quantity: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, model.SOStatusFulfilled, order.Status)

	level = f.stockLevel(t, "SKU-001")
	assert.EqualValues(t, 6, level.OnHand)
	assert.EqualValues(t, 0, level.Committed)
	assert.Equal(t, auditBase+3, f.auditCount(t))
}

func TestConfirmSalesOrderInsufficientStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedStock(t, "SKU-001", 5)

	order, err := f.orders.CreateSalesOrder(ctx, f.tenantID, f.userID, f.warehouseID, "", []OrderLineInput{
		line("SKU-001", 10, 150),
	})
	require.NoError(t, err)

	_, err = f.orders.ConfirmSalesOrder(ctx, f.tenantID, f.userID, order.ID)
	require.ErrorIs(t, err, apperr.ErrOrderProcessing)
	require.ErrorIs(t, err, apperr.ErrInsufficientStock)

	// Nothing was reserved and the order is still a draft.
	assert.EqualValues(t, 0, f.stockLevel(t, "SKU-001").Committed)
	got, err := f.orders.GetSalesOrder(ctx, f.tenantID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SOStatusDraft, got.Status)
}

func TestConfirmSalesOrderAllOrNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedStock(t, "SKU-001", 10)
	f.seedStock(t, "SKU-002", 1)

	order, err := f.orders.CreateSalesOrder(ctx, f.tenantID, f.userID, f.warehouseID, "", []OrderLineInput{
		line("SKU-001", 4, 150),
		line("SKU-002", 2, 150),
	})
	require.NoError(t, err)

	// The second line overcommits; the first line's reservation must not
	// survive the rollback.
	_, err = f.orders.ConfirmSalesOrder(ctx, f.tenantID, f.userID, order.ID)
	require.ErrorIs(t, err, apperr.ErrInsufficientStock)
	assert.EqualValues(t, 0, f.stockLevel(t, "SKU-001").Committed)
	assert.EqualValues(t, 0, f.stockLevel(t, "SKU-002").Committed)
}

func TestCancelConfirmedSalesOrderReleasesCommitted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedStock(t, "SKU-001", 10)

	order, err := f.orders.CreateSalesOrder(ctx, f.tenantID, f.userID, f.warehouseID, "", []OrderLineInput{
		line("SKU-001", 4, 150),
	})
	require.NoError(t, err)
	_, err = f.orders.ConfirmSalesOrder(ctx, f.tenantID, f.userID, order.ID)
	require.NoError(t, err)

	order, err = f.orders.CancelSalesOrder(ctx, f.tenantID, f.userID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SOStatusCancelled, order.Status)

	level := f.stockLevel(t, "SKU-001")
	assert.EqualValues(t, 10, level.OnHand)
	assert.EqualValues(t, 0, level.Committed)
}

func TestRefundFulfilledSalesOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedStock(t, "SKU-001", 10)

	order, err := f.orders.CreateSalesOrder(ctx, f.tenantID, f.userID, f.warehouseID, "", []OrderLineInput{
		line("SKU-001", 4, 150),
	})
	require.NoError(t, err)
	_, err = f.orders.ConfirmSalesOrder(ctx, f.tenantID, f.userID, order.ID)
	require.NoError(t, err)
	_, err = f.orders.FulfillSalesOrder(ctx, f.tenantID, f.userID, order.ID, []ReceiveLine{
		{SKU: "SKU-001", Quantity: 4},
	})
	require.NoError(t, err)

	order, err = f.orders.RefundSalesOrder(ctx, f.tenantID, f.userID, order.ID, false)
	require.NoError(t, err)
	assert.Equal(t, model.SOStatusRefunded, order.Status)

	level := f.stockLevel(t, "SKU-001")
	assert.EqualValues(t, 10, level.OnHand, "refunded goods return to on-hand")
	assert.EqualValues(t, 0, level.Damaged)
}

func TestRefundAsDamaged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedStock(t, "SKU-001", 10)

	order, err := f.orders.CreateSalesOrder(ctx, f.tenantID, f.userID, f.warehouseID, "", []OrderLineInput{
		line("SKU-001", 4, 150),
	})
	require.NoError(t, err)
	_, err = f.orders.ConfirmSalesOrder(ctx, f.tenantID, f.userID, order.ID)
	require.NoError(t, err)
	_, err = f.orders.FulfillSalesOrder(ctx, f.tenantID, f.userID, order.ID, []ReceiveLine{
		{SKU: "SKU-001", Quantity: 4},
	})
	require.NoError(t, err)

	_, err = f.orders.RefundSalesOrder(ctx, f.tenantID, f.userID, order.ID, true)
	require.NoError(t, err)

	level := f.stockLevel(t, "SKU-001")
	assert.EqualValues(t, 6, level.OnHand)
	assert.EqualValues(t, 4, level.Damaged, "damaged returns are not resellable")
}

func TestRefundPartiallyFulfilledReleasesRemainder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedStock(t, "SKU-001", 10)

	order, err := f.orders.CreateSalesOrder(ctx, f.tenantID, f.userID, f.warehouseID, "", []OrderLineInput{
		line("SKU-001", 4, 150),
	})
	require.NoError(t, err)
	_, err = f.orders.ConfirmSalesOrder(ctx, f.tenantID, f.userID, order.ID)
	require.NoError(t, err)

	order, err = f.orders.FulfillSalesOrder(ctx, f.tenantID, f.userID, order.ID, []ReceiveLine{
		{SKU: "SKU-001", Quantity: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, model.SOStatusPartiallyFulfilled, order.Status)

	_, err = f.orders.RefundSalesOrder(ctx, f.tenantID, f.userID, order.ID, false)
	require.NoError(t, err)

	level := f.stockLevel(t, "SKU-001")
	assert.EqualValues(t, 10, level.OnHand)
	assert.EqualValues(t, 0, level.Committed, "the unshipped reservation is released")
}

func TestSalesOrderUnknownPurchaseMethod(t *testing.T) {
	f := newFixture(t)

	_, err := f.orders.CreateSalesOrder(context.Background(), f.tenantID, f.userID, f.warehouseID, "barter", []OrderLineInput{
		line("SKU-001", 1, 150),
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestOrderTenantIsolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.orders.CreatePurchaseOrder(ctx, f.tenantID, f.userID, f.warehouseID, []OrderLineInput{
		line("SKU-001", 2, 100),
	})
	require.NoError(t, err)

	otherTenant := f.tenantID + 1
	_, err = f.orders.GetPurchaseOrder(ctx, otherTenant, order.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.orders.ApprovePurchaseOrder(ctx, otherTenant, f.userID, order.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
