package repository

import (
	"context"

	"github.com/suteetoe/inventory-service/internal/apperr"
	"github.com/suteetoe/inventory-service/internal/model"
	"gorm.io/gorm"
)

// PurchaseOrderRepository owns purchase_orders and their items.
type PurchaseOrderRepository struct {
	db *gorm.DB
}

func NewPurchaseOrderRepository(db *gorm.DB) *PurchaseOrderRepository {
	return &PurchaseOrderRepository{db: db}
}

func (r *PurchaseOrderRepository) WithTx(tx *gorm.DB) *PurchaseOrderRepository {
	return &PurchaseOrderRepository{db: tx}
}

// Create inserts the order together with its line items.
func (r *PurchaseOrderRepository) Create(ctx context.Context, order *model.PurchaseOrder) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return apperr.FromDB(err, "purchase order")
	}
	return nil
}

func (r *PurchaseOrderRepository) Get(ctx context.Context, tenantID, id uint64) (*model.PurchaseOrder, error) {
	var order model.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&order).Error
	if err != nil {
		return nil, apperr.FromDB(err, "purchase order")
	}
	return &order, nil
}

func (r *PurchaseOrderRepository) List(ctx context.Context, tenantID uint64, offset, limit int) ([]model.PurchaseOrder, error) {
	var orders []model.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ?", tenantID).
		Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus moves the order to a new status, guarded by the current
// one so a stale caller cannot double-apply a transition.
func (r *PurchaseOrderRepository) UpdateStatus(ctx context.Context, tenantID, id uint64, from, to string) error {
	res := r.db.WithContext(ctx).Model(&model.PurchaseOrder{}).
		Where("tenant_id = ? AND id = ? AND status = ?", tenantID, id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Conflict("purchase order is no longer %s", from)
	}
	return nil
}

// AddReceivedQty accumulates a receipt on one line item.
func (r *PurchaseOrderRepository) AddReceivedQty(ctx context.Context, tenantID, itemID uint64, qty int64) error {
	res := r.db.WithContext(ctx).Model(&model.PurchaseOrderItem{}).
		Where("tenant_id = ? AND id = ? AND received_qty + ? <= quantity", tenantID, itemID, qty).
		Update("received_qty", gorm.Expr("received_qty + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Validation("receipt exceeds ordered quantity")
	}
	return nil
}

// SalesOrderRepository owns sales_orders and their items.
type SalesOrderRepository struct {
	db *gorm.DB
}

func NewSalesOrderRepository(db *gorm.DB) *SalesOrderRepository {
	return &SalesOrderRepository{db: db}
}

func (r *SalesOrderRepository) WithTx(tx *gorm.DB) *SalesOrderRepository {
	return &SalesOrderRepository{db: tx}
}

func (r *SalesOrderRepository) Create(ctx context.Context, order *model.SalesOrder) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return apperr.FromDB(err, "sales order")
	}
	return nil
}

func (r *SalesOrderRepository) Get(ctx context.Context, tenantID, id uint64) (*model.SalesOrder, error) {
	var order model.SalesOrder
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&order).Error
	if err != nil {
		return nil, apperr.FromDB(err, "sales order")
	}
	return &order, nil
}

func (r *SalesOrderRepository) List(ctx context.Context, tenantID uint64, offset, limit int) ([]model.SalesOrder, error) {
	var orders []model.SalesOrder
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ?", tenantID).
		Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus moves the order to a new status, guarded by the current one.
func (r *SalesOrderRepository) UpdateStatus(ctx context.Context, tenantID, id uint64, from, to string) error {
	res := r.db.WithContext(ctx).Model(&model.SalesOrder{}).
		Where("tenant_id = ? AND id = ? AND status = ?", tenantID, id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Conflict("sales order is no longer %s", from)
	}
	return nil
}

// AddFulfilledQty accumulates a fulfilment on one line item.
func (r *SalesOrderRepository) AddFulfilledQty(ctx context.Context, tenantID, itemID uint64, qty int64) error {
	res := r.db.WithContext(ctx).Model(&model.SalesOrderItem{}).
		Where("tenant_id = ? AND id = ? AND fulfilled_qty + ? <= quantity", tenantID, itemID, qty).
		Update("fulfilled_qty", gorm.Expr("fulfilled_qty + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Validation("fulfilment exceeds ordered quantity")
	}
	return nil
}
