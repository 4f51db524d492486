package service

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/suteetoe/inventory-service/internal/apperr"
	"github.com/suteetoe/inventory-service/internal/model"
	"github.com/suteetoe/inventory-service/internal/repository"
	"github.com/suteetoe/inventory-service/prometheus"
	"gorm.io/gorm"
)

// OrderLineInput is one line of a new order.
type OrderLineInput struct {
	SKU       string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// ReceiveLine is one line of a purchase order receipt or a sales order
// fulfilment: a SKU and the quantity moved this time.
type ReceiveLine struct {
	SKU      string
	Quantity int64
}

// OrderService drives the purchase and sales order state machines.
// Every transition runs in a single transaction spanning the status
// update, all line-level stock adjustments and exactly one audit row;
// any line failure rolls the whole transition back.
type OrderService struct {
	db         *gorm.DB
	purchases  *repository.PurchaseOrderRepository
	sales      *repository.SalesOrderRepository
	stock      *repository.StockRepository
	products   *repository.ProductRepository
	warehouses *repository.WarehouseRepository
	audit      *AuditService
}

func NewOrderService(db *gorm.DB, purchases *repository.PurchaseOrderRepository, sales *repository.SalesOrderRepository, stock *repository.StockRepository, products *repository.ProductRepository, warehouses *repository.WarehouseRepository, audit *AuditService) *OrderService {
	return &OrderService{
		db:         db,
		purchases:  purchases,
		sales:      sales,
		stock:      stock,
		products:   products,
		warehouses: warehouses,
		audit:      audit,
	}
}

// validateLines checks every line references an existing product of the
// tenant with a positive quantity and non-negative price, and that SKUs
// are not repeated within one order.
func (s *OrderService) validateLines(ctx context.Context, tenantID uint64, lines []OrderLineInput) error {
	if len(lines) == 0 {
		return apperr.Validation("order needs at least one line item")
	}
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if line.SKU == "" {
			return apperr.Validation("line item is missing a SKU")
		}
		if seen[line.SKU] {
			return apperr.Validation("duplicate SKU %s in order", line.SKU)
		}
		seen[line.SKU] = true
		if line.Quantity <= 0 {
			return apperr.Validation("quantity for %s must be positive", line.SKU)
		}
		if line.UnitPrice.IsNegative() {
			return apperr.Validation("unit price for %s must not be negative", line.SKU)
		}
		if _, err := s.products.GetBySKU(ctx, tenantID, line.SKU); err != nil {
			return err
		}
	}
	return nil
}

// --- Purchase orders ---

// CreatePurchaseOrder creates a draft purchase order. Draft orders have
// no stock impact until approved.
func (s *OrderService) CreatePurchaseOrder(ctx context.Context, tenantID, userID, warehouseID uint64, lines []OrderLineInput) (*model.PurchaseOrder, error) {
	if _, err := s.warehouses.Get(ctx, tenantID, warehouseID); err != nil {
		return nil, err
	}
	if err := s.validateLines(ctx, tenantID, lines); err != nil {
		return nil, err
	}

	order := &model.PurchaseOrder{
		TenantID:    tenantID,
		WarehouseID: warehouseID,
		OrderDate:   time.Now(),
		Status:      model.POStatusDraft,
		CreatedBy:   userID,
	}
	for _, line := range lines {
		order.Items = append(order.Items, model.PurchaseOrderItem{
			TenantID:   tenantID,
			ProductSKU: line.SKU,
			Quantity:   line.Quantity,
			UnitCost:   line.UnitPrice,
		})
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.purchases.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, tenantID, userID, "po_create", "purchase_orders",
			strconv.FormatUint(order.ID, 10), nil,
			map[string]interface{}{"status": order.Status}, nil)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ApprovePurchaseOrder moves a draft order to approved and books every
// ordered quantity as incoming stock at the order's warehouse.
func (s *OrderService) ApprovePurchaseOrder(ctx context.Context, tenantID, userID, orderID uint64) (*model.PurchaseOrder, error) {
	order, err := s.purchases.Get(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if !model.POStatusCanTransition(order.Status, model.POStatusApproved) {
		return nil, apperr.Validation("cannot approve a %s purchase order", order.Status)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		stock := s.stock.WithTx(tx)
		for _, item := range order.Items {
			if err := stock.Ensure(ctx, tenantID, item.ProductSKU, order.WarehouseID); err != nil {
				return apperr.OrderProcessing(item.ProductSKU, err)
			}
			if err := stock.Adjust(ctx, tenantID, item.ProductSKU, order.WarehouseID, model.StockFieldIncoming, item.Quantity); err != nil {
				return apperr.OrderProcessing(item.ProductSKU, err)
			}
		}
		if err := s.purchases.WithTx(tx).UpdateStatus(ctx, tenantID, orderID, order.Status, model.POStatusApproved); err != nil {
			return err
		}
		return s.recordTransition(ctx, tx, tenantID, userID, "purchase_orders", orderID, order.Status, model.POStatusApproved)
	})
	prometheus.RecordOrderTransition("purchase", "approve", outcomeOf(err))
	if err != nil {
		return nil, err
	}
	return s.purchases.Get(ctx, tenantID, orderID)
}

// ReceivePurchaseOrder books a receipt against an approved order. Each
// received line moves quantity from incoming into on-hand. Receiving
// everything moves the order to received, anything less to
// partially_received. A failure on any line rolls the whole receipt
// back and leaves the order untouched.
func (s *OrderService) ReceivePurchaseOrder(ctx context.Context, tenantID, userID, orderID uint64, lines []ReceiveLine) (*model.PurchaseOrder, error) {
	if len(lines) == 0 {
		return nil, apperr.Validation("receipt needs at least one line")
	}

	order, err := s.purchases.Get(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != model.POStatusApproved && order.Status != model.POStatusPartiallyReceived {
		return nil, apperr.Validation("cannot receive a %s purchase order", order.Status)
	}

	itemsBySKU := make(map[string]*model.PurchaseOrderItem, len(order.Items))
	received := make(map[string]int64, len(order.Items))
	for i := range order.Items {
		itemsBySKU[order.Items[i].ProductSKU] = &order.Items[i]
		received[order.Items[i].ProductSKU] = order.Items[i].ReceivedQty
	}

	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, apperr.Validation("receipt quantity for %s must be positive", line.SKU)
		}
		if _, ok := itemsBySKU[line.SKU]; !ok {
			return nil, apperr.Validation("SKU %s is not on the order", line.SKU)
		}
		received[line.SKU] += line.Quantity
	}

	newStatus := model.POStatusReceived
	for sku, item := range itemsBySKU {
		if received[sku] < item.Quantity {
			newStatus = model.POStatusPartiallyReceived
			break
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		stock := s.stock.WithTx(tx)
		purchases := s.purchases.WithTx(tx)
		for _, line := range lines {
			item := itemsBySKU[line.SKU]
			if err := purchases.AddReceivedQty(ctx, tenantID, item.ID, line.Quantity); err != nil {
				return apperr.OrderProcessing(line.SKU, err)
			}
			if err := stock.Receive(ctx, tenantID, line.SKU, order.WarehouseID, line.Quantity); err != nil {
				return apperr.OrderProcessing(line.SKU, err)
			}
		}
		if err := purchases.UpdateStatus(ctx, tenantID, orderID, order.Status, newStatus); err != nil {
			return err
		}
		return s.recordTransition(ctx, tx, tenantID, userID, "purchase_orders", orderID, order.Status, newStatus)
	})
	prometheus.RecordOrderTransition("purchase", "receive", outcomeOf(err))
	if err != nil {
		return nil, err
	}
	return s.purchases.Get(ctx, tenantID, orderID)
}

// CancelPurchaseOrder cancels a draft or approved order. Cancelling an
// approved order releases the incoming quantities it booked.
func (s *OrderService) CancelPurchaseOrder(ctx context.Context, tenantID, userID, orderID uint64) (*model.PurchaseOrder, error) {
	order, err := s.purchases.Get(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if !model.POStatusCanTransition(order.Status, model.POStatusCancelled) {
		return nil, apperr.Validation("cannot cancel a %s purchase order", order.Status)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if order.Status == model.POStatusApproved {
			stock := s.stock.WithTx(tx)
			for _, item := range order.Items {
				if err := stock.Adjust(ctx, tenantID, item.ProductSKU, order.WarehouseID, model.StockFieldIncoming, -item.Quantity); err != nil {
					return apperr.OrderProcessing(item.ProductSKU, err)
				}
			}
		}
		if err := s.purchases.WithTx(tx).UpdateStatus(ctx, tenantID, orderID, order.Status, model.POStatusCancelled); err != nil {
			return err
		}
		return s.recordTransition(ctx, tx, tenantID, userID, "purchase_orders", orderID, order.Status, model.POStatusCancelled)
	})
	prometheus.RecordOrderTransition("purchase", "cancel", outcomeOf(err))
	if err != nil {
		return nil, err
	}
	return s.purchases.Get(ctx, tenantID, orderID)
}

func (s *OrderService) GetPurchaseOrder(ctx context.Context, tenantID, orderID uint64) (*model.PurchaseOrder, error) {
	return s.purchases.Get(ctx, tenantID, orderID)
}

func (s *OrderService) ListPurchaseOrders(ctx context.Context, tenantID uint64, offset, limit int) ([]model.PurchaseOrder, error) {
	return s.purchases.List(ctx, tenantID, offset, limit)
}

// --- Sales orders ---

// CreateSalesOrder creates a draft sales order against one warehouse.
func (s *OrderService) CreateSalesOrder(ctx context.Context, tenantID, userID, warehouseID uint64, purchaseMethod string, lines []OrderLineInput) (*model.SalesOrder, error) {
	if _, err := s.warehouses.Get(ctx, tenantID, warehouseID); err != nil {
		return nil, err
	}
	if purchaseMethod != "" && !model.ValidPurchaseMethod(purchaseMethod) {
		return nil, apperr.Validation("unknown purchase method %q", purchaseMethod)
	}
	if err := s.validateLines(ctx, tenantID, lines); err != nil {
		return nil, err
	}

	subTotal := decimal.Zero
	order := &model.SalesOrder{
		TenantID:       tenantID,
		WarehouseID:    warehouseID,
		OrderDate:      time.Now(),
		Status:         model.SOStatusDraft,
		PurchaseMethod: purchaseMethod,
		CreatedBy:      userID,
	}
	for _, line := range lines {
		subTotal = subTotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(line.Quantity)))
		order.Items = append(order.Items, model.SalesOrderItem{
			TenantID:   tenantID,
			ProductSKU: line.SKU,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
		})
	}
	order.SubTotal = subTotal

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.sales.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, tenantID, userID, "so_create", "sales_orders",
			strconv.FormatUint(order.ID, 10), nil,
			map[string]interface{}{"status": order.Status}, nil)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ConfirmSalesOrder reserves stock for every line by raising committed
// counters, all-or-nothing: a single line that would overcommit fails
// the whole confirmation and no partial reservation remains.
func (s *OrderService) ConfirmSalesOrder(ctx context.Context, tenantID, userID, orderID uint64) (*model.SalesOrder, error) {
	order, err := s.sales.Get(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if !model.SOStatusCanTransition(order.Status, model.SOStatusConfirmed) {
		return nil, apperr.Validation("cannot confirm a %s sales order", order.Status)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		stock := s.stock.WithTx(tx)
		for _, item := range order.Items {
			if err := stock.Reserve(ctx, tenantID, item.ProductSKU, order.WarehouseID, item.Quantity); err != nil {
				return apperr.OrderProcessing(item.ProductSKU, err)
			}
		}
		if err := s.sales.WithTx(tx).UpdateStatus(ctx, tenantID, orderID, order.Status, model.SOStatusConfirmed); err != nil {
			return err
		}
		return s.recordTransition(ctx, tx, tenantID, userID, "sales_orders", orderID, order.Status, model.SOStatusConfirmed)
	})
	prometheus.RecordOrderTransition("sales", "confirm", outcomeOf(err))
	if err != nil {
		return nil, err
	}
	return s.sales.Get(ctx, tenantID, orderID)
}

// FulfillSalesOrder ships lines of a confirmed order: committed and
// on-hand drop together per line. Shipping everything moves the order
// to fulfilled, anything less to partially_fulfilled.
func (s *OrderService) FulfillSalesOrder(ctx context.Context, tenantID, userID, orderID uint64, lines []ReceiveLine) (*model.SalesOrder, error) {
	if len(lines) == 0 {
		return nil, apperr.Validation("fulfilment needs at least one line")
	}

	order, err := s.sales.Get(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != model.SOStatusConfirmed && order.Status != model.SOStatusPartiallyFulfilled {
		return nil, apperr.Validation("cannot fulfill a %s sales order", order.Status)
	}

	itemsBySKU := make(map[string]*model.SalesOrderItem, len(order.Items))
	fulfilled := make(map[string]int64, len(order.Items))
	for i := range order.Items {
		itemsBySKU[order.Items[i].ProductSKU] = &order.Items[i]
		fulfilled[order.Items[i].ProductSKU] = order.Items[i].FulfilledQty
	}

	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, apperr.Validation("fulfilment quantity for %s must be positive", line.SKU)
		}
		if _, ok := itemsBySKU[line.SKU]; !ok {
			return nil, apperr.Validation("SKU %s is not on the order", line.SKU)
		}
		fulfilled[line.SKU] += line.Quantity
	}

	newStatus := model.SOStatusFulfilled
	for sku, item := range itemsBySKU {
		if fulfilled[sku] < item.Quantity {
			newStatus = model.SOStatusPartiallyFulfilled
			break
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		stock := s.stock.WithTx(tx)
		sales := s.sales.WithTx(tx)
		for _, line := range lines {
			item := itemsBySKU[line.SKU]
			if err := sales.AddFulfilledQty(ctx, tenantID, item.ID, line.Quantity); err != nil {
				return apperr.OrderProcessing(line.SKU, err)
			}
			if err := stock.Issue(ctx, tenantID, line.SKU, order.WarehouseID, line.Quantity); err != nil {
				return apperr.OrderProcessing(line.SKU, err)
			}
		}
		if err := sales.UpdateStatus(ctx, tenantID, orderID, order.Status, newStatus); err != nil {
			return err
		}
		return s.recordTransition(ctx, tx, tenantID, userID, "sales_orders", orderID, order.Status, newStatus)
	})
	prometheus.RecordOrderTransition("sales", "fulfill", outcomeOf(err))
	if err != nil {
		return nil, err
	}
	return s.sales.Get(ctx, tenantID, orderID)
}

// CancelSalesOrder cancels a draft or confirmed order. Cancelling a
// confirmed order releases its reserved quantities back to available.
func (s *OrderService) CancelSalesOrder(ctx context.Context, tenantID, userID, orderID uint64) (*model.SalesOrder, error) {
	order, err := s.sales.Get(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if !model.SOStatusCanTransition(order.Status, model.SOStatusCancelled) {
		return nil, apperr.Validation("cannot cancel a %s sales order", order.Status)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if order.Status == model.SOStatusConfirmed {
			stock := s.stock.WithTx(tx)
			for _, item := range order.Items {
				if err := stock.Adjust(ctx, tenantID, item.ProductSKU, order.WarehouseID, model.StockFieldCommitted, -item.Quantity); err != nil {
					return apperr.OrderProcessing(item.ProductSKU, err)
				}
			}
		}
		if err := s.sales.WithTx(tx).UpdateStatus(ctx, tenantID, orderID, order.Status, model.SOStatusCancelled); err != nil {
			return err
		}
		return s.recordTransition(ctx, tx, tenantID, userID, "sales_orders", orderID, order.Status, model.SOStatusCancelled)
	})
	prometheus.RecordOrderTransition("sales", "cancel", outcomeOf(err))
	if err != nil {
		return nil, err
	}
	return s.sales.Get(ctx, tenantID, orderID)
}

// RefundSalesOrder refunds a fulfilled or partially fulfilled order.
// Shipped quantities return to on-hand, or to damaged when the returned
// goods cannot be resold. Reservations still outstanding on a partially
// fulfilled order are released.
func (s *OrderService) RefundSalesOrder(ctx context.Context, tenantID, userID, orderID uint64, asDamaged bool) (*model.SalesOrder, error) {
	order, err := s.sales.Get(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if !model.SOStatusCanTransition(order.Status, model.SOStatusRefunded) {
		return nil, apperr.Validation("cannot refund a %s sales order", order.Status)
	}

	restockField := model.StockFieldOnHand
	if asDamaged {
		restockField = model.StockFieldDamaged
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		stock := s.stock.WithTx(tx)
		for _, item := range order.Items {
			if item.FulfilledQty > 0 {
				if err := stock.Adjust(ctx, tenantID, item.ProductSKU, order.WarehouseID, restockField, item.FulfilledQty); err != nil {
					return apperr.OrderProcessing(item.ProductSKU, err)
				}
			}
			if remaining := item.Quantity - item.FulfilledQty; remaining > 0 {
				if err := stock.Adjust(ctx, tenantID, item.ProductSKU, order.WarehouseID, model.StockFieldCommitted, -remaining); err != nil {
					return apperr.OrderProcessing(item.ProductSKU, err)
				}
			}
		}
		if err := s.sales.WithTx(tx).UpdateStatus(ctx, tenantID, orderID, order.Status, model.SOStatusRefunded); err != nil {
			return err
		}
		return s.recordTransition(ctx, tx, tenantID, userID, "sales_orders", orderID, order.Status, model.SOStatusRefunded)
	})
	prometheus.RecordOrderTransition("sales", "refund", outcomeOf(err))
	if err != nil {
		return nil, err
	}
	return s.sales.Get(ctx, tenantID, orderID)
}

func (s *OrderService) GetSalesOrder(ctx context.Context, tenantID, orderID uint64) (*model.SalesOrder, error) {
	return s.sales.Get(ctx, tenantID, orderID)
}

func (s *OrderService) ListSalesOrders(ctx context.Context, tenantID uint64, offset, limit int) ([]model.SalesOrder, error) {
	return s.sales.List(ctx, tenantID, offset, limit)
}

// recordTransition appends the single audit row every successful order
// transition produces.
func (s *OrderService) recordTransition(ctx context.Context, tx *gorm.DB, tenantID, userID uint64, table string, orderID uint64, oldStatus, newStatus string) error {
	return s.audit.Record(ctx, tx, tenantID, userID, "status_change", table,
		strconv.FormatUint(orderID, 10),
		map[string]interface{}{"status": oldStatus},
		map[string]interface{}{"status": newStatus},
		nil)
}

func outcomeOf(err error) string {
	if err != nil {
		return "failed"
	}
	return "ok"
}
