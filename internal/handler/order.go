package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/suteetoe/inventory-service/internal/apperr"
	"github.com/suteetoe/inventory-service/internal/middleware"
	"github.com/suteetoe/inventory-service/internal/service"
	"github.com/suteetoe/inventory-service/pkg/logger"
	"go.uber.org/zap"
)

// OrderHandler exposes purchase and sales order processing.
type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// OrderLineRequest is one line of a new order.
type OrderLineRequest struct {
	SKU       string          `json:"sku" validate:"required"`
	Quantity  int64           `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateOrderRequest creates a draft purchase or sales order.
type CreateOrderRequest struct {
	WarehouseID    uint64             `json:"warehouse_id" validate:"required"`
	PurchaseMethod string             `json:"purchase_method,omitempty"`
	Items          []OrderLineRequest `json:"items" validate:"required,min=1,dive"`
}

// MoveLinesRequest carries the lines of a receipt or fulfilment.
type MoveLinesRequest struct {
	Items []struct {
		SKU      string `json:"sku" validate:"required"`
		Quantity int64  `json:"quantity" validate:"required,gt=0"`
	} `json:"items" validate:"required,min=1,dive"`
}

// RefundRequest optionally routes returned goods to the damaged counter.
type RefundRequest struct {
	AsDamaged bool `json:"as_damaged,omitempty"`
}

func (r *CreateOrderRequest) lines() []service.OrderLineInput {
	lines := make([]service.OrderLineInput, 0, len(r.Items))
	for _, item := range r.Items {
		lines = append(lines, service.OrderLineInput{
			SKU:       item.SKU,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return lines
}

func (r *MoveLinesRequest) lines() []service.ReceiveLine {
	lines := make([]service.ReceiveLine, 0, len(r.Items))
	for _, item := range r.Items {
		lines = append(lines, service.ReceiveLine{SKU: item.SKU, Quantity: item.Quantity})
	}
	return lines
}

func orderID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperr.NotFound("order")
	}
	return id, nil
}

// --- Purchase orders ---

func (h *OrderHandler) CreatePurchaseOrder(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)

	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, log, err)
	}

	order, err := h.orders.CreatePurchaseOrder(c.Request().Context(), id.TenantID, id.UserID, req.WarehouseID, req.lines())
	if err != nil {
		return fail(c, log, err)
	}

	log.Info("Purchase order created",
		zap.Uint64("tenant_id", id.TenantID),
		zap.Uint64("order_id", order.ID),
		zap.Int("items", len(order.Items)))
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetPurchaseOrder(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)

	oid, err := orderID(c)
	if err != nil {
		return fail(c, log, err)
	}
	order, err := h.orders.GetPurchaseOrder(c.Request().Context(), id.TenantID, oid)
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ListPurchaseOrders(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)

	offset, limit := pageParams(c, 50)
	orders, err := h.orders.ListPurchaseOrders(c.Request().Context(), id.TenantID, offset, limit)
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) ApprovePurchaseOrder(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)

	oid, err := orderID(c)
	if err != nil {
		return fail(c, log, err)
	}
	order, err := h.orders.ApprovePurchaseOrder(c.Request().Context(), id.TenantID, id.UserID, oid)
	if err != nil {
		return fail(c, log, err)
	}

	log.Info("Purchase order approved", zap.Uint64("tenant_id", id.TenantID), zap.Uint64("order_id", oid))
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ReceivePurchaseOrder(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)

	oid, err := orderID(c)
	if err != nil {
		return fail(c, log, err)
	}

	var req MoveLinesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, log, err)
	}

	order, err := h.orders.ReceivePurchaseOrder(c.Request().Context(), id.TenantID, id.UserID, oid, req.lines())
	if err != nil {
		return fail(c, log, err)
	}

	log.Info("Purchase order received",
		zap.Uint64("tenant_id", id.TenantID),
		zap.Uint64("order_id", oid),
		zap.String("status", order.Status))
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) CancelPurchaseOrder(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)

	oid, err := orderID(c)
	if err != nil {
		return fail(c, log, err)
	}
	order, err := h.orders.CancelPurchaseOrder(c.Request().Context(), id.TenantID, id.UserID, oid)
	if err != nil {
		return fail(c, log, err)
	}

	log.Info("Purchase order cancelled", zap.Uint64("tenant_id", id.TenantID), zap.Uint64("order_id", oid))
	return c.JSON(http.StatusOK, order)
}

// --- Sales orders ---

func (h *OrderHandler) CreateSalesOrder(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)

	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, log, err)
	}

	order, err := h.orders.CreateSalesOrder(c.Request().Context(), id.TenantID, id.UserID, req.WarehouseID, req.PurchaseMethod, req.lines())
	if err != nil {
		return fail(c, log, err)
	}

	log.Info("Sales order created",
		zap.Uint64("tenant_id", id.TenantID),
		zap.Uint64("order_id", order.ID),
		zap.Int("items", len(order.Items)))
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetSalesOrder(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)

	oid, err := orderID(c)
	if err != nil {
		return fail(c, log, err)
	}
	order, err := h.orders.GetSalesOrder(c.Request().Context(), id.TenantID, oid)
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ListSalesOrders(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)

	offset, limit := pageParams(c, 50)
	orders, err := h.orders.ListSalesOrders(c.Request().Context(), id.TenantID, offset, limit)
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) ConfirmSalesOrder(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)

	oid, err := orderID(c)
	if err != nil {
		return fail(c, log, err)
	}
	order, err := h.orders.ConfirmSalesOrder(c.Request().Context(), id.TenantID, id.UserID, oid)
	if err != nil {
		return fail(c, log, err)
	}

	log.Info("Sales order confirmed", zap.Uint64("tenant_id", id.TenantID), zap.Uint64("order_id", oid))
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) FulfillSalesOrder(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)

	oid, err := orderID(c)
	if err != nil {
		return fail(c, log, err)
	}

	var req MoveLinesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, log, err)
	}

	order, err := h.orders.FulfillSalesOrder(c.Request().Context(), id.TenantID, id.UserID, oid, req.lines())
	if err != nil {
		return fail(c, log, err)
	}

	log.Info("Sales order fulfilled",
		zap.Uint64("tenant_id", id.TenantID),
		zap.Uint64("order_id", oid),
		zap.String("status", order.Status))
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) CancelSalesOrder(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)

	oid, err := orderID(c)
	if err != nil {
		return fail(c, log, err)
	}
	order, err := h.orders.CancelSalesOrder(c.Request().Context(), id.TenantID, id.UserID, oid)
	if err != nil {
		return fail(c, log, err)
	}

	log.Info("Sales order cancelled", zap.Uint64("tenant_id", id.TenantID), zap.Uint64("order_id", oid))
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) RefundSalesOrder(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)

	oid, err := orderID(c)
	if err != nil {
		return fail(c, log, err)
	}

	var req RefundRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	order, err := h.orders.RefundSalesOrder(c.Request().Context(), id.TenantID, id.UserID, oid, req.AsDamaged)
	if err != nil {
		return fail(c, log, err)
	}

	log.Info("Sales order refunded", zap.Uint64("tenant_id", id.TenantID), zap.Uint64("order_id", oid))
	return c.JSON(http.StatusOK, order)
}
