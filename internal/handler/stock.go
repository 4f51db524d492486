package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/inventory-service/internal/apperr"
	"github.com/suteetoe/inventory-service/internal/middleware"
	"github.com/suteetoe/inventory-service/internal/service"
	"github.com/suteetoe/inventory-service/pkg/logger"
	"go.uber.org/zap"
)

// StockHandler exposes the Stock Ledger.
type StockHandler struct {
	stock *service.StockService
}

func NewStockHandler(stock *service.StockService) *StockHandler {
	return &StockHandler{stock: stock}
}

// EnsureStockRequest creates the zeroed stock row for a triple.
type EnsureStockRequest struct {
	SKU         string `json:"sku" validate:"required"`
	WarehouseID uint64 `json:"warehouse_id" validate:"required"`
}

func (h *StockHandler) Ensure(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)

	var req EnsureStockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, log, err)
	}

	level, err := h.stock.Ensure(c.Request().Context(), id.TenantID, req.SKU, req.WarehouseID)
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusCreated, level)
}

// AdjustStockRequest applies a delta to one ledger counter.
type AdjustStockRequest struct {
	SKU         string `json:"sku" validate:"required"`
	WarehouseID uint64 `json:"warehouse_id" validate:"required"`
	Field       string `json:"field" validate:"required,oneof=on_hand committed incoming damaged"`
	Delta       int64  `json:"delta" validate:"required"`
}

func (h *StockHandler) Adjust(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)

	var req AdjustStockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, log, err)
	}

	level, err := h.stock.Adjust(c.Request().Context(), id.TenantID, id.UserID, req.SKU, req.WarehouseID, req.Field, req.Delta)
	if err != nil {
		return fail(c, log, err)
	}

	log.Info("Stock adjusted",
		zap.Uint64("tenant_id", id.TenantID),
		zap.String("sku", req.SKU),
		zap.Uint64("warehouse_id", req.WarehouseID),
		zap.String("field", req.Field),
		zap.Int64("delta", req.Delta))
	return c.JSON(http.StatusOK, level)
}

func (h *StockHandler) Get(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)

	warehouseID, err := strconv.ParseUint(c.Param("warehouse_id"), 10, 64)
	if err != nil {
		return fail(c, log, apperr.NotFound("stock level"))
	}

	level, err := h.stock.Get(c.Request().Context(), id.TenantID, c.Param("sku"), warehouseID)
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, level)
}

func (h *StockHandler) ListByProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)

	levels, err := h.stock.ListByProduct(c.Request().Context(), id.TenantID, c.Param("sku"))
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, levels)
}

func (h *StockHandler) ListByWarehouse(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)

	warehouseID, err := strconv.ParseUint(c.Param("warehouse_id"), 10, 64)
	if err != nil {
		return fail(c, log, apperr.NotFound("warehouse"))
	}

	levels, err := h.stock.ListByWarehouse(c.Request().Context(), id.TenantID, warehouseID)
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, levels)
}
