package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/inventory-service/internal/apperr"
	"github.com/suteetoe/inventory-service/internal/middleware"
	"github.com/suteetoe/inventory-service/internal/model"
	"github.com/suteetoe/inventory-service/internal/repository"
	"github.com/suteetoe/inventory-service/internal/service"
	"github.com/suteetoe/inventory-service/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// WarehouseHandler manages the tenant's warehouses.
type WarehouseHandler struct {
	db         *gorm.DB
	warehouses *repository.WarehouseRepository
	audit      *service.AuditService
}

func NewWarehouseHandler(db *gorm.DB, warehouses *repository.WarehouseRepository, audit *service.AuditService) *WarehouseHandler {
	return &WarehouseHandler{db: db, warehouses: warehouses, audit: audit}
}

// WarehouseRequest defines warehouse creation/update requests.
type WarehouseRequest struct {
	WarehouseName    string `json:"warehouse_name" validate:"required"`
	Location         string `json:"location,omitempty"`
	WarehouseAddress string `json:"warehouse_address,omitempty"`
	Currency         string `json:"currency,omitempty" validate:"omitempty,len=3"`
}

func (h *WarehouseHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)
	ctx := c.Request().Context()

	var req WarehouseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, log, err)
	}
	if req.Currency == "" {
		req.Currency = "NGN"
	}

	warehouse := model.Warehouse{
		TenantID:         id.TenantID,
		WarehouseName:    req.WarehouseName,
		Location:         req.Location,
		WarehouseAddress: req.WarehouseAddress,
		Currency:         req.Currency,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := h.warehouses.WithTx(tx).Create(ctx, &warehouse); err != nil {
			return err
		}
		return h.audit.Record(ctx, tx, id.TenantID, id.UserID, "create", "warehouses",
			strconv.FormatUint(warehouse.WarehouseID, 10), nil, warehouse, nil)
	})
	if err != nil {
		return fail(c, log, err)
	}

	log.Info("Warehouse created",
		zap.Uint64("tenant_id", id.TenantID),
		zap.String("name", warehouse.WarehouseName))
	return c.JSON(http.StatusCreated, warehouse)
}

func (h *WarehouseHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)

	warehouses, err := h.warehouses.List(c.Request().Context(), id.TenantID)
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, warehouses)
}

func (h *WarehouseHandler) Get(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)

	warehouseID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, log, apperr.NotFound("warehouse"))
	}

	warehouse, err := h.warehouses.Get(c.Request().Context(), id.TenantID, warehouseID)
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, warehouse)
}

func (h *WarehouseHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)
	ctx := c.Request().Context()

	warehouseID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, log, apperr.NotFound("warehouse"))
	}

	var req WarehouseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, log, err)
	}

	existing, err := h.warehouses.Get(ctx, id.TenantID, warehouseID)
	if err != nil {
		return fail(c, log, err)
	}

	before := *existing
	existing.WarehouseName = req.WarehouseName
	existing.Location = req.Location
	existing.WarehouseAddress = req.WarehouseAddress
	if req.Currency != "" {
		existing.Currency = req.Currency
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := h.warehouses.WithTx(tx).Update(ctx, existing); err != nil {
			return err
		}
		return h.audit.Record(ctx, tx, id.TenantID, id.UserID, "update", "warehouses",
			strconv.FormatUint(warehouseID, 10), before, existing, nil)
	})
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, existing)
}

// Delete removes a warehouse; deletion is blocked while stock rows
// still reference it.
func (h *WarehouseHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)
	ctx := c.Request().Context()

	warehouseID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, log, apperr.NotFound("warehouse"))
	}

	existing, err := h.warehouses.Get(ctx, id.TenantID, warehouseID)
	if err != nil {
		return fail(c, log, err)
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := h.warehouses.WithTx(tx).Delete(ctx, id.TenantID, warehouseID); err != nil {
			return err
		}
		return h.audit.Record(ctx, tx, id.TenantID, id.UserID, "delete", "warehouses",
			strconv.FormatUint(warehouseID, 10), existing, nil, nil)
	})
	if err != nil {
		return fail(c, log, err)
	}

	log.Info("Warehouse deleted", zap.Uint64("tenant_id", id.TenantID), zap.Uint64("warehouse_id", warehouseID))
	return c.JSON(http.StatusOK, echo.Map{"message": "warehouse deleted"})
}
