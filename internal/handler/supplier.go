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

// SupplierHandler manages the tenant's suppliers.
type SupplierHandler struct {
	db        *gorm.DB
	suppliers *repository.SupplierRepository
	products  *repository.ProductRepository
	audit     *service.AuditService
}

func NewSupplierHandler(db *gorm.DB, suppliers *repository.SupplierRepository, products *repository.ProductRepository, audit *service.AuditService) *SupplierHandler {
	return &SupplierHandler{db: db, suppliers: suppliers, products: products, audit: audit}
}

// SupplierRequest defines supplier creation/update requests.
type SupplierRequest struct {
	Name        string `json:"name" validate:"required"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	Address     string `json:"address,omitempty"`
}

func (h *SupplierHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)
	ctx := c.Request().Context()

	var req SupplierRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, log, err)
	}

	supplier := model.Supplier{
		TenantID:    id.TenantID,
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		Address:     req.Address,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := h.suppliers.WithTx(tx).Create(ctx, &supplier); err != nil {
			return err
		}
		return h.audit.Record(ctx, tx, id.TenantID, id.UserID, "create", "suppliers",
			strconv.FormatUint(supplier.ID, 10), nil, supplier, nil)
	})
	if err != nil {
		return fail(c, log, err)
	}

	log.Info("Supplier created", zap.Uint64("tenant_id", id.TenantID), zap.String("name", supplier.Name))
	return c.JSON(http.StatusCreated, supplier)
}

func (h *SupplierHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)

	suppliers, err := h.suppliers.List(c.Request().Context(), id.TenantID)
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, suppliers)
}

func (h *SupplierHandler) Get(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)

	supplierID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, log, apperr.NotFound("supplier"))
	}

	supplier, err := h.suppliers.Get(c.Request().Context(), id.TenantID, supplierID)
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, supplier)
}

func (h *SupplierHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)
	ctx := c.Request().Context()

	supplierID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, log, apperr.NotFound("supplier"))
	}

	var req SupplierRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, log, err)
	}

	existing, err := h.suppliers.Get(ctx, id.TenantID, supplierID)
	if err != nil {
		return fail(c, log, err)
	}

	before := *existing
	existing.Name = req.Name
	existing.PhoneNumber = req.PhoneNumber
	existing.Email = req.Email
	existing.Address = req.Address

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := h.suppliers.WithTx(tx).Update(ctx, existing); err != nil {
			return err
		}
		return h.audit.Record(ctx, tx, id.TenantID, id.UserID, "update", "suppliers",
			strconv.FormatUint(supplierID, 10), before, existing, nil)
	})
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, existing)
}

// Delete removes a supplier unless products still reference it.
func (h *SupplierHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)
	ctx := c.Request().Context()

	supplierID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, log, apperr.NotFound("supplier"))
	}

	existing, err := h.suppliers.Get(ctx, id.TenantID, supplierID)
	if err != nil {
		return fail(c, log, err)
	}

	inUse, err := h.products.CountBySupplier(ctx, id.TenantID, supplierID)
	if err != nil {
		return fail(c, log, err)
	}
	if inUse > 0 {
		return fail(c, log, apperr.Conflict("supplier is referenced by %d products", inUse))
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := h.suppliers.WithTx(tx).Delete(ctx, id.TenantID, supplierID); err != nil {
			return err
		}
		return h.audit.Record(ctx, tx, id.TenantID, id.UserID, "delete", "suppliers",
			strconv.FormatUint(supplierID, 10), existing, nil, nil)
	})
	if err != nil {
		return fail(c, log, err)
	}

	log.Info("Supplier deleted", zap.Uint64("tenant_id", id.TenantID), zap.Uint64("supplier_id", supplierID))
	return c.JSON(http.StatusOK, echo.Map{"message": "supplier deleted"})
}
