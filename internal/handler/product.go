package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/suteetoe/inventory-service/internal/apperr"
	"github.com/suteetoe/inventory-service/internal/middleware"
	"github.com/suteetoe/inventory-service/internal/model"
	"github.com/suteetoe/inventory-service/internal/repository"
	"github.com/suteetoe/inventory-service/internal/service"
	"github.com/suteetoe/inventory-service/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProductHandler manages the tenant's product catalog.
type ProductHandler struct {
	db        *gorm.DB
	products  *repository.ProductRepository
	suppliers *repository.SupplierRepository
	audit     *service.AuditService
}

func NewProductHandler(db *gorm.DB, products *repository.ProductRepository, suppliers *repository.SupplierRepository, audit *service.AuditService) *ProductHandler {
	return &ProductHandler{db: db, products: products, suppliers: suppliers, audit: audit}
}

// ProductRequest defines the structure for product creation/update requests.
type ProductRequest struct {
	SKU         string          `json:"sku" validate:"required,max=64"`
	Name        string          `json:"name" validate:"required"`
	Unit        string          `json:"unit" validate:"required"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	SellPrice   decimal.Decimal `json:"sell_price"`
	Category    string          `json:"category,omitempty"`
	Description string          `json:"description,omitempty"`
	Barcode     string          `json:"barcode,omitempty"`
	Brand       string          `json:"brand,omitempty"`
	Colour      string          `json:"colour,omitempty"`
	Size        string          `json:"size,omitempty"`
	Tags        string          `json:"tags,omitempty"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
	SupplierID  *uint64         `json:"supplier_id,omitempty"`
}

func (r *ProductRequest) validatePrices() error {
	if r.CostPrice.IsNegative() || r.SellPrice.IsNegative() {
		return apperr.Validation("cost and sell price must not be negative")
	}
	return nil
}

// Create adds a product to the tenant's catalog. The SKU only has to be
// unique within the tenant.
func (h *ProductHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)
	ctx := c.Request().Context()

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, log, err)
	}
	if err := req.validatePrices(); err != nil {
		return fail(c, log, err)
	}

	if req.SupplierID != nil {
		if _, err := h.suppliers.Get(ctx, id.TenantID, *req.SupplierID); err != nil {
			return fail(c, log, err)
		}
	}

	product := model.Product{
		TenantID:    id.TenantID,
		SKU:         req.SKU,
		Name:        req.Name,
		Unit:        req.Unit,
		CostPrice:   req.CostPrice,
		SellPrice:   req.SellPrice,
		Category:    req.Category,
		Description: req.Description,
		Barcode:     req.Barcode,
		Brand:       req.Brand,
		Colour:      req.Colour,
		Size:        req.Size,
		Tags:        req.Tags,
		ExpiryDate:  req.ExpiryDate,
		SupplierID:  req.SupplierID,
		CreatedBy:   id.UserID,
		UpdatedBy:   id.UserID,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := h.products.WithTx(tx).Create(ctx, &product); err != nil {
			return err
		}
		return h.audit.Record(ctx, tx, id.TenantID, id.UserID, "create", "products", product.SKU, nil, product, nil)
	})
	if err != nil {
		return fail(c, log, err)
	}

	log.Info("Product created",
		zap.Uint64("tenant_id", id.TenantID),
		zap.String("sku", product.SKU),
		zap.String("name", product.Name))
	return c.JSON(http.StatusCreated, product)
}

// List returns a page of the tenant's products.
func (h *ProductHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)

	offset, limit := pageParams(c, 100)
	products, err := h.products.List(c.Request().Context(), id.TenantID, offset, limit)
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, products)
}

// Get returns one product by SKU.
func (h *ProductHandler) Get(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)

	product, err := h.products.GetBySKU(c.Request().Context(), id.TenantID, c.Param("sku"))
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, product)
}

// Update replaces the mutable fields of a product. The SKU itself is
// part of the identity and cannot change.
func (h *ProductHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)
	ctx := c.Request().Context()
	sku := c.Param("sku")

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.SKU != "" && req.SKU != sku {
		return fail(c, log, apperr.Validation("SKU cannot be changed"))
	}
	if err := req.validatePrices(); err != nil {
		return fail(c, log, err)
	}

	existing, err := h.products.GetBySKU(ctx, id.TenantID, sku)
	if err != nil {
		return fail(c, log, err)
	}

	if req.SupplierID != nil {
		if _, err := h.suppliers.Get(ctx, id.TenantID, *req.SupplierID); err != nil {
			return fail(c, log, err)
		}
	}

	before := *existing
	existing.Name = req.Name
	existing.Unit = req.Unit
	existing.CostPrice = req.CostPrice
	existing.SellPrice = req.SellPrice
	existing.Category = req.Category
	existing.Description = req.Description
	existing.Barcode = req.Barcode
	existing.Brand = req.Brand
	existing.Colour = req.Colour
	existing.Size = req.Size
	existing.Tags = req.Tags
	existing.ExpiryDate = req.ExpiryDate
	existing.SupplierID = req.SupplierID
	existing.UpdatedBy = id.UserID

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := h.products.WithTx(tx).Update(ctx, existing); err != nil {
			return err
		}
		return h.audit.Record(ctx, tx, id.TenantID, id.UserID, "update", "products", sku, before, existing, nil)
	})
	if err != nil {
		return fail(c, log, err)
	}

	log.Info("Product updated", zap.Uint64("tenant_id", id.TenantID), zap.String("sku", sku))
	return c.JSON(http.StatusOK, existing)
}

// Delete removes a product and its stock rows.
func (h *ProductHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)
	ctx := c.Request().Context()
	sku := c.Param("sku")

	existing, err := h.products.GetBySKU(ctx, id.TenantID, sku)
	if err != nil {
		return fail(c, log, err)
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := h.products.WithTx(tx).Delete(ctx, id.TenantID, sku); err != nil {
			return err
		}
		return h.audit.Record(ctx, tx, id.TenantID, id.UserID, "delete", "products", sku, existing, nil, nil)
	})
	if err != nil {
		return fail(c, log, err)
	}

	log.Info("Product deleted", zap.Uint64("tenant_id", id.TenantID), zap.String("sku", sku))
	return c.JSON(http.StatusOK, echo.Map{"message": "product deleted"})
}
