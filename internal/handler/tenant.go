package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/inventory-service/internal/apperr"
	"github.com/suteetoe/inventory-service/internal/middleware"
	"github.com/suteetoe/inventory-service/internal/model"
	"github.com/suteetoe/inventory-service/internal/repository"
	"github.com/suteetoe/inventory-service/pkg/logger"
	"go.uber.org/zap"
)

// TenantHandler manages tenant records. Creation is the unauthenticated
// bootstrap; reads are limited to the caller's own tenant.
type TenantHandler struct {
	tenants *repository.TenantRepository
}

func NewTenantHandler(tenants *repository.TenantRepository) *TenantHandler {
	return &TenantHandler{tenants: tenants}
}

// TenantRequest creates a tenant.
type TenantRequest struct {
	Name string `json:"name" validate:"required"`
	Plan string `json:"plan,omitempty"`
}

func (h *TenantHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	var req TenantRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, log, err)
	}

	if req.Plan == "" {
		req.Plan = "free"
	}

	tenant := model.Tenant{Name: req.Name, Plan: req.Plan}
	if err := h.tenants.Create(c.Request().Context(), &tenant); err != nil {
		return fail(c, log, err)
	}

	log.Info("Tenant created", zap.Uint64("tenant_id", tenant.ID), zap.String("name", tenant.Name))
	return c.JSON(http.StatusCreated, tenant)
}

// Get returns the caller's own tenant. Asking for any other tenant ID
// answers not found, the same signal as a tenant that does not exist.
func (h *TenantHandler) Get(c echo.Context) error {
	log := logger.FromEcho(c)
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	requested, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || requested != id.TenantID {
		return fail(c, log, apperr.NotFound("tenant"))
	}

	tenant, err := h.tenants.Get(c.Request().Context(), id.TenantID)
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, tenant)
}
