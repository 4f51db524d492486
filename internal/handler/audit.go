package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/inventory-service/internal/middleware"
	"github.com/suteetoe/inventory-service/internal/service"
	"github.com/suteetoe/inventory-service/pkg/logger"
)

// AuditHandler serves the read-only audit trail. There are no write
// endpoints; rows are appended by the mutating services.
type AuditHandler struct {
	audit *service.AuditService
}

func NewAuditHandler(audit *service.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

func (h *AuditHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	entries, err := h.audit.List(c.Request().Context(), id.TenantID, limit)
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, entries)
}
