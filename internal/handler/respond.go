package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/inventory-service/internal/apperr"
	"go.uber.org/zap"
)

// fail maps a service error onto the external status signal. Storage
// errors never reach this point untranslated, so anything outside the
// taxonomy is a 500.
func fail(c echo.Context, log *zap.Logger, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrOrderProcessing):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, apperr.ErrInsufficientStock):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperr.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, apperr.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		status = http.StatusForbidden
	}

	if status == http.StatusInternalServerError {
		log.Error("Request failed", zap.Error(err))
		return c.JSON(status, echo.Map{"error": "internal error"})
	}

	log.Warn("Request rejected", zap.Error(err), zap.Int("status", status))
	return c.JSON(status, echo.Map{"error": err.Error()})
}

// pageParams reads offset/limit query parameters. A missing or invalid
// limit falls back to the default; an oversized one clamps to 500.
func pageParams(c echo.Context, defaultLimit int) (int, int) {
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	if limit > 500 {
		limit = 500
	}
	return offset, limit
}
