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
	"golang.org/x/crypto/bcrypt"
)

// UserHandler lists tenant users and manages roles and role assignments.
type UserHandler struct {
	users *repository.UserRepository
}

func NewUserHandler(users *repository.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)

	offset, limit := pageParams(c, 100)
	users, err := h.users.List(c.Request().Context(), id.TenantID, offset, limit)
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, users)
}

// UpdateUserRequest replaces the profile fields of a user. Email and
// password are identity and credentials, not profile, and stay as they
// are; an optional PIN replaces the staff login PIN.
type UpdateUserRequest struct {
	UserName    string `json:"user_name" validate:"required"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Address     string `json:"address,omitempty"`
	IsActive    *bool  `json:"is_active,omitempty"`
	PIN         string `json:"pin,omitempty" validate:"omitempty,numeric,min=4,max=6"`
}

func (h *UserHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)
	ctx := c.Request().Context()

	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, log, apperr.NotFound("user"))
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, log, err)
	}

	existing, err := h.users.Get(ctx, id.TenantID, userID)
	if err != nil {
		return fail(c, log, err)
	}

	existing.UserName = req.UserName
	existing.PhoneNumber = req.PhoneNumber
	existing.Address = req.Address
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}
	if req.PIN != "" {
		hashedPIN, err := bcrypt.GenerateFromPassword([]byte(req.PIN), bcrypt.DefaultCost)
		if err != nil {
			log.Error("Failed to hash PIN", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
		existing.HashedPIN = string(hashedPIN)
	}

	if err := h.users.Update(ctx, existing); err != nil {
		return fail(c, log, err)
	}

	log.Info("User updated", zap.Uint64("tenant_id", id.TenantID), zap.Uint64("user_id", userID))
	return c.JSON(http.StatusOK, existing)
}

// RoleRequest creates a role.
type RoleRequest struct {
	RoleName    string `json:"role_name" validate:"required"`
	Description string `json:"description,omitempty"`
}

func (h *UserHandler) CreateRole(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)

	var req RoleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, log, err)
	}

	role := model.Role{
		TenantID:    id.TenantID,
		RoleName:    req.RoleName,
		Description: req.Description,
	}
	if err := h.users.CreateRole(c.Request().Context(), &role); err != nil {
		return fail(c, log, err)
	}

	log.Info("Role created", zap.Uint64("tenant_id", id.TenantID), zap.String("role", role.RoleName))
	return c.JSON(http.StatusCreated, role)
}

func (h *UserHandler) ListRoles(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)

	roles, err := h.users.ListRoles(c.Request().Context(), id.TenantID)
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, roles)
}

// AssignRole links a role to a user of the same tenant. Both IDs come
// from the path.
func (h *UserHandler) AssignRole(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)

	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		return fail(c, log, apperr.NotFound("user"))
	}
	roleID, err := strconv.ParseUint(c.Param("role_id"), 10, 64)
	if err != nil {
		return fail(c, log, apperr.NotFound("role"))
	}

	if err := h.users.AssignRole(c.Request().Context(), id.TenantID, userID, roleID); err != nil {
		return fail(c, log, err)
	}

	log.Info("Role assigned",
		zap.Uint64("tenant_id", id.TenantID),
		zap.Uint64("user_id", userID),
		zap.Uint64("role_id", roleID))
	return c.JSON(http.StatusCreated, echo.Map{"message": "role assigned"})
}

func (h *UserHandler) RemoveRole(c echo.Context) error {
	log := logger.FromEcho(c)
	id, _ := middleware.IdentityFrom(c)

	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		return fail(c, log, apperr.NotFound("role assignment"))
	}
	roleID, err := strconv.ParseUint(c.Param("role_id"), 10, 64)
	if err != nil {
		return fail(c, log, apperr.NotFound("role assignment"))
	}

	if err := h.users.RemoveRole(c.Request().Context(), id.TenantID, userID, roleID); err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "role removed"})
}
