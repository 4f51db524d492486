package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/inventory-service/internal/apperr"
	"github.com/suteetoe/inventory-service/internal/middleware"
	"github.com/suteetoe/inventory-service/internal/model"
	"github.com/suteetoe/inventory-service/internal/repository"
	"github.com/suteetoe/inventory-service/pkg/jwtutil"
	"github.com/suteetoe/inventory-service/pkg/logger"
	"github.com/suteetoe/inventory-service/prometheus"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler issues tokens and registers users. It is the only handler
// allowed to look users up without an authenticated tenant, because it
// is the step that establishes one.
type AuthHandler struct {
	users   *repository.UserRepository
	tenants *repository.TenantRepository
	jwt     *jwtutil.JWTUtil
}

func NewAuthHandler(users *repository.UserRepository, tenants *repository.TenantRepository, jwt *jwtutil.JWTUtil) *AuthHandler {
	return &AuthHandler{users: users, tenants: tenants, jwt: jwt}
}

// RegisterRequest creates a user under an existing tenant.
type RegisterRequest struct {
	TenantID    uint64 `json:"tenant_id" validate:"required"`
	UserName    string `json:"user_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	PIN         string `json:"pin,omitempty" validate:"omitempty,numeric,min=4,max=6"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, log, err)
	}

	if _, err := h.tenants.Get(ctx, req.TenantID); err != nil {
		return fail(c, log, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	user := model.User{
		TenantID:       req.TenantID,
		UserName:       req.UserName,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		HashedPassword: string(hashed),
		IsActive:       true,
	}
	if req.PIN != "" {
		hashedPIN, err := bcrypt.GenerateFromPassword([]byte(req.PIN), bcrypt.DefaultCost)
		if err != nil {
			log.Error("Failed to hash PIN", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
		user.HashedPIN = string(hashedPIN)
	}

	if err := h.users.Create(ctx, &user); err != nil {
		return fail(c, log, err)
	}

	log.Info("User registered",
		zap.Uint64("tenant_id", user.TenantID),
		zap.Uint64("user_id", user.ID),
		zap.String("email", user.Email))
	return c.JSON(http.StatusCreated, user)
}

// LoginRequest authenticates with email and password. TenantID is only
// needed when the same email exists under several tenants.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	TenantID uint64 `json:"tenant_id,omitempty"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.Inc()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return fail(c, log, err)
	}

	user, err := h.resolveUser(c.Request().Context(), &req)
	if err != nil {
		log.Warn("Login rejected", zap.String("email", req.Email), zap.Error(err))
		return fail(c, log, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		log.Warn("Invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	return h.issueToken(c, user)
}

// PinLoginRequest authenticates staff with a short numeric PIN instead
// of a password. The tenant must be named explicitly.
type PinLoginRequest struct {
	TenantID uint64 `json:"tenant_id" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	PIN      string `json:"pin" validate:"required,numeric,min=4,max=6"`
}

func (h *AuthHandler) PinLogin(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()
	prometheus.LoginCounter.Inc()

	var req PinLoginRequest
	if err := c.Bind(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return fail(c, log, err)
	}

	user, err := h.users.GetByEmail(ctx, req.TenantID, req.Email)
	if err != nil {
		log.Warn("User not found for PIN login", zap.String("email", req.Email))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if user.HashedPIN == "" {
		prometheus.RecordAuthError("pin_not_set")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPIN), []byte(req.PIN)); err != nil {
		log.Warn("Invalid PIN", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_pin")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	return h.issueToken(c, user)
}

// Me returns the authenticated user's own record.
func (h *AuthHandler) Me(c echo.Context) error {
	log := logger.FromEcho(c)
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	user, err := h.users.Get(c.Request().Context(), id.TenantID, id.UserID)
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, user)
}

// resolveUser finds the login account, demanding an explicit tenant
// when the email is ambiguous across tenants. Absent users surface as
// ErrUnauthorized so the response never reveals which part failed.
func (h *AuthHandler) resolveUser(ctx context.Context, req *LoginRequest) (*model.User, error) {
	if req.TenantID != 0 {
		user, err := h.users.GetByEmail(ctx, req.TenantID, req.Email)
		if err != nil {
			prometheus.RecordAuthError("user_not_found")
			return nil, fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthorized)
		}
		return user, nil
	}

	users, err := h.users.FindByEmail(ctx, req.Email)
	if err != nil {
		prometheus.RecordAuthError("db_error")
		return nil, err
	}
	switch len(users) {
	case 0:
		prometheus.RecordAuthError("user_not_found")
		return nil, fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthorized)
	case 1:
		return &users[0], nil
	default:
		prometheus.RecordAuthError("ambiguous_email")
		return nil, apperr.Validation("email exists under multiple tenants, specify tenant_id")
	}
}

func (h *AuthHandler) issueToken(c echo.Context, user *model.User) error {
	log := logger.FromEcho(c)

	if !user.IsActive {
		prometheus.RecordAuthError("user_inactive")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account is disabled"})
	}

	role := ""
	if roles, err := h.users.RolesOf(c.Request().Context(), user.TenantID, user.ID); err == nil && len(roles) > 0 {
		role = roles[0].RoleName
	}

	token, err := h.jwt.GenerateToken(user.Email, user.ID, user.TenantID, role)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("User logged in",
		zap.Uint64("tenant_id", user.TenantID),
		zap.Uint64("user_id", user.ID))
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": token,
		"token_type":   "bearer",
		"user":         user,
	})
}
