package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/inventory-service/pkg/jwtutil"
	"github.com/suteetoe/inventory-service/pkg/logger"
	"github.com/suteetoe/inventory-service/prometheus"
	"go.uber.org/zap"
)

// Identity is the verified (tenant, user) pair extracted from the JWT.
// Handlers trust this pair for scoping and never read tenant IDs from
// request bodies.
type Identity struct {
	TenantID uint64
	UserID   uint64
	Email    string
	Role     string
}

const identityKey = "identity"

// AuthMiddleware validates the Bearer token and stores the verified
// identity in the echo context.
func AuthMiddleware(jwtUtil *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing Authorization header")
				prometheus.RecordAuthError("missing_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Warn("Invalid Authorization header format")
				prometheus.RecordAuthError("invalid_auth_format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
			}

			claims, err := jwtUtil.ValidateToken(parts[1])
			if err != nil {
				log.Warn("Invalid JWT token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			if claims.TenantID == 0 {
				log.Warn("Token carries no tenant", zap.Uint64("user_id", claims.UserID))
				prometheus.RecordAuthError("missing_tenant")
				return c.JSON(http.StatusForbidden, echo.Map{"error": "token carries no tenant context"})
			}

			c.Set(identityKey, Identity{
				TenantID: claims.TenantID,
				UserID:   claims.UserID,
				Email:    claims.Email,
				Role:     claims.Role,
			})

			log.Debug("Request authenticated",
				zap.Uint64("tenant_id", claims.TenantID),
				zap.Uint64("user_id", claims.UserID))

			return next(c)
		}
	}
}

// IdentityFrom returns the verified identity stored by AuthMiddleware.
func IdentityFrom(c echo.Context) (Identity, bool) {
	id, ok := c.Get(identityKey).(Identity)
	return id, ok
}

// SetIdentity stores an identity on the context. Used by tests to
// bypass token validation.
func SetIdentity(c echo.Context, id Identity) {
	c.Set(identityKey, id)
}
