// Package middleware provides HTTP middleware for the fiber app:
// JWT authentication, admin gating, and the shared-secret check used
// by server-to-server endpoints.
package middleware

import (
	"crypto/subtle"
	"strings"

	"campuspay/internal/models"
	"campuspay/internal/services/auth"
	"campuspay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// InternalSecretHeader authenticates trusted backend callers.
const InternalSecretHeader = "X-Internal-Secret"

// AuthMiddleware validates bearer tokens and stores the claims in the
// request context.
type AuthMiddleware struct {
	authService auth.Service
}

func NewAuthMiddleware(authService auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return utils.Unauthorized(c, "missing or invalid authorization header")
	}

	claims, err := m.authService.ValidateToken(c.Context(), strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return utils.Unauthorized(c, "invalid or expired token")
	}

	c.Locals("claims", claims)
	c.Locals("userID", claims.UserID)
	return c.Next()
}

// AdminOnly requires the authenticated user to hold the admin role.
func AdminOnly(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "unauthorized")
	}
	if claims.Role != models.RoleAdmin {
		return utils.Forbidden(c, "admin access required")
	}
	return c.Next()
}

// InternalSecret gates server-to-server endpoints behind a shared
// secret header instead of a user session.
func InternalSecret(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return utils.Unauthorized(c, "internal endpoints disabled")
		}
		provided := c.Get(InternalSecretHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			return utils.Unauthorized(c, "invalid internal secret")
		}
		return c.Next()
	}
}
