package http

import (
	"context"
	"strings"

	"campus-facilities/internal/auth/usecase"
	"campus-facilities/internal/shared/contextkeys"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// AuthMiddleware provides authentication middleware for Fiber.
type AuthMiddleware struct {
	usecase    usecase.AuthUsecaseInterface
	cookieName string
}

// NewAuthMiddleware creates a new authentication middleware.
func NewAuthMiddleware(uc usecase.AuthUsecaseInterface, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		usecase:    uc,
		cookieName: cookieName,
	}
}

// RequestID middleware tags each request for log correlation.
func (m *AuthMiddleware) RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     "X-Request-ID",
		ContextKey: string(contextkeys.RequestIDKey),
	})
}

// Protect returns middleware that requires a valid, unrevoked token.
func (m *AuthMiddleware) Protect() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := TokenFromRequest(c, m.cookieName)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		claims, err := m.usecase.ValidateToken(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		ctx := c.UserContext()
		ctx = context.WithValue(ctx, contextkeys.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, contextkeys.UserEmailKey, claims.Email)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// TokenFromRequest extracts the token from the Authorization header or
// the auth cookie.
func TokenFromRequest(c *fiber.Ctx, cookieName string) string {
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return c.Cookies(cookieName)
}
