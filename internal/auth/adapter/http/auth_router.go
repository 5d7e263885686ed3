package http

import (
	"errors"
	"time"

	"campus-facilities/internal/auth/usecase"

	"github.com/gofiber/fiber/v2"
)

// AuthHTTPHandler handles HTTP requests for authentication.
type AuthHTTPHandler struct {
	usecase        usecase.AuthUsecaseInterface
	cookieName     string
	cookiePath     string
	cookieDomain   string
	cookieMaxAge   int
	cookieSecure   bool
	cookieHTTPOnly bool
	cookieSameSite string
}

// NewAuthHTTPHandler creates a new authentication HTTP handler.
func NewAuthHTTPHandler(
	uc usecase.AuthUsecaseInterface,
	cookieName, cookiePath, cookieDomain string,
	cookieMaxAge int,
	cookieSecure, cookieHTTPOnly bool,
	cookieSameSite string,
) *AuthHTTPHandler {
	return &AuthHTTPHandler{
		usecase:        uc,
		cookieName:     cookieName,
		cookiePath:     cookiePath,
		cookieDomain:   cookieDomain,
		cookieMaxAge:   cookieMaxAge,
		cookieSecure:   cookieSecure,
		cookieHTTPOnly: cookieHTTPOnly,
		cookieSameSite: cookieSameSite,
	}
}

// SetupAuthRoutesWithMiddleware sets up authentication routes. Register,
// login and refresh are public; the rest require a valid session.
func (h *AuthHTTPHandler) SetupAuthRoutesWithMiddleware(router fiber.Router, middleware *AuthMiddleware) {
	router.Post("/register", h.Register)
	router.Post("/login", h.Login)
	router.Post("/refresh", h.RefreshToken)

	protected := router.Group("/", middleware.Protect())
	protected.Post("/logout", h.Logout)
	protected.Get("/me", h.GetCurrentUser)
}

// Register handles user registration.
func (h *AuthHTTPHandler) Register(c *fiber.Ctx) error {
	var req usecase.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, token, err := h.usecase.Register(c.Context(), req)
	if err != nil {
		if errors.Is(err, usecase.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Email already registered",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	h.setCookie(c, token)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  user,
		"token": token,
	})
}

// Login handles user login.
func (h *AuthHTTPHandler) Login(c *fiber.Ctx) error {
	var req usecase.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, token, err := h.usecase.Login(c.Context(), req)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid email or password",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	h.setCookie(c, token)
	return c.JSON(fiber.Map{
		"user":  user,
		"token": token,
	})
}

// Logout revokes the current session.
func (h *AuthHTTPHandler) Logout(c *fiber.Ctx) error {
	token := TokenFromRequest(c, h.cookieName)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	if err := h.usecase.Logout(c.Context(), token); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	h.clearCookie(c)
	return c.JSON(fiber.Map{
		"message": "Logged out successfully",
	})
}

// RefreshToken issues a new token for the current session.
func (h *AuthHTTPHandler) RefreshToken(c *fiber.Ctx) error {
	token := TokenFromRequest(c, h.cookieName)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	newToken, err := h.usecase.RefreshToken(c.Context(), token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	h.setCookie(c, newToken)
	return c.JSON(fiber.Map{
		"token": newToken,
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHTTPHandler) GetCurrentUser(c *fiber.Ctx) error {
	token := TokenFromRequest(c, h.cookieName)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	user, err := h.usecase.GetUserFromToken(c.Context(), token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(user)
}

func (h *AuthHTTPHandler) setCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     h.cookiePath,
		Domain:   h.cookieDomain,
		MaxAge:   h.cookieMaxAge,
		Secure:   h.cookieSecure,
		HTTPOnly: h.cookieHTTPOnly,
		SameSite: h.cookieSameSite,
		Expires:  time.Now().Add(time.Duration(h.cookieMaxAge) * time.Second),
	})
}

func (h *AuthHTTPHandler) clearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     h.cookiePath,
		Domain:   h.cookieDomain,
		MaxAge:   -1,
		Secure:   h.cookieSecure,
		HTTPOnly: h.cookieHTTPOnly,
		SameSite: h.cookieSameSite,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}
