package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"velora/internal/domain"
	applog "velora/internal/log"
	"velora/internal/services"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON payload")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	admin, token, err := h.Auth.Login(req.Email, req.Password)
	if err != nil {
		if domain.ErrorCode(err) == domain.EINVALID {
			applog.Security(c, "auth.login.fail", map[string]any{"email": req.Email})
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Invalid credentials"})
		}
		return fail(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     adminCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Expires:  time.Now().Add(h.Auth.TTL),
	})
	applog.Audit(c, "auth.login", map[string]any{"admin": admin.ID})
	return ok(c, fiber.Map{"message": "Login successful", "admin": admin})
}

// Verify lets the admin UI confirm its cookie is still good.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	token := c.Cookies(adminCookie)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "No token provided"})
	}
	admin, err := h.Auth.Verify(token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Invalid token"})
	}
	return ok(c, fiber.Map{"admin": admin})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     adminCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Expires:  time.Now().Add(-time.Hour),
	})
	return ok(c, fiber.Map{"message": "Logged out"})
}
