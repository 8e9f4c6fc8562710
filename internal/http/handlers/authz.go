package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "velora/internal/log"
	"velora/internal/services"
)

const adminCookie = "admin_token"

// RequireAdmin guards the /api/admin group: valid token cookie, active admin.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(adminCookie)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "No token provided"})
		}
		admin, err := auth.Verify(token)
		if err != nil {
			applog.Security(c, "access.denied.admin", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Invalid token"})
		}
		c.Locals("admin", admin)
		return c.Next()
	}
}
