package handlers

import (
	"github.com/gofiber/fiber/v2"

	"velora/internal/domain"
	applog "velora/internal/log"
)

func ok(c *fiber.Ctx, data fiber.Map) error {
	data["success"] = true
	return c.JSON(data)
}

func created(c *fiber.Ctx, data fiber.Map) error {
	data["success"] = true
	return c.Status(fiber.StatusCreated).JSON(data)
}

// fail maps a service error to its HTTP status. Anything that is not a typed
// domain error is logged and hidden behind a generic message.
func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	msg := "Something went wrong. Please try again."

	switch domain.ErrorCode(err) {
	case domain.EINVALID, domain.EOUTOFSTOCK, domain.EINSUFFICIENT:
		status, msg = fiber.StatusBadRequest, err.Error()
	case domain.ENOTFOUND:
		status, msg = fiber.StatusNotFound, err.Error()
	default:
		applog.Error(c, "server.error", err, nil)
	}
	return c.Status(status).JSON(fiber.Map{"success": false, "error": msg})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": msg})
}
