package handlers

import (
	"github.com/gofiber/fiber/v2"

	"velora/internal/services"
)

// CatalogHandler serves the public category and promotion listings.
type CatalogHandler struct {
	Catalog *services.CatalogService
}

func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories(false)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"categories": cats})
}

func (h *CatalogHandler) Promotions(c *fiber.Ctx) error {
	promos, err := h.Catalog.ListActivePromotions()
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"promotions": promos})
}
