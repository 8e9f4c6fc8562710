package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"velora/internal/repos"
	"velora/internal/services"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// List is the public browse endpoint: category/search/price filters and a
// handful of sort orders.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	f := repos.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		SortBy:   c.Query("sortBy"),
	}
	if limit, err := strconv.Atoi(c.Query("limit", "0")); err == nil && limit > 0 {
		f.Limit = limit
	}
	f.PriceMin, f.PriceMax = parsePriceRange(c.Query("priceRange"))

	products, err := h.Catalog.ListProducts(f)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"products": products})
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	p, err := h.Catalog.GetProduct(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"product": p})
}

// parsePriceRange understands "25-50" (inclusive band) and "100" (open upper
// bound), matching the storefront filter widget.
func parsePriceRange(s string) (min, max float64) {
	if s == "" {
		return 0, 0
	}
	parts := strings.SplitN(s, "-", 2)
	min, _ = strconv.ParseFloat(parts[0], 64)
	if len(parts) == 2 {
		max, _ = strconv.ParseFloat(parts[1], 64)
	}
	return min, max
}
