package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "velora/internal/log"
	"velora/internal/services"
	"velora/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

// View recomputes the whole cart against the current catalog on every call.
func (h *CartHandler) View(c *fiber.Ctx) error {
	sid := ensureSID(c)
	cv, err := h.Cart.View(sid)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"cart": cv})
}

type cartMutation struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)

	body := cartMutation{Quantity: 1}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid JSON payload")
	}
	pid, okID := validate.ID(body.ProductID)
	if !okID {
		return badRequest(c, "Product ID is required")
	}
	if body.Quantity <= 0 {
		return badRequest(c, "Quantity must be greater than 0")
	}

	if err := h.Cart.AddItem(sid, pid, body.VariantID, body.Quantity); err != nil {
		applog.Security(c, "cart.add.reject", map[string]any{"sid": sid, "product": pid, "error": err.Error()})
		return fail(c, err)
	}
	applog.Info(c, "cart.add", map[string]any{"sid": sid, "product": pid, "qty": body.Quantity})
	return ok(c, fiber.Map{"message": "Item added to cart successfully"})
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	sid := ensureSID(c)

	var body cartMutation
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid JSON payload")
	}
	pid, okID := validate.ID(body.ProductID)
	if !okID || body.Quantity < 0 {
		return badRequest(c, "Invalid request data")
	}

	if err := h.Cart.UpdateItem(sid, pid, body.VariantID, body.Quantity); err != nil {
		return fail(c, err)
	}
	msg := "Cart updated successfully"
	if body.Quantity == 0 {
		msg = "Item removed from cart"
	}
	return ok(c, fiber.Map{"message": msg})
}

// Remove clears the whole cart when no productId is given, otherwise deletes
// the single matching line.
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)

	productID := c.Query("productId")
	if productID == "" {
		if err := h.Cart.Clear(sid); err != nil {
			return fail(c, err)
		}
		return ok(c, fiber.Map{"message": "Cart cleared"})
	}
	if err := h.Cart.RemoveItem(sid, productID, c.Query("variantId")); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"message": "Item removed successfully"})
}
