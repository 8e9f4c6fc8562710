package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "velora/internal/log"
	"velora/internal/services"
	"velora/internal/validate"
)

type OrderHandler struct {
	Cart  *services.CartService
	Order *services.OrderService
}

type placeOrderRequest struct {
	CustomerInfo services.CustomerInfo `json:"customerInfo"`
	Items        []services.OrderInput `json:"items"`
	Total        float64               `json:"total"`
}

// Place creates the order, then clears the session cart. Clearing belongs
// here, not in the service: an ad-hoc item list (no cart involved) goes
// through the same placement path.
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	sid := ensureSID(c)

	var req placeOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON payload")
	}
	if len(req.Items) == 0 {
		return badRequest(c, "Missing required fields: customerInfo, items")
	}
	if email, okEmail := validate.Email(req.CustomerInfo.Email); !okEmail {
		return badRequest(c, "invalid email")
	} else {
		req.CustomerInfo.Email = email
	}
	if _, okPhone := validate.Phone(req.CustomerInfo.Phone); !okPhone {
		return badRequest(c, "invalid phone")
	}
	if _, okAddr := validate.Address(req.CustomerInfo.Address); !okAddr {
		return badRequest(c, "invalid address")
	}

	order, err := h.Order.Place(req.CustomerInfo, req.Items, req.Total)
	if err != nil {
		applog.Security(c, "order.place.fail", map[string]any{"sid": sid, "error": err.Error()})
		return fail(c, err)
	}

	applog.Audit(c, "order.place", map[string]any{
		"order_number": order.OrderNumber,
		"server_total": order.Total,
		"client_total": req.Total,
		"mismatch":     order.Total != req.Total,
	})

	if err := h.Cart.Clear(sid); err != nil {
		applog.Error(c, "order.cart.clear", err, map[string]any{"sid": sid})
	}
	return created(c, fiber.Map{
		"orderId": order.OrderNumber,
		"order":   order,
		"message": "Order created successfully",
	})
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	ref := c.Params("id")
	if ref == "" {
		return badRequest(c, "Order ID is required")
	}
	order, err := h.Order.Get(ref)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"order": order})
}
