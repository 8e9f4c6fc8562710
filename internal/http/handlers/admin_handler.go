package handlers

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"velora/internal/domain"
	applog "velora/internal/log"
	"velora/internal/services"
	"velora/internal/validate"
)

// AdminHandler carries every staff-facing CRUD surface. All routes sit behind
// RequireAdmin.
type AdminHandler struct {
	Catalog *services.CatalogService
	Order   *services.OrderService
}

// ---- products ----

func (h *AdminHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.Catalog.ListAllProducts()
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"products": products})
}

func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var p domain.Product
	if err := c.BodyParser(&p); err != nil {
		return badRequest(c, "invalid JSON payload")
	}
	if err := h.Catalog.CreateProduct(&p); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.product.create", map[string]any{"product": p.ID})
	return created(c, fiber.Map{"product": p, "message": "Product created successfully"})
}

func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	var p domain.Product
	if err := c.BodyParser(&p); err != nil {
		return badRequest(c, "invalid JSON payload")
	}
	if p.ID == "" {
		p.ID = c.Params("id")
	}
	if err := h.Catalog.UpdateProduct(&p); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.product.update", map[string]any{"product": p.ID})
	return ok(c, fiber.Map{"product": p, "message": "Product updated successfully"})
}

func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Query("id", c.Params("id")))
	if !okID {
		return badRequest(c, "Product ID is required")
	}
	if err := h.Catalog.DeleteProduct(id); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.product.delete", map[string]any{"product": id})
	return ok(c, fiber.Map{"message": "Product deleted successfully"})
}

// ---- categories ----

func (h *AdminHandler) ListCategories(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories(true)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"categories": cats})
}

func (h *AdminHandler) CreateCategory(c *fiber.Ctx) error {
	var cat domain.Category
	if err := c.BodyParser(&cat); err != nil {
		return badRequest(c, "invalid JSON payload")
	}
	cat.IsActive = true
	if err := h.Catalog.CreateCategory(&cat); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.category.create", map[string]any{"category": cat.ID})
	return created(c, fiber.Map{"category": cat, "message": "Category created successfully"})
}

func (h *AdminHandler) UpdateCategory(c *fiber.Ctx) error {
	var cat domain.Category
	if err := c.BodyParser(&cat); err != nil {
		return badRequest(c, "invalid JSON payload")
	}
	if cat.ID == "" {
		cat.ID = c.Params("id")
	}
	if err := h.Catalog.UpdateCategory(&cat); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.category.update", map[string]any{"category": cat.ID})
	return ok(c, fiber.Map{"category": cat, "message": "Category updated successfully"})
}

func (h *AdminHandler) DeleteCategory(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Query("id", c.Params("id")))
	if !okID {
		return badRequest(c, "Category ID is required")
	}
	if err := h.Catalog.DeleteCategory(id); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.category.delete", map[string]any{"category": id})
	return ok(c, fiber.Map{"message": "Category deleted successfully"})
}

// ---- promotions ----

func (h *AdminHandler) ListPromotions(c *fiber.Ctx) error {
	promos, err := h.Catalog.ListAllPromotions()
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"promotions": promos})
}

func (h *AdminHandler) CreatePromotion(c *fiber.Ctx) error {
	var p domain.Promotion
	if err := c.BodyParser(&p); err != nil {
		return badRequest(c, "invalid JSON payload")
	}
	p.IsActive = true
	if err := h.Catalog.CreatePromotion(&p); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.promotion.create", map[string]any{"promotion": p.ID})
	return created(c, fiber.Map{"promotion": p, "message": "Promotion created successfully"})
}

func (h *AdminHandler) UpdatePromotion(c *fiber.Ctx) error {
	var p domain.Promotion
	if err := c.BodyParser(&p); err != nil {
		return badRequest(c, "invalid JSON payload")
	}
	if p.ID == "" {
		p.ID = c.Params("id")
	}
	if err := h.Catalog.UpdatePromotion(&p); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.promotion.update", map[string]any{"promotion": p.ID})
	return ok(c, fiber.Map{"promotion": p, "message": "Promotion updated successfully"})
}

func (h *AdminHandler) DeletePromotion(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Query("id", c.Params("id")))
	if !okID {
		return badRequest(c, "Promotion ID is required")
	}
	if err := h.Catalog.DeletePromotion(id); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.promotion.delete", map[string]any{"promotion": id})
	return ok(c, fiber.Map{"message": "Promotion deleted successfully"})
}

// ---- orders ----

func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	orders, err := h.Order.Orders.List(c.QueryInt("limit", 100))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.Map{"orders": orders})
}

type orderStatusRequest struct {
	OrderID string             `json:"orderId"`
	Status  domain.OrderStatus `json:"status"`
	Notes   string             `json:"notes"`
}

// UpdateOrderStatus moves an order along its lifecycle. Illegal jumps are
// rejected rather than overwritten.
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	var req orderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON payload")
	}
	if req.OrderID == "" || req.Status == "" {
		return badRequest(c, "Order ID and status are required")
	}

	order, err := h.Order.UpdateStatus(req.OrderID, req.Status)
	if err != nil {
		return fail(c, err)
	}
	if notes := validate.Notes(req.Notes); notes != "" {
		if err := h.Order.Orders.SetNotes(order.ID, notes); err == nil {
			order.Notes = notes
		}
	}
	applog.Audit(c, "admin.order.status", map[string]any{"order": order.ID, "status": req.Status})
	return ok(c, fiber.Map{"order": order, "message": "Order status updated successfully"})
}

func (h *AdminHandler) DeleteOrder(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Query("id", c.Params("id")))
	if !okID {
		return badRequest(c, "Order ID is required")
	}
	if err := h.Order.Orders.Delete(id); err != nil {
		if err == sql.ErrNoRows {
			return fail(c, domain.ErrOrderNotFound)
		}
		return fail(c, err)
	}
	applog.Audit(c, "admin.order.delete", map[string]any{"order": id})
	return ok(c, fiber.Map{"message": "Order deleted successfully"})
}
