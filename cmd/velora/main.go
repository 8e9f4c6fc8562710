package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"velora/internal/config"
	"velora/internal/http/handlers"
	applog "velora/internal/log"
	"velora/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	if err := repos.NewAdminRepo(db).SeedAdmin("Admin", cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal(err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false, "error": "Something went wrong. Please try again.",
			})
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{AllowCredentials: true, AllowOriginsFunc: func(string) bool { return true }}))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	deps := handlers.NewDeps(db, cfg)
	api := app.Group("/api")

	// Storefront
	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/:id", deps.ProductHandler.Get)
	api.Get("/categories", deps.CatalogHandler.Categories)
	api.Get("/promotions", deps.CatalogHandler.Promotions)

	// Cart & orders
	api.Get("/cart", deps.CartHandler.View)
	api.Post("/cart", deps.CartHandler.Add)
	api.Put("/cart", deps.CartHandler.Update)
	api.Delete("/cart", deps.CartHandler.Remove)
	api.Post("/orders", deps.OrderHandler.Place)
	api.Get("/orders/:id", deps.OrderHandler.Get)

	// Admin (login throttled)
	admin := api.Group("/admin")
	admin.Post("/auth/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false, "error": "Too many attempts. Please try again later.",
			})
		},
	}), deps.AuthHandler.Login)
	admin.Get("/auth/verify", deps.AuthHandler.Verify)
	admin.Post("/auth/logout", deps.AuthHandler.Logout)

	guarded := admin.Group("", handlers.RequireAdmin(deps.Auth))
	guarded.Get("/products", deps.AdminHandler.ListProducts)
	guarded.Post("/products", deps.AdminHandler.CreateProduct)
	guarded.Put("/products", deps.AdminHandler.UpdateProduct)
	guarded.Delete("/products", deps.AdminHandler.DeleteProduct)
	guarded.Get("/categories", deps.AdminHandler.ListCategories)
	guarded.Post("/categories", deps.AdminHandler.CreateCategory)
	guarded.Put("/categories", deps.AdminHandler.UpdateCategory)
	guarded.Delete("/categories", deps.AdminHandler.DeleteCategory)
	guarded.Get("/promotions", deps.AdminHandler.ListPromotions)
	guarded.Post("/promotions", deps.AdminHandler.CreatePromotion)
	guarded.Put("/promotions", deps.AdminHandler.UpdatePromotion)
	guarded.Delete("/promotions", deps.AdminHandler.DeletePromotion)
	guarded.Get("/orders", deps.AdminHandler.ListOrders)
	guarded.Put("/orders", deps.AdminHandler.UpdateOrderStatus)
	guarded.Delete("/orders", deps.AdminHandler.DeleteOrder)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "Not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
