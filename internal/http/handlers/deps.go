package handlers

import (
	"github.com/jmoiron/sqlx"

	"velora/internal/config"
	"velora/internal/repos"
	"velora/internal/services"
)

type Deps struct {
	ProductHandler *ProductHandler
	CatalogHandler *CatalogHandler
	CartHandler    *CartHandler
	OrderHandler   *OrderHandler
	AuthHandler    *AuthHandler
	AdminHandler   *AdminHandler
	Auth           *services.AuthService
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	prodRepo := repos.NewProductRepo(db)
	catRepo := repos.NewCategoryRepo(db)
	promoRepo := repos.NewPromotionRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	adminRepo := repos.NewAdminRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo, catRepo, promoRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderSvc := services.NewOrderService(orderRepo, prodRepo)
	authSvc := services.NewAuthService(adminRepo, cfg.JWTSecret)

	return &Deps{
		ProductHandler: &ProductHandler{Catalog: catalogSvc},
		CatalogHandler: &CatalogHandler{Catalog: catalogSvc},
		CartHandler:    &CartHandler{Cart: cartSvc},
		OrderHandler:   &OrderHandler{Cart: cartSvc, Order: orderSvc},
		AuthHandler:    &AuthHandler{Auth: authSvc},
		AdminHandler:   &AdminHandler{Catalog: catalogSvc, Order: orderSvc},
		Auth:           authSvc,
	}
}
