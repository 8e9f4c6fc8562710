package services

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"velora/internal/domain"
	"velora/internal/repos"
)

type CatalogService struct {
	Prods  *repos.ProductRepo
	Cats   *repos.CategoryRepo
	Promos *repos.PromotionRepo
}

func NewCatalogService(prods *repos.ProductRepo, cats *repos.CategoryRepo, promos *repos.PromotionRepo) *CatalogService {
	return &CatalogService{Prods: prods, Cats: cats, Promos: promos}
}

func (s *CatalogService) GetProduct(id string) (domain.Product, error) {
	p, err := s.Prods.Get(id)
	if err == sql.ErrNoRows {
		return domain.Product{}, domain.Errorf(domain.ENOTFOUND, "product %s not found", id)
	}
	return p, err
}

func (s *CatalogService) ListProducts(f repos.ProductFilter) ([]domain.Product, error) {
	return s.Prods.List(f)
}

func (s *CatalogService) ListAllProducts() ([]domain.Product, error) {
	return s.Prods.ListAll()
}

// CreateProduct assigns ids and enforces the variant invariants before the
// write: at least one variant, and exactly one flagged default (the first is
// forced default when none is marked).
func (s *CatalogService) CreateProduct(p *domain.Product) error {
	if err := normalizeProduct(p); err != nil {
		return err
	}
	p.ID = uuid.NewString()
	for i := range p.Variants {
		p.Variants[i].ID = uuid.NewString()
	}
	return s.Prods.Create(p)
}

// UpdateProduct keeps the ids of variants the caller carried over and assigns
// fresh ones to new variants. Variant ids are immutable once created.
func (s *CatalogService) UpdateProduct(p *domain.Product) error {
	if p.ID == "" {
		return domain.Errorf(domain.EINVALID, "product ID is required")
	}
	if err := normalizeProduct(p); err != nil {
		return err
	}
	for i := range p.Variants {
		if p.Variants[i].ID == "" {
			p.Variants[i].ID = uuid.NewString()
		}
	}
	err := s.Prods.Update(p)
	if err == sql.ErrNoRows {
		return domain.Errorf(domain.ENOTFOUND, "product %s not found", p.ID)
	}
	return err
}

func (s *CatalogService) DeleteProduct(id string) error {
	err := s.Prods.Delete(id)
	if err == sql.ErrNoRows {
		return domain.Errorf(domain.ENOTFOUND, "product %s not found", id)
	}
	return err
}

func normalizeProduct(p *domain.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.TrimSpace(p.Category)
	if p.Name == "" || p.Category == "" || strings.TrimSpace(p.Description) == "" {
		return domain.Errorf(domain.EINVALID, "missing required fields: name, description, category")
	}
	if len(p.Variants) == 0 {
		return domain.Errorf(domain.EINVALID, "product must have at least one variant")
	}
	if p.ImagesJSON == "" {
		p.ImagesJSON = "[]"
	}

	defaults := 0
	for i := range p.Variants {
		v := &p.Variants[i]
		v.Name = strings.TrimSpace(v.Name)
		if v.Name == "" || v.Price < 0 {
			return domain.Errorf(domain.EINVALID, "each variant must have a name and valid price")
		}
		if v.StockQuantity < 0 {
			return domain.Errorf(domain.EINVALID, "variant stock quantity cannot be negative")
		}
		if v.IsDefault {
			defaults++
		}
	}
	switch {
	case defaults == 0:
		p.Variants[0].IsDefault = true
	case defaults > 1:
		// keep the first flagged default, clear the rest
		seen := false
		for i := range p.Variants {
			if p.Variants[i].IsDefault {
				if seen {
					p.Variants[i].IsDefault = false
				}
				seen = true
			}
		}
	}
	return nil
}

// ---- categories ----

func (s *CatalogService) ListCategories(includeInactive bool) ([]domain.Category, error) {
	if includeInactive {
		return s.Cats.ListAll()
	}
	return s.Cats.ListActive()
}

func (s *CatalogService) CreateCategory(c *domain.Category) error {
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" || c.Image == "" {
		return domain.Errorf(domain.EINVALID, "title and image are required")
	}
	exists, err := s.Cats.TitleExists(c.Title, "")
	if err != nil {
		return err
	}
	if exists {
		return domain.Errorf(domain.EINVALID, "category with this title already exists")
	}
	c.ID = uuid.NewString()
	if c.SortOrder < 1 {
		c.SortOrder = 1
	}
	return s.Cats.Create(c)
}

func (s *CatalogService) UpdateCategory(c *domain.Category) error {
	c.Title = strings.TrimSpace(c.Title)
	if c.ID == "" {
		return domain.Errorf(domain.EINVALID, "category ID is required")
	}
	if _, err := s.Cats.Get(c.ID); err == sql.ErrNoRows {
		return domain.Errorf(domain.ENOTFOUND, "category %s not found", c.ID)
	} else if err != nil {
		return err
	}
	if c.Title != "" {
		exists, err := s.Cats.TitleExists(c.Title, c.ID)
		if err != nil {
			return err
		}
		if exists {
			return domain.Errorf(domain.EINVALID, "category with this title already exists")
		}
	}
	return s.Cats.Update(c)
}

// DeleteCategory refuses while any product still string-matches the title.
func (s *CatalogService) DeleteCategory(id string) error {
	c, err := s.Cats.Get(id)
	if err == sql.ErrNoRows {
		return domain.Errorf(domain.ENOTFOUND, "category %s not found", id)
	}
	if err != nil {
		return err
	}
	n, err := s.Prods.CountByCategory(c.Title)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.Errorf(domain.EINVALID, "cannot delete category: %d product(s) are using it", n)
	}
	return s.Cats.Delete(id)
}

// ---- promotions ----

func (s *CatalogService) ListActivePromotions() ([]domain.Promotion, error) {
	return s.Promos.ListActive(time.Now())
}

func (s *CatalogService) ListAllPromotions() ([]domain.Promotion, error) {
	return s.Promos.ListAll()
}

func (s *CatalogService) CreatePromotion(p *domain.Promotion) error {
	if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Subtitle) == "" ||
		p.Image == "" || strings.TrimSpace(p.CTAText) == "" || strings.TrimSpace(p.CTALink) == "" {
		return domain.Errorf(domain.EINVALID, "title, subtitle, image, ctaText and ctaLink are required")
	}
	p.ID = uuid.NewString()
	if p.SortOrder < 1 {
		p.SortOrder = 1
	}
	return s.Promos.Create(p)
}

func (s *CatalogService) UpdatePromotion(p *domain.Promotion) error {
	if p.ID == "" {
		return domain.Errorf(domain.EINVALID, "promotion ID is required")
	}
	err := s.Promos.Update(p)
	if err == sql.ErrNoRows {
		return domain.Errorf(domain.ENOTFOUND, "promotion %s not found", p.ID)
	}
	return err
}

func (s *CatalogService) DeletePromotion(id string) error {
	err := s.Promos.Delete(id)
	if err == sql.ErrNoRows {
		return domain.Errorf(domain.ENOTFOUND, "promotion %s not found", id)
	}
	return err
}
