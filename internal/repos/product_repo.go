package repos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"velora/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, name, description, category, image, images_json,
  COALESCE(base_sku,'') AS base_sku, base_price, in_stock, is_on_sale,
  rating, review_count, created_at, updated_at`

// ProductFilter narrows the public listing. Zero values mean "no filter".
type ProductFilter struct {
	Category string
	Search   string
	PriceMin float64
	PriceMax float64 // 0 = unbounded
	SortBy   string  // price-low|price-high|newest|alphabetical-asc|alphabetical-desc
	Limit    int
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	if err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id); err != nil {
		return domain.Product{}, err
	}
	if err := r.db.Select(&p.Variants, `
	  SELECT id, product_id, name, price, original_price, sku, in_stock, stock_qty, is_default, position
	  FROM variants WHERE product_id = ? ORDER BY position, id
	`, id); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (r *ProductRepo) List(f ProductFilter) ([]domain.Product, error) {
	where := `1=1`
	args := []any{}
	if f.Category != "" {
		where += ` AND LOWER(category) = LOWER(?)`
		args = append(args, f.Category)
	}
	if f.Search != "" {
		q := "%" + f.Search + "%"
		where += ` AND (name LIKE ? COLLATE NOCASE OR category LIKE ? COLLATE NOCASE)`
		args = append(args, q, q)
	}
	if f.PriceMin > 0 || f.PriceMax > 0 {
		sub := `EXISTS (SELECT 1 FROM variants v WHERE v.product_id = products.id AND v.price >= ?`
		args = append(args, f.PriceMin)
		if f.PriceMax > 0 {
			sub += ` AND v.price <= ?`
			args = append(args, f.PriceMax)
		}
		where += ` AND ` + sub + `)`
	}

	order := `ORDER BY name COLLATE NOCASE ASC`
	switch f.SortBy {
	case "price-low":
		order = `ORDER BY (SELECT MIN(v.price) FROM variants v WHERE v.product_id = products.id) ASC`
	case "price-high":
		order = `ORDER BY (SELECT MAX(v.price) FROM variants v WHERE v.product_id = products.id) DESC`
	case "newest":
		order = `ORDER BY created_at DESC`
	case "alphabetical-desc":
		order = `ORDER BY name COLLATE NOCASE DESC`
	}

	q := `SELECT ` + productCols + ` FROM products WHERE ` + where + ` ` + order
	if f.Limit > 0 {
		q += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	var out []domain.Product
	if err := r.db.Select(&out, q, args...); err != nil {
		return nil, err
	}
	return r.attachVariants(out)
}

// ListAll returns every product newest first, variants included (admin view).
func (r *ProductRepo) ListAll() ([]domain.Product, error) {
	var out []domain.Product
	if err := r.db.Select(&out, `SELECT `+productCols+` FROM products ORDER BY created_at DESC, id`); err != nil {
		return nil, err
	}
	return r.attachVariants(out)
}

func (r *ProductRepo) attachVariants(products []domain.Product) ([]domain.Product, error) {
	byID := make(map[string]*domain.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	var vs []domain.Variant
	if err := r.db.Select(&vs, `
	  SELECT id, product_id, name, price, original_price, sku, in_stock, stock_qty, is_default, position
	  FROM variants ORDER BY product_id, position, id
	`); err != nil {
		return nil, err
	}
	for _, v := range vs {
		if p, ok := byID[v.ProductID]; ok {
			p.Variants = append(p.Variants, v)
		}
	}
	return products, nil
}

// Create inserts the product and its variants in one transaction.
// Invariant checks (≥1 variant, exactly one default) happen in the service.
func (r *ProductRepo) Create(p *domain.Product) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec(`
	  INSERT INTO products(id,name,description,category,image,images_json,base_sku,base_price,in_stock,is_on_sale,rating,review_count,created_at,updated_at)
	  VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	`, p.ID, p.Name, p.Description, p.Category, p.Image, p.ImagesJSON, nullable(p.BaseSKU),
		p.BasePrice, p.InStock, p.IsOnSale, p.Rating, p.ReviewCount, now, now); err != nil {
		return err
	}
	if err := insertVariants(tx, p.ID, p.Variants); err != nil {
		return err
	}
	if err := recomputeInStock(tx, p.ID); err != nil {
		return err
	}
	return tx.Commit()
}

// Update replaces the product row and its variant set in one transaction.
// Variant IDs supplied by the caller are preserved; stock rows the caller
// omitted are gone afterwards.
func (r *ProductRepo) Update(p *domain.Product) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
	  UPDATE products SET name=?, description=?, category=?, image=?, images_json=?,
	    base_sku=?, base_price=?, is_on_sale=?, updated_at=?
	  WHERE id=?
	`, p.Name, p.Description, p.Category, p.Image, p.ImagesJSON, nullable(p.BaseSKU),
		p.BasePrice, p.IsOnSale, time.Now().UTC().Format(time.RFC3339), p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}

	if _, err := tx.Exec(`DELETE FROM variants WHERE product_id=?`, p.ID); err != nil {
		return err
	}
	if err := insertVariants(tx, p.ID, p.Variants); err != nil {
		return err
	}
	if err := recomputeInStock(tx, p.ID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *ProductRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountByCategory counts products string-matching a category title.
func (r *ProductRepo) CountByCategory(title string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products WHERE LOWER(category) = LOWER(?)`, title)
	return n, err
}

func insertVariants(tx *sqlx.Tx, productID string, vs []domain.Variant) error {
	for i, v := range vs {
		if _, err := tx.Exec(`
		  INSERT INTO variants(id,product_id,name,price,original_price,sku,in_stock,stock_qty,is_default,position)
		  VALUES(?,?,?,?,?,?,?,?,?,?)
		`, v.ID, productID, v.Name, v.Price, v.OriginalPrice, v.SKU, v.InStock, v.StockQuantity, v.IsDefault, i); err != nil {
			return err
		}
	}
	return nil
}

// recomputeInStock refreshes the denormalized product flag from its variants.
// Variantless legacy products keep whatever flag they carry.
func recomputeInStock(tx *sqlx.Tx, productID string) error {
	_, err := tx.Exec(`
	  UPDATE products SET in_stock = EXISTS(
	    SELECT 1 FROM variants v WHERE v.product_id = products.id AND v.in_stock = 1)
	  WHERE id = ? AND EXISTS(SELECT 1 FROM variants v WHERE v.product_id = products.id)
	`, productID)
	return err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
