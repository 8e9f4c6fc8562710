package repos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"velora/internal/domain"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

const categoryCols = `id, title, image, description, is_active, sort_order, created_at, updated_at`

// ListActive returns categories visible to shoppers, in display order.
func (r *CategoryRepo) ListActive() ([]domain.Category, error) {
	out := []domain.Category{}
	err := r.db.Select(&out, `
	  SELECT `+categoryCols+` FROM categories
	  WHERE is_active = 1 ORDER BY sort_order, created_at DESC
	`)
	return out, err
}

// ListAll includes inactive categories (admin view).
func (r *CategoryRepo) ListAll() ([]domain.Category, error) {
	out := []domain.Category{}
	err := r.db.Select(&out, `SELECT `+categoryCols+` FROM categories ORDER BY sort_order, created_at DESC`)
	return out, err
}

func (r *CategoryRepo) Get(id string) (domain.Category, error) {
	var c domain.Category
	err := r.db.Get(&c, `SELECT `+categoryCols+` FROM categories WHERE id = ?`, id)
	return c, err
}

// TitleExists reports whether another category already uses the title
// (case-insensitive). excludeID skips the category being renamed.
func (r *CategoryRepo) TitleExists(title, excludeID string) (bool, error) {
	var n int
	err := r.db.Get(&n, `
	  SELECT COUNT(*) FROM categories WHERE LOWER(title) = LOWER(?) AND id != ?
	`, title, excludeID)
	return n > 0, err
}

func (r *CategoryRepo) Create(c *domain.Category) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := r.db.Exec(`
	  INSERT INTO categories(id,title,image,description,is_active,sort_order,created_at,updated_at)
	  VALUES(?,?,?,?,?,?,?,?)
	`, c.ID, c.Title, c.Image, c.Description, c.IsActive, c.SortOrder, now, now)
	return err
}

func (r *CategoryRepo) Update(c *domain.Category) error {
	res, err := r.db.Exec(`
	  UPDATE categories SET title=?, image=?, description=?, is_active=?, sort_order=?, updated_at=?
	  WHERE id=?
	`, c.Title, c.Image, c.Description, c.IsActive, c.SortOrder, time.Now().UTC().Format(time.RFC3339), c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *CategoryRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM categories WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
