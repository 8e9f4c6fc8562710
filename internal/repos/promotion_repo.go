package repos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"velora/internal/domain"
)

type PromotionRepo struct{ db *sqlx.DB }

func NewPromotionRepo(db *sqlx.DB) *PromotionRepo { return &PromotionRepo{db: db} }

const promotionCols = `id, title, subtitle, image, cta_text, cta_link, is_active, sort_order,
  start_date, end_date, created_at, updated_at`

// ListActive returns promotions currently inside their start/end window.
// An empty end_date means no expiry.
func (r *PromotionRepo) ListActive(now time.Time) ([]domain.Promotion, error) {
	out := []domain.Promotion{}
	ts := now.UTC().Format(time.RFC3339)
	err := r.db.Select(&out, `
	  SELECT `+promotionCols+` FROM promotions
	  WHERE is_active = 1
	    AND start_date <= ?
	    AND (end_date = '' OR end_date >= ?)
	  ORDER BY sort_order, created_at DESC
	`, ts, ts)
	return out, err
}

func (r *PromotionRepo) ListAll() ([]domain.Promotion, error) {
	out := []domain.Promotion{}
	err := r.db.Select(&out, `SELECT `+promotionCols+` FROM promotions ORDER BY sort_order, created_at DESC`)
	return out, err
}

func (r *PromotionRepo) Create(p *domain.Promotion) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if p.StartDate == "" {
		p.StartDate = now
	}
	_, err := r.db.Exec(`
	  INSERT INTO promotions(id,title,subtitle,image,cta_text,cta_link,is_active,sort_order,start_date,end_date,created_at,updated_at)
	  VALUES(?,?,?,?,?,?,?,?,?,?,?,?)
	`, p.ID, p.Title, p.Subtitle, p.Image, p.CTAText, p.CTALink, p.IsActive, p.SortOrder,
		p.StartDate, p.EndDate, now, now)
	return err
}

func (r *PromotionRepo) Update(p *domain.Promotion) error {
	res, err := r.db.Exec(`
	  UPDATE promotions SET title=?, subtitle=?, image=?, cta_text=?, cta_link=?,
	    is_active=?, sort_order=?, start_date=?, end_date=?, updated_at=?
	  WHERE id=?
	`, p.Title, p.Subtitle, p.Image, p.CTAText, p.CTALink, p.IsActive, p.SortOrder,
		p.StartDate, p.EndDate, time.Now().UTC().Format(time.RFC3339), p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PromotionRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM promotions WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
