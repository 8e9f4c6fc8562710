package repos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"velora/internal/domain"
)

// CartRepo persists session-keyed carts. Lines are unique per
// (session, product, variant); variant_id is '' for a line added without an
// explicit variant, so the merge key works inside the primary key.
type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

func (r *CartRepo) Ensure(sessionID string) error {
	_, err := r.db.Exec(`
	  INSERT INTO carts(session_id, updated_at) VALUES(?, ?)
	  ON CONFLICT(session_id) DO NOTHING
	`, sessionID, time.Now().UTC().Format(time.RFC3339))
	return err
}

// AddBounded merges qty into the line as one conditional upsert: the
// accumulated quantity may not exceed maxStock. Returns false when the cap
// would be exceeded (zero rows changed), leaving the stored quantity as it
// was. Two concurrent adds therefore cannot over-accumulate past stock.
func (r *CartRepo) AddBounded(sessionID, productID, variantID string, qty, maxStock int) (bool, error) {
	res, err := r.db.Exec(`
	  INSERT INTO cart_items(session_id, product_id, variant_id, qty, added_at)
	  VALUES(?,?,?,?,CURRENT_TIMESTAMP)
	  ON CONFLICT(session_id, product_id, variant_id) DO UPDATE
	    SET qty = cart_items.qty + excluded.qty
	    WHERE cart_items.qty + excluded.qty <= ?
	`, sessionID, productID, variantID, qty, maxStock)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		r.touch(sessionID)
	}
	return n > 0, nil
}

// AddUnbounded is the degenerate path for variantless legacy products, whose
// capacity is not quantity-tracked.
func (r *CartRepo) AddUnbounded(sessionID, productID string, qty int) error {
	_, err := r.db.Exec(`
	  INSERT INTO cart_items(session_id, product_id, variant_id, qty, added_at)
	  VALUES(?,?,'',?,CURRENT_TIMESTAMP)
	  ON CONFLICT(session_id, product_id, variant_id) DO UPDATE
	    SET qty = cart_items.qty + excluded.qty
	`, sessionID, productID, qty)
	if err == nil {
		r.touch(sessionID)
	}
	return err
}

// Qty returns the stored quantity for a line, 0 when the line is absent.
func (r *CartRepo) Qty(sessionID, productID, variantID string) (int, error) {
	var qty int
	err := r.db.Get(&qty, `
	  SELECT qty FROM cart_items WHERE session_id=? AND product_id=? AND variant_id=?
	`, sessionID, productID, variantID)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return qty, err
}

// SetQty overwrites a line's quantity. Returns false if no such line exists.
func (r *CartRepo) SetQty(sessionID, productID, variantID string, qty int) (bool, error) {
	res, err := r.db.Exec(`
	  UPDATE cart_items SET qty=? WHERE session_id=? AND product_id=? AND variant_id=?
	`, qty, sessionID, productID, variantID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		r.touch(sessionID)
	}
	return n > 0, nil
}

// Remove deletes a line. Returns false if it did not exist.
func (r *CartRepo) Remove(sessionID, productID, variantID string) (bool, error) {
	res, err := r.db.Exec(`
	  DELETE FROM cart_items WHERE session_id=? AND product_id=? AND variant_id=?
	`, sessionID, productID, variantID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		r.touch(sessionID)
	}
	return n > 0, nil
}

// Clear empties the cart; the cart row itself persists.
func (r *CartRepo) Clear(sessionID string) error {
	if err := r.Ensure(sessionID); err != nil {
		return err
	}
	if _, err := r.db.Exec(`DELETE FROM cart_items WHERE session_id=?`, sessionID); err != nil {
		return err
	}
	r.touch(sessionID)
	return nil
}

func (r *CartRepo) Items(sessionID string) ([]domain.CartItem, error) {
	items := []domain.CartItem{}
	err := r.db.Select(&items, `
	  SELECT session_id, product_id, variant_id, qty, added_at
	  FROM cart_items WHERE session_id=? ORDER BY added_at, product_id, variant_id
	`, sessionID)
	return items, err
}

func (r *CartRepo) touch(sessionID string) {
	_, _ = r.db.Exec(`UPDATE carts SET updated_at=? WHERE session_id=?`,
		time.Now().UTC().Format(time.RFC3339), sessionID)
}
