package repos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"velora/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// StockLine names a variant to decrement while an order commits.
type StockLine struct {
	ProductID string
	VariantID string // '' skips the decrement (variantless legacy product)
	Qty       int
}

// Create persists the order, its item snapshots and all stock decrements in
// one transaction. Each decrement is guarded (stock_qty >= qty); if any line
// cannot be satisfied the whole order rolls back and the shortfall is
// reported, so stock never floors silently at zero and an order is never
// visible without its stock effects.
func (r *OrderRepo) Create(o *domain.Order, stock []StockLine) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec(`
	  INSERT INTO orders(id,order_number,client_name,client_email,client_address,client_phone,total,status,notes,created_at,updated_at)
	  VALUES(?,?,?,?,?,?,?,?,?,?,?)
	`, o.ID, o.OrderNumber, o.ClientName, o.ClientEmail, o.ClientAddress, o.ClientPhone,
		o.Total, o.Status, o.Notes, now, now); err != nil {
		return err
	}
	for _, it := range o.Items {
		if _, err := tx.Exec(`
		  INSERT INTO order_items(order_id,product_id,name,price,qty,image,variant_id,variant_name)
		  VALUES(?,?,?,?,?,?,?,?)
		`, o.ID, it.ProductID, it.Name, it.Price, it.Quantity, it.Image, it.VariantID, it.VariantName); err != nil {
			return err
		}
	}

	for _, s := range stock {
		if s.VariantID == "" {
			continue
		}
		res, err := tx.Exec(`
		  UPDATE variants
		  SET stock_qty = stock_qty - ?,
		      in_stock  = CASE WHEN stock_qty - ? > 0 THEN 1 ELSE 0 END
		  WHERE id = ? AND product_id = ? AND stock_qty >= ?
		`, s.Qty, s.Qty, s.VariantID, s.ProductID, s.Qty)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			var left int
			_ = tx.Get(&left, `SELECT stock_qty FROM variants WHERE id=? AND product_id=?`, s.VariantID, s.ProductID)
			if left == 0 {
				return domain.Errorf(domain.EOUTOFSTOCK, "product %s is out of stock", s.ProductID)
			}
			return domain.Errorf(domain.EINSUFFICIENT,
				"insufficient stock for product %s (requested %d, available %d)", s.ProductID, s.Qty, left)
		}
		if err := recomputeInStock(tx, s.ProductID); err != nil {
			return err
		}
	}

	o.CreatedAt, o.UpdatedAt = now, now
	return tx.Commit()
}

// Get looks an order up by internal id or by its public order number.
func (r *OrderRepo) Get(ref string) (domain.Order, error) {
	var o domain.Order
	if err := r.db.Get(&o, `
	  SELECT id, order_number, client_name, client_email, client_address, client_phone,
	         total, status, notes, created_at, updated_at
	  FROM orders WHERE id = ? OR order_number = ?
	`, ref, ref); err != nil {
		return domain.Order{}, err
	}
	if err := r.db.Select(&o.Items, `
	  SELECT order_id, product_id, name, price, qty, image, variant_id, variant_name
	  FROM order_items WHERE order_id = ? ORDER BY name
	`, o.ID); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *OrderRepo) List(limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []domain.Order
	if err := r.db.Select(&out, `
	  SELECT id, order_number, client_name, client_email, client_address, client_phone,
	         total, status, notes, created_at, updated_at
	  FROM orders ORDER BY datetime(created_at) DESC, id LIMIT ?
	`, limit); err != nil {
		return nil, err
	}
	for i := range out {
		if err := r.db.Select(&out[i].Items, `
		  SELECT order_id, product_id, name, price, qty, image, variant_id, variant_name
		  FROM order_items WHERE order_id = ? ORDER BY name
		`, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SetStatus moves an order between statuses with an optimistic guard on the
// previous value; false means the order moved under us (or is gone).
func (r *OrderRepo) SetStatus(id string, from, to domain.OrderStatus) (bool, error) {
	res, err := r.db.Exec(`
	  UPDATE orders SET status=?, updated_at=? WHERE id=? AND status=?
	`, to, time.Now().UTC().Format(time.RFC3339), id, from)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *OrderRepo) SetNotes(id, notes string) error {
	res, err := r.db.Exec(`UPDATE orders SET notes=?, updated_at=? WHERE id=?`,
		notes, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *OrderRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM orders WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
