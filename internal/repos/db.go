package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Demo catalog when the DB is brand new (idempotent)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Schema notes: products.category is a plain string matching categories.title
// (category deletion is blocked while referenced). cart_items and order_items
// deliberately carry no product FK — order rows are immutable snapshots and
// cart views drop lines whose product has been deleted.
func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  image TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  is_active INTEGER NOT NULL DEFAULT 1,
  sort_order INTEGER NOT NULL DEFAULT 1,
  created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_title_nocase ON categories(LOWER(title));

CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL,
  image TEXT NOT NULL DEFAULT '',
  images_json TEXT NOT NULL DEFAULT '[]',
  base_sku TEXT UNIQUE,
  base_price NUMERIC NOT NULL DEFAULT 0 CHECK (base_price >= 0),
  in_stock INTEGER NOT NULL DEFAULT 1,
  is_on_sale INTEGER NOT NULL DEFAULT 0,
  rating NUMERIC NOT NULL DEFAULT 0 CHECK (rating BETWEEN 0 AND 5),
  review_count INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
CREATE INDEX IF NOT EXISTS idx_products_name     ON products(LOWER(name));
CREATE INDEX IF NOT EXISTS idx_products_created  ON products(created_at);

CREATE TABLE IF NOT EXISTS variants(
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  price NUMERIC NOT NULL CHECK (price >= 0),
  original_price NUMERIC NOT NULL DEFAULT 0 CHECK (original_price >= 0),
  sku TEXT NOT NULL DEFAULT '',
  in_stock INTEGER NOT NULL DEFAULT 1,
  stock_qty INTEGER NOT NULL DEFAULT 0 CHECK (stock_qty >= 0),
  is_default INTEGER NOT NULL DEFAULT 0,
  position INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_variants_product ON variants(product_id);
CREATE INDEX IF NOT EXISTS idx_variants_sku     ON variants(sku);

CREATE TABLE IF NOT EXISTS carts(
  session_id TEXT PRIMARY KEY,
  updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS cart_items(
  session_id TEXT NOT NULL REFERENCES carts(session_id) ON DELETE CASCADE,
  product_id TEXT NOT NULL,
  variant_id TEXT NOT NULL DEFAULT '',
  qty INTEGER NOT NULL CHECK (qty >= 1),
  added_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (session_id, product_id, variant_id)
);

CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  client_name TEXT NOT NULL,
  client_email TEXT NOT NULL,
  client_address TEXT NOT NULL,
  client_phone TEXT NOT NULL,
  total NUMERIC NOT NULL CHECK (total >= 0),
  status TEXT NOT NULL DEFAULT 'pending'
    CHECK (status IN ('pending','confirmed','shipped','delivered','cancelled')),
  notes TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_created ON orders(created_at);
CREATE INDEX IF NOT EXISTS idx_orders_status  ON orders(status);
CREATE INDEX IF NOT EXISTS idx_orders_email   ON orders(client_email);

CREATE TABLE IF NOT EXISTS order_items(
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  price NUMERIC NOT NULL CHECK (price >= 0),
  qty INTEGER NOT NULL CHECK (qty >= 1),
  image TEXT NOT NULL DEFAULT '',
  variant_id TEXT NOT NULL DEFAULT '',
  variant_name TEXT NOT NULL DEFAULT '',
  PRIMARY KEY (order_id, product_id, variant_id)
);

CREATE TABLE IF NOT EXISTS promotions(
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  subtitle TEXT NOT NULL DEFAULT '',
  image TEXT NOT NULL DEFAULT '',
  cta_text TEXT NOT NULL DEFAULT '',
  cta_link TEXT NOT NULL DEFAULT '',
  is_active INTEGER NOT NULL DEFAULT 1,
  sort_order INTEGER NOT NULL DEFAULT 1,
  start_date TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  end_date TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS admins(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_admins_email ON admins(LOWER(email));
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo categories/products/variants")

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	tx.MustExec(`INSERT INTO categories(id,title,image,description,sort_order) VALUES
	  ('cat-coffee','Coffee','/categories/coffee.jpg','Whole bean and ground coffee',1),
	  ('cat-teaware','Teaware','/categories/teaware.jpg','Pots, cups and infusers',2),
	  ('cat-accessories','Accessories','/categories/accessories.jpg','Grinders, filters, scales',3)`)

	tx.MustExec(`INSERT INTO products(id,name,description,category,image,base_sku) VALUES
	  ('prd-ethiopia','Ethiopia Yirgacheffe','Washed single origin, floral and citrus.','Coffee','/products/ethiopia.jpg','CF-ETH'),
	  ('prd-kyusu','Banko Kyusu','Hand-thrown side-handle teapot.','Teaware','/products/kyusu.jpg','TW-KYU'),
	  ('prd-grinder','Hand Grinder','Steel burr travel grinder.','Accessories','/products/grinder.jpg','AC-GRN')`)

	tx.MustExec(`INSERT INTO variants(id,product_id,name,price,original_price,sku,in_stock,stock_qty,is_default,position) VALUES
	  ('var-eth-250','prd-ethiopia','250g',14.50,0,'CF-ETH-250',1,40,1,0),
	  ('var-eth-1kg','prd-ethiopia','1kg',48.00,52.00,'CF-ETH-1KG',1,12,0,1),
	  ('var-kyusu-std','prd-kyusu','320ml',74.00,0,'TW-KYU-320',1,5,1,0),
	  ('var-grn-std','prd-grinder','Standard',59.00,0,'AC-GRN-STD',1,0,1,0)`)

	tx.MustExec(`UPDATE variants SET in_stock = 0 WHERE stock_qty = 0`)
	tx.MustExec(`UPDATE products SET in_stock = EXISTS(
	  SELECT 1 FROM variants v WHERE v.product_id = products.id AND v.in_stock = 1)`)

	tx.MustExec(`INSERT INTO promotions(id,title,subtitle,image,cta_text,cta_link,sort_order) VALUES
	  ('promo-launch','Fresh roast drop','New Ethiopian lot, roasted this week.','/promos/launch.jpg','Shop coffee','/products?category=Coffee',1)`)

	return tx.Commit()
}
