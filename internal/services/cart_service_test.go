package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"velora/internal/domain"
	"velora/internal/repos"
	"velora/internal/services"
)

// memdb builds the store schema with a small catalog: one product with two
// variants (small: 10.00 x5 default, large: 20.00 x2) and one variantless
// legacy record.
func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	schema := `
	CREATE TABLE categories(id TEXT PRIMARY KEY, title TEXT NOT NULL, image TEXT DEFAULT '',
	  description TEXT DEFAULT '', is_active INTEGER DEFAULT 1, sort_order INTEGER DEFAULT 1,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT DEFAULT CURRENT_TIMESTAMP);
	CREATE TABLE products(id TEXT PRIMARY KEY, name TEXT NOT NULL, description TEXT DEFAULT '',
	  category TEXT NOT NULL, image TEXT DEFAULT '', images_json TEXT DEFAULT '[]',
	  base_sku TEXT UNIQUE, base_price NUMERIC DEFAULT 0, in_stock INTEGER DEFAULT 1,
	  is_on_sale INTEGER DEFAULT 0, rating NUMERIC DEFAULT 0, review_count INTEGER DEFAULT 0,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT DEFAULT CURRENT_TIMESTAMP);
	CREATE TABLE variants(id TEXT PRIMARY KEY, product_id TEXT NOT NULL, name TEXT NOT NULL,
	  price NUMERIC NOT NULL, original_price NUMERIC DEFAULT 0, sku TEXT DEFAULT '',
	  in_stock INTEGER DEFAULT 1, stock_qty INTEGER DEFAULT 0 CHECK (stock_qty >= 0),
	  is_default INTEGER DEFAULT 0, position INTEGER DEFAULT 0);
	CREATE TABLE carts(session_id TEXT PRIMARY KEY, updated_at TEXT DEFAULT CURRENT_TIMESTAMP);
	CREATE TABLE cart_items(session_id TEXT NOT NULL, product_id TEXT NOT NULL,
	  variant_id TEXT NOT NULL DEFAULT '', qty INTEGER NOT NULL CHECK (qty >= 1),
	  added_at TEXT DEFAULT CURRENT_TIMESTAMP, PRIMARY KEY(session_id, product_id, variant_id));
	CREATE TABLE orders(id TEXT PRIMARY KEY, order_number TEXT NOT NULL UNIQUE,
	  client_name TEXT NOT NULL, client_email TEXT NOT NULL, client_address TEXT NOT NULL,
	  client_phone TEXT NOT NULL, total NUMERIC NOT NULL, status TEXT NOT NULL DEFAULT 'pending',
	  notes TEXT DEFAULT '', created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT DEFAULT CURRENT_TIMESTAMP);
	CREATE TABLE order_items(order_id TEXT NOT NULL, product_id TEXT NOT NULL, name TEXT NOT NULL,
	  price NUMERIC NOT NULL, qty INTEGER NOT NULL, image TEXT DEFAULT '',
	  variant_id TEXT DEFAULT '', variant_name TEXT DEFAULT '',
	  PRIMARY KEY(order_id, product_id, variant_id));
	CREATE TABLE admins(id TEXT PRIMARY KEY, name TEXT NOT NULL, email TEXT NOT NULL UNIQUE,
	  password_hash TEXT NOT NULL, is_active INTEGER DEFAULT 1, last_login TEXT DEFAULT '',
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP);
	CREATE TABLE promotions(id TEXT PRIMARY KEY, title TEXT NOT NULL, subtitle TEXT DEFAULT '',
	  image TEXT DEFAULT '', cta_text TEXT DEFAULT '', cta_link TEXT DEFAULT '',
	  is_active INTEGER DEFAULT 1, sort_order INTEGER DEFAULT 1, start_date TEXT DEFAULT '',
	  end_date TEXT DEFAULT '', created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT DEFAULT CURRENT_TIMESTAMP);

	INSERT INTO categories(id,title) VALUES ('cat-mugs','Mugs');
	INSERT INTO products(id,name,category,image) VALUES ('prd-cup','Stoneware Cup','Mugs','/products/cup.jpg');
	INSERT INTO variants(id,product_id,name,price,in_stock,stock_qty,is_default,position) VALUES
	  ('var-small','prd-cup','Small',10.00,1,5,1,0),
	  ('var-large','prd-cup','Large',20.00,1,2,0,1);
	INSERT INTO products(id,name,category,base_price,in_stock) VALUES ('prd-gift','Gift Wrap','Mugs',7.50,1);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	return db
}

func newCartService(t *testing.T) (*services.CartService, *sqlx.DB) {
	t.Helper()
	db := memdb(t)
	return services.NewCartService(repos.NewCartRepo(db), repos.NewProductRepo(db)), db
}

func TestAddMergesAndRechecksStock(t *testing.T) {
	svc, _ := newCartService(t)
	sid := "sess-1"

	// stock is 5: first add of 3 passes
	if err := svc.AddItem(sid, "prd-cup", "var-small", 3); err != nil {
		t.Fatal(err)
	}
	// second add of 3 would accumulate to 6 > 5 even though 3 <= 5 on its own
	err := svc.AddItem(sid, "prd-cup", "var-small", 3)
	if domain.ErrorCode(err) != domain.EINSUFFICIENT {
		t.Fatalf("want insufficient_stock, got %v", err)
	}

	cv, err := svc.View(sid)
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Items) != 1 || cv.Items[0].Quantity != 3 {
		t.Fatalf("stored quantity must stay 3 after rejected merge: %+v", cv.Items)
	}
}

func TestAddSequentialMergeWithinStock(t *testing.T) {
	svc, _ := newCartService(t)
	sid := "sess-2"

	if err := svc.AddItem(sid, "prd-cup", "var-small", 2); err != nil {
		t.Fatal(err)
	}
	if err := svc.AddItem(sid, "prd-cup", "var-small", 3); err != nil {
		t.Fatal(err)
	}
	cv, _ := svc.View(sid)
	if len(cv.Items) != 1 || cv.Items[0].Quantity != 5 {
		t.Fatalf("adds with the same key must merge into one line: %+v", cv.Items)
	}
}

func TestAddValidation(t *testing.T) {
	svc, _ := newCartService(t)

	if err := svc.AddItem("s", "prd-cup", "var-small", 0); domain.ErrorCode(err) != domain.EINVALID {
		t.Fatalf("zero qty must be invalid, got %v", err)
	}
	if err := svc.AddItem("s", "prd-none", "", 1); domain.ErrorCode(err) != domain.ENOTFOUND {
		t.Fatalf("unknown product must be not_found, got %v", err)
	}
	if err := svc.AddItem("s", "prd-cup", "var-none", 1); domain.ErrorCode(err) != domain.ENOTFOUND {
		t.Fatalf("unknown variant must be not_found, got %v", err)
	}
	if err := svc.AddItem("s", "prd-cup", "var-large", 3); domain.ErrorCode(err) != domain.EINSUFFICIENT {
		t.Fatalf("requesting 3 of 2 must be insufficient_stock, got %v", err)
	}
}

func TestAddOutOfStockVariant(t *testing.T) {
	svc, db := newCartService(t)
	db.MustExec(`UPDATE variants SET stock_qty=0, in_stock=0 WHERE id='var-large'`)

	if err := svc.AddItem("s", "prd-cup", "var-large", 1); domain.ErrorCode(err) != domain.EOUTOFSTOCK {
		t.Fatalf("want out_of_stock, got %v", err)
	}
}

func TestAddWithoutVariantUsesDefault(t *testing.T) {
	svc, _ := newCartService(t)
	sid := "sess-3"

	if err := svc.AddItem(sid, "prd-cup", "", 4); err != nil {
		t.Fatal(err)
	}
	cv, _ := svc.View(sid)
	if len(cv.Items) != 1 || cv.Items[0].Variant == nil || cv.Items[0].Variant.ID != "var-small" {
		t.Fatalf("default variant should price the line: %+v", cv.Items)
	}
	if cv.Total != 40.00 {
		t.Fatalf("want total 40.00, got %v", cv.Total)
	}
	// default variant stock is 5; a fifth unit fits, a sixth does not
	if err := svc.AddItem(sid, "prd-cup", "", 1); err != nil {
		t.Fatal(err)
	}
	if err := svc.AddItem(sid, "prd-cup", "", 1); domain.ErrorCode(err) != domain.EINSUFFICIENT {
		t.Fatalf("merge past default-variant stock must fail, got %v", err)
	}
}

func TestAddVariantlessLegacyProduct(t *testing.T) {
	svc, db := newCartService(t)
	sid := "sess-4"

	if err := svc.AddItem(sid, "prd-gift", "", 3); err != nil {
		t.Fatal(err)
	}
	cv, _ := svc.View(sid)
	if len(cv.Items) != 1 || cv.Items[0].Variant != nil {
		t.Fatalf("legacy line must carry no variant: %+v", cv.Items)
	}
	if cv.Items[0].Price != 7.50 || cv.Total != 22.50 {
		t.Fatalf("legacy line prices at base price: %+v", cv)
	}

	db.MustExec(`UPDATE products SET in_stock=0 WHERE id='prd-gift'`)
	if err := svc.AddItem(sid, "prd-gift", "", 1); domain.ErrorCode(err) != domain.EOUTOFSTOCK {
		t.Fatalf("product flag gates the legacy path, got %v", err)
	}
}

func TestUpdateItemRevalidatesStock(t *testing.T) {
	svc, _ := newCartService(t)
	sid := "sess-5"

	if err := svc.AddItem(sid, "prd-cup", "var-small", 2); err != nil {
		t.Fatal(err)
	}
	if err := svc.UpdateItem(sid, "prd-cup", "var-small", 5); err != nil {
		t.Fatal(err)
	}
	if err := svc.UpdateItem(sid, "prd-cup", "var-small", 9); domain.ErrorCode(err) != domain.EINSUFFICIENT {
		t.Fatalf("overwrite past stock must fail, got %v", err)
	}
	if err := svc.UpdateItem(sid, "prd-cup", "var-small", -1); domain.ErrorCode(err) != domain.EINVALID {
		t.Fatalf("negative qty must be invalid, got %v", err)
	}
	if err := svc.UpdateItem(sid, "prd-cup", "var-large", 1); domain.ErrorCode(err) != domain.ENOTFOUND {
		t.Fatalf("updating an absent line must be not_found, got %v", err)
	}

	// zero removes the line
	if err := svc.UpdateItem(sid, "prd-cup", "var-small", 0); err != nil {
		t.Fatal(err)
	}
	cv, _ := svc.View(sid)
	if len(cv.Items) != 0 {
		t.Fatalf("line should be gone: %+v", cv.Items)
	}
}

func TestRemoveFromEmptyCartIsNotFound(t *testing.T) {
	svc, _ := newCartService(t)
	err := svc.RemoveItem("sess-never-seen", "prd-cup", "var-small")
	if domain.ErrorCode(err) != domain.ENOTFOUND {
		t.Fatalf("want not_found, got %v", err)
	}
}

func TestClearAlwaysSucceeds(t *testing.T) {
	svc, _ := newCartService(t)
	if err := svc.Clear("sess-fresh"); err != nil {
		t.Fatal(err)
	}
	if err := svc.AddItem("sess-fresh", "prd-cup", "var-small", 1); err != nil {
		t.Fatal(err)
	}
	if err := svc.Clear("sess-fresh"); err != nil {
		t.Fatal(err)
	}
	cv, _ := svc.View("sess-fresh")
	if len(cv.Items) != 0 || cv.Total != 0 || cv.ItemCount != 0 {
		t.Fatalf("cleared cart must be empty: %+v", cv)
	}
}

func TestViewRecomputesFromCurrentCatalog(t *testing.T) {
	svc, db := newCartService(t)
	sid := "sess-6"

	if err := svc.AddItem(sid, "prd-cup", "var-small", 3); err != nil {
		t.Fatal(err)
	}
	if err := svc.AddItem(sid, "prd-cup", "var-large", 1); err != nil {
		t.Fatal(err)
	}

	cv, _ := svc.View(sid)
	if cv.Total != 50.00 || cv.ItemCount != 4 {
		t.Fatalf("want total=50.00 itemCount=4, got %+v", cv)
	}

	// price change lands on the very next read, never cached
	db.MustExec(`UPDATE variants SET price=12.00 WHERE id='var-small'`)
	cv, _ = svc.View(sid)
	if cv.Total != 56.00 {
		t.Fatalf("view must reprice fresh, got %v", cv.Total)
	}
}

func TestViewDropsDeletedProduct(t *testing.T) {
	svc, db := newCartService(t)
	sid := "sess-7"

	if err := svc.AddItem(sid, "prd-cup", "var-small", 2); err != nil {
		t.Fatal(err)
	}
	if err := svc.AddItem(sid, "prd-gift", "", 1); err != nil {
		t.Fatal(err)
	}

	db.MustExec(`DELETE FROM variants WHERE product_id='prd-cup'`)
	db.MustExec(`DELETE FROM products WHERE id='prd-cup'`)

	cv, err := svc.View(sid)
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Items) != 1 || cv.Items[0].ProductID != "prd-gift" {
		t.Fatalf("deleted product's line must be dropped silently: %+v", cv.Items)
	}
	if cv.Total != 7.50 || cv.ItemCount != 1 {
		t.Fatalf("totals must reflect surviving lines only: %+v", cv)
	}
}
