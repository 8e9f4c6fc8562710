package domain

type Category struct {
	ID          string `db:"id" json:"id"`
	Title       string `db:"title" json:"title"`
	Image       string `db:"image" json:"image"`
	Description string `db:"description" json:"description"`
	IsActive    bool   `db:"is_active" json:"isActive"`
	SortOrder   int    `db:"sort_order" json:"order"`
	CreatedAt   string `db:"created_at" json:"createdAt"`
	UpdatedAt   string `db:"updated_at" json:"updatedAt"`
}

// Variant is a purchasable configuration of a product. It is created and
// deleted only through product writes; its ID is stable for its lifetime.
type Variant struct {
	ID            string  `db:"id" json:"id"`
	ProductID     string  `db:"product_id" json:"-"`
	Name          string  `db:"name" json:"name"`
	Price         float64 `db:"price" json:"price"`
	OriginalPrice float64 `db:"original_price" json:"originalPrice,omitempty"`
	SKU           string  `db:"sku" json:"sku,omitempty"`
	InStock       bool    `db:"in_stock" json:"inStock"`
	StockQuantity int     `db:"stock_qty" json:"stockQuantity"`
	IsDefault     bool    `db:"is_default" json:"isDefault"`
	Position      int     `db:"position" json:"-"`
}

type Product struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description"`
	Category    string  `db:"category" json:"category"` // category title, not an FK
	Image       string  `db:"image" json:"image"`
	ImagesJSON  string  `db:"images_json" json:"-"`
	BaseSKU     string  `db:"base_sku" json:"baseSku,omitempty"`
	BasePrice   float64 `db:"base_price" json:"basePrice"` // legacy variantless records only
	InStock     bool    `db:"in_stock" json:"inStock"`     // derived: OR of variant flags
	IsOnSale    bool    `db:"is_on_sale" json:"isOnSale"`
	Rating      float64 `db:"rating" json:"rating"`
	ReviewCount int     `db:"review_count" json:"reviewCount"`
	CreatedAt   string  `db:"created_at" json:"createdAt"`
	UpdatedAt   string  `db:"updated_at" json:"updatedAt"`

	Variants []Variant `db:"-" json:"variants"`
}

// DefaultVariant returns the variant flagged default, falling back to the
// first in position order. Nil for a variantless (legacy) product.
func (p *Product) DefaultVariant() *Variant {
	if len(p.Variants) == 0 {
		return nil
	}
	for i := range p.Variants {
		if p.Variants[i].IsDefault {
			return &p.Variants[i]
		}
	}
	return &p.Variants[0]
}

type CartItem struct {
	SessionID string `db:"session_id" json:"-"`
	ProductID string `db:"product_id" json:"productId"`
	VariantID string `db:"variant_id" json:"variantId,omitempty"` // '' when line has no explicit variant
	Quantity  int    `db:"qty" json:"quantity"`
	AddedAt   string `db:"added_at" json:"addedAt"`
}

type Promotion struct {
	ID        string `db:"id" json:"id"`
	Title     string `db:"title" json:"title"`
	Subtitle  string `db:"subtitle" json:"subtitle"`
	Image     string `db:"image" json:"image"`
	CTAText   string `db:"cta_text" json:"ctaText"`
	CTALink   string `db:"cta_link" json:"ctaLink"`
	IsActive  bool   `db:"is_active" json:"isActive"`
	SortOrder int    `db:"sort_order" json:"order"`
	StartDate string `db:"start_date" json:"startDate"`
	EndDate   string `db:"end_date" json:"endDate,omitempty"`
	CreatedAt string `db:"created_at" json:"createdAt"`
	UpdatedAt string `db:"updated_at" json:"updatedAt"`
}

type Admin struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Email     string `db:"email" json:"email"`
	Hash      string `db:"password_hash" json:"-"`
	IsActive  bool   `db:"is_active" json:"isActive"`
	LastLogin string `db:"last_login" json:"lastLogin,omitempty"`
	CreatedAt string `db:"created_at" json:"createdAt"`
}
