package domain

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderShipped, OrderCancelled},
	OrderShipped:   {OrderDelivered},
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from one status to the
// next. Delivered and cancelled are terminal. Cancelling does not restock.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderItem is an immutable snapshot of a purchased line, captured at
// placement time. Later catalog edits never change it.
type OrderItem struct {
	OrderID     string  `db:"order_id" json:"-"`
	ProductID   string  `db:"product_id" json:"productId"`
	Name        string  `db:"name" json:"name"`
	Price       float64 `db:"price" json:"price"`
	Quantity    int     `db:"qty" json:"quantity"`
	Image       string  `db:"image" json:"image"`
	VariantID   string  `db:"variant_id" json:"-"`
	VariantName string  `db:"variant_name" json:"-"`
}

// VariantSnapshot mirrors the wire shape: null when the line had no variant.
type VariantSnapshot struct {
	VariantID string `json:"variantId"`
	Name      string `json:"name"`
}

func (i OrderItem) Variant() *VariantSnapshot {
	if i.VariantID == "" {
		return nil
	}
	return &VariantSnapshot{VariantID: i.VariantID, Name: i.VariantName}
}

type Order struct {
	ID            string      `db:"id" json:"id"`
	OrderNumber   string      `db:"order_number" json:"orderNumber"`
	ClientName    string      `db:"client_name" json:"clientName"`
	ClientEmail   string      `db:"client_email" json:"clientEmail"`
	ClientAddress string      `db:"client_address" json:"clientAddress"`
	ClientPhone   string      `db:"client_phone" json:"clientPhone"`
	Total         float64     `db:"total" json:"total"`
	Status        OrderStatus `db:"status" json:"status"`
	Notes         string      `db:"notes" json:"notes,omitempty"`
	CreatedAt     string      `db:"created_at" json:"createdAt"`
	UpdatedAt     string      `db:"updated_at" json:"updatedAt"`

	Items []OrderItem `db:"-" json:"products"`
}
