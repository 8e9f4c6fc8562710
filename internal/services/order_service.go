package services

import (
	"database/sql"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"velora/internal/domain"
	"velora/internal/repos"
)

type OrderService struct {
	Orders *repos.OrderRepo
	Prods  *repos.ProductRepo
}

func NewOrderService(orders *repos.OrderRepo, prods *repos.ProductRepo) *OrderService {
	return &OrderService{Orders: orders, Prods: prods}
}

type CustomerInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// OrderInput is one requested line. Price is what the client believes the
// unit costs; the authoritative price is re-derived from the catalog and the
// declared value only feeds the audit log.
type OrderInput struct {
	ProductID string  `json:"productId"`
	VariantID string  `json:"variantId,omitempty"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Place converts an item list into a durable order. Every line is resolved
// against the current catalog, priced server-side and snapshotted; the order
// row and all guarded stock decrements commit in a single transaction, so a
// line that cannot be satisfied aborts the whole order.
//
// Place never touches the cart store; the checkout handler clears the cart
// after a successful return.
func (s *OrderService) Place(customer CustomerInfo, items []OrderInput, declaredTotal float64) (domain.Order, error) {
	if err := validateCustomer(customer); err != nil {
		return domain.Order{}, err
	}
	if len(items) == 0 {
		return domain.Order{}, domain.Errorf(domain.EINVALID, "order has no items")
	}
	items = mergeDuplicates(items)

	order := domain.Order{
		ID:            uuid.NewString(),
		OrderNumber:   newOrderNumber(),
		ClientName:    strings.TrimSpace(customer.FirstName + " " + customer.LastName),
		ClientEmail:   strings.ToLower(strings.TrimSpace(customer.Email)),
		ClientAddress: strings.TrimSpace(customer.Address),
		ClientPhone:   strings.TrimSpace(customer.Phone),
		Status:        domain.OrderPending,
	}

	stock := make([]repos.StockLine, 0, len(items))
	lineTotals := make([]float64, 0, len(items))
	for _, in := range items {
		if in.ProductID == "" || in.Quantity < 1 {
			return domain.Order{}, domain.Errorf(domain.EINVALID, "invalid product data")
		}
		p, err := s.Prods.Get(in.ProductID)
		if err == sql.ErrNoRows {
			return domain.Order{}, domain.Errorf(domain.ENOTFOUND, "product with ID %s not found", in.ProductID)
		}
		if err != nil {
			return domain.Order{}, err
		}
		v, err := ResolveVariant(&p, in.VariantID)
		if err != nil {
			return domain.Order{}, err
		}
		if in.VariantID != "" && !v.InStock {
			return domain.Order{}, domain.Errorf(domain.EOUTOFSTOCK, "variant %s is out of stock", v.Name)
		}

		item := domain.OrderItem{
			OrderID:   order.ID,
			ProductID: p.ID,
			Name:      p.Name,
			Price:     UnitPrice(&p, v),
			Quantity:  in.Quantity,
			Image:     p.Image,
		}
		line := repos.StockLine{ProductID: p.ID, Qty: in.Quantity}
		if v != nil {
			// The resolved default is decremented when no variant was named.
			line.VariantID = v.ID
			if in.VariantID != "" {
				item.VariantID, item.VariantName = v.ID, v.Name
			}
		}
		order.Items = append(order.Items, item)
		stock = append(stock, line)
		lineTotals = append(lineTotals, LineTotal(item.Price, item.Quantity))
	}
	order.Total = SumTotals(lineTotals)

	if err := s.Orders.Create(&order, stock); err != nil {
		return domain.Order{}, err
	}
	_ = declaredTotal // handlers audit-log declared vs computed totals
	return order, nil
}

// UpdateStatus moves an order through its lifecycle. Only the legal
// transitions pending->confirmed/cancelled, confirmed->shipped/cancelled and
// shipped->delivered are accepted; cancellation does not restock.
func (s *OrderService) UpdateStatus(id string, status domain.OrderStatus) (domain.Order, error) {
	if !domain.ValidStatus(status) {
		return domain.Order{}, domain.Errorf(domain.EINVALID, "invalid status %q", status)
	}
	o, err := s.Orders.Get(id)
	if err == sql.ErrNoRows {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	if !domain.CanTransition(o.Status, status) {
		return domain.Order{}, domain.Errorf(domain.EINVALID,
			"cannot move order from %s to %s", o.Status, status)
	}
	ok, err := s.Orders.SetStatus(o.ID, o.Status, status)
	if err != nil {
		return domain.Order{}, err
	}
	if !ok {
		// status changed concurrently; the caller can re-read and retry
		return domain.Order{}, domain.Errorf(domain.EINVALID, "order status changed, retry")
	}
	o.Status = status
	return o, nil
}

func (s *OrderService) Get(ref string) (domain.Order, error) {
	o, err := s.Orders.Get(ref)
	if err == sql.ErrNoRows {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return o, err
}

func validateCustomer(c CustomerInfo) error {
	if strings.TrimSpace(c.FirstName) == "" || strings.TrimSpace(c.LastName) == "" ||
		strings.TrimSpace(c.Email) == "" || strings.TrimSpace(c.Phone) == "" ||
		strings.TrimSpace(c.Address) == "" {
		return domain.Errorf(domain.EINVALID, "missing required customer information")
	}
	return nil
}

// mergeDuplicates folds repeated (productId, variantId) lines into one so the
// snapshot rows stay unique per key.
func mergeDuplicates(items []OrderInput) []OrderInput {
	idx := map[[2]string]int{}
	out := make([]OrderInput, 0, len(items))
	for _, in := range items {
		key := [2]string{in.ProductID, in.VariantID}
		if i, ok := idx[key]; ok {
			out[i].Quantity += in.Quantity
			continue
		}
		idx[key] = len(out)
		out = append(out, in)
	}
	return out
}

const orderNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func newOrderNumber() string {
	b := make([]byte, 5)
	for i := range b {
		b[i] = orderNumberAlphabet[rand.Intn(len(orderNumberAlphabet))]
	}
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), b)
}
