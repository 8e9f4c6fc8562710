package services

import (
	"database/sql"

	"velora/internal/domain"
	"velora/internal/repos"
)

type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

// AddItem validates the product/variant against current stock and merges the
// quantity into the session's cart. The merge is a bounded atomic upsert in
// the store: if the accumulated quantity would exceed stock the add is
// rejected and the stored quantity stays untouched, even when each individual
// add was within stock on its own.
func (s *CartService) AddItem(sessionID, productID, variantID string, qty int) error {
	if qty < 1 {
		return domain.ErrInvalidQuantity
	}
	p, err := s.Prods.Get(productID)
	if err == sql.ErrNoRows {
		return domain.Errorf(domain.ENOTFOUND, "product %s not found", productID)
	}
	if err != nil {
		return err
	}
	v, err := ResolveVariant(&p, variantID)
	if err != nil {
		return err
	}
	if err := CheckPurchasable(&p, v, qty); err != nil {
		return err
	}
	if err := s.Carts.Ensure(sessionID); err != nil {
		return err
	}

	if v == nil {
		// Variantless legacy product: no stock bound to enforce.
		return s.Carts.AddUnbounded(sessionID, productID, qty)
	}
	ok, err := s.Carts.AddBounded(sessionID, productID, variantID, qty, v.StockQuantity)
	if err != nil {
		return err
	}
	if !ok {
		have, qerr := s.Carts.Qty(sessionID, productID, variantID)
		if qerr != nil {
			return qerr
		}
		return domain.Errorf(domain.EINSUFFICIENT,
			"cannot add %d more: only %d available and %d already in cart", qty, v.StockQuantity, have)
	}
	return nil
}

// UpdateItem overwrites a line's quantity. Zero removes the line; the new
// quantity is re-validated against current stock before it is stored.
func (s *CartService) UpdateItem(sessionID, productID, variantID string, qty int) error {
	if qty < 0 {
		return domain.ErrInvalidQuantity
	}
	if qty == 0 {
		return s.RemoveItem(sessionID, productID, variantID)
	}

	p, err := s.Prods.Get(productID)
	if err == nil {
		v, verr := ResolveVariant(&p, variantID)
		if verr != nil {
			return verr
		}
		if cerr := CheckPurchasable(&p, v, qty); cerr != nil {
			return cerr
		}
	} else if err != sql.ErrNoRows {
		return err
	}

	ok, err := s.Carts.SetQty(sessionID, productID, variantID, qty)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrCartLineNotFound
	}
	return nil
}

func (s *CartService) RemoveItem(sessionID, productID, variantID string) error {
	ok, err := s.Carts.Remove(sessionID, productID, variantID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrCartLineNotFound
	}
	return nil
}

func (s *CartService) Clear(sessionID string) error {
	return s.Carts.Clear(sessionID)
}

// CartLine is a fully resolved view line carrying fresh catalog snapshots.
type CartLine struct {
	ProductID string           `json:"productId"`
	VariantID string           `json:"variantId,omitempty"`
	Quantity  int              `json:"quantity"`
	AddedAt   string           `json:"addedAt"`
	Product   CartLineProduct  `json:"product"`
	Variant   *CartLineVariant `json:"variant"`
	Price     float64          `json:"price"`
	ItemTotal float64          `json:"itemTotal"`
}

type CartLineProduct struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Image    string `json:"image"`
	Category string `json:"category"`
}

type CartLineVariant struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	InStock bool    `json:"inStock"`
}

type CartView struct {
	Items     []CartLine `json:"items"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"itemCount"`
}

// View re-resolves every stored line against the catalog at read time.
// Lines whose product has been deleted are dropped from the view without
// failing the whole cart. Nothing here is ever persisted or cached.
func (s *CartService) View(sessionID string) (CartView, error) {
	stored, err := s.Carts.Items(sessionID)
	if err != nil {
		return CartView{}, err
	}

	view := CartView{Items: []CartLine{}}
	lineTotals := []float64{}
	for _, it := range stored {
		p, err := s.Prods.Get(it.ProductID)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return CartView{}, err
		}
		v, err := ResolveVariant(&p, it.VariantID)
		if err != nil {
			// explicit variant no longer on the product: drop like a dead line
			continue
		}

		price := UnitPrice(&p, v)
		line := CartLine{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
			AddedAt:   it.AddedAt,
			Product:   CartLineProduct{ID: p.ID, Name: p.Name, Image: p.Image, Category: p.Category},
			Price:     price,
			ItemTotal: LineTotal(price, it.Quantity),
		}
		if v != nil {
			line.Variant = &CartLineVariant{ID: v.ID, Name: v.Name, Price: v.Price, InStock: v.InStock}
		}
		view.Items = append(view.Items, line)
		view.ItemCount += it.Quantity
		lineTotals = append(lineTotals, line.ItemTotal)
	}
	view.Total = SumTotals(lineTotals)
	return view, nil
}
