package services

import (
	"github.com/shopspring/decimal"

	"velora/internal/domain"
)

// Variant resolution and purchasability live here so every cart read, cart
// mutation and order placement applies the same rules against a fresh catalog
// snapshot. Nothing in this file caches price or stock: both are mutated
// out-of-band by concurrent checkouts and admin edits.

// ResolveVariant picks the variant a cart or order operation prices against.
// An explicit id must exist on the product. Without one, the default variant
// wins, falling back to the first in list order. A variantless legacy product
// resolves to nil; callers use the product-level flags instead.
func ResolveVariant(p *domain.Product, variantID string) (*domain.Variant, error) {
	if variantID != "" {
		for i := range p.Variants {
			if p.Variants[i].ID == variantID {
				return &p.Variants[i], nil
			}
		}
		return nil, domain.Errorf(domain.ENOTFOUND, "variant %s not found on product %s", variantID, p.ID)
	}
	return p.DefaultVariant(), nil
}

// CheckPurchasable verifies a requested quantity can be bought right now.
// For a resolved variant: flagged in stock, positive stock, and the request
// within it. For a variantless product only the product flag is consulted —
// its capacity is not quantity-tracked.
func CheckPurchasable(p *domain.Product, v *domain.Variant, qty int) error {
	if v == nil {
		if !p.InStock {
			return domain.Errorf(domain.EOUTOFSTOCK, "product %s is out of stock", p.Name)
		}
		return nil
	}
	if !v.InStock || v.StockQuantity <= 0 {
		return domain.Errorf(domain.EOUTOFSTOCK, "%s (%s) is out of stock", p.Name, v.Name)
	}
	if qty > v.StockQuantity {
		return domain.Errorf(domain.EINSUFFICIENT,
			"only %d of %s (%s) available, requested %d", v.StockQuantity, p.Name, v.Name, qty)
	}
	return nil
}

// UnitPrice is the effective price for a resolved line. Legacy variantless
// records fall back to the product base price (0 when absent).
func UnitPrice(p *domain.Product, v *domain.Variant) float64 {
	if v != nil {
		return v.Price
	}
	return p.BasePrice
}

// LineTotal computes price*qty exactly, rounded to cents.
func LineTotal(price float64, qty int) float64 {
	return decimal.NewFromFloat(price).
		Mul(decimal.NewFromInt(int64(qty))).
		Round(2).InexactFloat64()
}

// SumTotals adds already-rounded line totals and rounds the result to cents.
func SumTotals(lineTotals []float64) float64 {
	sum := decimal.Zero
	for _, t := range lineTotals {
		sum = sum.Add(decimal.NewFromFloat(t))
	}
	return sum.Round(2).InexactFloat64()
}
