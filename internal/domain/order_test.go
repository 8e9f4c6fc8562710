package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		allowed  bool
	}{
		{OrderPending, OrderConfirmed, true},
		{OrderPending, OrderCancelled, true},
		{OrderPending, OrderShipped, false},
		{OrderPending, OrderDelivered, false},
		{OrderConfirmed, OrderShipped, true},
		{OrderConfirmed, OrderCancelled, true},
		{OrderConfirmed, OrderDelivered, false},
		{OrderShipped, OrderDelivered, true},
		{OrderShipped, OrderCancelled, false},
		{OrderDelivered, OrderCancelled, false},
		{OrderCancelled, OrderPending, false},
		{OrderDelivered, OrderDelivered, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []OrderStatus{OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled} {
		assert.True(t, ValidStatus(s))
	}
	assert.False(t, ValidStatus("refunded"))
	assert.False(t, ValidStatus(""))
}

func TestOrderItemVariantSnapshot(t *testing.T) {
	withVariant := OrderItem{VariantID: "v-1", VariantName: "250g"}
	snap := withVariant.Variant()
	assert.NotNil(t, snap)
	assert.Equal(t, "v-1", snap.VariantID)
	assert.Equal(t, "250g", snap.Name)

	assert.Nil(t, OrderItem{}.Variant())
}

func TestDefaultVariantSelection(t *testing.T) {
	p := Product{Variants: []Variant{
		{ID: "a"},
		{ID: "b", IsDefault: true},
		{ID: "c"},
	}}
	assert.Equal(t, "b", p.DefaultVariant().ID)

	// no flagged default falls back to first in list order
	p.Variants[1].IsDefault = false
	assert.Equal(t, "a", p.DefaultVariant().ID)

	assert.Nil(t, (&Product{}).DefaultVariant())
}
