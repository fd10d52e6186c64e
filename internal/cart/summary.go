package cart

import (
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/shopspring/decimal"
)

type ShippingPolicy struct {
	// Subtotals strictly above this ship free
	FreeShippingThreshold decimal.Decimal
	FlatFee               decimal.Decimal
}

func DefaultShippingPolicy() ShippingPolicy {
	return ShippingPolicy{
		FreeShippingThreshold: decimal.RequireFromString("50.00"),
		FlatFee:               decimal.RequireFromString("9.99"),
	}
}

// ShippingFor returns the fee for a non-empty cart with the given subtotal.
func (p ShippingPolicy) ShippingFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(p.FreeShippingThreshold) {
		return decimal.Zero
	}
	return p.FlatFee
}

// Summarize totals a cart. An empty cart owes nothing, shipping included.
func Summarize(items []model.CartItem, policy ShippingPolicy) model.CartSummary {
	if items == nil {
		items = []model.CartItem{}
	}

	summary := model.CartSummary{
		Items:                items,
		Subtotal:             decimal.Zero,
		Shipping:             decimal.Zero,
		AmountToFreeShipping: decimal.Zero,
	}
	for i := range items {
		summary.ItemCount += items[i].Quantity
		summary.Subtotal = summary.Subtotal.Add(items[i].LineTotal())
	}

	if len(items) > 0 {
		summary.Shipping = policy.ShippingFor(summary.Subtotal)
	}
	if summary.Subtotal.LessThan(policy.FreeShippingThreshold) {
		summary.AmountToFreeShipping = policy.FreeShippingThreshold.Sub(summary.Subtotal)
	}
	summary.Total = summary.Subtotal.Add(summary.Shipping)
	return summary
}
