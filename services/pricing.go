package services

import (
	"time"

	"storefront/models"

	"github.com/shopspring/decimal"
)

// Pricing is the single source of truth for checkout totals.
type Pricing struct {
	ShippingFee           decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	TaxRate               decimal.Decimal
}

func NewPricing(shippingFee, freeShippingThreshold, taxRate float64) Pricing {
	return Pricing{
		ShippingFee:           decimal.NewFromFloat(shippingFee),
		FreeShippingThreshold: decimal.NewFromFloat(freeShippingThreshold),
		TaxRate:               decimal.NewFromFloat(taxRate),
	}
}

type Totals struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Quote computes subtotal, shipping, tax, discount and total for the lines.
// Tax is charged on the undiscounted subtotal. A nil coupon or one that is
// not applicable at now gives no discount.
func (p Pricing) Quote(items []models.CartItem, coupon *models.Coupon, now time.Time) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.LineTotal())
	}

	shipping := decimal.Zero
	if subtotal.LessThan(p.FreeShippingThreshold) {
		shipping = p.ShippingFee
	}

	tax := subtotal.Mul(p.TaxRate).Round(2)

	discount := decimal.Zero
	if coupon != nil && coupon.Applicable(subtotal, now) {
		discount = coupon.Discount(subtotal)
	}

	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Discount: discount,
		Total:    subtotal.Add(shipping).Add(tax).Sub(discount),
	}
}
