package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CouponPercentage = "percentage"
	CouponFixed      = "fixed"
)

type Coupon struct {
	ID                 int             `json:"id"`
	Code               string          `json:"code"`
	Description        string          `json:"description"`
	Type               string          `json:"type"`
	Value              decimal.Decimal `json:"value"`
	MinimumOrderAmount decimal.Decimal `json:"minimum_order_amount"`
	UsageLimit         int             `json:"usage_limit"`
	UsedCount          int             `json:"used_count"`
	StartDate          time.Time       `json:"start_date"`
	EndDate            time.Time       `json:"end_date"`
	IsActive           bool            `json:"is_active"`
	CreatedAt          time.Time       `json:"created_at"`
}

// Applicable reports whether the coupon may be redeemed against subtotal at now.
// A usage limit of zero means unlimited.
func (c Coupon) Applicable(subtotal decimal.Decimal, now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if now.Before(c.StartDate) || now.After(c.EndDate) {
		return false
	}
	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return false
	}
	return subtotal.GreaterThanOrEqual(c.MinimumOrderAmount)
}

// Discount never exceeds the subtotal it is applied to.
func (c Coupon) Discount(subtotal decimal.Decimal) decimal.Decimal {
	var d decimal.Decimal
	switch c.Type {
	case CouponPercentage:
		d = subtotal.Mul(c.Value).Div(decimal.NewFromInt(100)).Round(2)
	case CouponFixed:
		d = c.Value
	default:
		return decimal.Zero
	}
	if d.GreaterThan(subtotal) {
		return subtotal
	}
	return d
}
