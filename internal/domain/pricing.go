package domain

import (
	"github.com/shopspring/decimal"
)

// Pricing holds the constants used to derive totals from a subtotal.
type Pricing struct {
	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	ShippingFee           decimal.Decimal
}

func DefaultPricing() Pricing {
	return Pricing{
		TaxRate:               decimal.RequireFromString("0.08"),
		FreeShippingThreshold: decimal.RequireFromString("50.00"),
		ShippingFee:           decimal.RequireFromString("5.99"),
	}
}

type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	Shipping   decimal.Decimal `json:"shipping"`
	GrandTotal decimal.Decimal `json:"total"`
}

// FreeShipping reports whether the shipping line is zero.
func (t Totals) FreeShipping() bool {
	return t.Shipping.IsZero()
}

// Compute derives tax, shipping and grand total. Tax is rounded to cents.
func (p Pricing) Compute(subtotal decimal.Decimal) Totals {
	tax := subtotal.Mul(p.TaxRate).Round(2)
	shipping := p.ShippingFee
	if subtotal.GreaterThanOrEqual(p.FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	return Totals{
		Subtotal:   subtotal,
		Tax:        tax,
		Shipping:   shipping,
		GrandTotal: subtotal.Add(tax).Add(shipping),
	}
}

// FormatMoney renders an amount as "$12.34".
func FormatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
