package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCompute_BelowFreeShipping(t *testing.T) {
	totals := DefaultPricing().Compute(money("40.00"))

	assert.True(t, totals.Tax.Equal(money("3.20")), "tax = %s", totals.Tax)
	assert.True(t, totals.Shipping.Equal(money("5.99")), "shipping = %s", totals.Shipping)
	assert.True(t, totals.GrandTotal.Equal(money("49.19")), "total = %s", totals.GrandTotal)
	assert.False(t, totals.FreeShipping())
}

func TestCompute_FreeShipping(t *testing.T) {
	totals := DefaultPricing().Compute(money("60.00"))

	assert.True(t, totals.Tax.Equal(money("4.80")), "tax = %s", totals.Tax)
	assert.True(t, totals.Shipping.IsZero())
	assert.True(t, totals.GrandTotal.Equal(money("64.80")), "total = %s", totals.GrandTotal)
	assert.True(t, totals.FreeShipping())
}

func TestCompute_ThresholdIsInclusive(t *testing.T) {
	totals := DefaultPricing().Compute(money("50.00"))
	assert.True(t, totals.Shipping.IsZero())
}

func TestSubtotalAndUnitCount(t *testing.T) {
	items := []LineItem{
		{ID: "a", Price: money("10.00"), Quantity: 2},
		{ID: "b", Price: money("5.00"), Quantity: 1},
	}

	assert.True(t, Subtotal(items).Equal(money("25.00")))
	assert.Equal(t, 3, UnitCount(items))
	assert.True(t, Subtotal(nil).IsZero())
}

func TestCloneItems_DoesNotShareBackingArray(t *testing.T) {
	items := []LineItem{{ID: "a", Quantity: 1}}
	clone := CloneItems(items)
	clone[0].Quantity = 9

	assert.Equal(t, 1, items[0].Quantity)
}

func TestNewLineItem_CopiesProductFields(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p := Product{ID: "7", Name: "Olive Oil", Price: money("32.99"), Image: "oil.jpg",
		Category: "Oils", StockStatus: StockLow, IsNew: true}

	item := NewLineItem(p, 2, now)

	assert.Equal(t, "7", item.ID)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, now, item.AddedAt)
	assert.True(t, item.IsLowStock())
	assert.True(t, item.LineTotal().Equal(money("65.98")))
}

func TestDiscountPercent(t *testing.T) {
	old := money("20.00")
	p := Product{Price: money("15.00"), OldPrice: &old}
	assert.Equal(t, int64(25), p.DiscountPercent())

	p.OldPrice = nil
	assert.Equal(t, int64(0), p.DiscountPercent())
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$5.99", FormatMoney(money("5.99")))
	assert.Equal(t, "$4.80", FormatMoney(money("4.8")))
}
