package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is one product entry in the cart. Quantity is always >= 1.
type LineItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Image       string          `json:"image,omitempty"`
	Category    string          `json:"category,omitempty"`
	StockStatus StockStatus     `json:"stockStatus,omitempty"`
	IsNew       bool            `json:"isNew,omitempty"`
	AddedAt     time.Time       `json:"addedAt"`
}

// NewLineItem copies the cart-relevant fields of a catalog product.
func NewLineItem(p Product, quantity int, addedAt time.Time) LineItem {
	return LineItem{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Quantity:    quantity,
		Image:       p.Image,
		Category:    p.Category,
		StockStatus: p.StockStatus,
		IsNew:       p.IsNew,
		AddedAt:     addedAt,
	}
}

func (i LineItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i LineItem) IsLowStock() bool {
	return i.StockStatus == StockLow
}

// CloneItems returns a copy of items that shares no backing array with the input.
func CloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}

// Subtotal sums price x quantity over items.
func Subtotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// UnitCount sums quantities over items.
func UnitCount(items []LineItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}
