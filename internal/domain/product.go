package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type StockStatus string

const (
	StockInStock StockStatus = "in-stock"
	StockLow     StockStatus = "low"
	StockOut     StockStatus = "out"
)

// Product is a catalog record. The cart core only reads it.
type Product struct {
	ID          string           `json:"id" validate:"required"`
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description,omitempty"`
	Price       decimal.Decimal  `json:"price"`
	OldPrice    *decimal.Decimal `json:"oldPrice,omitempty"`
	Image       string           `json:"image,omitempty"`
	Category    string           `json:"category,omitempty"`
	Rating      float64          `json:"rating,omitempty" validate:"gte=0,lte=5"`
	StockStatus StockStatus      `json:"stockStatus,omitempty" validate:"omitempty,oneof=in-stock low out"`
	IsNew       bool             `json:"isNew,omitempty"`
	CreatedAt   time.Time        `json:"createdAt,omitempty"`
	Slug        string           `json:"slug,omitempty"`
}

// DiscountPercent returns the rounded percentage saved against OldPrice, or 0.
func (p Product) DiscountPercent() int64 {
	if p.OldPrice == nil || !p.OldPrice.IsPositive() || !p.OldPrice.GreaterThan(p.Price) {
		return 0
	}
	return p.OldPrice.Sub(p.Price).Div(*p.OldPrice).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
