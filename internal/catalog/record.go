package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fjod/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// productID accepts both 1 and "1" in product files.
type productID string

func (id *productID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = productID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("product id must be a string or number: %w", err)
	}
	*id = productID(n.String())
	return nil
}

// record is one entry of a products file.
type record struct {
	ID          productID        `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `json:"price"`
	OldPrice    *decimal.Decimal `json:"oldPrice"`
	Image       string           `json:"image"`
	Category    string           `json:"category"`
	Rating      float64          `json:"rating"`
	StockStatus string           `json:"stockStatus"`
	IsNew       bool             `json:"isNew"`
	Date        time.Time        `json:"date"`
	Slug        string           `json:"slug"`
}

func (r record) product() domain.Product {
	return domain.Product{
		ID:          string(r.ID),
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
		Price:       r.Price,
		OldPrice:    r.OldPrice,
		Image:       r.Image,
		Category:    r.Category,
		Rating:      r.Rating,
		StockStatus: domain.StockStatus(r.StockStatus),
		IsNew:       r.IsNew,
		CreatedAt:   r.Date,
		Slug:        r.Slug,
	}
}

// Fallback is the built-in assortment used when no products file can be read.
func Fallback() []domain.Product {
	oldPrice := decimal.RequireFromString("15.99")
	return []domain.Product{
		{
			ID:          "1",
			Name:        "Fresh Organic Apples",
			Price:       decimal.RequireFromString("2.99"),
			Category:    "Fruits",
			Image:       "https://images.unsplash.com/photo-1568702846914-96b305d2aaeb?w=400",
			Rating:      4.5,
			StockStatus: domain.StockInStock,
			IsNew:       true,
		},
		{
			ID:          "2",
			Name:        "Premium Olive Oil",
			Price:       decimal.RequireFromString("12.99"),
			OldPrice:    &oldPrice,
			Category:    "Oils",
			Image:       "https://images.unsplash.com/photo-1474979266404-7eaacbcd87c5?w=400",
			Rating:      4.8,
			StockStatus: domain.StockInStock,
		},
	}
}
