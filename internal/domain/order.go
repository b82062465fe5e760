package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusConfirmed OrderStatus = "confirmed"
)

// Order is the immutable record produced by a successful checkout.
type Order struct {
	ID        string          `json:"id"`
	Items     []LineItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"date"`
	Status    OrderStatus     `json:"status"`
}
