// Package projection renders the cart into the views the storefront shows:
// header badge, dropdown preview, full cart page and checkout summary.
// Every projection redraws completely from the snapshot carried by a cart
// event and keeps only its last rendered view.
package projection

import (
	"sync"

	"github.com/fjod/storefront/internal/domain"
)

const (
	EmptyCartMessage = "Your cart is empty"
	EmptyCartHint    = "Start shopping to add items to your cart"
	FreeShippingText = "FREE"
	LowStockText     = "Low stock"
)

type last[T any] struct {
	mu      sync.RWMutex
	view    T
	renders int
}

func (l *last[T]) store(v T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.view = v
	l.renders++
}

func (l *last[T]) load() T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.view
}

// Renders reports how many times the view has been drawn.
func (l *last[T]) Renders() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.renders
}

// FormatShipping renders the shipping line, "FREE" when it is zero.
func FormatShipping(t domain.Totals) string {
	if t.FreeShipping() {
		return FreeShippingText
	}
	return domain.FormatMoney(t.Shipping)
}
