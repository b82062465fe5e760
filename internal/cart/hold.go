package cart

import (
	"context"
	"errors"
)

var ErrHoldReleased = errors.New("checkout hold already released")

// Hold freezes the cart for the duration of a checkout. While a hold is
// active every mutation returns ErrCheckoutInProgress.
type Hold struct {
	m        *Model
	released bool
}

// Hold takes the checkout lock and returns the frozen contents.
func (m *Model) Hold() (*Hold, Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.held {
		return nil, Snapshot{}, ErrCheckoutInProgress
	}
	m.held = true
	return &Hold{m: m}, newSnapshot(m.items, m.pricing), nil
}

// Clear empties the held cart with the usual persist and notify.
func (h *Hold) Clear(ctx context.Context) error {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()

	if h.released {
		return ErrHoldReleased
	}
	return h.m.apply(ctx, "clear cart", clearItems)
}

// Release unlocks the cart. Safe to call more than once.
func (h *Hold) Release() {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()

	if h.released {
		return
	}
	h.released = true
	h.m.held = false
}
