package cart

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/fjod/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrCheckoutInProgress = errors.New("cart is locked while checkout is in progress")

// Store persists the cart. Loads recover to an empty cart on their own.
type Store interface {
	LoadCart(ctx context.Context) []domain.LineItem
	SaveCart(ctx context.Context, items []domain.LineItem) error
}

type Option func(*Model)

func WithLogger(logger *zap.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		m.now = now
	}
}

func WithPricing(p domain.Pricing) Option {
	return func(m *Model) {
		m.pricing = p
	}
}

// Model owns the ordered line items of the session cart. Every change goes
// through it so that storage and subscribers see the same state.
type Model struct {
	store   Store
	logger  *zap.Logger
	now     func() time.Time
	pricing domain.Pricing

	// mu serializes mutate -> persist -> notify.
	mu    sync.Mutex
	items []domain.LineItem
	seq   uint64
	held  bool

	subsMu  sync.Mutex
	subs    []subscription
	nextSub uint64
}

// New builds the model and hydrates it from store.
func New(ctx context.Context, store Store, opts ...Option) *Model {
	m := &Model{
		store:   store,
		logger:  zap.NewNop(),
		now:     time.Now,
		pricing: domain.DefaultPricing(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.items = store.LoadCart(ctx)
	if m.items == nil {
		m.items = []domain.LineItem{}
	}
	m.logger.Info("cart hydrated", zap.Int("items", len(m.items)), zap.Int("units", domain.UnitCount(m.items)))
	return m
}

// AddItem appends product or, if already present, increases its quantity.
// Quantities below 1 are treated as 1.
func (m *Model) AddItem(ctx context.Context, product domain.Product, quantity int) error {
	quantity = max(quantity, 1)
	return m.mutate(ctx, "add item", func(items []domain.LineItem) ([]domain.LineItem, bool) {
		if i := indexOf(items, product.ID); i >= 0 {
			items[i].Quantity += quantity
			return items, true
		}
		return append(items, domain.NewLineItem(product, quantity, m.now())), true
	})
}

func (m *Model) RemoveItem(ctx context.Context, productID string) error {
	return m.mutate(ctx, "remove item", func(items []domain.LineItem) ([]domain.LineItem, bool) {
		i := indexOf(items, productID)
		if i < 0 {
			return items, false
		}
		return slices.Delete(items, i, i+1), true
	})
}

func (m *Model) IncreaseQuantity(ctx context.Context, productID string) error {
	return m.mutate(ctx, "increase quantity", func(items []domain.LineItem) ([]domain.LineItem, bool) {
		i := indexOf(items, productID)
		if i < 0 {
			return items, false
		}
		items[i].Quantity++
		return items, true
	})
}

// DecreaseQuantity never takes an item below 1; use RemoveItem to drop it.
func (m *Model) DecreaseQuantity(ctx context.Context, productID string) error {
	return m.mutate(ctx, "decrease quantity", func(items []domain.LineItem) ([]domain.LineItem, bool) {
		i := indexOf(items, productID)
		if i < 0 || items[i].Quantity <= 1 {
			return items, false
		}
		items[i].Quantity--
		return items, true
	})
}

// SetQuantity sets an exact quantity, clamped to at least 1. Setting the
// current value still persists and notifies.
func (m *Model) SetQuantity(ctx context.Context, productID string, quantity int) error {
	quantity = max(quantity, 1)
	return m.mutate(ctx, "set quantity", func(items []domain.LineItem) ([]domain.LineItem, bool) {
		i := indexOf(items, productID)
		if i < 0 {
			return items, false
		}
		items[i].Quantity = quantity
		return items, true
	})
}

func (m *Model) Clear(ctx context.Context) error {
	return m.mutate(ctx, "clear cart", clearItems)
}

func (m *Model) Total() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.Subtotal(m.items)
}

func (m *Model) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.UnitCount(m.items)
}

func (m *Model) Items() []domain.LineItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.CloneItems(m.items)
}

func (m *Model) Totals() domain.Totals {
	return m.pricing.Compute(m.Total())
}

func (m *Model) Pricing() domain.Pricing {
	return m.pricing
}

func (m *Model) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return newSnapshot(m.items, m.pricing)
}

// Subscribe registers s for change notifications. Subscribers run in
// registration order on the goroutine that made the change.
func (m *Model) Subscribe(s Subscriber) (unsubscribe func()) {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()

	m.nextSub++
	id := m.nextSub
	m.subs = append(m.subs, subscription{id: id, sub: s})

	return func() {
		m.subsMu.Lock()
		defer m.subsMu.Unlock()
		m.subs = slices.DeleteFunc(m.subs, func(e subscription) bool { return e.id == id })
	}
}

func (m *Model) mutate(ctx context.Context, op string, fn func([]domain.LineItem) ([]domain.LineItem, bool)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.held {
		return ErrCheckoutInProgress
	}
	return m.apply(ctx, op, fn)
}

// apply runs fn on a copy of the items and commits it only once it is stored.
// Caller holds mu.
func (m *Model) apply(ctx context.Context, op string, fn func([]domain.LineItem) ([]domain.LineItem, bool)) error {
	next, changed := fn(domain.CloneItems(m.items))
	if !changed {
		return nil
	}

	if err := m.store.SaveCart(ctx, next); err != nil {
		m.logger.Error("cart save failed", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	m.items = next
	m.seq++
	m.logger.Debug("cart changed", zap.String("op", op), zap.Uint64("seq", m.seq),
		zap.Int("units", domain.UnitCount(next)))

	snap := newSnapshot(m.items, m.pricing)
	m.notify(Event{Seq: m.seq, Cart: snap, Total: snap.Total()})
	return nil
}

func (m *Model) notify(e Event) {
	m.subsMu.Lock()
	subs := slices.Clone(m.subs)
	m.subsMu.Unlock()

	for _, s := range subs {
		s.sub.OnCartChanged(e)
	}
}

func clearItems([]domain.LineItem) ([]domain.LineItem, bool) {
	return []domain.LineItem{}, true
}

func indexOf(items []domain.LineItem, productID string) int {
	return slices.IndexFunc(items, func(item domain.LineItem) bool { return item.ID == productID })
}
