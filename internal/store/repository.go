package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/fjod/storefront/internal/domain"
	"go.uber.org/zap"
)

const (
	CartKey       = "kishki_cart"
	OrdersKey     = "kishki_orders"
	WishlistKey   = "kishki_wishlist"
	ComparisonKey = "kishki_comparison"
	// OutboxKey holds the id of the last order handed to the outbox publisher.
	OutboxKey = "kishki_outbox_published"
)

// Repository reads and writes the storefront's collections in a KV, scoped to one origin.
// Loads never fail: absent, unreadable or malformed values come back empty.
// AppendOrder is the exception.
type Repository struct {
	kv     KV
	origin string
	logger *zap.Logger

	ordersMu sync.Mutex
}

func NewRepository(kv KV, origin string, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{
		kv:     kv,
		origin: origin,
		logger: logger,
	}
}

func (r *Repository) key(name string) string {
	return fmt.Sprintf("%s:%s", r.origin, name)
}

func (r *Repository) LoadCart(ctx context.Context) []domain.LineItem {
	var items []domain.LineItem
	if !r.load(ctx, CartKey, &items) || items == nil {
		return []domain.LineItem{}
	}
	if err := validateCart(items); err != nil {
		r.logger.Warn("discarding stored cart", zap.String("key", r.key(CartKey)), zap.Error(err))
		return []domain.LineItem{}
	}
	return items
}

func (r *Repository) SaveCart(ctx context.Context, items []domain.LineItem) error {
	if items == nil {
		items = []domain.LineItem{}
	}
	return r.save(ctx, CartKey, items)
}

func (r *Repository) LoadOrders(ctx context.Context) []domain.Order {
	var orders []domain.Order
	if !r.load(ctx, OrdersKey, &orders) || orders == nil {
		return []domain.Order{}
	}
	return orders
}

// AppendOrder adds order to the end of the stored history. Unlike LoadOrders
// it fails when the existing history cannot be read, so earlier orders are
// never overwritten.
func (r *Repository) AppendOrder(ctx context.Context, order domain.Order) error {
	r.ordersMu.Lock()
	defer r.ordersMu.Unlock()

	var orders []domain.Order
	if err := r.loadStrict(ctx, OrdersKey, &orders); err != nil {
		return fmt.Errorf("append order %s: %w", order.ID, err)
	}
	orders = append(orders, order)
	return r.save(ctx, OrdersKey, orders)
}

// FindOrder returns the stored order with id, if any.
func (r *Repository) FindOrder(ctx context.Context, id string) (domain.Order, bool) {
	for _, order := range r.LoadOrders(ctx) {
		if order.ID == id {
			return order, true
		}
	}
	return domain.Order{}, false
}

func (r *Repository) LoadIDs(ctx context.Context, name string) []string {
	var ids []string
	if !r.load(ctx, name, &ids) || ids == nil {
		return []string{}
	}
	return ids
}

func (r *Repository) SaveIDs(ctx context.Context, name string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	return r.save(ctx, name, ids)
}

func (r *Repository) load(ctx context.Context, name string, out any) bool {
	key := r.key(name)
	raw, err := r.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.logger.Warn("storage read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		r.logger.Warn("malformed stored value", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// loadStrict treats only an absent key as empty.
func (r *Repository) loadStrict(ctx context.Context, name string, out any) error {
	key := r.key(name)
	raw, err := r.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s failed: %w", name, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decode %s failed: %w", name, err)
	}
	return nil
}

func (r *Repository) save(ctx context.Context, name string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", name, err)
	}
	if err := r.kv.Set(ctx, r.key(name), string(data)); err != nil {
		return fmt.Errorf("save %s failed: %w", name, err)
	}
	return nil
}

func validateCart(items []domain.LineItem) error {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.ID == "" {
			return errors.New("line item without id")
		}
		if item.Quantity < 1 {
			return fmt.Errorf("line item %s has quantity %d", item.ID, item.Quantity)
		}
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("duplicate line item %s", item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}
