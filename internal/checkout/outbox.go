package checkout

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/store"
	"go.uber.org/zap"
)

const DefaultOutboxInterval = time.Second

// Publisher delivers a recorded order downstream.
type Publisher interface {
	Publish(ctx context.Context, order domain.Order) error
}

// OutboxStore is the order history plus the publish cursor.
type OutboxStore interface {
	LoadOrders(ctx context.Context) []domain.Order
	LoadIDs(ctx context.Context, name string) []string
	SaveIDs(ctx context.Context, name string, ids []string) error
}

// OutboxPoller publishes orders only after they are in the history. It
// walks the history past the last published id, so an order whose
// recording failed is never published. Delivery is at least once: a
// cursor that cannot be saved leads to the order being published again.
type OutboxPoller struct {
	repo      OutboxStore
	publisher Publisher
	interval  time.Duration
	logger    *zap.Logger
	wake      chan struct{}

	mu sync.Mutex
}

func NewOutboxPoller(repo OutboxStore, publisher Publisher, interval time.Duration, logger *zap.Logger) *OutboxPoller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = DefaultOutboxInterval
	}
	return &OutboxPoller{
		repo:      repo,
		publisher: publisher,
		interval:  interval,
		logger:    logger,
		wake:      make(chan struct{}, 1),
	}
}

// Run flushes on every tick and whenever a checkout succeeds, until ctx is done.
func (p *OutboxPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
		case <-p.wake:
		case <-ctx.Done():
			return
		}
		if _, err := p.Flush(ctx); err != nil && ctx.Err() == nil {
			p.logger.Warn("outbox flush stopped", zap.Error(err))
		}
	}
}

// Flush publishes every recorded order after the cursor, in history order,
// and returns how many went out. It stops at the first publish failure.
func (p *OutboxPoller) Flush(ctx context.Context) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pending := p.pending(ctx)
	for i, order := range pending {
		if err := p.publisher.Publish(ctx, order); err != nil {
			return i, fmt.Errorf("publish order %s: %w", order.ID, err)
		}
		if err := p.repo.SaveIDs(ctx, store.OutboxKey, []string{order.ID}); err != nil {
			return i + 1, fmt.Errorf("advance outbox cursor to %s: %w", order.ID, err)
		}
		p.logger.Debug("order published", zap.String("order_id", order.ID))
	}
	return len(pending), nil
}

func (p *OutboxPoller) pending(ctx context.Context) []domain.Order {
	orders := p.repo.LoadOrders(ctx)
	if len(orders) == 0 {
		return nil
	}
	cursor := p.repo.LoadIDs(ctx, store.OutboxKey)
	if len(cursor) == 0 {
		return orders
	}
	last := cursor[len(cursor)-1]
	i := slices.IndexFunc(orders, func(o domain.Order) bool { return o.ID == last })
	if i < 0 {
		p.logger.Warn("outbox cursor not in history, republishing", zap.String("order_id", last))
		return orders
	}
	return orders[i+1:]
}

func (p *OutboxPoller) CheckoutStarted(string) {}

// CheckoutSucceeded wakes Run without waiting for the next tick.
func (p *OutboxPoller) CheckoutSucceeded(domain.Order, string) {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *OutboxPoller) CheckoutFailed(error, string) {}
