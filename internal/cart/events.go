package cart

import (
	"github.com/fjod/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// Snapshot is a read-only copy of the cart at one point in time.
type Snapshot struct {
	items   []domain.LineItem
	pricing domain.Pricing
}

func newSnapshot(items []domain.LineItem, pricing domain.Pricing) Snapshot {
	return Snapshot{items: domain.CloneItems(items), pricing: pricing}
}

// Items returns a copy of the line items in insertion order.
func (s Snapshot) Items() []domain.LineItem {
	return domain.CloneItems(s.items)
}

func (s Snapshot) Len() int {
	return len(s.items)
}

func (s Snapshot) IsEmpty() bool {
	return len(s.items) == 0
}

func (s Snapshot) Total() decimal.Decimal {
	return domain.Subtotal(s.items)
}

func (s Snapshot) Count() int {
	return domain.UnitCount(s.items)
}

func (s Snapshot) Totals() domain.Totals {
	return s.pricing.Compute(s.Total())
}

// Event is the payload of a "cart changed" notification.
type Event struct {
	Seq   uint64
	Cart  Snapshot
	Total decimal.Decimal
}

// Subscriber redraws itself from an Event. It must not mutate the cart.
type Subscriber interface {
	OnCartChanged(Event)
}

type SubscriberFunc func(Event)

func (f SubscriberFunc) OnCartChanged(e Event) {
	f(e)
}

type subscription struct {
	id  uint64
	sub Subscriber
}
