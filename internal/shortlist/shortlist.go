// Package shortlist keeps the wishlist and the comparison tray: ordered,
// persisted sets of product ids.
package shortlist

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/fjod/storefront/internal/store"
	"go.uber.org/zap"
)

// MaxComparison is how many products can be compared at once.
const MaxComparison = 4

var ErrComparisonFull = fmt.Errorf("maximum %d products can be compared", MaxComparison)

var errEmptyID = errors.New("product id is required")

type Store interface {
	LoadIDs(ctx context.Context, name string) []string
	SaveIDs(ctx context.Context, name string, ids []string) error
}

// List is an ordered set of product ids with an optional size limit.
type List struct {
	store  Store
	key    string
	limit  int
	full   error
	logger *zap.Logger

	mu  sync.Mutex
	ids []string
}

func NewWishlist(ctx context.Context, s Store, logger *zap.Logger) *List {
	return newList(ctx, s, store.WishlistKey, 0, nil, logger)
}

func NewComparison(ctx context.Context, s Store, logger *zap.Logger) *List {
	return newList(ctx, s, store.ComparisonKey, MaxComparison, ErrComparisonFull, logger)
}

func newList(ctx context.Context, s Store, key string, limit int, full error, logger *zap.Logger) *List {
	if logger == nil {
		logger = zap.NewNop()
	}
	var ids []string
	for _, id := range s.LoadIDs(ctx, key) {
		if id != "" && !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return &List{store: s, key: key, limit: limit, full: full, logger: logger, ids: ids}
}

// Toggle removes id if present, otherwise appends it. It reports whether id
// is in the list afterwards.
func (l *List) Toggle(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, errEmptyID
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	next := slices.Clone(l.ids)
	added := false
	if i := slices.Index(next, id); i >= 0 {
		next = slices.Delete(next, i, i+1)
	} else {
		if l.limit > 0 && len(next) >= l.limit {
			return false, l.full
		}
		next = append(next, id)
		added = true
	}

	if err := l.store.SaveIDs(ctx, l.key, next); err != nil {
		return !added, fmt.Errorf("save %s: %w", l.key, err)
	}
	l.ids = next
	l.logger.Debug("shortlist toggled", zap.String("list", l.key), zap.String("product_id", id), zap.Bool("added", added))
	return added, nil
}

func (l *List) Contains(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Contains(l.ids, id)
}

// IDs returns the ids in the order they were added.
func (l *List) IDs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string{}, l.ids...)
}

func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ids)
}
