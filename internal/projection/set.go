package projection

import (
	"github.com/fjod/storefront/internal/cart"
	"go.uber.org/zap"
)

// Set is the group of projections wired to one cart.
type Set struct {
	Badge    *Badge
	Dropdown *Dropdown
	Page     *Page
	Summary  *CheckoutSummary
	Metrics  *Metrics

	unsubscribe []func()
}

// NewSet subscribes every projection to model and draws them once from the
// current contents. metrics may be nil.
func NewSet(model *cart.Model, metrics *Metrics, logger *zap.Logger) *Set {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Set{
		Badge:    NewBadge(),
		Dropdown: NewDropdown(),
		Page:     NewPage(),
		Summary:  NewCheckoutSummary(),
		Metrics:  metrics,
	}

	subs := []cart.Subscriber{s.Badge, s.Dropdown, s.Page, s.Summary}
	if metrics != nil {
		subs = append(subs, metrics)
	}
	for _, sub := range subs {
		s.unsubscribe = append(s.unsubscribe, model.Subscribe(sub))
	}

	snap := model.Snapshot()
	s.Badge.store(RenderBadge(snap))
	s.Dropdown.store(RenderDropdown(snap))
	s.Page.store(RenderPage(snap))
	s.Summary.store(RenderSummary(snap))
	if metrics != nil {
		metrics.Sync(snap)
	}

	logger.Debug("projections rendered", zap.Int("units", snap.Count()), zap.Int("subscribers", len(subs)))
	return s
}

// Close detaches every projection from the cart.
func (s *Set) Close() {
	for _, unsubscribe := range s.unsubscribe {
		unsubscribe()
	}
	s.unsubscribe = nil
}
