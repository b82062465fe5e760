package projection

import "github.com/fjod/storefront/internal/cart"

type BadgeView struct {
	Count   int  `json:"count"`
	Visible bool `json:"visible"`
}

// Badge is the unit counter in the header. It is hidden for an empty cart.
type Badge struct {
	last[BadgeView]
}

func NewBadge() *Badge {
	return &Badge{}
}

func RenderBadge(s cart.Snapshot) BadgeView {
	count := s.Count()
	return BadgeView{Count: count, Visible: count > 0}
}

func (b *Badge) OnCartChanged(e cart.Event) {
	b.store(RenderBadge(e.Cart))
}

func (b *Badge) View() BadgeView {
	return b.load()
}
