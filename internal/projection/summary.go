package projection

import (
	"github.com/fjod/storefront/internal/cart"
	"github.com/fjod/storefront/internal/domain"
)

type SummaryLine struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Image     string `json:"image,omitempty"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type SummaryView struct {
	Items    []SummaryLine `json:"items"`
	Units    int           `json:"units"`
	Subtotal string        `json:"subtotal"`
	Tax      string        `json:"tax"`
	Shipping string        `json:"shipping"`
	Total    string        `json:"total"`
}

// CheckoutSummary is the order recap shown next to the checkout form.
type CheckoutSummary struct {
	last[SummaryView]
}

func NewCheckoutSummary() *CheckoutSummary {
	return &CheckoutSummary{}
}

func RenderSummary(s cart.Snapshot) SummaryView {
	totals := s.Totals()
	items := s.Items()
	lines := make([]SummaryLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, SummaryLine{
			ProductID: item.ID,
			Name:      item.Name,
			Image:     item.Image,
			Quantity:  item.Quantity,
			LineTotal: domain.FormatMoney(item.LineTotal()),
		})
	}
	return SummaryView{
		Items:    lines,
		Units:    s.Count(),
		Subtotal: domain.FormatMoney(totals.Subtotal),
		Tax:      domain.FormatMoney(totals.Tax),
		Shipping: FormatShipping(totals),
		Total:    domain.FormatMoney(totals.GrandTotal),
	}
}

func (c *CheckoutSummary) OnCartChanged(e cart.Event) {
	c.store(RenderSummary(e.Cart))
}

func (c *CheckoutSummary) View() SummaryView {
	v := c.load()
	v.Items = append([]SummaryLine(nil), v.Items...)
	return v
}
