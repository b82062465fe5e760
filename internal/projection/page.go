package projection

import (
	"github.com/fjod/storefront/internal/cart"
	"github.com/fjod/storefront/internal/domain"
)

type PageLine struct {
	ProductID    string `json:"product_id"`
	Name         string `json:"name"`
	Image        string `json:"image,omitempty"`
	Category     string `json:"category,omitempty"`
	UnitPrice    string `json:"unit_price"`
	Quantity     int    `json:"quantity"`
	LineTotal    string `json:"line_total"`
	StockWarning string `json:"stock_warning,omitempty"`
	New          bool   `json:"new"`
}

type PageView struct {
	Empty    bool       `json:"empty"`
	Message  string     `json:"message,omitempty"`
	Hint     string     `json:"hint,omitempty"`
	Items    []PageLine `json:"items"`
	Subtotal string     `json:"subtotal"`
	Tax      string     `json:"tax"`
	Shipping string     `json:"shipping"`
	Total    string     `json:"total"`
}

// Page is the full cart page with per-line controls and the totals block.
type Page struct {
	last[PageView]
}

func NewPage() *Page {
	return &Page{}
}

func RenderPage(s cart.Snapshot) PageView {
	totals := s.Totals()
	view := PageView{
		Items:    []PageLine{},
		Subtotal: domain.FormatMoney(totals.Subtotal),
		Tax:      domain.FormatMoney(totals.Tax),
		Shipping: FormatShipping(totals),
		Total:    domain.FormatMoney(totals.GrandTotal),
	}
	if s.IsEmpty() {
		view.Empty = true
		view.Message = EmptyCartMessage
		view.Hint = EmptyCartHint
		return view
	}

	for _, item := range s.Items() {
		line := PageLine{
			ProductID: item.ID,
			Name:      item.Name,
			Image:     item.Image,
			Category:  item.Category,
			UnitPrice: domain.FormatMoney(item.Price),
			Quantity:  item.Quantity,
			LineTotal: domain.FormatMoney(item.LineTotal()),
			New:       item.IsNew,
		}
		if item.IsLowStock() {
			line.StockWarning = LowStockText
		}
		view.Items = append(view.Items, line)
	}
	return view
}

func (p *Page) OnCartChanged(e cart.Event) {
	p.store(RenderPage(e.Cart))
}

func (p *Page) View() PageView {
	v := p.load()
	v.Items = append([]PageLine(nil), v.Items...)
	return v
}
