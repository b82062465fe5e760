package projection

import (
	"fmt"

	"github.com/fjod/storefront/internal/cart"
	"github.com/fjod/storefront/internal/domain"
)

// DropdownLimit is how many line items the header preview lists.
const DropdownLimit = 3

type DropdownLine struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Image     string `json:"image,omitempty"`
	Label     string `json:"label"`
}

type DropdownView struct {
	Empty   bool           `json:"empty"`
	Message string         `json:"message,omitempty"`
	Items   []DropdownLine `json:"items"`
	Hidden  int            `json:"hidden"`
	Total   string         `json:"total"`
}

type Dropdown struct {
	last[DropdownView]
}

func NewDropdown() *Dropdown {
	return &Dropdown{}
}

// RenderDropdown lists the first DropdownLimit items as "N x $P" with the
// cart total.
func RenderDropdown(s cart.Snapshot) DropdownView {
	if s.IsEmpty() {
		return DropdownView{Empty: true, Message: EmptyCartMessage, Items: []DropdownLine{}, Total: domain.FormatMoney(s.Total())}
	}

	items := s.Items()
	shown := items[:min(len(items), DropdownLimit)]
	lines := make([]DropdownLine, 0, len(shown))
	for _, item := range shown {
		lines = append(lines, DropdownLine{
			ProductID: item.ID,
			Name:      item.Name,
			Image:     item.Image,
			Label:     fmt.Sprintf("%d x %s", item.Quantity, domain.FormatMoney(item.Price)),
		})
	}

	return DropdownView{
		Items:  lines,
		Hidden: len(items) - len(shown),
		Total:  domain.FormatMoney(s.Total()),
	}
}

func (d *Dropdown) OnCartChanged(e cart.Event) {
	d.store(RenderDropdown(e.Cart))
}

func (d *Dropdown) View() DropdownView {
	v := d.load()
	v.Items = append([]DropdownLine(nil), v.Items...)
	return v
}
