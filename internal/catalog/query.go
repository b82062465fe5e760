package catalog

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/fjod/storefront/internal/domain"
)

const (
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortName      = "name"
	SortNewest    = "newest"
	SortRating    = "rating"

	CategoryAll = "all"

	// Shorter search terms do not filter.
	minSearchLen = 3
)

// Query narrows and orders the catalog the way the product grid does.
type Query struct {
	Category string
	Search   string
	Sort     string
}

// Find applies q to the current products.
func (c *Catalog) Find(q Query) []domain.Product {
	return Apply(c.Products(), q)
}

// Apply filters products by category and search term and sorts them. The
// input slice is not modified.
func Apply(products []domain.Product, q Query) []domain.Product {
	category := strings.ToLower(strings.TrimSpace(q.Category))
	term := strings.ToLower(strings.TrimSpace(q.Search))
	if utf8.RuneCountInString(term) < minSearchLen {
		term = ""
	}

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if category != "" && category != CategoryAll && !strings.Contains(strings.ToLower(p.Category), category) {
			continue
		}
		if term != "" && !matches(p, term) {
			continue
		}
		out = append(out, p)
	}

	if less := sortFunc(q.Sort); less != nil {
		slices.SortStableFunc(out, less)
	}
	return out
}

func matches(p domain.Product, term string) bool {
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Category), term) ||
		strings.Contains(strings.ToLower(p.Description), term)
}

func sortFunc(key string) func(a, b domain.Product) int {
	switch key {
	case SortPriceLow:
		return func(a, b domain.Product) int { return a.Price.Cmp(b.Price) }
	case SortPriceHigh:
		return func(a, b domain.Product) int { return b.Price.Cmp(a.Price) }
	case SortName:
		return func(a, b domain.Product) int {
			return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	case SortNewest:
		return func(a, b domain.Product) int { return b.CreatedAt.Compare(a.CreatedAt) }
	case SortRating:
		return func(a, b domain.Product) int { return cmp.Compare(b.Rating, a.Rating) }
	default:
		return nil
	}
}

// Categories lists the distinct categories in catalog order.
func (c *Catalog) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range c.Products() {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out
}
