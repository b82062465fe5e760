package http

import (
	"errors"
	"net/http"

	"github.com/fjod/storefront/internal/catalog"
	"github.com/fjod/storefront/internal/domain"
	"github.com/go-chi/chi/v5"
)

// Catalog is the read side of the product catalog.
type Catalog interface {
	ProductSource
	Find(q catalog.Query) []domain.Product
	BySlug(slug string) (domain.Product, error)
}

type ProductHandler struct {
	catalog Catalog
}

func NewProductHandler(c Catalog) *ProductHandler {
	return &ProductHandler{catalog: c}
}

type ProductResponse struct {
	ID          string  `json:"id"`
	Slug        string  `json:"slug"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       string  `json:"price"`
	OldPrice    string  `json:"old_price,omitempty"`
	Discount    int64   `json:"discount,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
	Category    string  `json:"category,omitempty"`
	Rating      float64 `json:"rating"`
	StockStatus string  `json:"stock_status,omitempty"`
	IsNew       bool    `json:"is_new,omitempty"`
}

type ProductsResponse struct {
	Products []ProductResponse `json:"products"`
}

// GET /api/v1/products?category=&q=&sort=
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	found := h.catalog.Find(catalog.Query{
		Category: q.Get("category"),
		Search:   q.Get("q"),
		Sort:     q.Get("sort"),
	})

	products := make([]ProductResponse, len(found))
	for i, p := range found {
		products[i] = convertProduct(p)
	}
	respondJSON(w, http.StatusOK, &ProductsResponse{Products: products})
}

// GET /api/v1/products/{slug}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.BySlug(chi.URLParam(r, "slug"))
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "product_not_found", err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, convertProduct(p))
}

func convertProduct(p domain.Product) ProductResponse {
	res := ProductResponse{
		ID:          p.ID,
		Slug:        p.Slug,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Discount:    p.DiscountPercent(),
		ImageURL:    p.Image,
		Category:    p.Category,
		Rating:      p.Rating,
		StockStatus: string(p.StockStatus),
		IsNew:       p.IsNew,
	}
	if p.OldPrice != nil {
		res.OldPrice = p.OldPrice.StringFixed(2)
	}
	return res
}
