package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fjod/storefront/internal/cart"
	"github.com/fjod/storefront/internal/catalog"
	"github.com/fjod/storefront/internal/domain"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductSource resolves catalog products by id.
type ProductSource interface {
	Get(id string) (domain.Product, error)
}

// CartHandler translates cart requests into typed cart commands.
type CartHandler struct {
	cart     *cart.Model
	products ProductSource
	timeout  time.Duration
	logger   *zap.Logger
}

func NewCartHandler(model *cart.Model, products ProductSource, timeout time.Duration, logger *zap.Logger) *CartHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartHandler{
		cart:     model,
		products: products,
		timeout:  timeout,
		logger:   logger,
	}
}

// AddItemRequestDTO carries the raw quantity as typed by the user; anything
// that is not a number >= 1 becomes 1.
type AddItemRequestDTO struct {
	ProductID string          `json:"product_id"`
	Quantity  json.RawMessage `json:"quantity,omitempty"`
}

type UpdateQuantityRequestDTO struct {
	Quantity json.RawMessage `json:"quantity"`
}

type CartItemDTO struct {
	ProductID   string `json:"product_id"`
	Name        string `json:"name"`
	Image       string `json:"image,omitempty"`
	Category    string `json:"category,omitempty"`
	Price       string `json:"price"`
	Quantity    int    `json:"quantity"`
	LineTotal   string `json:"line_total"`
	StockStatus string `json:"stock_status,omitempty"`
	IsNew       bool   `json:"is_new,omitempty"`
	AddedAt     string `json:"added_at"`
}

type CartResponseDTO struct {
	Items    []CartItemDTO `json:"items"`
	Count    int           `json:"count"`
	Subtotal string        `json:"subtotal"`
	Tax      string        `json:"tax"`
	Shipping string        `json:"shipping"`
	Total    string        `json:"total"`
}

func quantityFrom(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 1
	}
	return cart.ParseQuantity(strings.Trim(string(raw), `"`))
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, convertSnapshot(h.cart.Snapshot()))
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	product, err := h.products.Get(req.ProductID)
	if err != nil {
		h.handleCartError(w, r, err)
		return
	}

	h.dispatch(w, r, http.StatusCreated, cart.Add(product, quantityFrom(req.Quantity)))
}

// PUT /api/v1/cart/items/{product_id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	h.dispatch(w, r, http.StatusOK, cart.SetQuantity(chi.URLParam(r, "product_id"), quantityFrom(req.Quantity)))
}

// DELETE /api/v1/cart/items/{product_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, http.StatusOK, cart.Remove(chi.URLParam(r, "product_id")))
}

// POST /api/v1/cart/items/{product_id}/increase
func (h *CartHandler) IncreaseQuantity(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, http.StatusOK, cart.Increase(chi.URLParam(r, "product_id")))
}

// POST /api/v1/cart/items/{product_id}/decrease
func (h *CartHandler) DecreaseQuantity(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, http.StatusOK, cart.Decrease(chi.URLParam(r, "product_id")))
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, http.StatusOK, cart.Clear())
}

func (h *CartHandler) dispatch(w http.ResponseWriter, r *http.Request, status int, cmd cart.Command) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.cart.Dispatch(ctx, cmd); err != nil {
		h.handleCartError(w, r, err)
		return
	}
	h.logger.Debug("cart command applied",
		zap.String("command", cmd.Kind.String()),
		zap.String("product_id", cmd.ProductID),
		zap.Int("quantity", cmd.Quantity),
		zap.String("request_id", getRequestID(r.Context())))

	respondJSON(w, status, convertSnapshot(h.cart.Snapshot()))
}

func (h *CartHandler) handleCartError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, catalog.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, cart.ErrCheckoutInProgress):
		respondError(w, http.StatusConflict, "checkout_in_progress", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, "timeout", "storage did not answer in time")
	default:
		h.logger.Error("cart command failed", zap.Error(err), zap.String("request_id", getRequestID(r.Context())))
		respondError(w, http.StatusInternalServerError, "storage_error", "failed to save cart")
	}
}

func convertSnapshot(s cart.Snapshot) CartResponseDTO {
	totals := s.Totals()
	items := s.Items()
	dtos := make([]CartItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, CartItemDTO{
			ProductID:   item.ID,
			Name:        item.Name,
			Image:       item.Image,
			Category:    item.Category,
			Price:       item.Price.StringFixed(2),
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal().StringFixed(2),
			StockStatus: string(item.StockStatus),
			IsNew:       item.IsNew,
			AddedAt:     item.AddedAt.Format(time.RFC3339),
		})
	}
	return CartResponseDTO{
		Items:    dtos,
		Count:    s.Count(),
		Subtotal: totals.Subtotal.StringFixed(2),
		Tax:      totals.Tax.StringFixed(2),
		Shipping: totals.Shipping.StringFixed(2),
		Total:    totals.GrandTotal.StringFixed(2),
	}
}
