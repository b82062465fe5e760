package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fjod/storefront/internal/shortlist"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ShortlistHandler serves one of the wishlist or comparison lists.
type ShortlistHandler struct {
	list     *shortlist.List
	products ProductSource
	timeout  time.Duration
	logger   *zap.Logger
}

func NewShortlistHandler(list *shortlist.List, products ProductSource, timeout time.Duration, logger *zap.Logger) *ShortlistHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShortlistHandler{
		list:     list,
		products: products,
		timeout:  timeout,
		logger:   logger,
	}
}

type ShortlistResponseDTO struct {
	Count    int               `json:"count"`
	Products []ProductResponse `json:"products"`
}

type ToggleResponseDTO struct {
	ProductID string `json:"product_id"`
	Active    bool   `json:"active"`
	Count     int    `json:"count"`
}

// GET /api/v1/wishlist, GET /api/v1/compare
func (h *ShortlistHandler) List(w http.ResponseWriter, r *http.Request) {
	ids := h.list.IDs()
	products := make([]ProductResponse, 0, len(ids))
	for _, id := range ids {
		p, err := h.products.Get(id)
		if err != nil {
			// The product left the catalog; keep the id but do not show it.
			continue
		}
		products = append(products, convertProduct(p))
	}
	respondJSON(w, http.StatusOK, ShortlistResponseDTO{Count: len(ids), Products: products})
}

// POST /api/v1/wishlist/{product_id}, POST /api/v1/compare/{product_id}
func (h *ShortlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID := chi.URLParam(r, "product_id")
	if _, err := h.products.Get(productID); err != nil {
		respondError(w, http.StatusNotFound, "product_not_found", err.Error())
		return
	}

	active, err := h.list.Toggle(ctx, productID)
	switch {
	case errors.Is(err, shortlist.ErrComparisonFull):
		respondError(w, http.StatusConflict, "comparison_full", err.Error())
		return
	case err != nil:
		h.logger.Error("shortlist toggle failed", zap.Error(err), zap.String("request_id", getRequestID(r.Context())))
		respondError(w, http.StatusInternalServerError, "storage_error", "failed to save list")
		return
	}

	respondJSON(w, http.StatusOK, ToggleResponseDTO{ProductID: productID, Active: active, Count: h.list.Len()})
}
