package http

import (
	"net/http"

	"github.com/fjod/storefront/internal/projection"
	"github.com/go-chi/chi/v5"
)

// ViewHandler serves the last rendered projections.
type ViewHandler struct {
	views *projection.Set
}

func NewViewHandler(views *projection.Set) *ViewHandler {
	return &ViewHandler{views: views}
}

// GET /api/v1/views/{name}
func (h *ViewHandler) Get(w http.ResponseWriter, r *http.Request) {
	switch name := chi.URLParam(r, "name"); name {
	case "badge":
		respondJSON(w, http.StatusOK, h.views.Badge.View())
	case "dropdown":
		respondJSON(w, http.StatusOK, h.views.Dropdown.View())
	case "page":
		respondJSON(w, http.StatusOK, h.views.Page.View())
	case "summary":
		respondJSON(w, http.StatusOK, h.views.Summary.View())
	default:
		respondError(w, http.StatusNotFound, "unknown_view", "unknown view "+name)
	}
}
