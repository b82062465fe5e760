package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fjod/storefront/internal/checkout"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	orchestrator *checkout.Orchestrator
	timeout      time.Duration
	logger       *zap.Logger
}

func NewCheckoutHandler(orchestrator *checkout.Orchestrator, timeout time.Duration, logger *zap.Logger) *CheckoutHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutHandler{
		orchestrator: orchestrator,
		timeout:      timeout,
		logger:       logger,
	}
}

type CheckoutResponseDTO struct {
	OrderID  string `json:"order_id,omitempty"`
	Status   string `json:"status"`
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
	Total    string `json:"total,omitempty"`
}

// POST /api/v1/checkout
// A client that disconnects does not abort the checkout.
func (h *CheckoutHandler) ProcessCheckout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.timeout)
	defer cancel()

	order, err := h.orchestrator.ProcessCheckout(ctx)
	if err != nil {
		h.handleCheckoutError(w, r, err)
		return
	}

	redirect := checkout.ConfirmationPath(order.ID)
	w.Header().Set("Location", redirect)
	respondJSON(w, http.StatusCreated, CheckoutResponseDTO{
		OrderID:  order.ID,
		Status:   string(order.Status),
		Message:  checkout.SuccessMessage,
		Redirect: redirect,
		Total:    order.Total.StringFixed(2),
	})
}

// GET /api/v1/checkout
func (h *CheckoutHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.orchestrator.Status())
}

func (h *CheckoutHandler) handleCheckoutError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Warn("checkout rejected", zap.Error(err), zap.String("request_id", getRequestID(r.Context())))

	switch {
	case errors.Is(err, checkout.ErrCheckoutInProgress):
		respondError(w, http.StatusConflict, "checkout_in_progress", err.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusUnprocessableEntity, "empty_cart", checkout.FailureMessage)
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, "timeout", checkout.FailureMessage)
	default:
		respondError(w, http.StatusBadGateway, "checkout_failed", checkout.FailureMessage)
	}
}
