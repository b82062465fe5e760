package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/storefront/internal/domain"
	"github.com/go-chi/chi/v5"
)

// OrderSource reads the order history.
type OrderSource interface {
	LoadOrders(ctx context.Context) []domain.Order
	FindOrder(ctx context.Context, id string) (domain.Order, bool)
}

type OrdersHandler struct {
	orders  OrderSource
	timeout time.Duration
}

func NewOrdersHandler(orders OrderSource, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		orders:  orders,
		timeout: timeout,
	}
}

type OrderItemDTO struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Price       string `json:"price"`
}

type OrderResponseDTO struct {
	ID        string         `json:"id"`
	Total     string         `json:"total"`
	Status    string         `json:"status"`
	Items     []OrderItemDTO `json:"items"`
	CreatedAt string         `json:"created_at"`
}

// GET /api/v1/orders
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orders := h.orders.LoadOrders(ctx)
	dtos := make([]OrderResponseDTO, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, convertOrder(o))
	}

	respondJSON(w, http.StatusOK, dtos)
}

// GET /api/v1/orders/{order_id}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID := chi.URLParam(r, "order_id")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "missing_order_id", "order_id is required")
		return
	}

	order, ok := h.orders.FindOrder(ctx, orderID)
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "order "+orderID+" not found")
		return
	}

	respondJSON(w, http.StatusOK, convertOrder(order))
}

func convertOrder(o domain.Order) OrderResponseDTO {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemDTO{
			ProductID:   item.ID,
			ProductName: item.Name,
			Quantity:    item.Quantity,
			Price:       item.Price.StringFixed(2),
		})
	}

	return OrderResponseDTO{
		ID:        o.ID,
		Total:     o.Total.StringFixed(2),
		Status:    string(o.Status),
		Items:     items,
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
	}
}
