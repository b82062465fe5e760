package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Cart       *CartHandler
	Views      *ViewHandler
	Checkout   *CheckoutHandler
	Orders     *OrdersHandler
	Products   *ProductHandler
	Wishlist   *ShortlistHandler
	Comparison *ShortlistHandler
}

type RouterConfig struct {
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
	Gatherer           prometheus.Gatherer
	Logger             *zap.Logger
}

func NewRouter(h Handlers, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggerMiddleware(logger))
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	if cfg.MaxRequestBodySize > 0 {
		r.Use(middleware.RequestSize(cfg.MaxRequestBodySize))
	}
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Products.List)
			r.Get("/{slug}", h.Products.Get)
		})
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.GetCart)
			r.Delete("/", h.Cart.ClearCart)
			r.Post("/items", h.Cart.AddItem)
			r.Put("/items/{product_id}", h.Cart.UpdateQuantity)
			r.Delete("/items/{product_id}", h.Cart.RemoveItem)
			r.Post("/items/{product_id}/increase", h.Cart.IncreaseQuantity)
			r.Post("/items/{product_id}/decrease", h.Cart.DecreaseQuantity)
		})
		r.Get("/views/{name}", h.Views.Get)
		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", h.Checkout.ProcessCheckout)
			r.Get("/", h.Checkout.GetStatus)
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.Orders.ListOrders)
			r.Get("/{order_id}", h.Orders.GetOrder)
		})
		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", h.Wishlist.List)
			r.Post("/{product_id}", h.Wishlist.Toggle)
		})
		r.Route("/compare", func(r chi.Router) {
			r.Get("/", h.Comparison.List)
			r.Post("/{product_id}", h.Comparison.Toggle)
		})
	})

	return otelhttp.NewHandler(r, "storefront")
}
