package projection

import (
	"github.com/fjod/storefront/internal/cart"
	"github.com/fjod/storefront/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "storefront"

// Metrics exports the cart and checkout state to prometheus. It subscribes
// to the cart like any other projection and listens to checkout signals.
type Metrics struct {
	units     prometheus.Gauge
	items     prometheus.Gauge
	subtotal  prometheus.Gauge
	changes   prometheus.Counter
	checkouts *prometheus.CounterVec
	revenue   prometheus.Counter
}

// NewMetrics registers the collectors with reg. A nil reg uses a private registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		units: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "cart", Name: "units",
			Help: "Units in the cart.",
		}),
		items: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "cart", Name: "line_items",
			Help: "Distinct products in the cart.",
		}),
		subtotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "cart", Name: "subtotal",
			Help: "Cart subtotal in currency units.",
		}),
		changes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cart", Name: "changes_total",
			Help: "Cart change notifications.",
		}),
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "checkout", Name: "total",
			Help: "Checkout attempts by outcome.",
		}, []string{"outcome"}),
		revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "checkout", Name: "revenue_total",
			Help: "Sum of confirmed order totals.",
		}),
	}
	reg.MustRegister(m.units, m.items, m.subtotal, m.changes, m.checkouts, m.revenue)
	return m
}

// Sync sets the gauges without counting a change.
func (m *Metrics) Sync(s cart.Snapshot) {
	m.units.Set(float64(s.Count()))
	m.items.Set(float64(s.Len()))
	m.subtotal.Set(s.Total().InexactFloat64())
}

func (m *Metrics) OnCartChanged(e cart.Event) {
	m.Sync(e.Cart)
	m.changes.Inc()
}

func (m *Metrics) CheckoutStarted(string) {
	m.checkouts.WithLabelValues("started").Inc()
}

func (m *Metrics) CheckoutSucceeded(order domain.Order, _ string) {
	m.checkouts.WithLabelValues("succeeded").Inc()
	m.revenue.Add(order.Total.InexactFloat64())
}

func (m *Metrics) CheckoutFailed(error, string) {
	m.checkouts.WithLabelValues("failed").Inc()
}
