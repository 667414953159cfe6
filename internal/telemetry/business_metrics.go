package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for business-level observability
// of the cart-to-order funnel.
type BusinessMetrics struct {
	// Cart activity
	CartsCreated   prometheus.Counter
	CartItemsAdded prometheus.Counter
	CartsCleared   prometheus.Counter

	// Orders
	OrdersCreated prometheus.Counter
	OrderValue    prometheus.Histogram
}

// NewBusinessMetrics creates and registers all business metrics.
func NewBusinessMetrics(namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "storefront"
	}

	subsystem := "business"

	return &BusinessMetrics{
		CartsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "carts_created_total",
			Help:      "Total carts explicitly created",
		}),
		CartItemsAdded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "cart_items_added_total",
			Help:      "Total item quantity added to carts",
		}),
		CartsCleared: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "carts_cleared_total",
			Help:      "Total explicit cart clears",
		}),
		OrdersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "orders_created_total",
			Help:      "Total orders created at checkout",
		}),
		OrderValue: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "order_value",
			Help:      "Order amount distribution in whole currency units",
			Buckets:   prometheus.ExponentialBuckets(50, 2, 10),
		}),
	}
}
