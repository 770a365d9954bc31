package checkout

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checkoutsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront_checkout",
		Subsystem: "flow",
		Name:      "started_total",
		Help:      "Total number of checkouts that reached address capture.",
	})

	ordersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront_checkout",
		Subsystem: "flow",
		Name:      "orders_created_total",
		Help:      "Total number of orders created from carts.",
	})

	paymentsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront_checkout",
		Subsystem: "flow",
		Name:      "payments_confirmed_total",
		Help:      "Total number of successful payment confirmations.",
	})

	checkoutFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront_checkout",
		Subsystem: "flow",
		Name:      "failures_total",
		Help:      "Total number of checkout failures by stage.",
	}, []string{"stage"})

	checkoutsAbandoned = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront_checkout",
		Subsystem: "flow",
		Name:      "abandoned_total",
		Help:      "Total number of explicitly abandoned checkouts.",
	})
)
