package cart

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	itemsAdded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront_checkout",
		Subsystem: "cart",
		Name:      "items_added_total",
		Help:      "Total number of units added to carts.",
	})

	itemsExhausted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront_checkout",
		Subsystem: "cart",
		Name:      "stock_exhausted_total",
		Help:      "Total number of add attempts rejected because stock was exhausted.",
	})
)
