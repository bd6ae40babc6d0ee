// Package metrics defines the custom Prometheus metrics of the storefront API.
// All metrics are registered with the default registry through promauto when
// the package is loaded.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Order metrics ─────────────────────────────────────────────────────────────

// OrdersPlacedTotal counts orders created from a cart.
var OrdersPlacedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_placed_total",
		Help:      "Total number of orders placed.",
	},
)

// OrderStatusChangesTotal counts applied status transitions.
// Labels:
//   - to: the new status code ("1".."4")
//   - actor: "user" or "admin"
var OrderStatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_status_changes_total",
		Help:      "Total number of order status changes, by new status and actor.",
	},
	[]string{"to", "actor"},
)

// CheckoutDedupTotal counts checkout deduplication decisions.
// Label:
//   - result: "hit" (duplicate submit rejected) or "miss"
var CheckoutDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_dedup_total",
		Help:      "Total number of checkout deduplication checks, by result.",
	},
	[]string{"result"},
)

// ── Order event metrics ───────────────────────────────────────────────────────

// OrderEventsQueueDepth tracks events waiting in each dispatcher worker.
var OrderEventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "order_events_queue_depth",
		Help:      "Current number of order events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// OrderEventsDroppedTotal counts events discarded because a worker was full.
var OrderEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_events_dropped_total",
		Help:      "Total number of order events dropped because the worker queue was full.",
	},
)

// OrderEventDuration measures how long handling one event takes.
// Labels:
//   - kind: "placed" or "status_changed"
//   - result: "ok" or "error"
var OrderEventDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "order_event_duration_seconds",
		Help:      "Duration of order event handling.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind", "result"},
)

// ── Catalog and account metrics ───────────────────────────────────────────────

// ProductsCreatedTotal counts products created by admins.
var ProductsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_created_total",
		Help:      "Total number of products created.",
	},
)

// SigninsTotal counts sign in attempts.
// Label:
//   - result: "ok" or "failed"
var SigninsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signins_total",
		Help:      "Total number of sign in attempts, by result.",
	},
	[]string{"result"},
)
