package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PurchasesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "purchases_total",
			Help: "Total completed package purchases",
		},
	)
	PurchaseRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchase_rejections_total",
			Help: "Purchases rejected before any write",
		},
		[]string{"reason"}, // customer_not_found|package_not_found|insufficient_funds|idempotency_conflict|store_error
	)
	PurchaseRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "purchase_retries_total",
			Help: "Purchase attempts retried after a transient store error",
		},
	)
	RevenueTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "purchase_revenue_total",
			Help: "Sum of completed purchase amounts since start",
		},
	)

	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)
	WorkerDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "worker_dropped_total",
			Help: "Jobs dropped because the worker queue was full",
		},
	)

	initOnce sync.Once
)

var Handler = promhttp.Handler

// Init registers the collectors on the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			PurchasesTotal,
			PurchaseRejections,
			PurchaseRetries,
			RevenueTotal,
			WorkerQueueDepth,
			WorkerDropped,
		)
	})
}
