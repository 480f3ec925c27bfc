package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SnapshotRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_snapshot_refresh_total",
		Help: "Snapshot refreshes by result (ok, failed, discarded)",
	}, []string{"result"})

	SnapshotRefreshLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dashboard_snapshot_refresh_latency_seconds",
		Help:    "Latency of a full fetch and aggregation",
		Buckets: prometheus.DefBuckets,
	})

	SnapshotStale = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dashboard_snapshot_stale",
		Help: "1 while the served snapshot is older than the last failed fetch",
	})

	AggregatedCustomers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dashboard_customers",
		Help: "Customers in the current snapshot",
	})

	StockItemsByStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dashboard_stock_items",
		Help: "Stock items in the current snapshot by status",
	}, []string{"status"})

	BackendRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dashboard_backend_request_duration_seconds",
		Help:    "Latency of backend calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "status"})

	StockEditsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_stock_edits_total",
		Help: "Stock/unit edits by outcome (saved, reverted, rejected)",
	}, []string{"outcome"})

	OutreachComposedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_outreach_composed_total",
		Help: "Outreach messages composed by kind",
	}, []string{"kind"})

	EventsPublishFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_events_publish_failed_total",
		Help: "Audit events that could not be published",
	}, []string{"event_type"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
