package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SamplesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracking_samples_received_total",
		Help: "Telemetry samples received on the ingestion endpoint",
	})
	SamplesRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracking_samples_rejected_total",
		Help: "Telemetry samples rejected by validation",
	})
	TrucksCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracking_trucks_created_total",
		Help: "Trucks created on first sight of a business key",
	})
	UpsertFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracking_upsert_failures_total",
		Help: "Failed truck-state/history transactions",
	})
	HistoryAppends = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracking_history_appends_total",
		Help: "History entries committed",
	})
	CacheWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracking_cache_write_failures_total",
		Help: "Best-effort cache writes that failed",
	})
	CacheQueueDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracking_cache_queue_drops_total",
		Help: "Cache refreshes dropped because the queue was full",
	})
)
