package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Storage Metrics
	StorageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storage_operation_duration_seconds",
			Help:    "Duration of durable storage operations",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "blob"},
	)

	// Task Metrics
	TaskOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_operations_total",
			Help: "Total number of task operations",
		},
		[]string{"operation"}, // create, update, delete, reorder
	)

	// Remote Gateway Metrics
	RetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remote_retries_total",
			Help: "Total number of retried remote attempts",
		},
		[]string{"operation"},
	)

	CacheFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remote_cache_fallbacks_total",
			Help: "Total number of reads served from the cache snapshot",
		},
		[]string{"operation"},
	)

	// Error Metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors by type",
		},
		[]string{"type"}, // validation, not_found, storage, network, bad_data
	)
)

// TrackStorageOperation tracks durable storage operation duration
func TrackStorageOperation(operation, blob string) *prometheus.Timer {
	return prometheus.NewTimer(StorageOperationDuration.WithLabelValues(operation, blob))
}

// TrackTaskOperation increments the task operation counter
func TrackTaskOperation(operation string) {
	TaskOperationsTotal.WithLabelValues(operation).Inc()
}

// TrackRetry records a retried remote attempt
func TrackRetry(operation string) {
	RetriesTotal.WithLabelValues(operation).Inc()
}

// TrackCacheFallback records a read served from the cache snapshot
func TrackCacheFallback(operation string) {
	CacheFallbacksTotal.WithLabelValues(operation).Inc()
}

// TrackError increments the error counter by type
func TrackError(errorType string) {
	ErrorsTotal.WithLabelValues(errorType).Inc()
}
