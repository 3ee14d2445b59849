// Package observability provides Prometheus metric definitions.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ToggleOperations counts engagement toggles by kind and outcome.
	ToggleOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zephyr_toggle_operations_total",
		Help: "Total number of engagement toggle operations by kind and outcome",
	}, []string{"kind", "outcome"})

	// IndexSyncRuns counts index sync runs by mode and status.
	IndexSyncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zephyr_index_sync_runs_total",
		Help: "Total number of search index sync runs by mode and status",
	}, []string{"mode", "status"})

	// IndexDocumentsProjected counts documents written to the search index.
	IndexDocumentsProjected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zephyr_index_documents_projected_total",
		Help: "Total number of documents projected into the search index",
	})

	// IndexDocumentsReconciled counts documents purged by reconciliation.
	IndexDocumentsReconciled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zephyr_index_documents_reconciled_total",
		Help: "Total number of stale documents deleted from the search index",
	})

	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zephyr_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})
)
