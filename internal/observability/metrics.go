package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PipelineDuration records query-pipeline execution latency per base
	// collection.
	PipelineDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mediasphere_query_pipeline_duration_seconds",
		Help:    "Query pipeline execution latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"collection"})

	// ToggleConflicts counts relation toggles that hit the uniqueness
	// constraint and were resolved by the fallback path.
	ToggleConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mediasphere_relation_toggle_conflicts_total",
		Help: "Relation toggles resolved through the uniqueness-conflict fallback",
	}, []string{"target_kind"})

	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mediasphere_redis_error_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})
)
