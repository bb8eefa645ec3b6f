package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Inference gateway metrics
	InferenceRequests *prometheus.CounterVec
	InferenceLatency  *prometheus.HistogramVec
	FallbackTotal     *prometheus.CounterVec

	// Scoring engine metrics
	ScoringLatency  *prometheus.HistogramVec
	MatchesProduced prometheus.Counter
	PatientsRanked  prometheus.Counter

	// Outbox related metrics
	OutboxEventsProcessed   prometheus.Counter
	OutboxEventsFailed      prometheus.Counter
	OutboxProcessingLatency prometheus.Histogram

	// Database metrics
	DatabaseOperations *prometheus.CounterVec
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		InferenceRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "inference_requests_total",
			Help:      "Total number of remote inference requests",
		}, []string{"operation", "status"}),
		InferenceLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "inference_request_duration_seconds",
			Help:      "Duration of remote inference requests",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"operation"}),
		FallbackTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "local_fallback_total",
			Help:      "Total number of calls served by the local algorithms after a remote failure",
		}, []string{"operation", "reason"}),
		ScoringLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "scoring_duration_seconds",
			Help:      "Time spent in the local scoring engine",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .025, .05, .1},
		}, []string{"operation"}),
		MatchesProduced: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "doctor_matches_total",
			Help:      "Total number of doctor assignments produced",
		}),
		PatientsRanked: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "patients_ranked_total",
			Help:      "Total number of patients ranked",
		}),
		OutboxEventsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outbox_events_processed_total",
			Help:      "Total number of successfully processed outbox events",
		}),
		OutboxEventsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outbox_events_failed_total",
			Help:      "Total number of failed outbox events",
		}),
		OutboxProcessingLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outbox_processing_duration_seconds",
			Help:      "Time spent processing outbox events",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		DatabaseOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "database_operations_total",
			Help:      "Total number of database operations",
		}, []string{"operation", "status"}),
	}
}
