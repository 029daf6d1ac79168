package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "storefront"

// Metrics contains all API metrics
type Metrics struct {
	GraphQLRequests        *prometheus.CounterVec
	GraphQLRequestDuration *prometheus.HistogramVec
	GraphQLFieldErrors     *prometheus.CounterVec
	StoreOperations        *prometheus.CounterVec
	EventsPublished        *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance. Nothing is registered yet.
func NewMetrics() *Metrics {
	return &Metrics{
		GraphQLRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "graphql",
				Name:      "requests_total",
				Help:      "Total number of GraphQL requests by operation and outcome",
			},
			[]string{"operation", "status"},
		),

		GraphQLRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "graphql",
				Name:      "request_duration_seconds",
				Help:      "GraphQL request execution time in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		GraphQLFieldErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "graphql",
				Name:      "field_errors_total",
				Help:      "Total number of field errors returned to clients by error code",
			},
			[]string{"code"},
		),

		StoreOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "operations_total",
				Help:      "Total number of persistence gateway calls",
			},
			[]string{"collection", "operation", "status"},
		),

		EventsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "events",
				Name:      "published_total",
				Help:      "Total number of change events published",
			},
			[]string{"subject", "status"},
		),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.GraphQLRequests,
		m.GraphQLRequestDuration,
		m.GraphQLFieldErrors,
		m.StoreOperations,
		m.EventsPublished,
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordRequest records one executed GraphQL request
func (m *Metrics) RecordRequest(operation string, failed bool, duration time.Duration) {
	if operation == "" {
		operation = "anonymous"
	}
	outcome := "ok"
	if failed {
		outcome = "error"
	}
	m.GraphQLRequests.WithLabelValues(operation, outcome).Inc()
	m.GraphQLRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordFieldError records one field error surfaced to a client
func (m *Metrics) RecordFieldError(code string) {
	m.GraphQLFieldErrors.WithLabelValues(code).Inc()
}

// RecordStoreOperation records one persistence gateway call
func (m *Metrics) RecordStoreOperation(collection, operation string, err error) {
	m.StoreOperations.WithLabelValues(collection, operation, status(err)).Inc()
}

// RecordEventPublished records one change event publish attempt
func (m *Metrics) RecordEventPublished(subject string, err error) {
	m.EventsPublished.WithLabelValues(subject, status(err)).Inc()
}
