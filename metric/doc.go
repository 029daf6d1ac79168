// Package metric provides the Prometheus metrics of the storefront API.
//
// A MetricsRegistry owns a private prometheus.Registry holding the Go runtime
// and process collectors plus the API metrics in Metrics:
//
//   - storefront_graphql_requests_total{operation,status}
//   - storefront_graphql_request_duration_seconds{operation}
//   - storefront_graphql_field_errors_total{code}
//   - storefront_store_operations_total{collection,operation,status}
//   - storefront_events_published_total{subject,status}
//
// The store counter sees every persistence call, so the per-instance lookups
// made by relational fields show up one by one.
//
// Basic usage:
//
//	registry := metric.NewMetricsRegistry()
//	mux.Handle("/metrics", registry.Handler())
//	registry.CoreMetrics().RecordStoreOperation("products", "find_by_id", nil)
package metric
