// Package observability groups the service's logging, metrics, SLO and
// tracing subpackages.
//
//   - logging: slog construction and request-scoped loggers
//   - metrics: Prometheus collectors for HTTP traffic and the pipeline
//   - slo: rolling availability and latency indicators for /summarize
//   - tracing: OpenTelemetry spans and HTTP middleware
package observability
