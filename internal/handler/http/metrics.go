package http

import (
	"net/http"
	"strconv"
	"time"

	"extractive-summarizer/internal/handler/http/pathutil"
	"extractive-summarizer/internal/handler/http/responsewriter"
	"extractive-summarizer/internal/observability/metrics"
	"extractive-summarizer/internal/observability/slo"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsMiddleware records HTTP request metrics including duration, size, and status codes.
// Paths are reduced to route labels by pathutil.NormalizePath so unknown
// paths cannot blow up label cardinality. Summarize requests also feed the
// SLO window.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		route := pathutil.NormalizePath(r.URL.Path)
		rw := responsewriter.Wrap(w)

		start := time.Now()
		next.ServeHTTP(rw, r)
		elapsed := time.Since(start)

		if route == pathutil.RouteSummarize {
			slo.Default.Observe(rw.StatusCode(), elapsed)
		}

		requestSize := 0
		if r.ContentLength > 0 {
			requestSize = int(r.ContentLength)
		}
		metrics.RecordHTTPRequest(
			r.Method,
			route,
			strconv.Itoa(rw.StatusCode()),
			elapsed,
			requestSize,
			rw.BytesWritten(),
		)
	})
}

// MetricsHandler returns an HTTP handler for the Prometheus metrics endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
