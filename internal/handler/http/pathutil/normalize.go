// Package pathutil maps request paths onto a bounded set of metric labels.
package pathutil

import (
	"strings"
)

// Unmatched is the label used for every path the server does not route.
const Unmatched = "/:unmatched"

// Route paths served by the API.
const (
	RouteSummarize = "/summarize"
	RouteHealthz   = "/healthz"
	RouteHealth    = "/health"
	RouteReady     = "/ready"
	RouteLive      = "/live"
	RouteMetrics   = "/metrics"
)

var knownRoutes = map[string]struct{}{
	RouteSummarize: {},
	RouteHealthz:   {},
	RouteHealth:    {},
	RouteReady:     {},
	RouteLive:      {},
	RouteMetrics:   {},
}

// NormalizePath returns the route label for path.
// Query strings and a trailing slash are ignored. Paths the server does not
// serve collapse into Unmatched so scanners cannot inflate label cardinality.
//
//	NormalizePath("/summarize")          // "/summarize"
//	NormalizePath("/summarize/?debug=1") // "/summarize"
//	NormalizePath("/wp-login.php")       // "/:unmatched"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	// Strip trailing slash if present (except for root path)
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	if _, ok := knownRoutes[path]; ok {
		return path
	}
	return Unmatched
}

// GetExpectedCardinality returns the number of distinct labels NormalizePath
// can produce.
func GetExpectedCardinality() int {
	return len(knownRoutes) + 1
}
