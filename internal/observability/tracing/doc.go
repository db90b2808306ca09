// Package tracing provides OpenTelemetry tracing integration.
//
// Features:
//   - Automatic HTTP request tracing with W3C Trace Context propagation
//   - X-Trace-Id response header for client-side correlation
//   - Pipeline stage spans (segment, score, select) created from GetTracer
//
// The exporter is chosen by the process; without one the global no-op
// provider is used and spans cost nothing.
//
// Example usage:
//
//	import "extractive-summarizer/internal/observability/tracing"
//
//	func score(ctx context.Context) error {
//	    ctx, span := tracing.GetTracer().Start(ctx, "summarize.score")
//	    defer span.End()
//	    err := doScore(ctx)
//	    tracing.RecordError(ctx, err)
//	    return err
//	}
package tracing
