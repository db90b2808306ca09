// Package logging builds the process slog.Logger from LOG_LEVEL and
// LOG_FORMAT and carries per-request loggers through context.
//
// The HTTP and gRPC logging middleware store a logger tagged with the
// request ID; handlers and the pipeline fetch it with FromContext:
//
//	logging.FromContext(ctx).Debug("batch scored", slog.Int("batch", n))
package logging
