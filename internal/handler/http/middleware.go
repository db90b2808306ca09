package http

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"extractive-summarizer/internal/handler/http/pathutil"
	"extractive-summarizer/internal/handler/http/requestid"
	"extractive-summarizer/internal/handler/http/respond"
	"extractive-summarizer/internal/handler/http/responsewriter"
	"extractive-summarizer/internal/observability/logging"
	"extractive-summarizer/internal/observability/tracing"
)

// probeRoutes are polled by orchestrators and logged at debug level.
var probeRoutes = map[string]struct{}{
	pathutil.RouteHealthz: {},
	pathutil.RouteLive:    {},
	pathutil.RouteReady:   {},
	pathutil.RouteMetrics: {},
}

// Logging logs one line per request once the response is done. Handlers
// get a logger carrying the request ID through logging.FromContext.
//
// 5xx responses log at error level and 4xx at warn. The trace ID is taken
// from the response header set by tracing.Middleware further down the chain.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLogger := logging.WithRequestID(r.Context(), logger)
			rw := responsewriter.Wrap(w)

			next.ServeHTTP(rw, r.WithContext(logging.WithLogger(r.Context(), reqLogger)))

			status := rw.StatusCode()
			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("user_agent", r.UserAgent()),
				slog.Int64("content_length", r.ContentLength),
				slog.Int("status", status),
				slog.Int("bytes", rw.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
			}
			if traceID := rw.Header().Get(tracing.TraceIDHeader); traceID != "" {
				attrs = append(attrs, slog.String("trace_id", traceID))
			}
			reqLogger.LogAttrs(r.Context(), requestLogLevel(r.URL.Path, status), "request completed", attrs...)
		})
	}
}

func requestLogLevel(path string, status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	}
	if _, ok := probeRoutes[pathutil.NormalizePath(path)]; ok {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// Recover turns a handler panic into a 500 JSON response and logs the
// stack. If the handler already started its response, only the log is
// written. http.ErrAbortHandler is re-raised.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := responsewriter.Wrap(w)
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				logger.Error("panic recovered",
					slog.String("request_id", requestid.FromContext(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())))

				if !rw.Written() {
					respond.JSON(rw, http.StatusInternalServerError, respond.ErrorBody{Error: "internal server error"})
				}
			}()
			next.ServeHTTP(rw, r)
		})
	}
}

// LimitRequestBody caps request bodies at maxBytes. Reads past the limit
// fail with *http.MaxBytesError, which handlers map to 413.
func LimitRequestBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				respond.JSON(w, http.StatusRequestEntityTooLarge, respond.ErrorBody{Error: "request body too large"})
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
