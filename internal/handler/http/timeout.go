package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"extractive-summarizer/internal/handler/http/respond"
	"extractive-summarizer/internal/observability/logging"
)

// Timeout returns middleware that bounds the whole request, scorer calls
// included. If the handler has not started its response when the deadline
// passes, the client gets 504 Gateway Timeout. The request context is
// canceled either way so the pipeline stops scoring.
//
// Only one goroutine (the handler or the timeout path) ever writes the
// response; a mutex decides which.
func Timeout(duration time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), duration)
			defer cancel()

			r = r.WithContext(ctx)

			done := make(chan struct{})
			panicked := make(chan any, 1)
			tw := &timeoutResponseWriter{
				w:      w,
				header: make(http.Header),
			}

			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
					}
				}()
				next.ServeHTTP(tw, r)
				close(done)
			}()

			select {
			case p := <-panicked:
				// Re-raise on the serving goroutine so Recover sees it.
				panic(p)
			case <-done:
				return
			case <-ctx.Done():
				tw.mu.Lock()
				defer tw.mu.Unlock()
				tw.timedOut = true
				logging.FromContext(r.Context()).Warn("request deadline exceeded",
					slog.String("path", r.URL.Path),
					slog.Duration("timeout", duration),
					slog.Bool("response_started", tw.written))
				if !tw.written {
					respond.JSON(w, http.StatusGatewayTimeout, respond.ErrorBody{Error: "request timeout"})
				}
			}
		})
	}
}

// timeoutResponseWriter buffers headers until the handler commits its
// response, and drops writes after the timeout fired.
type timeoutResponseWriter struct {
	w      http.ResponseWriter
	header http.Header

	mu       sync.Mutex
	timedOut bool
	written  bool
}

// Header returns the handler's private header map.
func (tw *timeoutResponseWriter) Header() http.Header {
	return tw.header
}

// WriteHeader commits the status code if the timeout hasn't fired.
func (tw *timeoutResponseWriter) WriteHeader(statusCode int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut || tw.written {
		return
	}
	tw.writeHeaderLocked(statusCode)
}

// Write writes data if the timeout hasn't fired.
func (tw *timeoutResponseWriter) Write(data []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if !tw.written {
		tw.writeHeaderLocked(http.StatusOK)
	}
	return tw.w.Write(data)
}

func (tw *timeoutResponseWriter) writeHeaderLocked(statusCode int) {
	tw.written = true
	dst := tw.w.Header()
	for k, vv := range tw.header {
		dst[k] = vv
	}
	tw.w.WriteHeader(statusCode)
}
