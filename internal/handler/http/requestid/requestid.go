// Package requestid tags every HTTP and gRPC request with an ID that shows
// up in logs, response headers and scorer spans.
package requestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey struct{}

const (
	// Header carries the ID on HTTP requests and responses.
	Header = "X-Request-ID"
	// MetadataKey carries the ID in gRPC metadata.
	MetadataKey = "x-request-id"

	maxLength = 128
)

// Resolve keeps candidate if it is short printable ASCII and otherwise
// returns a fresh UUID v4. Client supplied IDs are logged verbatim.
func Resolve(candidate string) string {
	if !valid(candidate) {
		return uuid.NewString()
	}
	return candidate
}

func valid(id string) bool {
	if id == "" || len(id) > maxLength {
		return false
	}
	for i := range len(id) {
		if c := id[i]; c < '!' || c > '~' {
			return false
		}
	}
	return true
}

// FromContext returns the request ID, or "" outside a request.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// Middleware echoes a valid X-Request-ID or assigns a new one, and stores it
// in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := Resolve(r.Header.Get(Header))
		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
	})
}
