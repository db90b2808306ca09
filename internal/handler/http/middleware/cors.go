// Package middleware holds cross-cutting HTTP middleware that needs its own
// configuration, currently CORS.
package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
)

// defaultMaxAge is how long browsers may cache a preflight response.
const defaultMaxAge = 600

// CORSConfig holds the CORS policy.
type CORSConfig struct {
	// Validator decides which origins get CORS headers.
	Validator OriginValidator

	// AllowCredentials adds Access-Control-Allow-Credentials: true.
	AllowCredentials bool

	// MaxAge is the preflight cache duration in seconds.
	MaxAge int

	// Logger receives rejected origins at Warn and preflights at Debug.
	// Nil disables logging.
	Logger *slog.Logger
}

// NewCORSConfig builds the policy for the given origins. It returns nil
// when no origins are configured, which means CORS stays disabled.
//
// Credentials are allowed. Every method and header the browser asks for in a
// preflight is allowed by echoing the request back.
func NewCORSConfig(origins []string, logger *slog.Logger) *CORSConfig {
	validator := NewWhitelistValidator(origins)
	if len(validator.GetAllowedOrigins()) == 0 {
		return nil
	}
	return &CORSConfig{
		Validator:        validator,
		AllowCredentials: true,
		MaxAge:           defaultMaxAge,
		Logger:           logger,
	}
}

// CORS returns middleware enforcing config.
//
//   - No Origin header: passed through untouched.
//   - Origin not allowed: passed through without CORS headers, so the browser
//     blocks the response.
//   - Allowed preflight (OPTIONS with Access-Control-Request-Method): answered
//     with 204 and the handler is not called.
//   - Allowed actual request: CORS headers set, handler called.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Add("Vary", "Origin")

			if config.Validator == nil || !config.Validator.IsAllowed(origin) {
				if config.Logger != nil {
					config.Logger.Warn("CORS: origin not allowed",
						slog.String("origin", origin),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("remote_addr", r.RemoteAddr))
				}
				next.ServeHTTP(w, r)
				return
			}

			// The origin is echoed rather than "*" so credentials work.
			h.Set("Access-Control-Allow-Origin", origin)
			if config.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}

			reqMethod := r.Header.Get("Access-Control-Request-Method")
			if r.Method != http.MethodOptions || reqMethod == "" {
				next.ServeHTTP(w, r)
				return
			}

			h.Add("Vary", "Access-Control-Request-Method")
			h.Add("Vary", "Access-Control-Request-Headers")
			h.Set("Access-Control-Allow-Methods", reqMethod)
			if reqHeaders := r.Header.Get("Access-Control-Request-Headers"); reqHeaders != "" {
				h.Set("Access-Control-Allow-Headers", reqHeaders)
			}
			h.Set("Access-Control-Max-Age", strconv.Itoa(config.MaxAge))

			if config.Logger != nil {
				config.Logger.Debug("CORS: preflight request",
					slog.String("origin", origin),
					slog.String("requested_method", reqMethod),
					slog.String("requested_headers", r.Header.Get("Access-Control-Request-Headers")))
			}
			w.WriteHeader(http.StatusNoContent)
		})
	}
}
