// Package http provides HTTP handlers and middleware for the summarization
// API: health and readiness probes, Prometheus metrics, request logging,
// panic recovery, body limits and request timeouts.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"extractive-summarizer/internal/handler/http/respond"
	"extractive-summarizer/internal/infra/scorer"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"

	healthCheckTimeout = 5 * time.Second
	readyCheckTimeout  = 2 * time.Second
)

// ScorerProbe is the part of the scorer client the probes need.
type ScorerProbe interface {
	Backend() string
	Health(ctx context.Context) (*scorer.HealthStatus, error)
}

// HealthResponse represents the JSON response for the detailed health endpoint.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`    // Status of each check item
	Version   string                 `json:"version"`   // Application version
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`            // "healthy" or "unhealthy"
	Message string         `json:"message,omitempty"` // Optional status message
	Details map[string]any `json:"details,omitempty"` // Optional additional details
}

// HealthzResponse is the body of GET /healthz.
type HealthzResponse struct {
	Status string `json:"status"`
	Scorer string `json:"scorer"`
}

// HealthzHandler reports that the process is up and which scorer backend it
// was started with. It never calls the scorer.
type HealthzHandler struct {
	Backend string
}

func (h *HealthzHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, http.StatusOK, HealthzResponse{Status: "ok", Scorer: h.Backend})
}

// HealthHandler handles detailed health check requests.
// It probes the scorer and reports its latency and circuit state.
type HealthHandler struct {
	Scorer  ScorerProbe
	Version string
}

// ServeHTTP returns 200 OK if every check passes, or 503 Service Unavailable otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	checks := make(map[string]CheckStatus)
	allHealthy := true

	scorerCheck := h.checkScorer(ctx)
	checks["scorer"] = scorerCheck
	if scorerCheck.Status != statusHealthy {
		allHealthy = false
	}

	status := statusHealthy
	statusCode := http.StatusOK
	if !allHealthy {
		status = statusUnhealthy
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, statusCode, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

func (h *HealthHandler) checkScorer(ctx context.Context) CheckStatus {
	if h.Scorer == nil {
		return CheckStatus{Status: statusUnhealthy, Message: "not configured"}
	}

	details := map[string]any{"backend": h.Scorer.Backend()}

	hs, err := h.Scorer.Health(ctx)
	if err != nil {
		slog.Default().Warn("scorer health check failed",
			slog.String("backend", h.Scorer.Backend()),
			slog.Any("error", err))
		return CheckStatus{Status: statusUnhealthy, Message: "health check failed", Details: details}
	}
	if hs == nil {
		return CheckStatus{Status: statusUnhealthy, Message: "no health status", Details: details}
	}

	details["latency_ms"] = hs.Latency.Milliseconds()
	details["circuit_open"] = hs.CircuitOpen

	status := statusHealthy
	if !hs.Healthy {
		status = statusUnhealthy
	}
	return CheckStatus{Status: status, Message: hs.Message, Details: details}
}

// ReadyResponse is the body of GET /ready.
type ReadyResponse struct {
	Ready   bool   `json:"ready"`
	Message string `json:"message,omitempty"`
}

// ReadyHandler handles readiness probe requests.
// Readiness only depends on the scorer circuit breaker: a scorer that is slow
// or degraded but not tripped still receives traffic.
type ReadyHandler struct {
	Scorer ScorerProbe
}

// ServeHTTP returns 200 OK if ready, or 503 Service Unavailable otherwise.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
	defer cancel()

	if h.Scorer == nil {
		respond.JSON(w, http.StatusServiceUnavailable, ReadyResponse{Message: "scorer not configured"})
		return
	}

	hs, err := h.Scorer.Health(ctx)
	if hs == nil {
		msg := "health check failed"
		if err != nil {
			msg = respond.SanitizeError(err)
		}
		respond.JSON(w, http.StatusServiceUnavailable, ReadyResponse{Message: msg})
		return
	}

	if hs.CircuitOpen {
		respond.JSON(w, http.StatusServiceUnavailable, ReadyResponse{Message: "circuit breaker open"})
		return
	}

	respond.JSON(w, http.StatusOK, ReadyResponse{Ready: true})
}

// LiveHandler handles liveness probe requests.
type LiveHandler struct{}

// ServeHTTP always returns 200 OK while the process can respond.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("alive")); err != nil {
		slog.Default().Debug("alive: failed to write response", slog.Any("error", err))
	}
}
