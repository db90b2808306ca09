package scorer

import "time"

// HealthStatus describes the reachability of a scorer backend.
type HealthStatus struct {
	Healthy     bool
	Latency     time.Duration
	Message     string
	CircuitOpen bool
}
