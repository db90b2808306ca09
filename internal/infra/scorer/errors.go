package scorer

import "errors"

// Adapter errors. Every error returned by a scorer wraps one of these, the
// caller's context error, or an unclassified transport error.
var (
	// ErrUnavailable indicates the model server is not reachable or failed.
	ErrUnavailable = errors.New("scorer unavailable")

	// ErrCircuitOpen indicates too many recent failures; calls are rejected
	// without reaching the model server.
	ErrCircuitOpen = errors.New("scorer temporarily disabled (circuit breaker open)")

	// ErrTimeout indicates a scoring call exceeded its deadline.
	ErrTimeout = errors.New("scorer timed out")

	// ErrInvalidOutput indicates the model server answered with a payload
	// that does not match the scoring contract.
	ErrInvalidOutput = errors.New("invalid scorer output")

	// ErrInvalidRequest indicates the model server rejected the batch.
	ErrInvalidRequest = errors.New("scorer rejected request")
)
