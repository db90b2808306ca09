package slo

import (
	"context"
	"math"
	"net/http"
	"slices"
	"sync"
	"time"
)

// DefaultWindow is the number of recent requests Default keeps.
const DefaultWindow = 1024

// Default is the process-wide tracker fed by the HTTP metrics middleware.
var Default = NewTracker(DefaultWindow)

// Snapshot is the state of a window at one point in time.
type Snapshot struct {
	Requests     int
	Availability float64
	ErrorRate    float64
	P95          time.Duration
	P99          time.Duration
}

// Tracker keeps the outcome of the last N requests in a ring buffer.
// It is safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	durations []time.Duration
	failed    []bool
	next      int
	size      int
}

// NewTracker returns a tracker over the last window requests.
// A window below 1 is treated as 1.
func NewTracker(window int) *Tracker {
	window = max(window, 1)
	return &Tracker{
		durations: make([]time.Duration, window),
		failed:    make([]bool, window),
	}
}

// Observe records one finished request. Any 5xx status counts against
// availability.
func (t *Tracker) Observe(status int, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.durations[t.next] = d
	t.failed[t.next] = status >= http.StatusInternalServerError
	t.next = (t.next + 1) % len(t.durations)
	if t.size < len(t.durations) {
		t.size++
	}
}

// Snapshot computes the indicators over the current window. An empty window
// reports full availability and zero latency.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	durations := slices.Clone(t.durations[:t.size])
	failures := 0
	for _, f := range t.failed[:t.size] {
		if f {
			failures++
		}
	}
	t.mu.Unlock()

	if len(durations) == 0 {
		return Snapshot{Availability: 1}
	}

	slices.Sort(durations)
	errRate := float64(failures) / float64(len(durations))
	return Snapshot{
		Requests:     len(durations),
		Availability: 1 - errRate,
		ErrorRate:    errRate,
		P95:          nearestRank(durations, 0.95),
		P99:          nearestRank(durations, 0.99),
	}
}

// Publish writes the current snapshot to the SLO gauges and returns it.
func (t *Tracker) Publish() Snapshot {
	s := t.Snapshot()
	UpdateAvailability(s.Availability)
	UpdateErrorRate(s.ErrorRate)
	UpdateLatencyP95(s.P95.Seconds())
	UpdateLatencyP99(s.P99.Seconds())
	return s
}

// Run publishes every interval until ctx is done. It always returns nil so
// it can run inside an errgroup next to the servers.
func (t *Tracker) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.Publish()
			return nil
		case <-ticker.C:
			t.Publish()
		}
	}
}

// nearestRank returns the q-quantile of sorted using the nearest-rank method.
func nearestRank(sorted []time.Duration, q float64) time.Duration {
	rank := int(math.Ceil(q * float64(len(sorted))))
	return sorted[min(max(rank, 1), len(sorted))-1]
}
