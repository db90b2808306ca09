package scorer

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// RateLimited caps the rate of scoring calls across all requests sharing
// the client. Each batch consumes one token.
type RateLimited struct {
	Client
	limiter *rate.Limiter
}

// NewRateLimited wraps next with a token bucket of rps tokens per second and
// the given burst.
func NewRateLimited(next Client, rps float64, burst int) *RateLimited {
	return &RateLimited{
		Client:  next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Score waits for a token, then delegates.
func (r *RateLimited) Score(ctx context.Context, batch []string, maxLength int) ([]float64, error) {
	start := time.Now()
	if err := r.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("rate limit wait: %w", ctxErr)
		}
		// The wait would outlast the caller's deadline.
		return nil, fmt.Errorf("%w: rate limit wait: %v", ErrTimeout, err)
	}
	scorerRateLimitWait.Observe(time.Since(start).Seconds())

	return r.Client.Score(ctx, batch, maxLength)
}
