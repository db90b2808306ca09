// Package resilience groups the fault tolerance helpers used around the
// salience scorer.
//
//   - circuitbreaker: typed gobreaker wrapper that fails fast while the model server is down
//   - retry: exponential backoff with jitter and Retry-After support for the HTTP scorer
//
// The HTTP scorer nests them so that one retried call counts once towards
// the breaker:
//
//	scores, err := circuitbreaker.Call(cb, func() ([]float64, error) {
//	    var resp scoreResponse
//	    err := retry.WithBackoff(ctx, retry.ScorerConfig(), func() error {
//	        return post(ctx, body, &resp)
//	    })
//	    ...
//	})
package resilience
