// Package resilience provides retry and rate-limiting wrappers for
// fault-tolerant producers.
//
// The iteration contracts themselves never retry: a failed Next surfaces its
// error immediately. When a source is worth re-driving (a flaky feed, a
// timeout), wrap the pull in Retry, or bound the pull rate with RateLimiter:
//
//	rl := resilience.NewRateLimiter(resilience.RateLimiterConfig{Rate: 100, Burst: 20})
//	val, err := resilience.Retry(ctx, cfg, func() (int, error) {
//	    if err := rl.Wait(ctx); err != nil {
//	        return 0, err
//	    }
//	    return source.Pull(ctx)
//	})
//
// The stream package builds on these primitives with stream.WithRetry and
// stream.RateLimit.
package resilience
