package stream

import (
	"context"
	"time"

	"github.com/kbukum/iterkit/iterator"
	"github.com/kbukum/iterkit/resilience"
)

// Throttle drops values that arrive faster than the given interval.
// Only the first value in each interval window is emitted; subsequent
// values within the same window are dropped.
// Useful for rate-limiting downstream processing.
func Throttle[T any](s *Stream[T], interval time.Duration) *Stream[T] {
	return &Stream[T]{
		create: func(ctx context.Context) iterator.Iterator[T] {
			return &throttleIter[T]{
				source:   s.create(ctx),
				interval: interval,
			}
		},
	}
}

type throttleIter[T any] struct {
	source   iterator.Iterator[T]
	interval time.Duration
	lastEmit time.Time
}

func (it *throttleIter[T]) Next(ctx context.Context) (T, bool, error) {
	for {
		val, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			return val, ok, err
		}
		now := time.Now()
		if it.lastEmit.IsZero() || now.Sub(it.lastEmit) >= it.interval {
			it.lastEmit = now
			return val, true, nil
		}
		// too soon, drop it
	}
}

func (it *throttleIter[T]) Close() error { return it.source.Close() }

// RateLimit paces the stream with a token bucket: every pull waits for a
// token before pulling the source. Unlike Throttle, no values are dropped.
func RateLimit[T any](s *Stream[T], limiter *resilience.RateLimiter) *Stream[T] {
	return &Stream[T]{
		create: func(ctx context.Context) iterator.Iterator[T] {
			return &rateLimitIter[T]{
				source:  s.create(ctx),
				limiter: limiter,
			}
		},
	}
}

type rateLimitIter[T any] struct {
	source  iterator.Iterator[T]
	limiter *resilience.RateLimiter
}

func (it *rateLimitIter[T]) Next(ctx context.Context) (T, bool, error) {
	if err := it.limiter.Wait(ctx); err != nil {
		var zero T
		return zero, false, err
	}
	return it.source.Next(ctx)
}

func (it *rateLimitIter[T]) Close() error { return it.source.Close() }
