package stream

import (
	"context"

	"github.com/kbukum/iterkit/errors"
	"github.com/kbukum/iterkit/iterator"
	"github.com/kbukum/iterkit/resilience"
)

// WithRetry retries failed pulls with exponential backoff. A pull that fails
// with a retryable producer error (SOURCE_UNAVAILABLE, TIMEOUT, RATE_LIMITED)
// is attempted again against the same cursor; non-retryable errors surface
// immediately.
//
// If cfg.RetryIf is nil, errors.IsRetryable decides. Exhaustion is not an
// error and is never retried.
func WithRetry[T any](s *Stream[T], cfg resilience.RetryConfig) *Stream[T] {
	if cfg.RetryIf == nil {
		cfg.RetryIf = errors.IsRetryable
	}
	return &Stream[T]{
		create: func(ctx context.Context) iterator.Iterator[T] {
			return &retryIter[T]{source: s.create(ctx), cfg: cfg}
		},
	}
}

type retryIter[T any] struct {
	source iterator.Iterator[T]
	cfg    resilience.RetryConfig
}

type pulled[T any] struct {
	val T
	ok  bool
}

func (it *retryIter[T]) Next(ctx context.Context) (T, bool, error) {
	res, err := resilience.Retry(ctx, it.cfg, func() (pulled[T], error) {
		v, ok, err := it.source.Next(ctx)
		if err != nil {
			return pulled[T]{}, err
		}
		return pulled[T]{val: v, ok: ok}, nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	return res.val, res.ok, nil
}

func (it *retryIter[T]) Close() error { return it.source.Close() }
