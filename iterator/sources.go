package iterator

import (
	"context"
	"sync/atomic"

	"github.com/kbukum/iterkit/errors"
)

type sliceIter[T any] struct {
	items []T
	pos   int
}

func (s *sliceIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	if s.pos >= len(s.items) {
		return zero, false, nil
	}
	v := s.items[s.pos]
	s.pos++
	return v, true, nil
}

func (s *sliceIter[T]) Close() error {
	s.pos = len(s.items)
	return nil
}

// FromSlice returns an Iterable over the given slice. Every Iter call yields
// an independent cursor starting at the first element. The slice is not
// copied; callers must not mutate it while iterating.
func FromSlice[T any](items []T) Iterable[T] {
	return IterFunc[T](func(ctx context.Context) Iterator[T] {
		return &sliceIter[T]{items: items}
	})
}

// Of returns an Iterable over the given elements.
func Of[T any](items ...T) Iterable[T] {
	return FromSlice(items)
}

// Empty returns an Iterable whose cursors are exhausted from the first pull.
func Empty[T any]() Iterable[T] {
	return IterFunc[T](func(ctx context.Context) Iterator[T] {
		return Func[T](func(ctx context.Context) (T, bool, error) {
			var zero T
			return zero, false, nil
		})
	})
}

// Fail returns an Iterable whose cursors fail with err on the first pull.
// Useful for propagating a construction-time failure through a lazy chain.
func Fail[T any](err error) Iterable[T] {
	return IterFunc[T](func(ctx context.Context) Iterator[T] {
		return Func[T](func(ctx context.Context) (T, bool, error) {
			var zero T
			return zero, false, err
		})
	})
}

// FromFunc returns an Iterable backed by a cursor factory. The factory runs
// once per Iter call, so each cursor gets fresh state.
//
//	counter := iterator.FromFunc(func(ctx context.Context) iterator.Func[int] {
//	    n := 0
//	    return func(ctx context.Context) (int, bool, error) {
//	        n++
//	        return n, n <= 3, nil
//	    }
//	})
func FromFunc[T any](factory func(ctx context.Context) Func[T]) Iterable[T] {
	return IterFunc[T](func(ctx context.Context) Iterator[T] {
		return factory(ctx)
	})
}

type chanIter[T any] struct {
	ch <-chan T
}

func (c *chanIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	case v, ok := <-c.ch:
		if !ok {
			return zero, false, nil
		}
		return v, true, nil
	}
}

func (c *chanIter[T]) Close() error { return nil }

// FromChan returns a single-use Iterable that drains ch. The first Iter call
// returns a cursor over the channel; later calls return a cursor that fails
// with a SINGLE_USE error, since the channel cannot be rewound.
//
// Closing the cursor does not close or drain the channel.
func FromChan[T any](ch <-chan T) Iterable[T] {
	var taken atomic.Bool
	return IterFunc[T](func(ctx context.Context) Iterator[T] {
		if !taken.CompareAndSwap(false, true) {
			return Func[T](func(ctx context.Context) (T, bool, error) {
				var zero T
				return zero, false, errors.SingleUse("channel")
			})
		}
		return &chanIter[T]{ch: ch}
	})
}

type rangeIter[T int | int32 | int64] struct {
	next, stop, step T
}

func (r *rangeIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	if r.step > 0 && r.next >= r.stop || r.step < 0 && r.next <= r.stop {
		return zero, false, nil
	}
	v := r.next
	r.next += r.step
	return v, true, nil
}

func (r *rangeIter[T]) Close() error {
	r.stop = r.next
	return nil
}

// Range returns an Iterable over [start, stop) advancing by step. A negative
// step counts down. Step zero yields an empty sequence.
func Range[T int | int32 | int64](start, stop, step T) Iterable[T] {
	return IterFunc[T](func(ctx context.Context) Iterator[T] {
		if step == 0 {
			return &rangeIter[T]{next: stop, stop: stop, step: 1}
		}
		return &rangeIter[T]{next: start, stop: stop, step: step}
	})
}
