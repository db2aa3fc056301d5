package stream

import (
	"context"
	"sync"

	"github.com/kbukum/iterkit/iterator"
)

// Map transforms each value using fn.
func Map[I, O any](s *Stream[I], fn func(context.Context, I) (O, error)) *Stream[O] {
	return &Stream[O]{
		create: func(ctx context.Context) iterator.Iterator[O] {
			return &mapIter[I, O]{source: s.create(ctx), fn: fn}
		},
	}
}

// FlatMap transforms each value into a cursor and flattens the results.
func FlatMap[I, O any](s *Stream[I], fn func(context.Context, I) (iterator.Iterator[O], error)) *Stream[O] {
	return &Stream[O]{
		create: func(ctx context.Context) iterator.Iterator[O] {
			return &flatMapIter[I, O]{source: s.create(ctx), fn: fn}
		},
	}
}

// Filter keeps only values that satisfy the predicate.
func Filter[T any](s *Stream[T], fn func(T) bool) *Stream[T] {
	return &Stream[T]{
		create: func(ctx context.Context) iterator.Iterator[T] {
			return &filterIter[T]{source: s.create(ctx), fn: fn}
		},
	}
}

// Take yields at most n values, then closes the source early.
func Take[T any](s *Stream[T], n int) *Stream[T] {
	return &Stream[T]{
		create: func(ctx context.Context) iterator.Iterator[T] {
			return &takeIter[T]{source: s.create(ctx), remaining: n}
		},
	}
}

// Skip discards the first n values.
func Skip[T any](s *Stream[T], n int) *Stream[T] {
	return &Stream[T]{
		create: func(ctx context.Context) iterator.Iterator[T] {
			return &skipIter[T]{source: s.create(ctx), remaining: n}
		},
	}
}

// Tap calls fn as a side-effect for each value, then passes the value through unchanged.
// Use for logging, metrics, or mid-stream publishing.
func Tap[T any](s *Stream[T], fn func(context.Context, T) error) *Stream[T] {
	return &Stream[T]{
		create: func(ctx context.Context) iterator.Iterator[T] {
			return &tapIter[T]{source: s.create(ctx), fn: fn}
		},
	}
}

// TapEach applies fn[i] to each element of a []T slice as a side-effect,
// then passes the slice through unchanged. Useful after FanOut.
func TapEach[T any](s *Stream[[]T], fns ...func(context.Context, T) error) *Stream[[]T] {
	return &Stream[[]T]{
		create: func(ctx context.Context) iterator.Iterator[[]T] {
			return &tapEachIter[T]{source: s.create(ctx), fns: fns}
		},
	}
}

// FanOut applies multiple functions to each input value in parallel
// and collects all results as a slice.
func FanOut[I, O any](s *Stream[I], fns ...func(context.Context, I) (O, error)) *Stream[[]O] {
	return &Stream[[]O]{
		create: func(ctx context.Context) iterator.Iterator[[]O] {
			return &fanOutIter[I, O]{source: s.create(ctx), fns: fns}
		},
	}
}

// Reduce accumulates all values into a single result.
// The stream yields exactly one value: the final accumulator.
func Reduce[T, R any](s *Stream[T], init R, fn func(R, T) R) *Stream[R] {
	return &Stream[R]{
		create: func(ctx context.Context) iterator.Iterator[R] {
			return &reduceIter[T, R]{source: s.create(ctx), acc: init, fn: fn}
		},
	}
}

// Concat joins multiple streams sequentially.
// All values from the first stream are yielded before the second, etc.
func Concat[T any](streams ...*Stream[T]) *Stream[T] {
	return &Stream[T]{
		create: func(ctx context.Context) iterator.Iterator[T] {
			iters := make([]iterator.Iterator[T], len(streams))
			for i, s := range streams {
				iters[i] = s.create(ctx)
			}
			return &concatIter[T]{iters: iters}
		},
	}
}

// Zip pairs values from two streams positionally using fn. The zipped stream
// ends when either source is exhausted; the longer source is closed early.
func Zip[A, B, O any](a *Stream[A], b *Stream[B], fn func(A, B) O) *Stream[O] {
	return &Stream[O]{
		create: func(ctx context.Context) iterator.Iterator[O] {
			return &zipIter[A, B, O]{
				left:  a.create(ctx),
				right: b.create(ctx),
				fn:    fn,
			}
		},
	}
}

// --- Iterator implementations ---

type mapIter[I, O any] struct {
	source iterator.Iterator[I]
	fn     func(context.Context, I) (O, error)
}

func (it *mapIter[I, O]) Next(ctx context.Context) (O, bool, error) {
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		var zero O
		return zero, false, err
	}
	out, err := it.fn(ctx, val)
	if err != nil {
		var zero O
		return zero, false, err
	}
	return out, true, nil
}

func (it *mapIter[I, O]) Close() error { return it.source.Close() }

type flatMapIter[I, O any] struct {
	source  iterator.Iterator[I]
	fn      func(context.Context, I) (iterator.Iterator[O], error)
	current iterator.Iterator[O]
}

func (it *flatMapIter[I, O]) Next(ctx context.Context) (O, bool, error) {
	for {
		if it.current != nil {
			val, ok, err := it.current.Next(ctx)
			if err != nil {
				var zero O
				return zero, false, err
			}
			if ok {
				return val, true, nil
			}
			_ = it.current.Close()
			it.current = nil
		}
		in, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			var zero O
			return zero, false, err
		}
		inner, err := it.fn(ctx, in)
		if err != nil {
			var zero O
			return zero, false, err
		}
		it.current = inner
	}
}

func (it *flatMapIter[I, O]) Close() error {
	if it.current != nil {
		_ = it.current.Close()
	}
	return it.source.Close()
}

type filterIter[T any] struct {
	source iterator.Iterator[T]
	fn     func(T) bool
}

func (it *filterIter[T]) Next(ctx context.Context) (T, bool, error) {
	for {
		val, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			return val, false, err
		}
		if it.fn(val) {
			return val, true, nil
		}
	}
}

func (it *filterIter[T]) Close() error { return it.source.Close() }

type takeIter[T any] struct {
	source    iterator.Iterator[T]
	remaining int
}

func (it *takeIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if it.remaining <= 0 {
		return zero, false, nil
	}
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		it.remaining = 0
		return zero, false, err
	}
	it.remaining--
	if it.remaining == 0 {
		// The source will not be pulled again; release it now.
		_ = it.source.Close()
	}
	return val, true, nil
}

func (it *takeIter[T]) Close() error {
	it.remaining = 0
	return it.source.Close()
}

type skipIter[T any] struct {
	source    iterator.Iterator[T]
	remaining int
}

func (it *skipIter[T]) Next(ctx context.Context) (T, bool, error) {
	for it.remaining > 0 {
		_, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			var zero T
			return zero, false, err
		}
		it.remaining--
	}
	return it.source.Next(ctx)
}

func (it *skipIter[T]) Close() error { return it.source.Close() }

type tapIter[T any] struct {
	source iterator.Iterator[T]
	fn     func(context.Context, T) error
}

func (it *tapIter[T]) Next(ctx context.Context) (T, bool, error) {
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return val, ok, err
	}
	if err := it.fn(ctx, val); err != nil {
		var zero T
		return zero, false, err
	}
	return val, true, nil
}

func (it *tapIter[T]) Close() error { return it.source.Close() }

type tapEachIter[T any] struct {
	source iterator.Iterator[[]T]
	fns    []func(context.Context, T) error
}

func (it *tapEachIter[T]) Next(ctx context.Context) ([]T, bool, error) {
	vals, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return vals, ok, err
	}
	n := len(it.fns)
	if n > len(vals) {
		n = len(vals)
	}
	for i := 0; i < n; i++ {
		if err := it.fns[i](ctx, vals[i]); err != nil {
			return nil, false, err
		}
	}
	return vals, true, nil
}

func (it *tapEachIter[T]) Close() error { return it.source.Close() }

type fanOutIter[I, O any] struct {
	source iterator.Iterator[I]
	fns    []func(context.Context, I) (O, error)
}

func (it *fanOutIter[I, O]) Next(ctx context.Context) ([]O, bool, error) {
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return nil, false, err
	}
	results := make([]O, len(it.fns))
	errs := make([]error, len(it.fns))
	var wg sync.WaitGroup
	wg.Add(len(it.fns))
	for i, fn := range it.fns {
		go func(i int, fn func(context.Context, I) (O, error)) {
			defer wg.Done()
			results[i], errs[i] = fn(ctx, val)
		}(i, fn)
	}
	wg.Wait()
	for _, e := range errs {
		if e != nil {
			return nil, false, e
		}
	}
	return results, true, nil
}

func (it *fanOutIter[I, O]) Close() error { return it.source.Close() }

type reduceIter[T, R any] struct {
	source iterator.Iterator[T]
	acc    R
	fn     func(R, T) R
	done   bool
}

func (it *reduceIter[T, R]) Next(ctx context.Context) (R, bool, error) {
	if it.done {
		var zero R
		return zero, false, nil
	}
	for {
		val, ok, err := it.source.Next(ctx)
		if err != nil {
			var zero R
			return zero, false, err
		}
		if !ok {
			it.done = true
			return it.acc, true, nil
		}
		it.acc = it.fn(it.acc, val)
	}
}

func (it *reduceIter[T, R]) Close() error { return it.source.Close() }

type concatIter[T any] struct {
	iters []iterator.Iterator[T]
	index int
}

func (it *concatIter[T]) Next(ctx context.Context) (T, bool, error) {
	for it.index < len(it.iters) {
		val, ok, err := it.iters[it.index].Next(ctx)
		if err != nil {
			return val, false, err
		}
		if ok {
			return val, true, nil
		}
		it.index++
	}
	var zero T
	return zero, false, nil
}

func (it *concatIter[T]) Close() error {
	var firstErr error
	for _, iter := range it.iters {
		if err := iter.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type zipIter[A, B, O any] struct {
	left   iterator.Iterator[A]
	right  iterator.Iterator[B]
	fn     func(A, B) O
	done   bool
	closed bool
}

func (it *zipIter[A, B, O]) Next(ctx context.Context) (O, bool, error) {
	var zero O
	if it.done {
		return zero, false, nil
	}
	a, ok, err := it.left.Next(ctx)
	if err != nil || !ok {
		it.finish()
		return zero, false, err
	}
	b, ok, err := it.right.Next(ctx)
	if err != nil || !ok {
		it.finish()
		return zero, false, err
	}
	return it.fn(a, b), true, nil
}

// finish marks the pair exhausted and releases both cursors.
// Neither side will be pulled again, so the longer source does not
// stay open until the outer Close.
func (it *zipIter[A, B, O]) finish() {
	it.done = true
	if !it.closed {
		it.closed = true
		_ = it.left.Close()
		_ = it.right.Close()
	}
}

func (it *zipIter[A, B, O]) Close() error {
	it.done = true
	if it.closed {
		return nil
	}
	it.closed = true
	lerr := it.left.Close()
	rerr := it.right.Close()
	if lerr != nil {
		return lerr
	}
	return rerr
}
