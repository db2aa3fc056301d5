package iterator

import (
	"context"
)

// Iterator is a stateful cursor over a sequence of T.
//
// Next returns the next element with ok=true, or ok=false when the sequence
// is exhausted. A non-nil error means the producer failed while computing the
// element; the accompanying value is the zero value and ok is false. Callers
// must not call Next again after an error.
//
// Close releases resources held by the cursor. It must be idempotent and safe
// to call whether or not the cursor is exhausted. Consumers that stop before
// exhaustion are required to call Close.
type Iterator[T any] interface {
	Next(ctx context.Context) (T, bool, error)
	Close() error
}

// Iterable hands out fresh, independent cursors over the same logical
// sequence. Two cursors from the same Iterable never share position.
//
// Single-use sources (channels, generators) return an Iterator whose second
// acquisition fails with a SINGLE_USE error; their docs say so.
type Iterable[T any] interface {
	Iter(ctx context.Context) Iterator[T]
}

// Func adapts a pull function into an Iterator with a no-op Close.
type Func[T any] func(ctx context.Context) (T, bool, error)

// Next implements Iterator.
func (f Func[T]) Next(ctx context.Context) (T, bool, error) { return f(ctx) }

// Close implements Iterator. It is a no-op.
func (f Func[T]) Close() error { return nil }

// IterFunc adapts a cursor-factory function into an Iterable.
type IterFunc[T any] func(ctx context.Context) Iterator[T]

// Iter implements Iterable.
func (f IterFunc[T]) Iter(ctx context.Context) Iterator[T] { return f(ctx) }

type withClose[T any] struct {
	Iterator[T]
	closeFn func() error
	closed  bool
}

func (w *withClose[T]) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	err := w.Iterator.Close()
	if cerr := w.closeFn(); err == nil {
		err = cerr
	}
	return err
}

// WithClose returns an iterator that runs fn exactly once when closed, after
// the wrapped iterator's own Close. Use it to tie resource release (file
// handles, connections) to cursor lifetime.
func WithClose[T any](it Iterator[T], fn func() error) Iterator[T] {
	return &withClose[T]{Iterator: it, closeFn: fn}
}
