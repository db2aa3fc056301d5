package stream

import (
	"context"

	"github.com/kbukum/iterkit/generator"
	"github.com/kbukum/iterkit/iterator"
)

// Stream represents a lazy, pull-based element pipeline.
// No work happens until values are pulled via Collect, Drain, or ForEach.
type Stream[T any] struct {
	create func(ctx context.Context) iterator.Iterator[T]
}

// Runnable is a fully-configured stream ready to execute.
type Runnable struct {
	run func(ctx context.Context) error
}

// Run executes the stream until completion or context cancellation.
func (r *Runnable) Run(ctx context.Context) error {
	return r.run(ctx)
}

// result carries a value or error through a channel.
type result[T any] struct {
	val T
	ok  bool
	err error
}

// channelIter reads values from a channel. Used by concurrent operators.
type channelIter[T any] struct {
	ch     <-chan result[T]
	closer func() error
}

func (it *channelIter[T]) Next(ctx context.Context) (T, bool, error) {
	select {
	case r, open := <-it.ch:
		if !open {
			var zero T
			return zero, false, nil
		}
		return r.val, r.ok, r.err
	case <-ctx.Done():
		var zero T
		return zero, false, ctx.Err()
	}
}

func (it *channelIter[T]) Close() error {
	if it.closer != nil {
		return it.closer()
	}
	return nil
}

// --- Constructors ---

// From creates a stream from an Iterable. Each traversal acquires a fresh
// cursor, so the stream is as re-iterable as its source.
func From[T any](src iterator.Iterable[T]) *Stream[T] {
	return &Stream[T]{create: src.Iter}
}

// FromIterator creates a single-pass stream over an existing cursor.
func FromIterator[T any](it iterator.Iterator[T]) *Stream[T] {
	return &Stream[T]{
		create: func(_ context.Context) iterator.Iterator[T] {
			return it
		},
	}
}

// FromSlice creates a stream from a slice of values.
func FromSlice[T any](items []T) *Stream[T] {
	return From(iterator.FromSlice(items))
}

// Of creates a stream from the given values.
func Of[T any](items ...T) *Stream[T] {
	return FromSlice(items)
}

// FromFunc creates a stream from a factory that produces a cursor.
func FromFunc[T any](fn func(ctx context.Context) iterator.Iterator[T]) *Stream[T] {
	return &Stream[T]{create: fn}
}

// Generate creates a stream backed by a suspendable generator body. Every
// traversal launches a fresh body invocation in its own goroutine, so the
// stream is re-iterable as long as body does not close over mutable state.
func Generate[T any](body generator.Body[T]) *Stream[T] {
	return &Stream[T]{
		create: func(_ context.Context) iterator.Iterator[T] {
			return generator.New(body)
		},
	}
}

// --- Terminals ---

// Drain creates a Runnable that pulls all values and sends each to sink.
func Drain[T any](s *Stream[T], sink func(context.Context, T) error) *Runnable {
	return &Runnable{
		run: func(ctx context.Context) error {
			it := s.create(ctx)
			defer it.Close()
			for {
				val, ok, err := it.Next(ctx)
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
				if err := sink(ctx, val); err != nil {
					return err
				}
			}
		},
	}
}

// Collect runs the stream and returns all values as a slice.
func Collect[T any](ctx context.Context, s *Stream[T]) ([]T, error) {
	return iterator.Collect(ctx, s)
}

// ForEach pulls all values and calls fn for each. Convenience wrapper around Drain.
func ForEach[T any](ctx context.Context, s *Stream[T], fn func(context.Context, T) error) error {
	return Drain(s, fn).Run(ctx)
}

// First runs the stream until the first value, closing the cursor immediately.
func First[T any](ctx context.Context, s *Stream[T]) (T, bool, error) {
	return iterator.First[T](ctx, s)
}

// Count runs the stream and returns the number of values it produced.
func Count[T any](ctx context.Context, s *Stream[T]) (int64, error) {
	return iterator.CountAll[T](ctx, s)
}

// Iter returns a raw cursor for this stream. The caller must Close() it.
// Stream satisfies iterator.Iterable, so iterator terminals accept it directly.
func (s *Stream[T]) Iter(ctx context.Context) iterator.Iterator[T] {
	return s.create(ctx)
}
