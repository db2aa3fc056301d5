package iterator

import (
	"context"
	"iter"
	"sync"
)

type seqIter[T any] struct {
	next func() (T, bool)
	stop func()
}

func (s *seqIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	v, ok := s.next()
	if !ok {
		return zero, false, nil
	}
	return v, true, nil
}

func (s *seqIter[T]) Close() error {
	s.stop()
	return nil
}

// FromSeq adapts a standard iter.Seq into an Iterable. Each Iter call starts
// a fresh range over seq, so cursor independence holds as long as seq itself
// is re-rangeable.
func FromSeq[T any](seq iter.Seq[T]) Iterable[T] {
	return IterFunc[T](func(ctx context.Context) Iterator[T] {
		next, stop := iter.Pull(seq)
		return &seqIter[T]{next: next, stop: stop}
	})
}

type seq2Iter[T any] struct {
	next func() (T, error, bool)
	stop func()
}

func (s *seq2Iter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	v, err, ok := s.next()
	if !ok {
		return zero, false, nil
	}
	if err != nil {
		s.stop()
		return zero, false, err
	}
	return v, true, nil
}

func (s *seq2Iter[T]) Close() error {
	s.stop()
	return nil
}

// FromSeq2 adapts an iter.Seq2 of (value, error) pairs, the conventional
// fallible-sequence shape, into an Iterable. A pair with a non-nil error
// terminates the cursor with that error.
func FromSeq2[T any](seq iter.Seq2[T, error]) Iterable[T] {
	return IterFunc[T](func(ctx context.Context) Iterator[T] {
		next, stop := iter.Pull2(seq)
		return &seq2Iter[T]{next: next, stop: stop}
	})
}

// Seq exposes ible as an iter.Seq for range-over-func consumers. Producer
// errors end the range early and are not observable through this form; use
// Seq2 when the caller needs them.
func Seq[T any](ctx context.Context, ible Iterable[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		_ = ForEach(ctx, ible, func(v T) error {
			if !yield(v) {
				return ErrStop
			}
			return nil
		})
	}
}

// Seq2 exposes ible as an iter.Seq2 of (value, error) pairs. A producer
// failure is yielded as a final (zero, err) pair before the range ends.
func Seq2[T any](ctx context.Context, ible Iterable[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		err := ForEach(ctx, ible, func(v T) error {
			if !yield(v, nil) {
				return ErrStop
			}
			return nil
		})
		if err != nil {
			var zero T
			yield(zero, err)
		}
	}
}

// Chan drains ible into a channel from a background goroutine. The channel
// closes on exhaustion, failure, or context cancellation; call the returned
// function after the channel closes to read the terminal error.
func Chan[T any](ctx context.Context, ible Iterable[T]) (<-chan T, func() error) {
	ch := make(chan T)
	var (
		mu  sync.Mutex
		err error
	)
	go func() {
		defer close(ch)
		ferr := ForEach(ctx, ible, func(v T) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case ch <- v:
				return nil
			}
		})
		mu.Lock()
		err = ferr
		mu.Unlock()
	}()
	return ch, func() error {
		mu.Lock()
		defer mu.Unlock()
		return err
	}
}
