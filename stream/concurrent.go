package stream

import (
	"context"
	"sync"

	"github.com/kbukum/iterkit/iterator"
)

// Buffer adds a buffered channel between stream stages.
// This decouples the production rate from the consumption rate: the source is
// pulled by a background goroutine while the consumer keeps the strictly
// sequential pull interface.
func Buffer[T any](s *Stream[T], size int) *Stream[T] {
	if size <= 0 {
		size = 1
	}
	return &Stream[T]{
		create: func(ctx context.Context) iterator.Iterator[T] {
			source := s.create(ctx)
			bufCtx, cancel := context.WithCancel(ctx)
			ch := make(chan result[T], size)
			done := make(chan struct{})

			go func() {
				defer close(done)
				defer close(ch)
				for {
					val, ok, err := source.Next(bufCtx)
					if err != nil {
						select {
						case ch <- result[T]{err: err}:
						case <-bufCtx.Done():
						}
						return
					}
					if !ok {
						return
					}
					select {
					case ch <- result[T]{val: val, ok: true}:
					case <-bufCtx.Done():
						return
					}
				}
			}()

			return &channelIter[T]{
				ch: ch,
				closer: func() error {
					cancel()
					// Join the stage goroutine so the cursor is not closed
					// while a pull is still in flight.
					<-done
					return source.Close()
				},
			}
		},
	}
}

// Parallel applies fn to each value concurrently with up to n workers.
// Order is NOT preserved. Use Map for ordered processing.
func Parallel[I, O any](s *Stream[I], n int, fn func(context.Context, I) (O, error)) *Stream[O] {
	if n <= 0 {
		n = 1
	}
	return &Stream[O]{
		create: func(ctx context.Context) iterator.Iterator[O] {
			source := s.create(ctx)
			workerCtx, cancel := context.WithCancel(ctx)
			out := make(chan result[O], n)
			in := make(chan I, n)

			var wg sync.WaitGroup
			prodDone := make(chan struct{})

			// Producer: pull from source into input channel
			go func() {
				defer close(prodDone)
				defer close(in)
				for {
					val, ok, err := source.Next(workerCtx)
					if err != nil {
						select {
						case out <- result[O]{err: err}:
						case <-workerCtx.Done():
						}
						return
					}
					if !ok {
						return
					}
					select {
					case in <- val:
					case <-workerCtx.Done():
						return
					}
				}
			}()

			// Workers: process input and write to output
			for range n {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for val := range in {
						o, err := fn(workerCtx, val)
						if err != nil {
							select {
							case out <- result[O]{err: err}:
							case <-workerCtx.Done():
							}
							cancel()
							return
						}
						select {
						case out <- result[O]{val: o, ok: true}:
						case <-workerCtx.Done():
							return
						}
					}
				}()
			}

			go func() {
				wg.Wait()
				close(out)
			}()

			return &channelIter[O]{
				ch: out,
				closer: func() error {
					cancel()
					<-prodDone
					return source.Close()
				},
			}
		},
	}
}

// Merge combines multiple streams concurrently.
// Values are yielded as they become available from any source.
// Order is NOT preserved.
func Merge[T any](streams ...*Stream[T]) *Stream[T] {
	return &Stream[T]{
		create: func(ctx context.Context) iterator.Iterator[T] {
			mergeCtx, cancel := context.WithCancel(ctx)
			ch := make(chan result[T], len(streams))
			var wg sync.WaitGroup
			allDone := make(chan struct{})
			iters := make([]iterator.Iterator[T], len(streams))

			for i, s := range streams {
				iters[i] = s.create(mergeCtx)
				wg.Add(1)
				go func(it iterator.Iterator[T]) {
					defer wg.Done()
					for {
						val, ok, err := it.Next(mergeCtx)
						if err != nil {
							select {
							case ch <- result[T]{err: err}:
							case <-mergeCtx.Done():
							}
							return
						}
						if !ok {
							return
						}
						select {
						case ch <- result[T]{val: val, ok: true}:
						case <-mergeCtx.Done():
							return
						}
					}
				}(iters[i])
			}

			go func() {
				wg.Wait()
				close(ch)
				close(allDone)
			}()

			return &channelIter[T]{
				ch: ch,
				closer: func() error {
					cancel()
					<-allDone
					var firstErr error
					for _, it := range iters {
						if err := it.Close(); err != nil && firstErr == nil {
							firstErr = err
						}
					}
					return firstErr
				},
			}
		},
	}
}
