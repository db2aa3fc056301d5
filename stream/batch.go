package stream

import (
	"context"
	"time"

	"github.com/kbukum/iterkit/iterator"
)

// Batch collects up to size values or waits timeout (whichever comes first),
// then emits them as a slice.
//
// size=0 means collect until timeout. timeout=0 means collect until size.
// Both zero is invalid and defaults to size=1.
//
// On a producer error mid-batch, the partial batch is emitted first and the
// error surfaces on the following pull.
func Batch[T any](s *Stream[T], size int, timeout time.Duration) *Stream[[]T] {
	if size <= 0 && timeout <= 0 {
		size = 1
	}
	return &Stream[[]T]{
		create: func(ctx context.Context) iterator.Iterator[[]T] {
			return &batchIter[T]{
				source:  s.create(ctx),
				size:    size,
				timeout: timeout,
			}
		},
	}
}

type batchIter[T any] struct {
	source  iterator.Iterator[T]
	size    int
	timeout time.Duration
	pending error
	done    bool
}

func (it *batchIter[T]) Next(ctx context.Context) ([]T, bool, error) {
	if it.pending != nil {
		err := it.pending
		it.pending = nil
		it.done = true
		return nil, false, err
	}
	if it.done {
		return nil, false, nil
	}

	var batch []T
	var timer <-chan time.Time

	if it.timeout > 0 {
		t := time.NewTimer(it.timeout)
		defer t.Stop()
		timer = t.C
	}

	for {
		if it.size > 0 && len(batch) >= it.size {
			return batch, true, nil
		}

		val, ok, err := it.source.Next(ctx)
		if err != nil {
			if len(batch) > 0 {
				// Emit the partial batch; the error surfaces on the next pull.
				it.pending = err
				return batch, true, nil
			}
			it.done = true
			return nil, false, err
		}
		if !ok {
			it.done = true
			if len(batch) > 0 {
				return batch, true, nil
			}
			return nil, false, nil
		}

		batch = append(batch, val)

		if timer != nil {
			select {
			case <-timer:
				return batch, true, nil
			default:
			}
		}
	}
}

func (it *batchIter[T]) Close() error { return it.source.Close() }
