package iterator

import (
	"context"

	"github.com/kbukum/iterkit/errors"
)

type fused[T any] struct {
	inner  Iterator[T]
	done   bool
	strict bool
}

func (f *fused[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if f.done {
		if f.strict {
			return zero, false, errors.Exhausted()
		}
		return zero, false, nil
	}
	v, ok, err := f.inner.Next(ctx)
	if err != nil {
		f.done = true
		return zero, false, err
	}
	if !ok {
		f.done = true
		return zero, false, nil
	}
	return v, true, nil
}

func (f *fused[T]) Close() error {
	f.done = true
	return f.inner.Close()
}

// Fuse wraps it so exhaustion is stable: after the first ok=false or error,
// every further Next reports ok=false with a nil error and never touches the
// inner iterator again. All iterators constructed by this package already
// behave this way; Fuse extends the guarantee to arbitrary implementations.
func Fuse[T any](it Iterator[T]) Iterator[T] {
	if _, already := it.(*fused[T]); already {
		return it
	}
	return &fused[T]{inner: it}
}

// FuseStrict is Fuse except that pulls past exhaustion fail with an
// ITERATOR_EXHAUSTED error instead of reporting a quiet ok=false. Use it to
// surface consumers that keep pulling after the sequence ended.
func FuseStrict[T any](it Iterator[T]) Iterator[T] {
	return &fused[T]{inner: it, strict: true}
}
