package iterator

import (
	"context"
	stderrors "errors"
)

// ErrStop tells ForEach to stop traversal early. ForEach swallows it and
// returns nil; the underlying cursor is still closed.
var ErrStop = stderrors.New("iterator: stop traversal")

// ForEach pulls ible's cursor to exhaustion, invoking fn once per element in
// order. Traversal is strictly sequential: fn for element n returns before
// element n+1 is pulled.
//
// fn may return ErrStop to break early; any other error aborts traversal and
// is returned. The cursor is closed on every exit path, including panics.
func ForEach[T any](ctx context.Context, ible Iterable[T], fn func(v T) error) (err error) {
	it := ible.Iter(ctx)
	defer func() {
		if cerr := it.Close(); err == nil {
			err = cerr
		}
	}()
	for {
		v, ok, nerr := it.Next(ctx)
		if nerr != nil {
			return nerr
		}
		if !ok {
			return nil
		}
		if ferr := fn(v); ferr != nil {
			if stderrors.Is(ferr, ErrStop) {
				return nil
			}
			return ferr
		}
	}
}

// Collect pulls ible's cursor to exhaustion and returns the elements in
// order. On producer failure it returns the elements pulled so far alongside
// the error.
func Collect[T any](ctx context.Context, ible Iterable[T]) (out []T, err error) {
	err = ForEach(ctx, ible, func(v T) error {
		out = append(out, v)
		return nil
	})
	return out, err
}

// Drain pulls ible's cursor to exhaustion, discarding elements. Use it when
// only the traversal's side effects or terminal error matter.
func Drain[T any](ctx context.Context, ible Iterable[T]) error {
	return ForEach(ctx, ible, func(T) error { return nil })
}

// First returns the first element, or found=false for an empty sequence. The
// cursor is closed before First returns, so a partially consumed source is
// still released.
func First[T any](ctx context.Context, ible Iterable[T]) (v T, found bool, err error) {
	err = ForEach(ctx, ible, func(e T) error {
		v, found = e, true
		return ErrStop
	})
	return v, found, err
}

// CountAll pulls ible's cursor to exhaustion and returns the element count.
func CountAll[T any](ctx context.Context, ible Iterable[T]) (int64, error) {
	var n int64
	err := ForEach(ctx, ible, func(T) error {
		n++
		return nil
	})
	return n, err
}
