package iterator

import (
	"context"
	stderrors "errors"
	"testing"
)

// resourceIter tracks open/closed state the way a file- or connection-backed
// cursor would.
type resourceIter struct {
	items  []int
	pos    int
	failAt int // 1-based pull index that fails, 0 for never
	open   bool
	closes int
}

func newResourceIter(items []int, failAt int) *resourceIter {
	return &resourceIter{items: items, failAt: failAt, open: true}
}

func (r *resourceIter) Next(ctx context.Context) (int, bool, error) {
	r.pos++
	if r.failAt > 0 && r.pos == r.failAt {
		return 0, false, stderrors.New("read failure")
	}
	if r.pos > len(r.items) {
		return 0, false, nil
	}
	return r.items[r.pos-1], true, nil
}

func (r *resourceIter) Close() error {
	r.open = false
	r.closes++
	return nil
}

func singleUse(r *resourceIter) Iterable[int] {
	return IterFunc[int](func(ctx context.Context) Iterator[int] { return r })
}

func TestForEachSequential(t *testing.T) {
	ctx := context.Background()
	var seen []int
	err := ForEach(ctx, FromSlice([]int{10, 20, 30}), func(v int) error {
		seen = append(seen, v)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !intSliceEqual(seen, []int{10, 20, 30}) {
		t.Fatalf("saw %v in order, want [10 20 30]", seen)
	}
}

func TestForEachClosesOnExhaustion(t *testing.T) {
	ctx := context.Background()
	r := newResourceIter([]int{1, 2}, 0)
	if err := Drain(ctx, singleUse(r)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.open {
		t.Fatal("cursor left open after exhaustion")
	}
}

func TestForEachClosesOnEarlyStop(t *testing.T) {
	ctx := context.Background()
	r := newResourceIter([]int{1, 2, 3, 4}, 0)
	err := ForEach(ctx, singleUse(r), func(v int) error {
		if v == 2 {
			return ErrStop
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ErrStop must not surface: %v", err)
	}
	if r.open {
		t.Fatal("cursor left open after early stop")
	}
	if r.pos != 2 {
		t.Fatalf("pulled %d elements, want 2", r.pos)
	}
}

func TestForEachClosesOnCallbackError(t *testing.T) {
	ctx := context.Background()
	r := newResourceIter([]int{1, 2, 3}, 0)
	boom := stderrors.New("callback boom")
	err := ForEach(ctx, singleUse(r), func(v int) error {
		return boom
	})
	if !stderrors.Is(err, boom) {
		t.Fatalf("got %v, want callback boom", err)
	}
	if r.open {
		t.Fatal("cursor left open after callback error")
	}
}

func TestForEachClosesOnProducerError(t *testing.T) {
	ctx := context.Background()
	r := newResourceIter([]int{1, 2, 3}, 3)
	var seen []int
	err := ForEach(ctx, singleUse(r), func(v int) error {
		seen = append(seen, v)
		return nil
	})
	if err == nil {
		t.Fatal("expected producer error")
	}
	if !intSliceEqual(seen, []int{1, 2}) {
		t.Fatalf("elements before failure: got %v, want [1 2]", seen)
	}
	if r.open {
		t.Fatal("cursor left open after producer error")
	}
	if r.pos != 3 {
		t.Fatalf("pulled %d times, want 3 (no pull after error)", r.pos)
	}
}

func TestForEachClosesOnPanic(t *testing.T) {
	ctx := context.Background()
	r := newResourceIter([]int{1, 2, 3}, 0)
	func() {
		defer func() { _ = recover() }()
		_ = ForEach(ctx, singleUse(r), func(v int) error {
			panic("consumer panic")
		})
	}()
	if r.open {
		t.Fatal("cursor left open after consumer panic")
	}
}

func TestCollectPartialOnError(t *testing.T) {
	ctx := context.Background()
	r := newResourceIter([]int{5, 6, 7}, 3)
	got, err := Collect(ctx, singleUse(r))
	if err == nil {
		t.Fatal("expected error")
	}
	if !intSliceEqual(got, []int{5, 6}) {
		t.Fatalf("got %v, want partial [5 6]", got)
	}
}

func TestFirst(t *testing.T) {
	ctx := context.Background()

	v, found, err := First(ctx, Of(42, 43))
	if err != nil || !found || v != 42 {
		t.Fatalf("got (%d, %v, %v), want (42, true, nil)", v, found, err)
	}

	_, found, err = First(ctx, Empty[int]())
	if err != nil || found {
		t.Fatalf("empty: got (found=%v, err=%v)", found, err)
	}

	r := newResourceIter([]int{1, 2, 3}, 0)
	if _, _, err := First(ctx, singleUse(r)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.open {
		t.Fatal("cursor left open after First")
	}
}

func TestCountAll(t *testing.T) {
	ctx := context.Background()
	n, err := CountAll(ctx, Range(0, 100, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 100 {
		t.Fatalf("got %d, want 100", n)
	}
}
