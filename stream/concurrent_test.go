package stream

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/iterkit/iterator"
)

// slowGuardIter yields slowly and records whether Close overlapped an
// in-flight Next call.
type slowGuardIter struct {
	items   []int
	pos     int
	inNext  atomic.Bool
	overlap atomic.Bool
}

func (it *slowGuardIter) Next(ctx context.Context) (int, bool, error) {
	it.inNext.Store(true)
	defer it.inNext.Store(false)
	select {
	case <-time.After(20 * time.Millisecond):
	case <-ctx.Done():
		return 0, false, ctx.Err()
	}
	if it.pos >= len(it.items) {
		return 0, false, nil
	}
	v := it.items[it.pos]
	it.pos++
	return v, true, nil
}

func (it *slowGuardIter) Close() error {
	if it.inNext.Load() {
		it.overlap.Store(true)
	}
	return nil
}

func TestBuffer(t *testing.T) {
	s := FromSlice([]int{1, 2, 3, 4, 5})
	buffered := Buffer(s, 3)
	got, err := Collect(context.Background(), buffered)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{1, 2, 3, 4, 5}
	if !intSliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestBuffer_PreservesOrderWithDelays(t *testing.T) {
	// Elements produced asynchronously with per-element delays must still
	// arrive in production order through the sequential pull interface.
	s := Generate(func(ctx context.Context, yield func(int) error) error {
		time.Sleep(20 * time.Millisecond)
		if err := yield(100); err != nil {
			return err
		}
		time.Sleep(10 * time.Millisecond)
		return yield(200)
	})
	got, err := Collect(context.Background(), Buffer(s, 2))
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{100, 200}) {
		t.Errorf("got %v, want [100 200]", got)
	}
}

func TestBuffer_SequentialPull(t *testing.T) {
	// The consumer side of Buffer must never have two pulls in flight: the
	// callback for element n finishes before element n+1 is delivered.
	var mu sync.Mutex
	inFlight := 0
	maxInFlight := 0

	s := Buffer(FromSlice([]int{1, 2, 3, 4, 5, 6, 7, 8}), 4)
	err := ForEach(context.Background(), s, func(_ context.Context, n int) error {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()

		time.Sleep(time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if maxInFlight != 1 {
		t.Errorf("max concurrent sink calls = %d, want 1", maxInFlight)
	}
}

func TestBuffer_Error(t *testing.T) {
	boom := errors.New("source boom")
	s := Buffer(Concat(FromSlice([]int{1, 2}), From(iterator.Fail[int](boom))), 2)
	got, err := Collect(context.Background(), s)
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want source boom", err)
	}
	if !intSliceEqual(got, []int{1, 2}) {
		t.Errorf("expected [1 2] before error, got %v", got)
	}
}

func TestParallel(t *testing.T) {
	s := FromSlice([]int{1, 2, 3, 4, 5})
	doubled := Parallel(s, 3, func(_ context.Context, n int) (int, error) {
		return n * 2, nil
	})
	got, err := Collect(context.Background(), doubled)
	if err != nil {
		t.Fatal(err)
	}
	sort.Ints(got) // order not guaranteed
	want := []int{2, 4, 6, 8, 10}
	if !intSliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParallel_Error(t *testing.T) {
	s := FromSlice([]int{1, 2, 3, 4, 5})
	failing := Parallel(s, 2, func(_ context.Context, n int) (int, error) {
		if n == 3 {
			return 0, errors.New("worker failed")
		}
		return n, nil
	})
	_, err := Collect(context.Background(), failing)
	if err == nil {
		t.Fatal("expected error from parallel worker")
	}
}

func TestMerge(t *testing.T) {
	a := FromSlice([]int{1, 2, 3})
	b := FromSlice([]int{10, 20, 30})
	merged := Merge(a, b)
	got, err := Collect(context.Background(), merged)
	if err != nil {
		t.Fatal(err)
	}
	sort.Ints(got) // order not guaranteed
	want := []int{1, 2, 3, 10, 20, 30}
	if !intSliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestBuffer_CloseJoinsPendingPull(t *testing.T) {
	guard := &slowGuardIter{items: []int{1, 2, 3, 4, 5}}
	s := Buffer(FromFunc(func(ctx context.Context) iterator.Iterator[int] {
		return guard
	}), 2)

	ctx := context.Background()
	it := s.Iter(ctx)
	if _, ok, err := it.Next(ctx); !ok || err != nil {
		t.Fatalf("first pull: ok=%v err=%v", ok, err)
	}
	// The stage goroutine is now inside the source's Next for the following
	// element. Close must wait for that pull to unwind before closing the
	// source.
	if err := it.Close(); err != nil {
		t.Fatal(err)
	}
	if guard.overlap.Load() {
		t.Error("source closed while a pull was still in flight")
	}
}

func TestParallel_CloseJoinsPendingPull(t *testing.T) {
	guard := &slowGuardIter{items: []int{1, 2, 3, 4, 5}}
	s := Parallel(FromFunc(func(ctx context.Context) iterator.Iterator[int] {
		return guard
	}), 2, func(_ context.Context, n int) (int, error) {
		return n, nil
	})

	ctx := context.Background()
	it := s.Iter(ctx)
	if _, ok, err := it.Next(ctx); !ok || err != nil {
		t.Fatalf("first pull: ok=%v err=%v", ok, err)
	}
	if err := it.Close(); err != nil {
		t.Fatal(err)
	}
	if guard.overlap.Load() {
		t.Error("source closed while a pull was still in flight")
	}
}

func TestMerge_CloseJoinsPendingPulls(t *testing.T) {
	a := &slowGuardIter{items: []int{1, 2, 3}}
	b := &slowGuardIter{items: []int{10, 20, 30}}
	s := Merge(
		FromFunc(func(ctx context.Context) iterator.Iterator[int] { return a }),
		FromFunc(func(ctx context.Context) iterator.Iterator[int] { return b }),
	)

	ctx := context.Background()
	it := s.Iter(ctx)
	if _, ok, err := it.Next(ctx); !ok || err != nil {
		t.Fatalf("first pull: ok=%v err=%v", ok, err)
	}
	if err := it.Close(); err != nil {
		t.Fatal(err)
	}
	if a.overlap.Load() || b.overlap.Load() {
		t.Error("a source was closed while a pull was still in flight")
	}
}

func TestContext_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	s := Buffer(FromSlice([]int{1, 2, 3}), 1)
	_, err := Collect(ctx, s)
	if err == nil {
		t.Fatal("expected context error from channel-backed stage")
	}
}
