package iterator

import (
	"context"
	stderrors "errors"
	"testing"

	ikerrors "github.com/kbukum/iterkit/errors"
)

func intSliceEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFromSliceTraversal(t *testing.T) {
	ctx := context.Background()
	got, err := Collect(ctx, FromSlice([]int{10, 20, 30}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !intSliceEqual(got, []int{10, 20, 30}) {
		t.Fatalf("got %v, want [10 20 30]", got)
	}
}

func TestIndependentCursors(t *testing.T) {
	ctx := context.Background()
	src := Of(1, 2, 3)

	a := src.Iter(ctx)
	defer a.Close()
	b := src.Iter(ctx)
	defer b.Close()

	av, _, _ := a.Next(ctx)
	av2, _, _ := a.Next(ctx)
	bv, _, _ := b.Next(ctx)

	if av != 1 || av2 != 2 {
		t.Fatalf("first cursor saw %d, %d, want 1, 2", av, av2)
	}
	if bv != 1 {
		t.Fatalf("second cursor saw %d, want 1 (position must not be shared)", bv)
	}
}

func TestEmptyAndFail(t *testing.T) {
	ctx := context.Background()

	if n, err := CountAll(ctx, Empty[string]()); err != nil || n != 0 {
		t.Fatalf("Empty: got n=%d err=%v", n, err)
	}

	boom := stderrors.New("boom")
	_, err := Collect(ctx, Fail[string](boom))
	if !stderrors.Is(err, boom) {
		t.Fatalf("Fail: got %v, want boom", err)
	}
}

func TestRange(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name              string
		start, stop, step int
		want              []int
	}{
		{"ascending", 0, 5, 1, []int{0, 1, 2, 3, 4}},
		{"stride", 1, 10, 3, []int{1, 4, 7}},
		{"descending", 3, 0, -1, []int{3, 2, 1}},
		{"empty", 5, 5, 1, nil},
		{"zero step", 0, 5, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Collect(ctx, Range(tt.start, tt.stop, tt.step))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !intSliceEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromChanSingleUse(t *testing.T) {
	ctx := context.Background()
	ch := make(chan int, 3)
	ch <- 1
	ch <- 2
	ch <- 3
	close(ch)

	src := FromChan(ch)
	got, err := Collect(ctx, src)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if !intSliceEqual(got, []int{1, 2, 3}) {
		t.Fatalf("first pass got %v", got)
	}

	_, err = Collect(ctx, src)
	if ikerrors.CodeOf(err) != ikerrors.ErrCodeSingleUse {
		t.Fatalf("second pass: got %v, want SINGLE_USE", err)
	}
}

func TestFromFuncFreshState(t *testing.T) {
	ctx := context.Background()
	src := FromFunc(func(ctx context.Context) Func[int] {
		n := 0
		return func(ctx context.Context) (int, bool, error) {
			if n >= 2 {
				return 0, false, nil
			}
			n++
			return n, true, nil
		}
	})
	for pass := 0; pass < 2; pass++ {
		got, err := Collect(ctx, src)
		if err != nil {
			t.Fatalf("pass %d: %v", pass, err)
		}
		if !intSliceEqual(got, []int{1, 2}) {
			t.Fatalf("pass %d: got %v, want [1 2]", pass, got)
		}
	}
}

// erratic violates the stable-exhaustion contract on purpose.
type erratic struct {
	pulls int
}

func (e *erratic) Next(ctx context.Context) (int, bool, error) {
	e.pulls++
	switch e.pulls {
	case 1:
		return 7, true, nil
	case 2:
		return 0, false, nil
	default:
		return 99, true, nil
	}
}

func (e *erratic) Close() error { return nil }

func TestFuseStabilizesExhaustion(t *testing.T) {
	ctx := context.Background()
	inner := &erratic{}
	it := Fuse[int](inner)

	if v, ok, _ := it.Next(ctx); !ok || v != 7 {
		t.Fatalf("first pull: got (%d, %v)", v, ok)
	}
	if _, ok, _ := it.Next(ctx); ok {
		t.Fatal("second pull should exhaust")
	}
	for i := 0; i < 3; i++ {
		if v, ok, err := it.Next(ctx); ok || err != nil || v != 0 {
			t.Fatalf("pull past exhaustion: got (%d, %v, %v)", v, ok, err)
		}
	}
	if inner.pulls != 2 {
		t.Fatalf("inner pulled %d times after exhaustion, want 2", inner.pulls)
	}
}

func TestFuseStabilizesError(t *testing.T) {
	ctx := context.Background()
	boom := stderrors.New("boom")
	pulls := 0
	it := Fuse[int](Func[int](func(ctx context.Context) (int, bool, error) {
		pulls++
		return 0, false, boom
	}))

	if _, _, err := it.Next(ctx); !stderrors.Is(err, boom) {
		t.Fatalf("first pull: got %v", err)
	}
	if _, ok, err := it.Next(ctx); ok || err != nil {
		t.Fatalf("pull after error: got ok=%v err=%v, want quiet exhaustion", ok, err)
	}
	if pulls != 1 {
		t.Fatalf("inner pulled %d times, want 1", pulls)
	}
}

func TestFuseStrict(t *testing.T) {
	ctx := context.Background()
	it := FuseStrict[int](&sliceIter[int]{items: []int{1}})

	if _, ok, _ := it.Next(ctx); !ok {
		t.Fatal("expected first element")
	}
	if _, ok, _ := it.Next(ctx); ok {
		t.Fatal("expected exhaustion")
	}
	_, _, err := it.Next(ctx)
	if !ikerrors.IsExhausted(err) {
		t.Fatalf("pull past exhaustion: got %v, want ITERATOR_EXHAUSTED", err)
	}
}

func TestWithCloseRunsOnce(t *testing.T) {
	closes := 0
	it := WithClose[int](Func[int](func(ctx context.Context) (int, bool, error) {
		return 0, false, nil
	}), func() error {
		closes++
		return nil
	})

	if err := it.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := it.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if closes != 1 {
		t.Fatalf("close hook ran %d times, want 1", closes)
	}
}

func TestContextCancellationStopsPull(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	it := FromSlice([]int{1, 2, 3}).Iter(ctx)
	defer it.Close()
	_, _, err := it.Next(ctx)
	if !stderrors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}
