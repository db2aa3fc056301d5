package generator

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	ikerrors "github.com/kbukum/iterkit/errors"
	"github.com/kbukum/iterkit/iterator"
)

func TestGeneratorYieldsInOrder(t *testing.T) {
	ctx := context.Background()
	gen := New(func(ctx context.Context, yield func(int) error) error {
		for _, v := range []int{1, 2, 3} {
			if err := yield(v); err != nil {
				return err
			}
		}
		return nil
	})
	defer gen.Close()

	var got []int
	for {
		v, ok, err := gen.Next(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			break
		}
		got = append(got, v)
	}
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("got %v, want [1 2 3]", got)
	}
	if gen.State() != StateDone {
		t.Fatalf("state = %v, want done", gen.State())
	}
}

func TestGeneratorLazyStart(t *testing.T) {
	ctx := context.Background()
	started := false
	gen := New(func(ctx context.Context, yield func(string) error) error {
		started = true
		return yield("a")
	})
	defer gen.Close()

	if started {
		t.Fatal("body ran before first Next")
	}
	if gen.State() != StateNotStarted {
		t.Fatalf("state = %v, want not_started", gen.State())
	}
	if v, ok, err := gen.Next(ctx); err != nil || !ok || v != "a" {
		t.Fatalf("got (%q, %v, %v)", v, ok, err)
	}
	if !started {
		t.Fatal("body did not run on first Next")
	}
}

func TestGeneratorSuspendsBetweenPulls(t *testing.T) {
	ctx := context.Background()
	var produced []int
	gen := New(func(ctx context.Context, yield func(int) error) error {
		for i := 1; i <= 3; i++ {
			produced = append(produced, i)
			if err := yield(i); err != nil {
				return err
			}
		}
		return nil
	})
	defer gen.Close()

	if _, _, err := gen.Next(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The body is parked at the first yield; it must not have advanced to
	// computing element 2.
	time.Sleep(10 * time.Millisecond)
	if len(produced) != 1 {
		t.Fatalf("body produced %v while suspended, want [1]", produced)
	}

	if _, _, err := gen.Next(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if len(produced) != 2 {
		t.Fatalf("body produced %v after second pull, want [1 2]", produced)
	}
}

func TestGeneratorStableExhaustion(t *testing.T) {
	ctx := context.Background()
	gen := New(func(ctx context.Context, yield func(int) error) error {
		return yield(1)
	})
	defer gen.Close()

	gen.Next(ctx)
	if _, ok, err := gen.Next(ctx); ok || err != nil {
		t.Fatalf("expected exhaustion, got ok=%v err=%v", ok, err)
	}
	for i := 0; i < 3; i++ {
		if _, ok, err := gen.Next(ctx); ok || err != nil {
			t.Fatalf("pull past exhaustion: ok=%v err=%v", ok, err)
		}
	}
}

func TestGeneratorBodyErrorSurfacedOnce(t *testing.T) {
	ctx := context.Background()
	boom := stderrors.New("boom")
	gen := New(func(ctx context.Context, yield func(int) error) error {
		if err := yield(1); err != nil {
			return err
		}
		return boom
	})
	defer gen.Close()

	if v, ok, _ := gen.Next(ctx); !ok || v != 1 {
		t.Fatalf("first pull: got (%d, %v)", v, ok)
	}
	if _, _, err := gen.Next(ctx); !stderrors.Is(err, boom) {
		t.Fatalf("second pull: got %v, want boom", err)
	}
	if _, ok, err := gen.Next(ctx); ok || err != nil {
		t.Fatalf("third pull: got ok=%v err=%v, want quiet exhaustion", ok, err)
	}
}

func TestGeneratorPanicRecovered(t *testing.T) {
	ctx := context.Background()
	gen := New(func(ctx context.Context, yield func(int) error) error {
		if err := yield(1); err != nil {
			return err
		}
		panic("kaboom")
	})
	defer gen.Close()

	gen.Next(ctx)
	_, _, err := gen.Next(ctx)
	if ikerrors.CodeOf(err) != ikerrors.ErrCodeGeneratorPanic {
		t.Fatalf("got %v, want GENERATOR_PANIC", err)
	}
}

func TestGeneratorStopRunsCleanup(t *testing.T) {
	ctx := context.Background()
	cleaned := make(chan struct{})
	gen := New(func(ctx context.Context, yield func(int) error) error {
		defer close(cleaned)
		for i := 0; ; i++ {
			if err := yield(i); err != nil {
				return err
			}
		}
	})

	if v, ok, err := gen.Next(ctx); err != nil || !ok || v != 0 {
		t.Fatalf("got (%d, %v, %v)", v, ok, err)
	}
	if err := gen.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	select {
	case <-cleaned:
	default:
		t.Fatal("Stop returned before the body's deferred cleanup ran")
	}
	if gen.State() != StateDone {
		t.Fatalf("state = %v, want done", gen.State())
	}
	if err := gen.Stop(); err != nil {
		t.Fatalf("second stop: %v", err)
	}
}

func TestGeneratorStopBeforeStart(t *testing.T) {
	gen := New(func(ctx context.Context, yield func(int) error) error {
		t.Error("body must not run")
		return nil
	})
	if err := gen.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if _, ok, err := gen.Next(context.Background()); ok || err != nil {
		t.Fatalf("next after stop: ok=%v err=%v", ok, err)
	}
}

func TestGeneratorStopWithPendingYield(t *testing.T) {
	ctx := context.Background()
	gen := New(func(ctx context.Context, yield func(int) error) error {
		for i := 0; ; i++ {
			if err := yield(i); err != nil {
				return err
			}
		}
	})
	// Pull once so the body is parked mid-stream, then tear down. The body's
	// next yield is blocked sending with no receiver.
	gen.Next(ctx)
	done := make(chan error, 1)
	go func() { done <- gen.Stop() }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("stop: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Stop deadlocked on a pending yield")
	}
}

func TestGeneratorIterableSingleUse(t *testing.T) {
	ctx := context.Background()
	gen := New(func(ctx context.Context, yield func(int) error) error {
		if err := yield(10); err != nil {
			return err
		}
		return yield(20)
	})
	src := gen.Iterable()

	got, err := iterator.Collect(ctx, src)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if len(got) != 2 || got[0] != 10 || got[1] != 20 {
		t.Fatalf("first pass got %v", got)
	}

	_, err = iterator.Collect(ctx, src)
	if ikerrors.CodeOf(err) != ikerrors.ErrCodeSingleUse {
		t.Fatalf("second pass: got %v, want SINGLE_USE", err)
	}
}

func TestGeneratorWithIteratorTerminals(t *testing.T) {
	ctx := context.Background()
	gen := New(func(ctx context.Context, yield func(int) error) error {
		for _, v := range []int{2, 4, 6} {
			if err := yield(v); err != nil {
				return err
			}
		}
		return nil
	})
	sum := 0
	err := iterator.ForEach(ctx, gen.Iterable(), func(v int) error {
		sum += v
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum != 12 {
		t.Fatalf("sum = %d, want 12", sum)
	}
}
