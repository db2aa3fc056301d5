package generator

import (
	"context"
	"sync/atomic"

	"github.com/kbukum/iterkit/errors"
	"github.com/kbukum/iterkit/iterator"
)

// State describes where a generator is in its lifecycle.
type State int32

const (
	// StateNotStarted means the body goroutine has not been launched.
	StateNotStarted State = iota
	// StateSuspended means the body is parked at a yield point (or about to
	// reach its first one) waiting for a pull.
	StateSuspended
	// StateDone means the body has returned and its goroutine has exited.
	StateDone
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateSuspended:
		return "suspended"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Body produces elements by calling yield. yield blocks until the consumer
// pulls, then returns nil; it returns a non-nil error when the generator is
// being torn down, and the body must propagate that error so its deferred
// cleanup runs and the goroutine exits.
type Body[T any] func(ctx context.Context, yield func(T) error) error

// Generator drives a Body lazily. It implements iterator.Iterator, so every
// iterator terminal and stream operator accepts it directly.
//
// Next, Stop, and Close must be called from a single consumer goroutine.
type Generator[T any] struct {
	body   Body[T]
	out    chan T
	resume chan struct{}
	done   chan struct{}
	cancel context.CancelFunc

	state    State
	err      error // body failure or recovered panic, surfaced once
	surfaced bool
}

// New constructs a Generator without running any of body. The goroutine
// launches on the first Next call.
func New[T any](body Body[T]) *Generator[T] {
	return &Generator[T]{
		body:   body,
		out:    make(chan T),
		resume: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// State reports the generator's lifecycle state.
func (g *Generator[T]) State() State { return g.state }

func (g *Generator[T]) start(ctx context.Context) {
	gctx, cancel := context.WithCancel(ctx)
	g.cancel = cancel
	g.state = StateSuspended

	go func() {
		defer close(g.done)
		defer func() {
			if r := recover(); r != nil {
				g.err = errors.GeneratorPanic(r)
			}
		}()
		err := g.body(gctx, func(v T) error {
			select {
			case g.out <- v:
			case <-gctx.Done():
				return errors.GeneratorStopped()
			}
			select {
			case <-g.resume:
				return nil
			case <-gctx.Done():
				return errors.GeneratorStopped()
			}
		})
		if err != nil && !isStop(err) {
			g.err = err
		}
	}()
}

// isStop reports whether err is the expected teardown signal rather than a
// body failure.
func isStop(err error) bool {
	if errors.CodeOf(err) == errors.ErrCodeGeneratorStopped {
		return true
	}
	return err == context.Canceled || err == context.DeadlineExceeded
}

// Next resumes the body until it yields an element or returns. It implements
// iterator.Iterator: (zero, false, nil) on exhaustion, (zero, false, err) on
// body failure or panic. Exhaustion is stable and a failure is surfaced only
// once.
func (g *Generator[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	switch g.state {
	case StateDone:
		if g.err != nil && !g.surfaced {
			g.surfaced = true
			return zero, false, g.err
		}
		return zero, false, nil
	case StateNotStarted:
		g.start(ctx)
	default:
		select {
		case g.resume <- struct{}{}:
		case <-g.done:
		case <-ctx.Done():
			return zero, false, ctx.Err()
		}
	}

	select {
	case v := <-g.out:
		return v, true, nil
	case <-g.done:
		g.state = StateDone
		if g.err != nil {
			g.surfaced = true
			return zero, false, g.err
		}
		return zero, false, nil
	case <-ctx.Done():
		return zero, false, ctx.Err()
	}
}

// Stop tears the generator down early. It cancels the body's context,
// unblocks any pending yield, and waits until the body goroutine has exited,
// so the body's deferred cleanup is guaranteed to have run when Stop
// returns. Stopping a generator that never started or already finished is a
// no-op.
//
// Stop returns the body's failure (including a recovered panic) if one
// occurred during teardown and was not yet surfaced through Next.
func (g *Generator[T]) Stop() error {
	switch g.state {
	case StateNotStarted:
		g.state = StateDone
		return nil
	case StateDone:
		return nil
	}
	g.cancel()
	// A yield may be parked on g.out with no receiver; the cancel above
	// unblocks it through the gctx.Done branch.
	<-g.done
	g.state = StateDone
	if g.err != nil && !g.surfaced {
		g.surfaced = true
		return g.err
	}
	return nil
}

// Close implements iterator.Iterator. It is Stop.
func (g *Generator[T]) Close() error { return g.Stop() }

// Iterable wraps g as a single-use iterable. The first Iter call returns the
// generator itself; later calls return a cursor failing with a SINGLE_USE
// error, because a suspended goroutine cannot be rewound. Re-iterable
// generator sources take a Body factory instead (see stream.Generate).
func (g *Generator[T]) Iterable() iterator.Iterable[T] {
	var taken atomic.Bool
	return iterator.IterFunc[T](func(ctx context.Context) iterator.Iterator[T] {
		if !taken.CompareAndSwap(false, true) {
			return iterator.Func[T](func(ctx context.Context) (T, bool, error) {
				var zero T
				return zero, false, errors.SingleUse("generator")
			})
		}
		return g
	})
}
