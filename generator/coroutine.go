package generator

import (
	"context"

	"github.com/kbukum/iterkit/errors"
)

// CoBody is a bidirectional body. It receives the first Resume's input as
// first; each yield(out) hands out to the consumer, suspends, and returns the
// input of the Resume that woke it. The error contract matches Body: a
// non-nil error from yield must be propagated.
type CoBody[In, Out any] func(ctx context.Context, first In, yield func(Out) (In, error)) error

// Coroutine is the bidirectional counterpart of Generator: values flow both
// ways across the suspension point. Resume, Stop, and Close must be called
// from a single consumer goroutine.
type Coroutine[In, Out any] struct {
	body   CoBody[In, Out]
	in     chan In
	out    chan Out
	done   chan struct{}
	cancel context.CancelFunc

	state    State
	err      error
	surfaced bool
}

// NewCoroutine constructs a Coroutine without running any of body. The
// goroutine launches on the first Resume.
func NewCoroutine[In, Out any](body CoBody[In, Out]) *Coroutine[In, Out] {
	return &Coroutine[In, Out]{
		body: body,
		in:   make(chan In),
		out:  make(chan Out),
		done: make(chan struct{}),
	}
}

// State reports the coroutine's lifecycle state.
func (c *Coroutine[In, Out]) State() State { return c.state }

func (c *Coroutine[In, Out]) start(ctx context.Context, first In) {
	gctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.state = StateSuspended

	go func() {
		defer close(c.done)
		defer func() {
			if r := recover(); r != nil {
				c.err = errors.GeneratorPanic(r)
			}
		}()
		err := c.body(gctx, first, func(out Out) (In, error) {
			var zero In
			select {
			case c.out <- out:
			case <-gctx.Done():
				return zero, errors.GeneratorStopped()
			}
			select {
			case next := <-c.in:
				return next, nil
			case <-gctx.Done():
				return zero, errors.GeneratorStopped()
			}
		})
		if err != nil && !isStop(err) {
			c.err = err
		}
	}()
}

// Resume sends in to the suspended body and blocks until the body yields the
// next output or returns. The triple follows the iterator convention:
// (out, true, nil) for a yielded value, (zero, false, nil) once the body has
// returned, (zero, false, err) for a body failure or panic, surfaced once.
func (c *Coroutine[In, Out]) Resume(ctx context.Context, in In) (Out, bool, error) {
	var zero Out
	switch c.state {
	case StateDone:
		if c.err != nil && !c.surfaced {
			c.surfaced = true
			return zero, false, c.err
		}
		return zero, false, nil
	case StateNotStarted:
		c.start(ctx, in)
	default:
		select {
		case c.in <- in:
		case <-c.done:
		case <-ctx.Done():
			return zero, false, ctx.Err()
		}
	}

	select {
	case out := <-c.out:
		return out, true, nil
	case <-c.done:
		c.state = StateDone
		if c.err != nil {
			c.surfaced = true
			return zero, false, c.err
		}
		return zero, false, nil
	case <-ctx.Done():
		return zero, false, ctx.Err()
	}
}

// Stop tears the coroutine down early and waits for the body goroutine to
// exit, exactly like Generator.Stop.
func (c *Coroutine[In, Out]) Stop() error {
	switch c.state {
	case StateNotStarted:
		c.state = StateDone
		return nil
	case StateDone:
		return nil
	}
	c.cancel()
	<-c.done
	c.state = StateDone
	if c.err != nil && !c.surfaced {
		c.surfaced = true
		return c.err
	}
	return nil
}

// Close is Stop.
func (c *Coroutine[In, Out]) Close() error { return c.Stop() }
