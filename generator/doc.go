// Package generator implements suspendable producers on top of goroutines
// and unbuffered channel handoff.
//
// A Generator runs its body in a dedicated goroutine that stays suspended
// between pulls: the body advances only when the consumer calls Next, yields
// exactly one element per pull, and then blocks until the next pull. Nothing
// runs until the first Next, so construction is free.
//
//	gen := generator.New(func(ctx context.Context, yield func(int) error) error {
//	    if err := yield(1); err != nil {
//	        return err
//	    }
//	    return yield(2)
//	})
//	defer gen.Close()
//
// The body must return the error yield gives it; that is how early
// termination (Stop, context cancellation) propagates, and it lets the body's
// deferred cleanup run before the consumer observes the generator as done.
// Stop blocks until the body goroutine has exited.
//
// A panic inside the body is recovered and surfaced to the consumer as a
// GENERATOR_PANIC error.
//
// Coroutine is the bidirectional form: each Resume sends a value in and gets
// a value out.
package generator
