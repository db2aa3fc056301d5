// Package stream provides composable, pull-based operators over iterator
// cursors.
//
// Streams are lazy. No work happens until values are pulled via Collect,
// Drain, or ForEach. Each stage pulls from the previous stage on demand,
// providing natural backpressure without explicit flow control. A Stream
// satisfies iterator.Iterable, so anything that consumes iterables consumes
// streams.
//
// # Operators
//
// Synchronous (single-goroutine):
//
//   - Map: transform each value
//   - FlatMap: transform each value into multiple values
//   - Filter: keep values matching a predicate
//   - Take / Skip: bound or offset the sequence
//   - Tap: side-effect without altering the value
//   - FanOut: apply multiple functions in parallel, collect results as []O
//   - Reduce: accumulate all values into one result
//   - Concat: join streams sequentially
//   - Zip: pair two streams positionally
//
// Concurrent (multi-goroutine):
//
//   - Buffer: decouple producer/consumer with a buffered channel
//   - Parallel: concurrent Map with a worker pool (order NOT preserved)
//   - Merge: combine multiple streams concurrently (order NOT preserved)
//
// The concurrent operators move production onto background goroutines, but
// the consuming side stays a strictly sequential pull: one Next at a time, in
// order for Buffer, as-available for Parallel and Merge.
//
// Timed:
//
//   - Batch: group by count or deadline
//   - Throttle: drop values arriving faster than an interval
//   - Debounce: emit after a quiet period
//   - TumblingWindow / SlidingWindow: time-based grouping
//   - RateLimit: pace pulls with a token bucket (no drops)
//
// Resilience and observability decorators wrap a stream without changing its
// element type: WithRetry retries retryable producer failures with backoff,
// WithLogging, WithMetrics, and WithTracing report each traversal.
//
// # Usage
//
//	src := stream.FromSlice([]int{1, 2, 3, 4, 5})
//	doubled := stream.Map(src, func(_ context.Context, n int) (int, error) {
//	    return n * 2, nil
//	})
//	evens := stream.Filter(doubled, func(n int) bool { return n%2 == 0 })
//	results, _ := stream.Collect(ctx, evens)
//
// With a generator source:
//
//	nums := stream.Generate(func(ctx context.Context, yield func(int) error) error {
//	    for i := 0; ; i++ {
//	        if err := yield(i); err != nil {
//	            return err
//	        }
//	    }
//	})
//	firstTen, _ := stream.Collect(ctx, stream.Take(nums, 10))
package stream
