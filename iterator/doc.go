// Package iterator defines the pull-based iteration contracts used across
// iterkit: Iterator for stateful cursors and Iterable for anything that can
// hand out fresh cursors.
//
// An Iterator yields one element per Next call and signals exhaustion by
// returning ok=false with a nil error. A non-nil error is a producer failure:
// the traversal helpers stop pulling and propagate it. Close releases any
// resources the cursor holds and must be safe to call more than once.
//
// Exhaustion is stable for every iterator this package constructs: once a
// cursor reports ok=false, it keeps reporting ok=false. Use Fuse to give the
// same guarantee to a third-party iterator, or FuseStrict to turn pulls past
// exhaustion into ITERATOR_EXHAUSTED errors while hardening a suspect
// consumer.
//
// # Consuming
//
//	src := iterator.FromSlice([]int{10, 20, 30})
//	err := iterator.ForEach(ctx, src, func(v int) error {
//	    if v > 20 {
//	        return iterator.ErrStop // break
//	    }
//	    process(v)
//	    return nil
//	})
//
// ForEach, Collect, Drain, and First close the cursor on every exit path:
// normal exhaustion, early stop, error, and panic.
//
// # Bridging
//
// FromSeq, FromSeq2, Seq, Seq2, and Chan convert between these contracts and
// the standard library's iter.Seq forms, so range-over-func consumers and
// iterkit producers compose freely.
package iterator
