package observability

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TraversalContext tracks one traversal of a stream from first pull to
// exhaustion or teardown.
type TraversalContext struct {
	StreamName string
	StreamID   string
	StartTime  time.Time
	Metrics    *StreamMetrics

	elements atomic.Int64
}

// NewTraversalContext creates a traversal context with a fresh stream ID.
// If metrics is nil, metric recording is silently skipped.
func NewTraversalContext(streamName string, metrics *StreamMetrics) *TraversalContext {
	return &TraversalContext{
		StreamName: streamName,
		StreamID:   uuid.NewString(),
		StartTime:  time.Now(),
		Metrics:    metrics,
	}
}

// traversalContextKey is the context key for TraversalContext.
type traversalContextKey struct{}

// WithTraversalContext stores a TraversalContext in the context.
func WithTraversalContext(ctx context.Context, tc *TraversalContext) context.Context {
	return context.WithValue(ctx, traversalContextKey{}, tc)
}

// TraversalContextFromContext retrieves the TraversalContext from context, or nil.
func TraversalContextFromContext(ctx context.Context) *TraversalContext {
	if tc, ok := ctx.Value(traversalContextKey{}).(*TraversalContext); ok {
		return tc
	}
	return nil
}

// CountElement records one pulled element and returns the running total.
func (tc *TraversalContext) CountElement() int64 {
	return tc.elements.Add(1)
}

// Elements returns the number of elements pulled so far.
func (tc *TraversalContext) Elements() int64 {
	return tc.elements.Load()
}

// StartSpanForTraversal starts a traced span and records the traversal start metric.
func (tc *TraversalContext) StartSpanForTraversal(ctx context.Context, spanName string) (context.Context, trace.Span) {
	ctx, span := StartSpan(ctx, spanName)
	span.SetAttributes(
		attribute.String(AttrStreamName, tc.StreamName),
		attribute.String(AttrStreamID, tc.StreamID),
	)

	if tc.Metrics != nil {
		tc.Metrics.RecordStreamStart(ctx)
	}
	return ctx, span
}

// EndTraversal ends the span and records traversal-end metrics.
func (tc *TraversalContext) EndTraversal(ctx context.Context, span trace.Span, status string, err error) {
	duration := time.Since(tc.StartTime)

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	}

	span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrElements, tc.Elements()),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	span.End()

	if tc.Metrics != nil {
		tc.Metrics.RecordStreamEnd(ctx, tc.StreamName, status, tc.Elements(), duration)
	}
}

// Duration returns the elapsed time since the traversal started.
func (tc *TraversalContext) Duration() time.Duration {
	return time.Since(tc.StartTime)
}
