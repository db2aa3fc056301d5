package stream

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/iterkit/errors"
	"github.com/kbukum/iterkit/iterator"
	"github.com/kbukum/iterkit/logger"
	"github.com/kbukum/iterkit/observability"
)

// WithLogging logs the lifecycle of each traversal: start, producer errors,
// and completion with element count and duration. Every traversal gets a
// generated stream ID so interleaved runs can be told apart.
//
// A nil log falls back to the registered "stream" logger.
func WithLogging[T any](s *Stream[T], log *logger.Logger, name string) *Stream[T] {
	if log == nil {
		log = logger.Get("stream")
	}
	return &Stream[T]{
		create: func(ctx context.Context) iterator.Iterator[T] {
			streamID := uuid.NewString()
			log.Debug("stream started", logger.Fields(
				logger.FieldStreamID, streamID,
				"stream", name,
			))
			return &loggingIter[T]{
				source:   s.create(ctx),
				log:      log,
				name:     name,
				streamID: streamID,
				start:    time.Now(),
			}
		},
	}
}

type loggingIter[T any] struct {
	source   iterator.Iterator[T]
	log      *logger.Logger
	name     string
	streamID string
	start    time.Time
	elements int64
	finished bool
}

func (it *loggingIter[T]) Next(ctx context.Context) (T, bool, error) {
	val, ok, err := it.source.Next(ctx)
	if err != nil {
		it.finish(err)
		return val, false, err
	}
	if !ok {
		it.finish(nil)
		return val, false, nil
	}
	it.elements++
	return val, true, nil
}

func (it *loggingIter[T]) finish(err error) {
	if it.finished {
		return
	}
	it.finished = true
	fields := logger.MergeWithDuration(
		logger.StreamFields(it.streamID, it.elements),
		time.Since(it.start),
	)
	fields["stream"] = it.name
	if err != nil {
		it.log.Error("stream failed", logger.MergeWithError(fields, err))
		return
	}
	it.log.Debug("stream completed", fields)
}

func (it *loggingIter[T]) Close() error {
	it.finish(nil)
	return it.source.Close()
}

// WithMetrics records traversal metrics: active streams, per-pull latency,
// element totals, traversal duration, and errors by code.
func WithMetrics[T any](s *Stream[T], metrics *observability.StreamMetrics, name string) *Stream[T] {
	return &Stream[T]{
		create: func(ctx context.Context) iterator.Iterator[T] {
			tc := observability.NewTraversalContext(name, metrics)
			metrics.RecordStreamStart(ctx)
			return &metricsIter[T]{source: s.create(ctx), tc: tc, metrics: metrics}
		},
	}
}

type metricsIter[T any] struct {
	source   iterator.Iterator[T]
	tc       *observability.TraversalContext
	metrics  *observability.StreamMetrics
	finished bool
}

func (it *metricsIter[T]) Next(ctx context.Context) (T, bool, error) {
	pullStart := time.Now()
	val, ok, err := it.source.Next(ctx)
	it.metrics.RecordPull(ctx, it.tc.StreamName, time.Since(pullStart))
	if err != nil {
		it.finish(ctx, "error", err)
		return val, false, err
	}
	if !ok {
		it.finish(ctx, "ok", nil)
		return val, false, nil
	}
	it.tc.CountElement()
	return val, true, nil
}

func (it *metricsIter[T]) finish(ctx context.Context, status string, err error) {
	if it.finished {
		return
	}
	it.finished = true
	if err != nil {
		it.metrics.RecordError(ctx, string(errors.CodeOf(err)), it.tc.StreamName)
	}
	it.metrics.RecordStreamEnd(ctx, it.tc.StreamName, status, it.tc.Elements(), it.tc.Duration())
}

func (it *metricsIter[T]) Close() error {
	it.finish(context.Background(), "closed", nil)
	return it.source.Close()
}

// WithTracing wraps each traversal in an OpenTelemetry span named
// "stream.run" carrying the stream name, a generated stream ID, the element
// count, and any terminal error.
func WithTracing[T any](s *Stream[T], name string) *Stream[T] {
	return &Stream[T]{
		create: func(ctx context.Context) iterator.Iterator[T] {
			tc := observability.NewTraversalContext(name, nil)
			spanCtx, span := tc.StartSpanForTraversal(ctx, observability.SpanStreamRun)
			return &tracingIter[T]{
				source:  s.create(spanCtx),
				tc:      tc,
				span:    span,
				spanCtx: spanCtx,
			}
		},
	}
}

type tracingIter[T any] struct {
	source   iterator.Iterator[T]
	tc       *observability.TraversalContext
	span     trace.Span
	spanCtx  context.Context
	finished bool
}

func (it *tracingIter[T]) Next(ctx context.Context) (T, bool, error) {
	val, ok, err := it.source.Next(ctx)
	if err != nil {
		it.finish("error", err)
		return val, false, err
	}
	if !ok {
		it.finish("ok", nil)
		return val, false, nil
	}
	it.tc.CountElement()
	return val, true, nil
}

func (it *tracingIter[T]) finish(status string, err error) {
	if it.finished {
		return
	}
	it.finished = true
	it.tc.EndTraversal(it.spanCtx, it.span, status, err)
}

func (it *tracingIter[T]) Close() error {
	it.finish("closed", nil)
	return it.source.Close()
}
