// Package observability provides OpenTelemetry tracing and metrics integration
// for stream traversal.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("my-service"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanStreamRun)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("my-service"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewStreamMetrics(observability.Meter("my-service"))
//	metrics.RecordStreamEnd(ctx, "ingest", "ok", elements, duration)
//
// TraversalContext ties the two together for one run of a stream: it carries a
// generated stream ID, counts elements as they pass, and records the terminal
// span attributes and metrics. The stream package's WithMetrics and
// WithTracing decorators are built on it.
//
// Health Checks:
//
//	health := observability.NewRuntimeHealth("my-service", "1.0.0")
//	health.AddSource(checker.CheckHealth(ctx))
package observability
