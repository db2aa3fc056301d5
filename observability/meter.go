package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/iterkit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// StreamMetrics holds OpenTelemetry instruments for observing stream traversal.
type StreamMetrics struct {
	elementsTotal  metric.Int64Counter
	streamsTotal   metric.Int64Counter
	streamsActive  metric.Int64UpDownCounter
	streamDuration metric.Float64Histogram
	pullDuration   metric.Float64Histogram
	errorsTotal    metric.Int64Counter
}

// NewStreamMetrics creates metric instruments on the given meter.
func NewStreamMetrics(meter metric.Meter) (*StreamMetrics, error) {
	elementsTotal, err := meter.Int64Counter("stream.elements.total",
		metric.WithDescription("Total number of elements pulled through streams"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.elements.total counter: %w", err)
	}

	streamsTotal, err := meter.Int64Counter("stream.traversals.total",
		metric.WithDescription("Total number of completed stream traversals"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.traversals.total counter: %w", err)
	}

	streamsActive, err := meter.Int64UpDownCounter("stream.active",
		metric.WithDescription("Number of streams currently being traversed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.active gauge: %w", err)
	}

	streamDuration, err := meter.Float64Histogram("stream.duration",
		metric.WithDescription("Duration of full stream traversals in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.duration histogram: %w", err)
	}

	pullDuration, err := meter.Float64Histogram("stream.pull.duration",
		metric.WithDescription("Duration of individual element pulls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.pull.duration histogram: %w", err)
	}

	errorsTotal, err := meter.Int64Counter("stream.errors.total",
		metric.WithDescription("Total producer errors by code and stream"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.errors.total counter: %w", err)
	}

	return &StreamMetrics{
		elementsTotal:  elementsTotal,
		streamsTotal:   streamsTotal,
		streamsActive:  streamsActive,
		streamDuration: streamDuration,
		pullDuration:   pullDuration,
		errorsTotal:    errorsTotal,
	}, nil
}

// RecordStreamStart increments the active traversal count.
func (m *StreamMetrics) RecordStreamStart(ctx context.Context) {
	m.streamsActive.Add(ctx, 1)
}

// RecordStreamEnd decrements active traversals and records the completed run.
func (m *StreamMetrics) RecordStreamEnd(ctx context.Context, stream, status string, elements int64, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("stream", stream),
		attribute.String("status", status),
	)
	m.streamsActive.Add(ctx, -1)
	m.streamsTotal.Add(ctx, 1, attrs)
	m.elementsTotal.Add(ctx, elements, metric.WithAttributes(
		attribute.String("stream", stream),
	))
	m.streamDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("stream", stream),
	))
}

// RecordPull records a single element pull.
func (m *StreamMetrics) RecordPull(ctx context.Context, stream string, duration time.Duration) {
	m.pullDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("stream", stream),
	))
}

// RecordError records a producer error by code and stream.
func (m *StreamMetrics) RecordError(ctx context.Context, code, stream string) {
	m.errorsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("stream", stream),
	))
}
