package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// TracerProvider manages the lifecycle of the OpenTelemetry tracer
type TracerProvider struct {
	tp *sdktrace.TracerProvider
}

// AlertTracer wraps the spans emitted by the alerts pipeline
type AlertTracer struct {
	tracer trace.Tracer
}

// NewTracerProvider creates a new OpenTelemetry tracer provider exporting over OTLP/gRPC
func NewTracerProvider(ctx context.Context, serviceName, serviceVersion, otlpEndpoint string) (*TracerProvider, error) {
	exporter, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(otlpEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := resource.New(
		ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(serviceVersion),
			semconv.ServiceNamespaceKey.String("mirador"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)

	otel.SetTracerProvider(tp)

	return &TracerProvider{tp: tp}, nil
}

// Shutdown gracefully shuts down the tracer provider
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	return tp.tp.Shutdown(ctx)
}

// NewAlertTracer creates a tracer bound to the global provider. Without a
// configured provider the spans are no-ops.
func NewAlertTracer(name string) *AlertTracer {
	return &AlertTracer{tracer: otel.Tracer(name)}
}

// NewAlertTracerFrom uses an explicit provider (tests).
func NewAlertTracerFrom(tp trace.TracerProvider, name string) *AlertTracer {
	return &AlertTracer{tracer: tp.Tracer(name)}
}

// StartAlertSpan starts the top level span of an alerts service call
func (at *AlertTracer) StartAlertSpan(ctx context.Context, operation, serviceName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		attribute.String("alerts.operation", operation),
		attribute.String("service.name.queried", serviceName),
		attribute.String("component", "alerts-service"),
	)
	return at.tracer.Start(ctx, "alerts."+operation, trace.WithAttributes(attrs...))
}

// StartBackendSpan starts a span for one MetricTank or VictoriaTraces request
func (at *AlertTracer) StartBackendSpan(ctx context.Context, backend, queryType, target string) (context.Context, trace.Span) {
	return at.tracer.Start(ctx, backend+"."+queryType,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("backend.name", backend),
			attribute.String("backend.query_type", queryType),
			attribute.String("backend.target", target),
		),
	)
}

// RecordResult annotates the span with duration and outcome
func (at *AlertTracer) RecordResult(span trace.Span, duration time.Duration, count int, err error) {
	span.SetAttributes(
		attribute.Int64("alerts.duration_ms", duration.Milliseconds()),
		attribute.Int("alerts.result_count", count),
		attribute.Bool("alerts.success", err == nil),
	)
	if err != nil {
		at.RecordError(span, err)
	}
}

// RecordError records an error on a span
func (at *AlertTracer) RecordError(span trace.Span, err error, attrs ...attribute.KeyValue) {
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attrs...)
	span.RecordError(err)
}
