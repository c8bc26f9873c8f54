package tracing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecordingTracer() (*AlertTracer, *tracetest.SpanRecorder) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	return NewAlertTracerFrom(tp, "test"), rec
}

func TestAlertTracer_NestedSpans(t *testing.T) {
	at, rec := newRecordingTracer()

	ctx, parent := at.StartAlertSpan(context.Background(), "service_alerts", "checkout")
	_, child := at.StartBackendSpan(ctx, "metrictank", "render", "alertType.*.anomaly")
	child.End()
	at.RecordResult(parent, 5*time.Millisecond, 4, nil)
	parent.End()

	spans := rec.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "metrictank.render", spans[0].Name())
	assert.Equal(t, "alerts.service_alerts", spans[1].Name())
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
	assert.Contains(t, spans[1].Attributes(), attribute.Int("alerts.result_count", 4))
}

func TestAlertTracer_RecordResultError(t *testing.T) {
	at, rec := newRecordingTracer()

	_, span := at.StartAlertSpan(context.Background(), "alert_details", "checkout")
	at.RecordResult(span, time.Millisecond, 0, errors.New("render failed"))
	span.End()

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "render failed", spans[0].Status().Description)
	assert.Len(t, spans[0].Events(), 1)
}
