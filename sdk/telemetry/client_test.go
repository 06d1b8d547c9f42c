package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newLogOnlyClient(t *testing.T, buf *bytes.Buffer, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{
		WithLogWriter(buf),
		WithMetricsDisabled(),
		WithTracesDisabled(),
	}, opts...)
	client, err := New(context.Background(), "echo-dwx-test", "test", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Shutdown(context.Background()) })
	return client
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestLogsIncludeContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	client := newLogOnlyClient(t, &buf)

	ctx := AppendCommonAttrs(context.Background(), attribute.String("component", "connector"))
	ctx = AppendEventAttrs(ctx, attribute.String("event", "command_sent"))
	client.Info(ctx, "Command sent", attribute.Int64("ticket", 42))
	client.Error(ctx, "Command failed", errors.New("pipe closed"))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "Command sent", lines[0]["msg"])
	assert.Equal(t, "connector", lines[0]["component"])
	assert.Equal(t, "command_sent", lines[0]["event"])
	assert.Equal(t, 42.0, lines[0]["ticket"])
	assert.Equal(t, "ERROR", lines[1]["level"])
	assert.Equal(t, "pipe closed", lines[1]["error"])
}

func TestLogLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	client := newLogOnlyClient(t, &buf, WithLogLevel(slog.LevelWarn))

	client.Debug(context.Background(), "hidden")
	client.Info(context.Background(), "hidden")
	client.Warn(context.Background(), "shown")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["msg"])
}

func TestDisabledPillarsAreNoop(t *testing.T) {
	ctx := context.Background()
	client, err := New(ctx, "echo-dwx-test", "test",
		WithLogsDisabled(), WithMetricsDisabled(), WithTracesDisabled())
	require.NoError(t, err)

	assert.Nil(t, client.Logger())
	require.NotNil(t, client.BridgeMetrics())

	assert.NotPanics(t, func() {
		client.Info(ctx, "nothing")
		spanCtx, span := client.StartSpan(ctx, "noop")
		client.RecordError(spanCtx, errors.New("x"))
		span.End()
		client.RecordCounter(ctx, "dwx.test", 1)
		client.RecordLatency(ctx, "dwx.test", 1.5)
		client.BridgeMetrics().RecordAdvisory(ctx)
		client.BridgeMetrics().Command.RecordResult(ctx)
	})
	assert.Empty(t, GetTraceID(ctx))
	assert.NoError(t, client.Shutdown(ctx))
}

func TestInstrumentsAreCached(t *testing.T) {
	var buf bytes.Buffer
	client := newLogOnlyClient(t, &buf)

	a, err := client.GetOrCreateCounter("dwx.cached", "")
	require.NoError(t, err)
	b, err := client.GetOrCreateCounter("dwx.cached", "")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestContextAttrsDoNotAlias(t *testing.T) {
	base := AppendCommonAttrs(context.Background(), attribute.String("a", "1"))
	left := AppendCommonAttrs(base, attribute.String("b", "left"))
	right := AppendCommonAttrs(base, attribute.String("b", "right"))

	assert.Len(t, GetCommonAttrs(base), 1)
	assert.Equal(t, "left", GetCommonAttrs(left)[1].Value.AsString())
	assert.Equal(t, "right", GetCommonAttrs(right)[1].Value.AsString())
	assert.Empty(t, GetMetricAttrs(base))
}

func TestLogsCarrySpanContext(t *testing.T) {
	var buf bytes.Buffer
	client := newLogOnlyClient(t, &buf)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x0a, 0x0b, 0x0c, 0x0d, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c},
		SpanID:     trace.SpanID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	client.Info(ctx, "Command sent")
	client.Info(context.Background(), "Heartbeat sent")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "0a0b0c0d0102030405060708090a0b0c", lines[0]["trace_id"])
	assert.Equal(t, "0102030405060708", lines[0]["span_id"])
	assert.NotContains(t, lines[1], "trace_id")
	assert.NotContains(t, lines[1], "span_id")
	assert.Equal(t, "", GetSpanID(context.Background()))
}

func TestMetricAttrsMergeOrder(t *testing.T) {
	ctx := AppendCommonAttrs(context.Background(), attribute.String("component", "connector"))
	ctx = AppendMetricAttrs(ctx, attribute.String("dwx.action", "POS_OPEN"))
	ctx = AppendEventAttrs(ctx, attribute.String("dwx.command_id", "abc"))

	got := metricAttrs(ctx, []attribute.KeyValue{attribute.String("dwx.status", "success")})
	assert.Equal(t, []attribute.KeyValue{
		attribute.String("component", "connector"),
		attribute.String("dwx.action", "POS_OPEN"),
		attribute.String("dwx.status", "success"),
	}, got)

	explicit := []attribute.KeyValue{attribute.String("dwx.status", "error")}
	assert.Equal(t, explicit, metricAttrs(context.Background(), explicit))
}

func TestMetricAttrsStayOutOfLogs(t *testing.T) {
	var buf bytes.Buffer
	client := newLogOnlyClient(t, &buf)

	ctx := AppendMetricAttrs(context.Background(), attribute.String("dwx.action", "POS_OPEN"))
	client.Info(ctx, "Command sent")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.NotContains(t, lines[0], "dwx.action")
}

func TestSetSpanAttributesOnActiveSpan(t *testing.T) {
	var buf bytes.Buffer
	client := newLogOnlyClient(t, &buf)
	recorder := tracetest.NewSpanRecorder()
	client.tracer = sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)).Tracer("test")

	ctx := AppendCommonAttrs(context.Background(), attribute.String("dwx.component", "connector"))
	ctx, span := client.StartSpan(ctx, "dwx.command.send")
	client.SetSpanAttributes(ctx, attribute.String("dwx.action", "POS_OPEN"))
	span.End()

	// sin span activo no hace nada
	client.SetSpanAttributes(context.Background(), attribute.String("dwx.action", "POS_CLOSE"))

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "dwx.command.send", ended[0].Name())
	assert.Contains(t, ended[0].Attributes(), attribute.String("dwx.component", "connector"))
	assert.Contains(t, ended[0].Attributes(), attribute.String("dwx.action", "POS_OPEN"))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("WARN"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("verbose"))
}

func TestEndpointFallback(t *testing.T) {
	cfg := DefaultConfig("svc", "test")
	WithOTLPEndpoint("collector:4317")(&cfg)
	WithMetricsEndpoint("metrics:4317")(&cfg)
	assert.Equal(t, "collector:4317", cfg.tracesEndpoint())
	assert.Equal(t, "metrics:4317", cfg.metricsEndpoint())
}
