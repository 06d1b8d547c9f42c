package metricbundle

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

type recordingClient struct {
	mu         sync.Mutex
	counters   map[string]int64
	histograms map[string][]float64
}

func newRecordingClient() *recordingClient {
	return &recordingClient{counters: map[string]int64{}, histograms: map[string][]float64{}}
}

func (r *recordingClient) RecordCounter(_ context.Context, name string, value int64, _ ...attribute.KeyValue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters[name] += value
}

func (r *recordingClient) RecordHistogram(_ context.Context, name string, value float64, _ ...attribute.KeyValue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.histograms[name] = append(r.histograms[name], value)
}

func sumOf(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}

func TestMetricName(t *testing.T) {
	assert.Equal(t, "dwx.command.result", MetricName(Namespace, "command", "result"))
}

func TestBridgeMetricsCounters(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = provider.Shutdown(ctx) }()

	m, err := NewBridgeMetrics(provider.Meter("test"), nil)
	require.NoError(t, err)

	m.RecordAdvisory(ctx, attribute.String("dwx.advisory_code", "NO_STOP_LOSS"))
	m.RecordAdvisory(ctx, attribute.String("dwx.advisory_code", "NO_TAKE_PROFIT"))
	m.RecordKeysApplied(ctx, 2)
	m.RecordKeysApplied(ctx, 0)
	m.RecordKeysSkipped(ctx, 1)
	m.RecordTerminalError(ctx)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	assert.Equal(t, int64(2), sumOf(t, rm, "dwx.command.advisories"))
	assert.Equal(t, int64(2), sumOf(t, rm, "dwx.response.applied"))
	assert.Equal(t, int64(1), sumOf(t, rm, "dwx.response.skipped"))
	assert.Equal(t, int64(1), sumOf(t, rm, "dwx.response.terminal_error"))
}

func TestBaseMetricsUsesClient(t *testing.T) {
	ctx := context.Background()
	client := newRecordingClient()
	base := NewBaseMetrics(client, Namespace, "command")

	base.RecordResult(ctx)
	base.RecordResult(ctx)
	done := base.StartDurationTimer(ctx)
	done()

	assert.Equal(t, int64(2), client.counters["dwx.command.result"])
	require.Len(t, client.histograms["dwx.command.duration"], 1)
	assert.GreaterOrEqual(t, client.histograms["dwx.command.duration"][0], 0.0)
}

func TestBaseMetricsWithoutClient(t *testing.T) {
	base := NewBaseMetrics(nil, Namespace, "response")
	assert.NotPanics(t, func() {
		base.RecordResult(context.Background())
		base.StartDurationTimer(context.Background())()
	})
}
