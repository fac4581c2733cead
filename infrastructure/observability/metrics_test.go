package observability

import (
	"context"
	"testing"
	"time"

	"lottogen/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumOf(t *testing.T, data metricdata.Aggregation) int64 {
	t.Helper()

	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "expected an int64 sum, got %T", data)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestMetricsProvider_RecordsInstruments(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := NewMetricsProviderWithReader(config.NewTestConfig(), reader)
	require.NoError(t, mp.Initialize(context.Background()))
	defer mp.Shutdown(context.Background())

	ctx := context.Background()
	mp.RecordArchiveFetch(ctx, "lottologia", "ok", 150*time.Millisecond)
	mp.RecordArchiveFetch(ctx, "lottologia", "cached", 0)
	mp.RecordDrawsLoaded(ctx, 2840)
	mp.RecordGeneration(ctx, GenerationOutcomePartial, 3, time.Second)
	mp.RecordNATSMessagePublished("tickets_generated")
	mp.RecordHTTPRequest(ctx, "POST", "/tickets", 200)

	metrics := collect(t, reader)

	assert.Equal(t, int64(2), sumOf(t, metrics[ArchiveFetchesTotal]))
	assert.Equal(t, int64(1), sumOf(t, metrics[GenerationRunsTotal]))
	assert.Equal(t, int64(3), sumOf(t, metrics[TicketsGeneratedTotal]))
	assert.Equal(t, int64(1), sumOf(t, metrics[NATSMessagesPublishedTotal]))
	assert.Equal(t, int64(1), sumOf(t, metrics[HTTPRequestsTotal]))

	gauge, ok := metrics[ArchiveDrawsLoaded].(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(2840), gauge.DataPoints[0].Value)

	hist, ok := metrics[ArchiveFetchDuration].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
}

func TestMetricsProvider_DisabledIsNoop(t *testing.T) {
	t.Parallel()

	mp := NewMetricsProvider(config.NewTestConfig())
	require.NoError(t, mp.Initialize(context.Background()))

	assert.False(t, mp.isEnabled())
	assert.NotPanics(t, func() {
		mp.RecordArchiveFetch(context.Background(), "lottologia", "ok", time.Second)
		mp.RecordGeneration(context.Background(), GenerationOutcomeComplete, 5, time.Second)
	})
	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestMetricsProvider_NoneExporterIsNoop(t *testing.T) {
	t.Parallel()

	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	cfg.OTelExporterType = "none"

	mp := NewMetricsProvider(cfg)
	require.NoError(t, mp.Initialize(context.Background()))
	assert.False(t, mp.isEnabled())
	assert.NotPanics(t, func() {
		mp.RecordHTTPRequest(context.Background(), "GET", "/health", 200)
	})
}

func TestMetricsProvider_UnknownExporter(t *testing.T) {
	t.Parallel()

	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	cfg.OTelExporterType = "carrier-pigeon"

	err := NewMetricsProvider(cfg).Initialize(context.Background())
	assert.Error(t, err)
}

func TestMetricsProvider_NilIsNoop(t *testing.T) {
	t.Parallel()

	var mp *MetricsProvider
	assert.NotPanics(t, func() {
		mp.RecordDrawsLoaded(context.Background(), 10)
	})
}
