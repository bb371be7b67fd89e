package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.trai.ch/modspec/internal/adapters/telemetry"
	"go.trai.ch/modspec/internal/core/domain"
)

func newTestMetrics(t *testing.T) (*telemetry.CacheMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := telemetry.NewCacheMetrics(provider.Meter("test"))
	require.NoError(t, err)
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func sumByReason(t *testing.T, m *metricdata.Metrics) map[string]int64 {
	t.Helper()
	require.NotNil(t, m)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "expected Sum[int64], got %T", m.Data)

	out := make(map[string]int64)
	for _, dp := range sum.DataPoints {
		reason, _ := dp.Attributes.Value(attribute.Key("reason"))
		out[reason.AsString()] += dp.Value
	}
	return out
}

func TestCacheMetrics_HitsAndMisses(t *testing.T) {
	t.Parallel()

	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.Hit(ctx)
	m.Hit(ctx)
	m.Miss(ctx)

	rm := collect(t, reader)
	hits := sumByReason(t, findMetric(rm, telemetry.MetricHits))
	misses := sumByReason(t, findMetric(rm, telemetry.MetricMisses))
	assert.Equal(t, int64(2), hits[""])
	assert.Equal(t, int64(1), misses[""])
}

func TestCacheMetrics_Invalidated(t *testing.T) {
	t.Parallel()

	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.Invalidated(ctx, domain.ReasonNodeModules, 3)
	m.Invalidated(ctx, domain.ReasonManifest, 0)
	m.Invalidated(ctx, domain.ReasonNodeModules, 2)
	m.Invalidated(ctx, domain.ReasonNone, 9)

	rm := collect(t, reader)
	assert.Equal(t, map[string]int64{
		"node_modules": 2,
		"manifest":     1,
	}, sumByReason(t, findMetric(rm, telemetry.MetricInvalidations)))
	assert.Equal(t, map[string]int64{
		"node_modules": 5,
	}, sumByReason(t, findMetric(rm, telemetry.MetricEntriesCleared)))
}
