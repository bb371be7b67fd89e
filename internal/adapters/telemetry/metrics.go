package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.trai.ch/modspec/internal/core/domain"
	"go.trai.ch/modspec/internal/core/ports"
)

var _ ports.CacheObserver = (*CacheMetrics)(nil)

// Metric names reported by CacheMetrics.
const (
	MetricHits           = "modspec.cache.hits"
	MetricMisses         = "modspec.cache.misses"
	MetricInvalidations  = "modspec.cache.invalidations"
	MetricEntriesCleared = "modspec.cache.entries_cleared"
)

// CacheMetrics records cache activity as OpenTelemetry counters.
// It is safe for concurrent use.
type CacheMetrics struct {
	hits           metric.Int64Counter
	misses         metric.Int64Counter
	invalidations  metric.Int64Counter
	entriesCleared metric.Int64Counter
}

// NewCacheMetrics creates the cache counters on meter.
func NewCacheMetrics(meter metric.Meter) (*CacheMetrics, error) {
	hits, err := meter.Int64Counter(
		MetricHits,
		metric.WithDescription("Module specifier lookups served from the cache"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	misses, err := meter.Int64Counter(
		MetricMisses,
		metric.WithDescription("Module specifier lookups not found in the cache"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	invalidations, err := meter.Int64Counter(
		MetricInvalidations,
		metric.WithDescription("Cache invalidations by reason"),
		metric.WithUnit("{invalidation}"),
	)
	if err != nil {
		return nil, err
	}

	entriesCleared, err := meter.Int64Counter(
		MetricEntriesCleared,
		metric.WithDescription("Cache entries removed by invalidations"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	return &CacheMetrics{
		hits:           hits,
		misses:         misses,
		invalidations:  invalidations,
		entriesCleared: entriesCleared,
	}, nil
}

// Hit records a served entry.
func (m *CacheMetrics) Hit(ctx context.Context) {
	m.hits.Add(ctx, 1)
}

// Miss records an absent entry.
func (m *CacheMetrics) Miss(ctx context.Context) {
	m.misses.Add(ctx, 1)
}

// Invalidated records a flush and the number of entries it removed.
func (m *CacheMetrics) Invalidated(ctx context.Context, reason domain.InvalidationReason, removed int) {
	if reason == domain.ReasonNone {
		return
	}
	opt := metric.WithAttributes(attribute.String("reason", reason.String()))
	m.invalidations.Add(ctx, 1, opt)
	if removed > 0 {
		m.entriesCleared.Add(ctx, int64(removed), opt)
	}
}
