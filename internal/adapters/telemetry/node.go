package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.opentelemetry.io/otel"
	"go.trai.ch/modspec/internal/core/ports"
)

// InstrumentationName names the tracer and meter used by modspec.
const InstrumentationName = "go.trai.ch/modspec"

const (
	// TracerNodeID is the unique identifier for the tracer Graft node.
	TracerNodeID graft.ID = "adapter.telemetry"
	// ObserverNodeID is the unique identifier for the cache metrics Graft node.
	ObserverNodeID graft.ID = "adapter.telemetry.cache_metrics"
)

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Tracer, error) {
			return NewOTelTracer(InstrumentationName), nil
		},
	})

	graft.Register(graft.Node[ports.CacheObserver]{
		ID:        ObserverNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.CacheObserver, error) {
			return NewCacheMetrics(otel.Meter(InstrumentationName))
		},
	})
}
