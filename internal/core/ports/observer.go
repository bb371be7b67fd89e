package ports

import (
	"context"

	"go.trai.ch/modspec/internal/core/domain"
)

// CacheObserver receives cache activity for metrics.
//
//go:generate mockgen -source=observer.go -destination=mocks/mock_observer.go -package=mocks
type CacheObserver interface {
	// Hit records a served entry.
	Hit(ctx context.Context)
	// Miss records an absent entry.
	Miss(ctx context.Context)
	// Invalidated records a flush and how many entries it removed.
	Invalidated(ctx context.Context, reason domain.InvalidationReason, removed int)
}
