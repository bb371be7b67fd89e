// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/modspec/internal/core/domain"
)

// Resolver is the module resolution algorithm the cache wraps.
// It is treated as a pure function of the request and the filesystem.
//
//go:generate mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type Resolver interface {
	// Resolve computes the module paths and specifiers for importing req.To from req.From.
	Resolve(ctx context.Context, req domain.ResolveRequest) (*domain.CacheEntry, error)
}
