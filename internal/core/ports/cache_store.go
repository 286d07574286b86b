package ports

import (
	"context"

	"go.trai.ch/smelt/internal/core/domain"
)

// CacheStore persists the build cache between runs.
//
//go:generate go run go.uber.org/mock/mockgen -source=cache_store.go -destination=mocks/mock_cache_store.go -package=mocks
type CacheStore interface {
	// Load reads and verifies the cache file. A missing file yields an
	// empty cache and no error; a present but unreadable or corrupt file
	// yields domain.ErrCacheCorruption.
	Load(ctx context.Context) (*domain.CacheFile, error)

	// Save seals and writes the cache file atomically.
	Save(ctx context.Context, c *domain.CacheFile) error

	// Clear removes the cache file. Clearing an absent cache is not an
	// error.
	Clear(ctx context.Context) error
}
