package ports

import (
	"context"

	"github.com/aretw0/fixtures/pkg/domain"
)

// CacheStore defines where the data manager keeps parsed fixtures.
// Implementations must be safe for concurrent use; the data manager serializes
// its own check-then-reload sequence on top of them.
type CacheStore interface {
	// Get returns the entry cached for path.
	// Returns domain.ErrCacheMiss if nothing is cached.
	Get(ctx context.Context, path string) (*domain.DataSource, error)

	// Put stores or replaces the entry for src.Path as a single unit.
	Put(ctx context.Context, src *domain.DataSource) error

	// Delete evicts the entry for path. Missing entries are not an error.
	Delete(ctx context.Context, path string) error

	// Clear evicts every entry.
	Clear(ctx context.Context) error

	// Len returns the number of cached entries.
	Len(ctx context.Context) (int, error)
}
