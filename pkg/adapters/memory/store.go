package memory

import (
	"context"
	"sync"

	"github.com/aretw0/fixtures/pkg/domain"
)

// Store implements ports.CacheStore in process memory.
// Safe for concurrent use.
//
// Entries are copied on the way in and out so callers cannot swap a cached
// timestamp under the data manager, but Value is shared: a cache hit hands back
// the very object that was parsed from disk.
type Store struct {
	data map[string]*domain.DataSource
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.DataSource),
	}
}

// Get returns the entry cached for path.
func (s *Store) Get(ctx context.Context, path string) (*domain.DataSource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src, ok := s.data[path]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	ret := *src
	return &ret, nil
}

// Put stores or replaces the entry for src.Path.
func (s *Store) Put(ctx context.Context, src *domain.DataSource) error {
	copied := *src

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[src.Path] = &copied
	return nil
}

// Delete evicts the entry for path.
func (s *Store) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, path)
	return nil
}

// Clear evicts every entry.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]*domain.DataSource)
	return nil
}

// Len returns the number of cached entries.
func (s *Store) Len(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data), nil
}

// Paths returns the cached paths in no particular order.
func (s *Store) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths := make([]string, 0, len(s.data))
	for p := range s.data {
		paths = append(paths, p)
	}
	return paths
}
