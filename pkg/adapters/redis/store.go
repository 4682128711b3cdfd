// Package redis provides a ports.CacheStore backed by Redis, so that parallel
// test workers on one host can share parsed fixtures.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/fixtures/pkg/domain"
	"github.com/aretw0/fixtures/pkg/loader"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.CacheStore using Redis.
//
// Values cross the wire as JSON and are normalized on the way back, so a hit
// returns an equal value rather than the object that was stored.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for cache entries.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for cache entries.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "fixtures:cache:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// record is the wire shape of a DataSource.
type record struct {
	Path         string          `json:"path"`
	Format       domain.Format   `json:"format"`
	CacheEnabled bool            `json:"cache_enabled"`
	ModTime      int64           `json:"mod_time_ns"`
	LoadedAt     int64           `json:"loaded_at_ns"`
	Size         int64           `json:"size"`
	Value        json.RawMessage `json:"value"`
}

func (s *Store) key(path string) string {
	return s.prefix + "entry:" + path
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Get returns the entry cached for path.
func (s *Store) Get(ctx context.Context, path string) (*domain.DataSource, error) {
	raw, err := s.client.Get(ctx, s.key(path)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}
	value, err := loader.DecodeJSON(rec.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cached value: %w", err)
	}

	return &domain.DataSource{
		Path:         rec.Path,
		Format:       rec.Format,
		CacheEnabled: rec.CacheEnabled,
		ModTime:      fromUnixNano(rec.ModTime),
		LoadedAt:     fromUnixNano(rec.LoadedAt),
		Size:         rec.Size,
		Value:        value,
	}, nil
}

// Put stores the entry and indexes its path.
func (s *Store) Put(ctx context.Context, src *domain.DataSource) error {
	value, err := loader.EncodeJSON(src.Value)
	if err != nil {
		return fmt.Errorf("failed to marshal cached value: %w", err)
	}
	data, err := json.Marshal(record{
		Path:         src.Path,
		Format:       src.Format,
		CacheEnabled: src.CacheEnabled,
		ModTime:      unixNano(src.ModTime),
		LoadedAt:     unixNano(src.LoadedAt),
		Size:         src.Size,
		Value:        value,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	pipe := s.client.TxPipeline()

	// 1. Save JSON with TTL (0 = no expiration)
	pipe.Set(ctx, s.key(src.Path), data, s.ttl)

	// 2. Add to Index (ZSET), scored by expiry
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: src.Path,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Delete evicts the entry for path.
func (s *Store) Delete(ctx context.Context, path string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(path))
	pipe.ZRem(ctx, s.indexKey(), path)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// Clear evicts every entry known to the index.
func (s *Store) Clear(ctx context.Context) error {
	paths, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to list cache entries: %w", err)
	}

	keys := make([]string, 0, len(paths)+1)
	for _, p := range paths {
		keys = append(keys, s.key(p))
	}
	keys = append(keys, s.indexKey())

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear redis cache: %w", err)
	}
	return nil
}

// Len returns the number of live entries.
// Expired members are pruned from the index first.
func (s *Store) Len(ctx context.Context) (int, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return 0, fmt.Errorf("failed to prune expired entries: %w", err)
	}

	n, err := s.client.ZCard(ctx, s.indexKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return int(n), nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

// The zero time is kept as 0; its UnixNano is out of range.
func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(ns int64) time.Time {
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns).UTC()
}
