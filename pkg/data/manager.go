package data

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/fixtures/internal/logging"
	"github.com/aretw0/fixtures/pkg/adapters/memory"
	"github.com/aretw0/fixtures/pkg/domain"
	"github.com/aretw0/fixtures/pkg/loader"
	"github.com/aretw0/fixtures/pkg/ports"
	"golang.org/x/sync/errgroup"
)

// DefaultEnvironment is used by EnvironmentData when no environment is active.
const DefaultEnvironment = "development"

// Manager loads and caches fixture files from one directory.
type Manager struct {
	dir      string
	registry *loader.Registry
	store    ports.CacheStore

	env        ports.EnvironmentProvider
	defaultEnv string

	logger *slog.Logger
	hooks  domain.Hooks

	// mu serializes the stat, cache check, reload and store sequence.
	mu sync.Mutex
}

// Option configures the Manager.
type Option func(*Manager)

// WithStore replaces the in-memory cache.
func WithStore(store ports.CacheStore) Option {
	return func(m *Manager) {
		m.store = store
	}
}

// WithRegistry sets the loaders used to parse files.
func WithRegistry(registry *loader.Registry) Option {
	return func(m *Manager) {
		m.registry = registry
	}
}

// WithEnvironment sets the source of the active environment name.
func WithEnvironment(env ports.EnvironmentProvider) Option {
	return func(m *Manager) {
		m.env = env
	}
}

// WithDefaultEnvironment sets the environment used when none is active.
func WithDefaultEnvironment(name string) Option {
	return func(m *Manager) {
		m.defaultEnv = name
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithHooks registers load callbacks.
func WithHooks(hooks domain.Hooks) Option {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// New creates a Manager over dir, creating the directory if it does not exist.
func New(dir string, opts ...Option) (*Manager, error) {
	m := &Manager{
		dir:        dir,
		defaultEnv: DefaultEnvironment,
		logger:     logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = loader.NewRegistry()
	}
	if m.store == nil {
		m.store = memory.NewStore()
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return m, nil
}

// Dir returns the data directory.
func (m *Manager) Dir() string { return m.dir }

// Registry returns the loaders in use.
func (m *Manager) Registry() *loader.Registry { return m.registry }

// Load returns the parsed content of filename, from cache when it is still fresh.
func (m *Manager) Load(ctx context.Context, filename string) (any, error) {
	return m.load(ctx, filename, false)
}

// Reload parses filename again regardless of the cache.
func (m *Manager) Reload(ctx context.Context, filename string) (any, error) {
	return m.load(ctx, filename, true)
}

func (m *Manager) path(filename string) string {
	return filepath.Join(m.dir, filename)
}

func (m *Manager) load(ctx context.Context, filename string, force bool) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := m.path(filename)
	event := &domain.LoadEvent{
		EventBase: domain.EventBase{Timestamp: time.Now()},
		Path:      path,
		Format:    domain.FormatOf(path),
		Forced:    force,
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = domain.NotFound(path)
		}
		return nil, m.failed(ctx, event, err)
	}
	if info.IsDir() {
		return nil, m.failed(ctx, event, domain.NotFound(path))
	}

	fn, ok := m.registry.Lookup(path)
	if !ok {
		return nil, m.failed(ctx, event, domain.Unsupported(filepath.Ext(path)))
	}

	if !force {
		cached, err := m.store.Get(ctx, path)
		switch {
		case err == nil && cached.Fresh(info.ModTime()):
			m.logger.Debug("Using cached data", "file", filename)
			event.Type = domain.EventCacheHit
			if m.hooks.OnCacheHit != nil {
				m.hooks.OnCacheHit(ctx, event)
			}
			return cached.Value, nil
		case err != nil && !errors.Is(err, domain.ErrCacheMiss):
			m.logger.Warn("Cache lookup failed, reloading", "file", filename, "err", err)
		}
	}

	m.logger.Info("Loading data", "file", filename)
	start := time.Now()
	value, err := fn(path)
	if err != nil {
		return nil, m.failed(ctx, event, err)
	}

	entry := &domain.DataSource{
		Path:         path,
		Format:       event.Format,
		CacheEnabled: true,
		ModTime:      info.ModTime(),
		LoadedAt:     start,
		Size:         info.Size(),
		Value:        value,
	}
	if err := m.store.Put(ctx, entry); err != nil {
		m.logger.Warn("Failed to cache data", "file", filename, "err", err)
	}

	event.Type = domain.EventLoad
	event.Duration = time.Since(start)
	if m.hooks.OnLoad != nil {
		m.hooks.OnLoad(ctx, event)
	}
	return value, nil
}

func (m *Manager) failed(ctx context.Context, event *domain.LoadEvent, err error) error {
	event.Type = domain.EventLoadError
	event.Err = err
	if m.hooks.OnLoadError != nil {
		m.hooks.OnLoadError(ctx, event)
	}
	return err
}

// ClearCache evicts filename from the cache, or every entry when filename is empty.
func (m *Manager) ClearCache(ctx context.Context, filename string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if filename == "" {
		if err := m.store.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		m.logger.Info("Cleared all data cache")
		return nil
	}

	if err := m.store.Delete(ctx, m.path(filename)); err != nil {
		return fmt.Errorf("failed to clear cache for %s: %w", filename, err)
	}
	m.logger.Info("Cleared cache", "file", filename)
	return nil
}

// ListFiles returns the names of regular files in the data directory that
// have a registered loader, sorted.
func (m *Manager) ListFiles() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list data files: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || !m.registry.Supports(e.Name()) {
			continue
		}
		files = append(files, e.Name())
	}
	slices.Sort(files)
	return files, nil
}

// Info summarizes the directory and the cache.
func (m *Manager) Info(ctx context.Context) domain.Info {
	info := domain.Info{
		Dir:     m.dir,
		Formats: m.registry.Extensions(),
		Files:   []string{},
	}

	n, err := m.store.Len(ctx)
	if err != nil {
		m.logger.Error("Failed to count cached files", "err", err)
	}
	info.Cached = n

	files, err := m.ListFiles()
	if err != nil {
		m.logger.Error("Failed to list data files", "err", err)
	} else {
		info.Files = files
	}
	return info
}

// Preload warms the cache with files, or with every listed file when none are given.
// Loads run in parallel goroutines; the first error is returned.
func (m *Manager) Preload(ctx context.Context, files ...string) error {
	if len(files) == 0 {
		var err error
		if files, err = m.ListFiles(); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := m.Load(ctx, f)
			return err
		})
	}
	return g.Wait()
}
