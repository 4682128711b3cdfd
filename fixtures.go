package fixtures

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/fixtures/internal/logging"
	"github.com/aretw0/fixtures/pkg/data"
	"github.com/aretw0/fixtures/pkg/domain"
	"github.com/aretw0/fixtures/pkg/loader"
	"github.com/aretw0/fixtures/pkg/ports"
	"github.com/aretw0/fixtures/pkg/schema"
)

// Session is the entry point for test code. It owns one data manager,
// one validator and one schema manager, all sharing a logger and hooks.
type Session struct {
	data    *data.Manager
	valid   *schema.Validator
	schemas *schema.Manager
	store   ports.CacheStore
	logger  *slog.Logger
}

type options struct {
	logger     *slog.Logger
	hooks      domain.Hooks
	store      ports.CacheStore
	registry   *loader.Registry
	env        ports.EnvironmentProvider
	defaultEnv string
	schemaDir  string
}

// Option defines a functional option for configuring the Session.
type Option func(*options)

// WithLogger sets a custom structured logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithHooks registers observability hooks. Repeated calls are merged.
func WithHooks(hooks domain.Hooks) Option {
	return func(o *options) {
		o.hooks = o.hooks.Merge(hooks)
	}
}

// WithStore replaces the in-memory fixture cache, e.g. with a Redis store.
func WithStore(store ports.CacheStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithRegistry sets the loaders used to parse fixture files.
func WithRegistry(registry *loader.Registry) Option {
	return func(o *options) {
		o.registry = registry
	}
}

// WithEnvironment sets the source of the active environment name.
func WithEnvironment(env ports.EnvironmentProvider) Option {
	return func(o *options) {
		o.env = env
	}
}

// WithDefaultEnvironment sets the environment used when none is active.
func WithDefaultEnvironment(name string) Option {
	return func(o *options) {
		o.defaultEnv = name
	}
}

// WithSchemaDir sets the schema directory (default: <dir>/schemas).
func WithSchemaDir(dir string) Option {
	return func(o *options) {
		o.schemaDir = dir
	}
}

// New creates a Session reading fixtures from dir.
func New(dir string, opts ...Option) (*Session, error) {
	o := &options{
		logger:     logging.NewNop(),
		defaultEnv: data.DefaultEnvironment,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.schemaDir == "" {
		o.schemaDir = filepath.Join(dir, "schemas")
	}

	dataOpts := []data.Option{
		data.WithLogger(o.logger),
		data.WithHooks(o.hooks),
		data.WithDefaultEnvironment(o.defaultEnv),
	}
	if o.store != nil {
		dataOpts = append(dataOpts, data.WithStore(o.store))
	}
	if o.registry != nil {
		dataOpts = append(dataOpts, data.WithRegistry(o.registry))
	}
	if o.env != nil {
		dataOpts = append(dataOpts, data.WithEnvironment(o.env))
	}

	dm, err := data.New(dir, dataOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create data manager: %w", err)
	}

	v := schema.NewValidator(
		schema.WithValidatorLogger(o.logger),
		schema.WithValidatorHooks(o.hooks),
	)

	return &Session{
		data:    dm,
		valid:   v,
		schemas: schema.NewManager(o.schemaDir, v, schema.WithManagerLogger(o.logger)),
		store:   o.store,
		logger:  o.logger,
	}, nil
}

// Data returns the underlying data manager.
func (s *Session) Data() *data.Manager { return s.data }

// Validator returns the shared validator.
func (s *Session) Validator() *schema.Validator { return s.valid }

// Schemas returns the schema manager.
func (s *Session) Schemas() *schema.Manager { return s.schemas }

// Load returns the parsed content of a fixture file, from cache when fresh.
func (s *Session) Load(ctx context.Context, filename string) (any, error) {
	return s.data.Load(ctx, filename)
}

// Reload parses a fixture file again regardless of the cache.
func (s *Session) Reload(ctx context.Context, filename string) (any, error) {
	return s.data.Reload(ctx, filename)
}

// Users returns the user records of category (default "valid_users").
func (s *Session) Users(ctx context.Context, category string) []map[string]any {
	return s.data.Users(ctx, category)
}

// UserByID returns the first user of category with the given id, or nil.
func (s *Session) UserByID(ctx context.Context, id, category string) map[string]any {
	return s.data.UserByID(ctx, id, category)
}

// AppConfig returns the settings block of platform, or the whole app data document.
func (s *Session) AppConfig(ctx context.Context, platform string) map[string]any {
	return s.data.AppConfig(ctx, platform)
}

// Devices returns the device rows that pass f.
func (s *Session) Devices(ctx context.Context, f data.DeviceFilter) []map[string]any {
	return s.data.Devices(ctx, f)
}

// Scenario returns the named test scenario, or nil.
func (s *Session) Scenario(ctx context.Context, name string) any {
	return s.data.Scenario(ctx, name)
}

// EnvironmentData returns the environment-specific block of env, or of the active environment.
func (s *Session) EnvironmentData(ctx context.Context, env string) map[string]any {
	return s.data.EnvironmentData(ctx, env)
}

// Localization returns the language entry for code, or the list of languages.
func (s *Session) Localization(ctx context.Context, code string) map[string]any {
	return s.data.Localization(ctx, code)
}

// Benchmarks returns the performance benchmarks.
func (s *Session) Benchmarks(ctx context.Context) map[string]any {
	return s.data.Benchmarks(ctx)
}

// ErrorMessages returns the error messages of category, or all of them.
func (s *Session) ErrorMessages(ctx context.Context, category string) map[string]any {
	return s.data.ErrorMessages(ctx, category)
}

// ClearCache evicts one file, or every file when filename is empty.
func (s *Session) ClearCache(ctx context.Context, filename string) error {
	return s.data.ClearCache(ctx, filename)
}

// ListFiles returns the loadable files in the data directory.
func (s *Session) ListFiles() ([]string, error) {
	return s.data.ListFiles()
}

// Info summarizes the data directory and the cache.
func (s *Session) Info(ctx context.Context) domain.Info {
	return s.data.Info(ctx)
}

// Preload warms the cache.
func (s *Session) Preload(ctx context.Context, files ...string) error {
	return s.data.Preload(ctx, files...)
}

// Validate checks value against sc.
func (s *Session) Validate(value any, sc *schema.Schema) *schema.Result {
	return s.valid.Validate(value, sc)
}

// ValidateWithSchema checks value against the named schema document.
func (s *Session) ValidateWithSchema(value any, name string) *schema.Result {
	return s.schemas.ValidateWithSchema(value, name)
}

// RegisterFormat adds or replaces a named string format checker.
func (s *Session) RegisterFormat(name string, fn schema.FormatFunc) {
	s.valid.RegisterFormat(name, fn)
}

// ValidateFile loads filename and validates it against the named schema.
// With each set and a list document, every element is validated on its
// own and messages are prefixed with the element index.
// Load failures are reported as errors in the result.
func (s *Session) ValidateFile(ctx context.Context, filename, schemaName string, each bool) *schema.Result {
	value, err := s.data.Load(ctx, filename)
	if err != nil {
		res := schema.NewResult()
		res.Add(schema.LevelError, fmt.Sprintf("%s: %v", filename, err))
		return res
	}

	items, isList := value.([]any)
	if _, found := s.schemas.Load(schemaName); !found || !each || !isList {
		return s.schemas.ValidateWithSchema(value, schemaName)
	}

	res := schema.NewResult()
	for i, item := range items {
		res.Merge(s.schemas.ValidateWithSchema(item, schemaName), fmt.Sprintf("[%d] ", i))
	}
	res.Add(schema.LevelInfo, fmt.Sprintf("validated %d items of %s against schema '%s'", len(items), filename, schemaName))
	return res
}

// Close releases the cache store when it holds resources.
func (s *Session) Close() error {
	if c, ok := s.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
