package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/aretw0/fixtures/internal/fsutil"
	"github.com/aretw0/fixtures/internal/logging"
	"github.com/aretw0/fixtures/pkg/domain"
	"github.com/aretw0/fixtures/pkg/loader"
)

const schemaExt = ".json"

// Manager loads named schema documents from a directory and caches them.
// A schema that fails to load is not cached, so a fixed file is picked up
// on the next call.
type Manager struct {
	dir       string
	validator *Validator
	logger    *slog.Logger

	mu      sync.Mutex
	schemas map[string]*Schema
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithManagerLogger sets the logger for load diagnostics.
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a schema manager over dir, creating the directory if needed.
// A nil validator gets a fresh NewValidator().
func NewManager(dir string, validator *Validator, opts ...ManagerOption) *Manager {
	m := &Manager{
		dir:       dir,
		validator: validator,
		logger:    logging.NewNop(),
		schemas:   make(map[string]*Schema),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.validator == nil {
		m.validator = NewValidator()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		m.logger.Warn("Failed to ensure schema directory", "dir", dir, "err", err)
	}
	return m
}

// Dir returns the schema directory.
func (m *Manager) Dir() string { return m.dir }

// Validator returns the validator used by ValidateWithSchema.
func (m *Manager) Validator() *Validator { return m.validator }

// Load returns the schema stored as <dir>/<name>.json.
// Missing or malformed documents are logged and reported as absent.
func (m *Manager) Load(name string) (*Schema, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.schemas[name]; ok {
		return s, true
	}

	if name == "" || filepath.Base(name) != name || strings.HasPrefix(name, ".") {
		m.logger.Warn("Invalid schema name", "schema", name)
		return nil, false
	}

	path := filepath.Join(m.dir, name+schemaExt)
	raw, err := loader.JSON(path)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			m.logger.Warn("Schema file not found", "path", path)
		} else {
			m.logger.Error("Failed to load schema", "schema", name, "err", err)
		}
		return nil, false
	}

	doc, ok := raw.(map[string]any)
	if !ok {
		m.logger.Error("Failed to load schema", "schema", name, "err", fmt.Errorf("expected object, got %s", typeOf(raw)))
		return nil, false
	}
	s, err := FromMap(doc)
	if err != nil {
		m.logger.Error("Failed to load schema", "schema", name, "err", err)
		return nil, false
	}

	m.schemas[name] = s
	m.logger.Info("Loaded schema", "schema", name)
	return s, true
}

// ValidateWithSchema validates value against the named schema.
// An unresolvable name yields an invalid result with a single error.
func (m *Manager) ValidateWithSchema(value any, name string) *Result {
	s, ok := m.Load(name)
	if !ok {
		res := NewResult()
		res.Add(LevelError, fmt.Sprintf("schema '%s' not found", name))
		m.validator.report(name, res)
		return res
	}

	res := m.validator.Validate(value, s)
	res.Add(LevelInfo, fmt.Sprintf("validated against schema '%s'", name))
	m.validator.report(name, res)
	return res
}

// Names lists the schemas available in the directory, sorted.
func (m *Manager) Names() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read schema directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), schemaExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	slices.Sort(names)
	return names, nil
}

// ClearCache drops every cached schema.
func (m *Manager) ClearCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.schemas)
}

// WriteDefaults writes the default user and device schemas, replacing
// existing files atomically. Cached copies of those names are dropped.
func (m *Manager) WriteDefaults() error {
	defaults := defaultSchemas()
	names := make([]string, 0, len(defaults))
	for name := range defaults {
		names = append(names, name)
	}
	slices.Sort(names)

	var errs []error
	for _, name := range names {
		data, err := json.MarshalIndent(defaults[name], "", "  ")
		if err != nil {
			errs = append(errs, fmt.Errorf("schema %s: %w", name, err))
			continue
		}
		path := filepath.Join(m.dir, name+schemaExt)
		if err := fsutil.WriteFileAtomic(path, append(data, '\n')); err != nil {
			m.logger.Error("Failed to create schema", "schema", name, "err", err)
			errs = append(errs, fmt.Errorf("schema %s: %w", name, err))
			continue
		}
		m.logger.Info("Created default schema", "schema", name, "path", path)

		m.mu.Lock()
		delete(m.schemas, name)
		m.mu.Unlock()
	}
	return errors.Join(errs...)
}
