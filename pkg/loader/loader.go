package loader

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/aretw0/fixtures/pkg/domain"
)

// Func parses the file at path into an in-memory value.
type Func func(path string) (any, error)

// Registry maps file extensions to loaders. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	loaders map[string]Func
}

// NewRegistry returns a registry with the built-in JSON, YAML and CSV loaders.
func NewRegistry() *Registry {
	r := &Registry{loaders: make(map[string]Func)}
	r.Register(".json", JSON)
	r.Register(".yaml", YAML)
	r.Register(".yml", YAML)
	r.Register(".csv", CSV)
	return r
}

// Register binds a loader to an extension, replacing any previous binding.
// The extension is matched case-insensitively; the leading dot is optional.
func (r *Registry) Register(ext string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders[normalizeExt(ext)] = fn
}

// Lookup returns the loader for the extension of path.
func (r *Registry) Lookup(path string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.loaders[normalizeExt(filepath.Ext(path))]
	return fn, ok
}

// Supports reports whether a loader is registered for the extension of path.
func (r *Registry) Supports(path string) bool {
	_, ok := r.Lookup(path)
	return ok
}

// Extensions returns the registered extensions, sorted.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.loaders))
	for ext := range r.loaders {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// Load parses path with the loader registered for its extension.
func (r *Registry) Load(path string) (any, error) {
	fn, ok := r.Lookup(path)
	if !ok {
		return nil, domain.Unsupported(filepath.Ext(path))
	}
	return fn(path)
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// readFile reads path, mapping a missing file to domain.ErrDataNotFound.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture paths come from the test suite
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NotFound(path)
		}
		return nil, err
	}
	return data, nil
}
