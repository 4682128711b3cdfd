package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// Format identifies the serialization of a fixture file.
type Format string

const (
	FormatJSON Format = "json" // Record-oriented documents
	FormatYAML Format = "yaml" // Hierarchical documents with comments
	FormatCSV  Format = "csv"  // Tabular rows keyed by header
)

// FormatOf derives the format tag from a file extension.
// Unknown extensions return the lower-cased extension without the dot.
func FormatOf(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".csv":
		return FormatCSV
	default:
		return Format(strings.TrimPrefix(ext, "."))
	}
}

// DataSource is a cache entry for one resolved fixture file.
type DataSource struct {
	// Path is the resolved file path and the cache key.
	Path string `json:"path"`

	// Format is the serialization the value was parsed from.
	Format Format `json:"format"`

	// CacheEnabled allows an entry to opt out of being served from cache.
	CacheEnabled bool `json:"cache_enabled"`

	// ModTime is the file modification time observed when Value was read.
	ModTime time.Time `json:"mod_time"`

	// LoadedAt records when the file was parsed.
	LoadedAt time.Time `json:"loaded_at"`

	// Size is the file size in bytes at load time.
	Size int64 `json:"size"`

	// Value is the parsed document.
	Value any `json:"value"`
}

// Fresh reports whether the entry can be served for a file last modified at mtime.
func (s *DataSource) Fresh(mtime time.Time) bool {
	return s != nil && s.CacheEnabled && !mtime.After(s.ModTime)
}

// Info summarizes the state of a data manager.
type Info struct {
	Dir     string   `json:"data_directory"`
	Formats []string `json:"supported_formats"`
	Cached  int      `json:"cached_files"`
	Files   []string `json:"available_files"`
}
