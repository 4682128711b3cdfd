package domain

import (
	"errors"
	"fmt"
)

// ErrDataNotFound is returned when a fixture file does not exist.
var ErrDataNotFound = errors.New("data file not found")

// ErrUnsupportedFormat is returned when no loader is registered for a file extension.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrCacheMiss is returned by cache stores when no entry exists for a path.
var ErrCacheMiss = errors.New("cache miss")

// DataFormatError reports malformed fixture content.
// Err holds the diagnostic of the underlying parser.
type DataFormatError struct {
	Path   string
	Format Format
	Err    error
}

func (e *DataFormatError) Error() string {
	return fmt.Sprintf("invalid %s in %s: %v", e.Format, e.Path, e.Err)
}

func (e *DataFormatError) Unwrap() error {
	return e.Err
}

// NotFound wraps ErrDataNotFound with the offending path.
func NotFound(path string) error {
	return fmt.Errorf("%w: %s", ErrDataNotFound, path)
}

// Unsupported wraps ErrUnsupportedFormat with the offending extension.
func Unsupported(ext string) error {
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
}
