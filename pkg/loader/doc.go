// Package loader turns fixture files into in-memory values.
//
// One loader exists per supported serialization: JSON documents, YAML documents
// and CSV tables. Every loader returns plain Go values (map[string]any, []any,
// string, bool, int64/int, float64 and nil) so that the schema validator can
// reason about them without knowing where they came from.
//
// A missing file fails with domain.ErrDataNotFound and malformed content with a
// *domain.DataFormatError carrying the parser diagnostic.
package loader
