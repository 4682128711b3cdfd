package loader

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Normalize rewrites decoder output into the canonical value shapes:
// map[string]any for mappings, []any for sequences, int64/float64 for
// json.Number and strings for timestamps. Midnight UTC prints as a date,
// anything else as RFC 3339. Other scalars pass through unchanged.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = Normalize(e)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = Normalize(e)
		}
		return m
	case []any:
		for i, e := range t {
			t[i] = Normalize(e)
		}
		return t
	case json.Number:
		return number(t)
	case time.Time:
		if t.Equal(t.Truncate(24*time.Hour)) && t.Location() == time.UTC {
			return t.Format(time.DateOnly)
		}
		return t.Format(time.RFC3339Nano)
	default:
		return v
	}
}

func number(n json.Number) any {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := n.Int64(); err == nil {
			return i
		}
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return s
}
