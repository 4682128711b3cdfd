package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/fixtures/pkg/domain"
)

// JSON loads a record-oriented JSON document.
// Integral numbers become int64 and all other numbers float64.
func JSON(path string) (any, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	v, err := DecodeJSON(data)
	if err != nil {
		return nil, &domain.DataFormatError{Path: path, Format: domain.FormatJSON, Err: err}
	}
	return v, nil
}

// DecodeJSON parses a single JSON document and normalizes its numbers.
func DecodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	// Reject trailing content such as a second document.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = fmt.Errorf("unexpected content after top-level value at offset %d", dec.InputOffset())
		}
		return nil, err
	}
	return Normalize(v), nil
}

// EncodeJSON marshals a normalized value so DecodeJSON returns the same
// number kinds: whole float64 values keep a fractional part.
func EncodeJSON(v any) ([]byte, error) {
	return json.Marshal(keepFloats(v))
}

type floatText float64

func (f floatText) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(float64(f))
	if err != nil {
		return nil, err
	}
	if !bytes.ContainsAny(b, ".eE") {
		b = append(b, ".0"...)
	}
	return b, nil
}

func keepFloats(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = keepFloats(e)
		}
		return m
	case []any:
		l := make([]any, len(t))
		for i, e := range t {
			l[i] = keepFloats(e)
		}
		return l
	case float64:
		return floatText(t)
	default:
		return v
	}
}
