package schema

import (
	"fmt"
	"reflect"
)

// Type names the JSON type a schema node expects. The empty Type accepts any value.
type Type string

const (
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
	TypeNull    Type = "null"
)

// Known reports whether t is one of the built-in type names.
func (t Type) Known() bool {
	switch t {
	case TypeString, TypeInteger, TypeNumber, TypeBoolean, TypeArray, TypeObject, TypeNull:
		return true
	}
	return false
}

// Schema is one node of a declarative schema document.
//
// A node may describe any type; constraints that do not apply to the
// runtime type of a value are ignored.
type Schema struct {
	Ref         string `json:"$schema,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	Type     Type `json:"type,omitempty"`
	Nullable bool `json:"nullable,omitempty"`

	// Required lists the fields an object must contain.
	Required []string `json:"-"`
	// RequiredFlag marks a property node as mandatory in its parent object.
	RequiredFlag bool `json:"-"`

	Properties map[string]*Schema `json:"properties,omitempty"`
	Items      *Schema            `json:"items,omitempty"`

	Format    string   `json:"format,omitempty"`
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	Minimum   *float64 `json:"minimum,omitempty"`
	Maximum   *float64 `json:"maximum,omitempty"`
	MinItems  *int     `json:"minItems,omitempty"`
	MaxItems  *int     `json:"maxItems,omitempty"`
	Enum      []any    `json:"enum,omitempty"`
}

// Int returns a pointer to n, for building constraint fields in Go.
func Int(n int) *int { return &n }

// Float returns a pointer to f, for building constraint fields in Go.
func Float(f float64) *float64 { return &f }

// typeOf returns the JSON type name of a runtime value.
func typeOf(value any) string {
	switch value.(type) {
	case nil:
		return string(TypeNull)
	case string:
		return string(TypeString)
	case bool:
		return string(TypeBoolean)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return string(TypeInteger)
	case float32, float64:
		return string(TypeNumber)
	case map[string]any:
		return string(TypeObject)
	case []any:
		return string(TypeArray)
	}

	switch reflect.ValueOf(value).Kind() {
	case reflect.Map:
		return string(TypeObject)
	case reflect.Slice, reflect.Array:
		return string(TypeArray)
	default:
		return fmt.Sprintf("%T", value)
	}
}

// matchesType reports whether value satisfies t.
// Booleans are never numbers and integer rejects every float.
func matchesType(value any, t Type) bool {
	actual := Type(typeOf(value))
	switch t {
	case TypeNumber:
		return actual == TypeNumber || actual == TypeInteger
	default:
		return actual == t
	}
}

// asObject exposes maps with string keys as map[string]any.
func asObject(value any) (map[string]any, bool) {
	if m, ok := value.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	m := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		m[iter.Key().String()] = iter.Value().Interface()
	}
	return m, true
}

// asArray exposes slices and arrays as []any.
func asArray(value any) ([]any, bool) {
	if s, ok := value.([]any); ok {
		return s, true
	}
	if value == nil {
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	s := make([]any, rv.Len())
	for i := range s {
		s[i] = rv.Index(i).Interface()
	}
	return s, true
}

// asFloat converts numeric values to float64. Booleans are not numeric.
func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
