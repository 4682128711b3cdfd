package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"

	"github.com/aretw0/fixtures/pkg/loader"
)

// Parse decodes a JSON schema document.
func Parse(data []byte) (*Schema, error) {
	raw, err := loader.DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("schema must be an object, got %s", typeOf(raw))
	}
	return FromMap(m)
}

// FromMap builds a Schema from a decoded document.
//
// The "required" key is read as the object-level field list when it holds
// an array and as the property flag when it holds a boolean. Unknown keys
// are ignored.
func FromMap(m map[string]any) (*Schema, error) {
	s := &Schema{}
	var err error

	if s.Ref, err = stringField(m, "$schema"); err != nil {
		return nil, err
	}
	if s.Title, err = stringField(m, "title"); err != nil {
		return nil, err
	}
	if s.Description, err = stringField(m, "description"); err != nil {
		return nil, err
	}
	t, err := stringField(m, "type")
	if err != nil {
		return nil, err
	}
	s.Type = Type(t)
	if s.Format, err = stringField(m, "format"); err != nil {
		return nil, err
	}
	if s.Pattern, err = stringField(m, "pattern"); err != nil {
		return nil, err
	}

	if v, ok := m["nullable"]; ok {
		b, isBool := v.(bool)
		if !isBool {
			return nil, fmt.Errorf("nullable: expected boolean, got %s", typeOf(v))
		}
		s.Nullable = b
	}

	switch v := m["required"].(type) {
	case nil:
	case bool:
		s.RequiredFlag = v
	case []any:
		for i, item := range v {
			name, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("required[%d]: expected string, got %s", i, typeOf(item))
			}
			s.Required = append(s.Required, name)
		}
	default:
		return nil, fmt.Errorf("required: expected array or boolean, got %s", typeOf(v))
	}

	for key, dst := range map[string]**int{
		"minLength": &s.MinLength,
		"maxLength": &s.MaxLength,
		"minItems":  &s.MinItems,
		"maxItems":  &s.MaxItems,
	} {
		if *dst, err = intField(m, key); err != nil {
			return nil, err
		}
	}
	if s.Minimum, err = floatField(m, "minimum"); err != nil {
		return nil, err
	}
	if s.Maximum, err = floatField(m, "maximum"); err != nil {
		return nil, err
	}

	if v, ok := m["enum"]; ok {
		list, isList := v.([]any)
		if !isList {
			return nil, fmt.Errorf("enum: expected array, got %s", typeOf(v))
		}
		s.Enum = list
	}

	if v, ok := m["properties"]; ok {
		props, isObj := v.(map[string]any)
		if !isObj {
			return nil, fmt.Errorf("properties: expected object, got %s", typeOf(v))
		}
		s.Properties = make(map[string]*Schema, len(props))
		for name, raw := range props {
			child, isObj := raw.(map[string]any)
			if !isObj {
				return nil, fmt.Errorf("properties.%s: expected object, got %s", name, typeOf(raw))
			}
			if s.Properties[name], err = FromMap(child); err != nil {
				return nil, fmt.Errorf("properties.%s: %w", name, err)
			}
		}
	}

	if v, ok := m["items"]; ok {
		child, isObj := v.(map[string]any)
		if !isObj {
			return nil, fmt.Errorf("items: expected object, got %s", typeOf(v))
		}
		if s.Items, err = FromMap(child); err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
	}

	return s, nil
}

// MarshalJSON serializes the schema in the same shape Parse accepts.
// An object-level Required list takes precedence over RequiredFlag.
func (s Schema) MarshalJSON() ([]byte, error) {
	type plain Schema
	out := struct {
		plain
		Required any `json:"required,omitempty"`
	}{plain: plain(s)}

	switch {
	case len(s.Required) > 0:
		out.Required = s.Required
	case s.RequiredFlag:
		out.Required = true
	}
	return json.Marshal(out)
}

// UnmarshalJSON deserializes the schema through FromMap.
func (s *Schema) UnmarshalJSON(data []byte) error {
	if s == nil {
		return fmt.Errorf("schema: UnmarshalJSON on nil pointer")
	}
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*s = *parsed
	return nil
}

// PropertyNames returns the property names in sorted order.
func (s *Schema) PropertyNames() []string {
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func stringField(m map[string]any, key string) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", nil
	}
	str, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: expected string, got %s", key, typeOf(v))
	}
	return str, nil
}

func intField(m map[string]any, key string) (*int, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	f, ok := asFloat(v)
	if !ok || f != math.Trunc(f) || f < 0 {
		return nil, fmt.Errorf("%s: expected non-negative integer, got %v", key, v)
	}
	n := int(f)
	return &n, nil
}

func floatField(m map[string]any, key string) (*float64, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	f, ok := asFloat(v)
	if !ok {
		return nil, fmt.Errorf("%s: expected number, got %s", key, typeOf(v))
	}
	return &f, nil
}
