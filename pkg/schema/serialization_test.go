package schema

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	s, err := Parse([]byte(`{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"title": "Login",
		"type": "object",
		"required": ["username"],
		"properties": {
			"username": {"type": "string", "format": "email", "required": true},
			"attempts": {"type": "integer", "minimum": 0, "maximum": 5, "nullable": true},
			"tags": {"type": "array", "minItems": 1, "items": {"type": "string", "maxLength": 10}},
			"role": {"enum": ["admin", "user"]}
		}
	}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if s.Type != TypeObject || s.Title != "Login" || s.Ref == "" {
		t.Errorf("header = %+v", s)
	}
	if !reflect.DeepEqual(s.Required, []string{"username"}) {
		t.Errorf("Required = %v", s.Required)
	}
	if got := s.PropertyNames(); !reflect.DeepEqual(got, []string{"attempts", "role", "tags", "username"}) {
		t.Errorf("PropertyNames() = %v", got)
	}

	user := s.Properties["username"]
	if !user.RequiredFlag || user.Format != "email" {
		t.Errorf("username = %+v", user)
	}
	attempts := s.Properties["attempts"]
	if !attempts.Nullable || *attempts.Minimum != 0 || *attempts.Maximum != 5 {
		t.Errorf("attempts = %+v", attempts)
	}
	tags := s.Properties["tags"]
	if *tags.MinItems != 1 || tags.Items == nil || *tags.Items.MaxLength != 10 {
		t.Errorf("tags = %+v", tags)
	}
	if len(s.Properties["role"].Enum) != 2 {
		t.Errorf("role enum = %v", s.Properties["role"].Enum)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		doc     string
		wantErr string
	}{
		{`[1, 2]`, "schema must be an object"},
		{`{"minLength": "3"}`, "minLength"},
		{`{"minLength": 2.5}`, "minLength"},
		{`{"required": 3}`, "required"},
		{`{"required": ["a", 1]}`, "required[1]"},
		{`{"properties": {"a": "string"}}`, "properties.a"},
		{`{"properties": {"a": {"items": {"maximum": "x"}}}}`, "properties.a: items: maximum"},
		{`{"type": 1}`, "type"},
		{`{"type": "object"`, "unexpected EOF"},
	}

	for _, tt := range tests {
		_, err := Parse([]byte(tt.doc))
		if err == nil {
			t.Errorf("Parse(%s) should fail", tt.doc)
			continue
		}
		if !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("Parse(%s) error = %q, want it to mention %q", tt.doc, err, tt.wantErr)
		}
	}
}

func TestSchema_JSONRoundTrip(t *testing.T) {
	for name, s := range map[string]*Schema{
		"user":     UserSchema(),
		"device":   DeviceSchema(),
		"scenario": ScenarioSchema(),
	} {
		t.Run(name, func(t *testing.T) {
			data, err := json.Marshal(s)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}

			var back Schema
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}

			// Validation behavior must survive the trip.
			v := NewValidator()
			empty := map[string]any{}
			if got, want := v.Validate(empty, &back).Errors, v.Validate(empty, s).Errors; !reflect.DeepEqual(got, want) {
				t.Errorf("errors after round trip = %q, want %q", got, want)
			}
		})
	}
}

func TestSchema_MarshalRequiredFlag(t *testing.T) {
	data, err := json.Marshal(&Schema{Type: TypeString, RequiredFlag: true})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if got := string(data); got != `{"type":"string","required":true}` {
		t.Errorf("Marshal() = %s", got)
	}
}
