package schema

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/aretw0/fixtures/pkg/domain"
)

func mustParse(t *testing.T, doc string) *Schema {
	t.Helper()
	s, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return s
}

func TestValidate_RequiredList(t *testing.T) {
	v := NewValidator()
	res := v.Validate(map[string]any{}, UserSchema())

	if res.Valid {
		t.Fatal("Validate() should be invalid for an empty user")
	}
	want := []string{
		"root: missing required field 'id'",
		"root: missing required field 'username'",
		"root: missing required field 'password'",
	}
	if !reflect.DeepEqual(res.Errors, want) {
		t.Errorf("Errors = %q, want %q", res.Errors, want)
	}
}

func TestValidate_EmailFormat(t *testing.T) {
	v := NewValidator()
	s := mustParse(t, `{"properties": {"username": {"type": "string", "format": "email"}}}`)

	res := v.Validate(map[string]any{"username": "not-an-email"}, s)
	if len(res.Errors) != 1 {
		t.Fatalf("Errors = %q, want exactly one", res.Errors)
	}
	if res.Errors[0] != "username: invalid email format" {
		t.Errorf("Errors[0] = %q", res.Errors[0])
	}

	res = v.Validate(map[string]any{"username": "a@b.co"}, s)
	if !res.Valid || len(res.Errors) != 0 {
		t.Errorf("Validate() = %+v, want valid", res)
	}
}

func TestValidate_Idempotent(t *testing.T) {
	v := NewValidator()
	data := map[string]any{
		"id":       "",
		"username": "john",
		"password": "short",
		"profile":  map[string]any{"age": int64(7)},
	}

	first := v.Validate(data, UserSchema())
	second := v.Validate(data, UserSchema())

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated validation differs:\n%+v\n%+v", first, second)
	}
	if first == second {
		t.Error("each call must return a fresh result")
	}
}

func TestValidate_Null(t *testing.T) {
	tests := []struct {
		name    string
		schema  *Schema
		wantErr string
	}{
		{"not nullable", &Schema{Type: TypeString}, "value: value cannot be null"},
		{"untyped", &Schema{}, "value: value cannot be null"},
		{"nullable", &Schema{Type: TypeString, Nullable: true}, ""},
		{"null type", &Schema{Type: TypeNull}, ""},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Schema{Type: TypeObject, Properties: map[string]*Schema{"value": tt.schema}}
			res := v.Validate(map[string]any{"value": nil}, s)
			if tt.wantErr == "" {
				if !res.Valid {
					t.Errorf("Errors = %q, want none", res.Errors)
				}
				return
			}
			if len(res.Errors) != 1 || res.Errors[0] != tt.wantErr {
				t.Errorf("Errors = %q, want [%q]", res.Errors, tt.wantErr)
			}
		})
	}
}

func TestValidate_Types(t *testing.T) {
	tests := []struct {
		value any
		typ   Type
		valid bool
	}{
		{"text", TypeString, true},
		{int64(3), TypeInteger, true},
		{3, TypeInteger, true},
		{2.0, TypeInteger, false},
		{int64(3), TypeNumber, true},
		{2.5, TypeNumber, true},
		{true, TypeNumber, false},
		{true, TypeInteger, false},
		{false, TypeBoolean, true},
		{"true", TypeBoolean, false},
		{[]any{1}, TypeArray, true},
		{[]string{"a"}, TypeArray, true},
		{map[string]any{}, TypeObject, true},
		{map[string]string{}, TypeObject, true},
		{[]any{}, TypeObject, false},
		{"", TypeNull, false},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%T_%s", tt.value, tt.typ), func(t *testing.T) {
			res := v.Validate(tt.value, &Schema{Type: tt.typ})
			if res.Valid != tt.valid {
				t.Errorf("Validate(%#v, %s).Valid = %v, want %v (%q)", tt.value, tt.typ, res.Valid, tt.valid, res.Errors)
			}
		})
	}
}

func TestValidate_TypeMismatchMessage(t *testing.T) {
	v := NewValidator()
	s := &Schema{
		Type:       TypeObject,
		Properties: map[string]*Schema{"age": {Type: TypeInteger, Minimum: Float(100)}},
	}

	res := v.Validate(map[string]any{"age": 2.0}, s)

	// The type error stops further checks on the node.
	want := []string{"age: expected type integer, got number"}
	if !reflect.DeepEqual(res.Errors, want) {
		t.Errorf("Errors = %q, want %q", res.Errors, want)
	}
}

func TestValidate_Constraints(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		schema  *Schema
		wantErr string
	}{
		{"min length", "ab", &Schema{MinLength: Int(3)}, "root: string too short (min: 3, got 2)"},
		{"max length", "abcdef", &Schema{MaxLength: Int(5)}, "root: string too long (max: 5, got 6)"},
		{"length counts runes", "héllo", &Schema{MaxLength: Int(5)}, ""},
		{"pattern anchored at start", "abc123", &Schema{Pattern: `\d+`}, `root: string "abc123" does not match pattern "\\d+"`},
		{"pattern prefix match", "123abc", &Schema{Pattern: `\d+`}, ""},
		{"minimum", int64(5), &Schema{Minimum: Float(10)}, "root: value too small (min: 10, got 5)"},
		{"maximum", 10.5, &Schema{Maximum: Float(10)}, "root: value too large (max: 10, got 10.5)"},
		{"within bounds", int64(10), &Schema{Minimum: Float(10), Maximum: Float(10)}, ""},
		{"min items", []any{}, &Schema{MinItems: Int(1)}, "root: too few items (min: 1, got 0)"},
		{"max items", []any{1, 2, 3}, &Schema{MaxItems: Int(2)}, "root: too many items (max: 2, got 3)"},
		{"enum miss", "x", &Schema{Enum: []any{"a", "b"}}, "root: value must be one of [a b], got x"},
		{"enum numeric", int64(2), &Schema{Enum: []any{1.0, 2.0}}, ""},
		{"enum bool is not number", true, &Schema{Enum: []any{int64(1)}}, "root: value must be one of [1], got true"},
		{"bool skips numeric bounds", true, &Schema{Minimum: Float(5)}, ""},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.Validate(tt.value, tt.schema)
			if tt.wantErr == "" {
				if !res.Valid {
					t.Errorf("Errors = %q, want none", res.Errors)
				}
				return
			}
			if len(res.Errors) != 1 || res.Errors[0] != tt.wantErr {
				t.Errorf("Errors = %q, want [%q]", res.Errors, tt.wantErr)
			}
		})
	}
}

func TestValidate_InvalidPattern(t *testing.T) {
	v := NewValidator()
	s := &Schema{Type: TypeString, Pattern: "("}

	res := v.Validate("anything", s)
	if res.Valid || len(res.Errors) != 1 {
		t.Fatalf("Errors = %q, want one error", res.Errors)
	}
	if !strings.HasPrefix(res.Errors[0], `root: invalid pattern "("`) {
		t.Errorf("Errors[0] = %q", res.Errors[0])
	}

	// Memoized failures are reported again.
	if again := v.Validate("anything", s); len(again.Errors) != 1 {
		t.Errorf("second pass Errors = %q", again.Errors)
	}
}

func TestValidate_ItemPaths(t *testing.T) {
	v := NewValidator()
	steps := []any{
		map[string]any{"step": "open app"},
		map[string]any{"step": ""},
		map[string]any{"action": "tap"},
	}

	res := v.ValidateScenario(steps)

	want := []string{
		"root[1].step: string too short (min: 1, got 0)",
		"root[2]: missing required field 'step'",
	}
	if !reflect.DeepEqual(res.Errors, want) {
		t.Errorf("Errors = %q, want %q", res.Errors, want)
	}
}

func TestValidate_NestedPaths(t *testing.T) {
	v := NewValidator()
	s := mustParse(t, `{
		"type": "object",
		"properties": {
			"profile": {
				"type": "object",
				"properties": {
					"tags": {"type": "array", "items": {"type": "string"}}
				}
			}
		}
	}`)

	res := v.Validate(map[string]any{
		"profile": map[string]any{"tags": []any{"a", int64(2)}},
	}, s)

	want := []string{"profile.tags[1]: expected type string, got integer"}
	if !reflect.DeepEqual(res.Errors, want) {
		t.Errorf("Errors = %q, want %q", res.Errors, want)
	}
}

func TestValidate_RequiredFlagDuplicatesList(t *testing.T) {
	v := NewValidator()
	s := mustParse(t, `{
		"type": "object",
		"required": ["a"],
		"properties": {"a": {"type": "string", "required": true}}
	}`)

	res := v.Validate(map[string]any{}, s)

	want := []string{
		"root: missing required field 'a'",
		"a: required field is missing",
	}
	if !reflect.DeepEqual(res.Errors, want) {
		t.Errorf("Errors = %q, want %q", res.Errors, want)
	}
}

func TestValidate_PropertiesInSortedOrder(t *testing.T) {
	v := NewValidator()
	s := &Schema{Properties: map[string]*Schema{
		"zeta":  {Type: TypeString},
		"alpha": {Type: TypeString},
		"mid":   {Type: TypeString},
	}}

	res := v.Validate(map[string]any{"zeta": 1, "alpha": 2, "mid": 3}, s)

	want := []string{
		"alpha: expected type string, got integer",
		"mid: expected type string, got integer",
		"zeta: expected type string, got integer",
	}
	if !reflect.DeepEqual(res.Errors, want) {
		t.Errorf("Errors = %q, want %q", res.Errors, want)
	}
}

func TestValidate_UnknownNamesWarn(t *testing.T) {
	v := NewValidator()

	res := v.Validate("1.2.3", &Schema{Type: TypeString, Format: "semver"})
	if !res.Valid || len(res.Warnings) != 1 {
		t.Errorf("unknown format: %+v, want valid with one warning", res)
	}

	res = v.Validate("x", &Schema{Type: "text"})
	if !res.Valid || len(res.Warnings) != 1 {
		t.Errorf("unknown type: %+v, want valid with one warning", res)
	}
}

func TestValidate_FormatOnlyOnStrings(t *testing.T) {
	v := NewValidator()
	res := v.Validate(int64(42), &Schema{Format: "email"})
	if !res.Valid {
		t.Errorf("Errors = %q, want none", res.Errors)
	}
}

func TestRegisterFormat(t *testing.T) {
	v := NewValidator()
	s := &Schema{Type: TypeString, Format: "email"}

	if res := v.Validate("ok", s); res.Valid {
		t.Fatal("built-in email checker should reject 'ok'")
	}

	v.RegisterFormat("email", func(s string) bool { return s == "ok" })
	if res := v.Validate("ok", s); !res.Valid {
		t.Errorf("override not applied: %q", res.Errors)
	}

	v.RegisterFormat("semver", func(s string) bool { return strings.Count(s, ".") == 2 })
	if res := v.Validate("1.2", &Schema{Format: "semver"}); len(res.Errors) != 1 || res.Errors[0] != "root: invalid semver format" {
		t.Errorf("custom format Errors = %q", res.Errors)
	}
}

func TestRegisterFormat_Concurrent(t *testing.T) {
	v := NewValidator()
	s := &Schema{Type: TypeString, Format: "email"}

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			v.RegisterFormat(fmt.Sprintf("custom%d", i), func(string) bool { return true })
		}()
		go func() {
			defer wg.Done()
			_ = v.Validate("a@b.co", s)
		}()
	}
	wg.Wait()

	if got := len(v.Formats()); got != 28 {
		t.Errorf("Formats() = %d names, want 28", got)
	}
}

func TestValidateUser(t *testing.T) {
	v := NewValidator()
	user := map[string]any{
		"id":       "user_001",
		"username": "john.doe@example.com",
		"password": "Passw0rd!",
		"role":     "standard_user",
		"status":   "active",
		"profile":  map[string]any{"age": int64(30), "country": "US", "language": "en"},
	}

	if res := v.ValidateUser(user); !res.Valid {
		t.Errorf("ValidateUser() Errors = %q", res.Errors)
	}

	user["role"] = "guest"
	user["profile"] = map[string]any{"age": int64(7), "country": "USA"}
	res := v.ValidateUser(user)
	want := []string{
		"profile.age: value too small (min: 13, got 7)",
		"profile.country: string too long (max: 2, got 3)",
		"role: value must be one of [standard_user admin_user premium_user], got guest",
	}
	if !reflect.DeepEqual(res.Errors, want) {
		t.Errorf("Errors = %q, want %q", res.Errors, want)
	}
}

func TestValidateDevice(t *testing.T) {
	v := NewValidator()
	device := map[string]any{
		"device_name":      "Pixel 7",
		"platform":         "Android",
		"platform_version": "13.0",
		"ram_gb":           int64(8),
		"test_priority":    "high",
	}
	if res := v.ValidateDevice(device); !res.Valid {
		t.Errorf("ValidateDevice() Errors = %q", res.Errors)
	}

	device["platform"] = "Windows"
	device["ram_gb"] = int64(64)
	if res := v.ValidateDevice(device); len(res.Errors) != 2 {
		t.Errorf("Errors = %q, want 2", res.Errors)
	}
}

func TestValidator_Hooks(t *testing.T) {
	var events []*domain.ValidationEvent
	v := NewValidator(WithValidatorHooks(domain.Hooks{
		OnValidate: func(e *domain.ValidationEvent) { events = append(events, e) },
	}))

	v.ValidateScenario([]any{})
	_ = v.Validate("plain", &Schema{})

	if len(events) != 1 {
		t.Fatalf("events = %d, want 1 (plain Validate is not reported)", len(events))
	}
	if events[0].Schema != "scenario" || events[0].Valid || events[0].Errors != 1 {
		t.Errorf("event = %+v", events[0])
	}
}
