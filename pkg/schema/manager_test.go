package schema

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeSchema(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".json"), []byte(content), 0644); err != nil {
		t.Fatalf("write schema: %v", err)
	}
}

func TestManager_Load(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "login", `{"type": "object", "required": ["username"]}`)
	m := NewManager(dir, nil)

	s, ok := m.Load("login")
	if !ok || s.Type != TypeObject {
		t.Fatalf("Load() = %+v, %v", s, ok)
	}

	// Served from cache even after the file disappears.
	if err := os.Remove(filepath.Join(dir, "login.json")); err != nil {
		t.Fatal(err)
	}
	again, ok := m.Load("login")
	if !ok || again != s {
		t.Error("second Load() should return the cached schema")
	}

	m.ClearCache()
	if _, ok := m.Load("login"); ok {
		t.Error("Load() after ClearCache should re-read the missing file")
	}
}

func TestManager_LoadFailuresAreNotCached(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir, NewValidator())

	if s, ok := m.Load("missing"); ok || s != nil {
		t.Errorf("Load(missing) = %v, %v", s, ok)
	}

	writeSchema(t, dir, "broken", `{"type": "object",`)
	if _, ok := m.Load("broken"); ok {
		t.Fatal("Load(broken) should fail")
	}

	writeSchema(t, dir, "broken", `{"type": "object"}`)
	if _, ok := m.Load("broken"); !ok {
		t.Error("Load() should pick up the fixed file")
	}

	for _, name := range []string{"", "../broken", ".hidden"} {
		if _, ok := m.Load(name); ok {
			t.Errorf("Load(%q) should be rejected", name)
		}
	}
}

func TestManager_ValidateWithSchema(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "login", `{
		"type": "object",
		"properties": {"username": {"type": "string", "format": "email"}}
	}`)
	m := NewManager(dir, NewValidator())

	res := m.ValidateWithSchema(map[string]any{"username": "a@b.co"}, "login")
	if !res.Valid {
		t.Errorf("Errors = %q", res.Errors)
	}
	if len(res.Info) != 1 || !strings.Contains(res.Info[0], "'login'") {
		t.Errorf("Info = %q, want a line naming the schema", res.Info)
	}

	res = m.ValidateWithSchema(map[string]any{}, "nope")
	if res.Valid || !reflect.DeepEqual(res.Errors, []string{"schema 'nope' not found"}) {
		t.Errorf("unresolved schema result = %+v", res)
	}
}

func TestManager_WriteDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "schemas")
	m := NewManager(dir, NewValidator())

	if err := m.WriteDefaults(); err != nil {
		t.Fatalf("WriteDefaults() error = %v", err)
	}

	names, err := m.Names()
	if err != nil {
		t.Fatalf("Names() error = %v", err)
	}
	if !reflect.DeepEqual(names, []string{"device", "user"}) {
		t.Errorf("Names() = %v", names)
	}

	res := m.ValidateWithSchema(map[string]any{}, "user")
	if len(res.Errors) != 3 {
		t.Errorf("Errors = %q, want 3 missing fields", res.Errors)
	}

	res = m.ValidateWithSchema(map[string]any{
		"device_name":      "iPhone 15",
		"platform":         "iOS",
		"platform_version": "17.2",
	}, "device")
	if !res.Valid {
		t.Errorf("device Errors = %q", res.Errors)
	}
}
