package data

import (
	"context"
	"fmt"
	"strings"
)

// Conventional fixture files read by the typed accessors.
const (
	UsersFile   = "users.json"
	AppDataFile = "app_data.yaml"
	DevicesFile = "devices.csv"
)

// DefaultUserCategory is the users.json key read when no category is given.
const DefaultUserCategory = "valid_users"

// DeviceFilter narrows Devices. Empty fields match every row.
// Matching is case-insensitive equality.
type DeviceFilter struct {
	Platform string
	Priority string
}

// Match reports whether a device row passes the filter.
func (f DeviceFilter) Match(row map[string]any) bool {
	if f.Platform != "" && !strings.EqualFold(text(row["platform"]), f.Platform) {
		return false
	}
	if f.Priority != "" && !strings.EqualFold(text(row["test_priority"]), f.Priority) {
		return false
	}
	return true
}

// Users returns the records listed under category in users.json.
func (m *Manager) Users(ctx context.Context, category string) []map[string]any {
	if category == "" {
		category = DefaultUserCategory
	}
	doc, err := m.loadObject(ctx, UsersFile)
	if err != nil {
		m.logger.Error("Failed to get user data", "category", category, "err", err)
		return []map[string]any{}
	}
	return objects(doc[category])
}

// UserByID returns the first user in category whose "id" equals id, or nil.
func (m *Manager) UserByID(ctx context.Context, id, category string) map[string]any {
	for _, user := range m.Users(ctx, category) {
		if text(user["id"]) == id {
			return user
		}
	}
	return nil
}

// AppConfig returns app_settings.<platform> from app_data.yaml, or the whole
// document when platform is empty or has no settings block.
func (m *Manager) AppConfig(ctx context.Context, platform string) map[string]any {
	doc, err := m.loadObject(ctx, AppDataFile)
	if err != nil {
		m.logger.Error("Failed to get app config", "platform", platform, "err", err)
		return map[string]any{}
	}
	if platform != "" {
		settings := object(doc["app_settings"])
		if cfg, ok := settings[strings.ToLower(platform)]; ok {
			return object(cfg)
		}
	}
	return doc
}

// Devices returns the rows of devices.csv that pass f.
func (m *Manager) Devices(ctx context.Context, f DeviceFilter) []map[string]any {
	value, err := m.Load(ctx, DevicesFile)
	if err != nil {
		m.logger.Error("Failed to get device data", "err", err)
		return []map[string]any{}
	}

	devices := []map[string]any{}
	for _, row := range objects(value) {
		if f.Match(row) {
			devices = append(devices, row)
		}
	}
	return devices
}

// Scenario returns test_data.test_scenarios.<name> from app_data.yaml, or nil.
func (m *Manager) Scenario(ctx context.Context, name string) any {
	doc, err := m.loadObject(ctx, AppDataFile)
	if err != nil {
		m.logger.Error("Failed to get test scenario", "scenario", name, "err", err)
		return nil
	}
	return dig(doc, "test_data", "test_scenarios")[name]
}

// EnvironmentData returns environment_specific.<env> from users.json.
// An empty env selects the provider's environment, falling back to the
// default environment when that has no block.
func (m *Manager) EnvironmentData(ctx context.Context, env string) map[string]any {
	doc, err := m.loadObject(ctx, UsersFile)
	if err != nil {
		m.logger.Error("Failed to get environment data", "env", env, "err", err)
		return map[string]any{}
	}
	envs := object(doc["environment_specific"])

	if env != "" {
		return object(envs[env])
	}
	if current := m.Environment(); current != "" {
		if data, ok := envs[current]; ok {
			return object(data)
		}
	}
	return object(envs[m.defaultEnv])
}

// Environment returns the active environment name, or the default one.
func (m *Manager) Environment() string {
	if m.env != nil {
		if name := m.env.Environment(); name != "" {
			return name
		}
	}
	return m.defaultEnv
}

// Localization returns the language entry whose code is code. With an empty
// or unknown code it returns {"languages": [...]} listing every entry.
func (m *Manager) Localization(ctx context.Context, code string) map[string]any {
	doc, err := m.loadObject(ctx, AppDataFile)
	if err != nil {
		m.logger.Error("Failed to get localization data", "code", code, "err", err)
		return map[string]any{}
	}

	languages, _ := dig(doc, "test_data", "localization")["languages"].([]any)
	if languages == nil {
		languages = []any{}
	}
	if code != "" {
		for _, lang := range objects(languages) {
			if text(lang["code"]) == code {
				return lang
			}
		}
	}
	return map[string]any{"languages": languages}
}

// Benchmarks returns the performance_benchmarks block of app_data.yaml.
func (m *Manager) Benchmarks(ctx context.Context) map[string]any {
	doc, err := m.loadObject(ctx, AppDataFile)
	if err != nil {
		m.logger.Error("Failed to get performance benchmarks", "err", err)
		return map[string]any{}
	}
	return object(doc["performance_benchmarks"])
}

// ErrorMessages returns error_messages.<category> from app_data.yaml, or the
// whole block when category is empty.
func (m *Manager) ErrorMessages(ctx context.Context, category string) map[string]any {
	doc, err := m.loadObject(ctx, AppDataFile)
	if err != nil {
		m.logger.Error("Failed to get error messages", "category", category, "err", err)
		return map[string]any{}
	}
	messages := object(doc["error_messages"])
	if category != "" {
		return object(messages[category])
	}
	return messages
}

// HasKeys reports whether value is an object containing every key.
func HasKeys(value any, keys ...string) bool {
	obj, ok := value.(map[string]any)
	if !ok {
		return false
	}
	for _, key := range keys {
		if _, ok := obj[key]; !ok {
			return false
		}
	}
	return true
}

func (m *Manager) loadObject(ctx context.Context, filename string) (map[string]any, error) {
	value, err := m.Load(ctx, filename)
	if err != nil {
		return nil, err
	}
	doc, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a mapping at the top level, got %T", filename, value)
	}
	return doc, nil
}

// object returns v as a map, or an empty map.
func object(v any) map[string]any {
	if obj, ok := v.(map[string]any); ok {
		return obj
	}
	return map[string]any{}
}

// objects returns the map elements of a list, skipping anything else.
func objects(v any) []map[string]any {
	list, _ := v.([]any)
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

func dig(doc map[string]any, keys ...string) map[string]any {
	for _, key := range keys {
		doc = object(doc[key])
	}
	return doc
}

func text(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
