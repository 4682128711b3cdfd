package data_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/fixtures/internal/logging"
	"github.com/aretw0/fixtures/internal/mocks"
	"github.com/aretw0/fixtures/pkg/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newFixtureManager(t *testing.T, opts ...data.Option) *data.Manager {
	t.Helper()
	m, err := data.New(fixtureDir(t), opts...)
	require.NoError(t, err)
	return m
}

func TestManager_Users(t *testing.T) {
	m := newFixtureManager(t)
	ctx := context.Background()

	assert.Len(t, m.Users(ctx, ""), 3, "defaults to valid_users")
	assert.Len(t, m.Users(ctx, "invalid_users"), 2)

	unknown := m.Users(ctx, "guest_users")
	assert.NotNil(t, unknown)
	assert.Empty(t, unknown)

	user := m.UserByID(ctx, "user_002", "")
	require.NotNil(t, user)
	assert.Equal(t, "admin@example.com", user["username"])

	assert.Nil(t, m.UserByID(ctx, "user_002", "invalid_users"))
	assert.Nil(t, m.UserByID(ctx, "nobody", ""))
}

func TestManager_AppConfig(t *testing.T) {
	m := newFixtureManager(t)
	ctx := context.Background()

	android := m.AppConfig(ctx, "Android")
	assert.Equal(t, "com.example.shop", android["package_name"])
	assert.Equal(t, 26, android["min_sdk"])

	whole := m.AppConfig(ctx, "")
	assert.Contains(t, whole, "app_settings")
	assert.Contains(t, whole, "performance_benchmarks")

	assert.Contains(t, m.AppConfig(ctx, "windows"), "app_settings", "unknown platform falls back to the document")
}

func TestManager_Devices(t *testing.T) {
	m := newFixtureManager(t)
	ctx := context.Background()

	names := func(rows []map[string]any) []string {
		out := make([]string, 0, len(rows))
		for _, r := range rows {
			out = append(out, r["device_name"].(string))
		}
		return out
	}

	tests := []struct {
		name   string
		filter data.DeviceFilter
		want   []string
	}{
		{"all", data.DeviceFilter{}, []string{"Pixel 7", "Galaxy S21", "Moto G Power", "iPhone 15", "iPhone SE", "iPad Air"}},
		{"platform", data.DeviceFilter{Platform: "android"}, []string{"Pixel 7", "Galaxy S21", "Moto G Power"}},
		{"priority ignores case", data.DeviceFilter{Priority: "MEDIUM"}, []string{"Galaxy S21", "iPhone SE"}},
		{"both", data.DeviceFilter{Platform: "iOS", Priority: "high"}, []string{"iPhone 15"}},
		{"no match", data.DeviceFilter{Platform: "windows"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(m.Devices(ctx, tt.filter)))
		})
	}

	// Cells keep their coerced types.
	pixel := m.Devices(ctx, data.DeviceFilter{Platform: "android", Priority: "high"})[0]
	assert.Equal(t, 13.0, pixel["platform_version"])
	assert.Equal(t, int64(8), pixel["ram_gb"])
}

func TestManager_Scenario(t *testing.T) {
	m := newFixtureManager(t)
	ctx := context.Background()

	steps, ok := m.Scenario(ctx, "login_flow").([]any)
	require.True(t, ok)
	assert.Len(t, steps, 3)

	assert.Nil(t, m.Scenario(ctx, "refund_flow"))
}

func TestManager_EnvironmentData(t *testing.T) {
	ctx := context.Background()

	t.Run("explicit", func(t *testing.T) {
		m := newFixtureManager(t)
		assert.Equal(t, "https://staging.example.com", m.EnvironmentData(ctx, "staging")["base_url"])
		assert.Empty(t, m.EnvironmentData(ctx, "qa"))
	})

	t.Run("from provider", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		env := mocks.NewMockEnvironmentProvider(ctrl)
		env.EXPECT().Environment().Return("production")

		m := newFixtureManager(t, data.WithEnvironment(env))
		assert.Equal(t, int64(10), m.EnvironmentData(ctx, "")["api_timeout"])
	})

	t.Run("unknown provider environment falls back", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		env := mocks.NewMockEnvironmentProvider(ctrl)
		env.EXPECT().Environment().Return("qa")

		m := newFixtureManager(t, data.WithEnvironment(env))
		assert.Equal(t, "http://localhost:8080", m.EnvironmentData(ctx, "")["base_url"])
	})

	t.Run("custom default", func(t *testing.T) {
		m := newFixtureManager(t, data.WithDefaultEnvironment("staging"))
		assert.Equal(t, "staging", m.Environment())
		assert.Equal(t, int64(20), m.EnvironmentData(ctx, "")["api_timeout"])
	})
}

func TestManager_Localization(t *testing.T) {
	m := newFixtureManager(t)
	ctx := context.Background()

	es := m.Localization(ctx, "es")
	assert.Equal(t, "Español", es["name"])

	all := m.Localization(ctx, "")
	assert.Len(t, all["languages"], 3)

	assert.Len(t, m.Localization(ctx, "fr")["languages"], 3)
}

func TestManager_BenchmarksAndErrorMessages(t *testing.T) {
	m := newFixtureManager(t)
	ctx := context.Background()

	bench := m.Benchmarks(ctx)
	assert.Equal(t, 2000, bench["app_launch_ms"])
	assert.Equal(t, 256.5, bench["memory_mb"])

	network := m.ErrorMessages(ctx, "network")
	assert.Equal(t, "Request timed out", network["timeout"])
	assert.Len(t, m.ErrorMessages(ctx, ""), 3)
	assert.Empty(t, m.ErrorMessages(ctx, "payments"))
}

func TestManager_AccessorsDegrade(t *testing.T) {
	var logs bytes.Buffer
	m, err := data.New(t.TempDir(), data.WithLogger(logging.NewJSON(&logs, slog.LevelInfo)))
	require.NoError(t, err)
	ctx := context.Background()

	assert.Empty(t, m.Users(ctx, ""))
	assert.Nil(t, m.UserByID(ctx, "user_001", ""))
	assert.Empty(t, m.AppConfig(ctx, "android"))
	assert.Empty(t, m.Devices(ctx, data.DeviceFilter{}))
	assert.Nil(t, m.Scenario(ctx, "login_flow"))
	assert.Empty(t, m.EnvironmentData(ctx, ""))
	assert.Empty(t, m.Localization(ctx, "en"))
	assert.Empty(t, m.Benchmarks(ctx))
	assert.Empty(t, m.ErrorMessages(ctx, ""))

	assert.Contains(t, logs.String(), "Failed to get user data")
	assert.Contains(t, logs.String(), "data file not found")
}

func TestManager_AccessorsRejectWrongShape(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "users.json", `[1, 2, 3]`)
	m, err := data.New(dir)
	require.NoError(t, err)

	assert.Empty(t, m.Users(context.Background(), ""))
}

func TestHasKeys(t *testing.T) {
	user := map[string]any{"id": "u1", "username": "a@b.co"}

	assert.True(t, data.HasKeys(user, "id", "username"))
	assert.True(t, data.HasKeys(user))
	assert.False(t, data.HasKeys(user, "id", "password"))
	assert.False(t, data.HasKeys([]any{"id"}, "id"))
	assert.False(t, data.HasKeys(nil))
}

func TestDecode(t *testing.T) {
	m := newFixtureManager(t)
	ctx := context.Background()

	users, err := data.DecodeUsers(m.Users(ctx, ""))
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "user_001", users[0].ID)
	assert.Equal(t, "John", users[0].FirstName)
	assert.Equal(t, int64(30), users[0].Profile["age"])

	invalid, err := data.DecodeUsers(m.Users(ctx, "invalid_users"))
	require.NoError(t, err)
	assert.Equal(t, "Invalid email format", invalid[0].ExpectedError)

	devices, err := data.DecodeDevices(m.Devices(ctx, data.DeviceFilter{Platform: "ios"}))
	require.NoError(t, err)
	require.Len(t, devices, 3)
	assert.Equal(t, "iPhone 15", devices[0].Name)
	assert.Equal(t, "17.2", devices[0].PlatformVersion)
	assert.Equal(t, "16.4.1", devices[1].PlatformVersion)
	assert.Equal(t, 6, devices[0].RAMGB)
	assert.Empty(t, devices[2].Priority)
}
