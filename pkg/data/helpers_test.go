package data_test

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/aretw0/fixtures/pkg/loader"
	"github.com/stretchr/testify/require"
)

// fixtureDir copies the sample fixtures into a temporary directory.
func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"users.json", "app_data.yaml", "devices.csv"} {
		data, err := os.ReadFile(filepath.Join("..", "..", "testdata", name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0644))
	}
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// countingRegistry wraps the JSON loader and counts its invocations.
func countingRegistry(calls *atomic.Int32) *loader.Registry {
	r := loader.NewRegistry()
	r.Register(".json", func(path string) (any, error) {
		calls.Add(1)
		return loader.JSON(path)
	})
	return r
}
