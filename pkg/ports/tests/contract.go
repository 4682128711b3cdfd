package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/fixtures/pkg/domain"
	"github.com/aretw0/fixtures/pkg/ports"
)

// CacheStoreContractTest is a reusable test suite that verifies if an adapter complies with ports.CacheStore.
// The store must be empty when the suite starts.
func CacheStoreContractTest(t *testing.T, store ports.CacheStore) {
	t.Helper()
	ctx := context.Background()

	mtime := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	entry := &domain.DataSource{
		Path:         "/data/users.json",
		Format:       domain.FormatJSON,
		CacheEnabled: true,
		ModTime:      mtime,
		Size:         42,
		Value: map[string]any{
			"valid_users": []any{
				map[string]any{"id": "user_001", "age": int64(30)},
			},
		},
	}

	t.Run("Get_Miss", func(t *testing.T) {
		_, err := store.Get(ctx, entry.Path)
		if !errors.Is(err, domain.ErrCacheMiss) {
			t.Fatalf("expected ErrCacheMiss, got %v", err)
		}
	})

	t.Run("Put_Get", func(t *testing.T) {
		if err := store.Put(ctx, entry); err != nil {
			t.Fatalf("put failed: %v", err)
		}
		got, err := store.Get(ctx, entry.Path)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.Path != entry.Path || got.Format != entry.Format || !got.CacheEnabled {
			t.Errorf("entry metadata mismatch: got %+v", got)
		}
		if !got.ModTime.Equal(mtime) {
			t.Errorf("mod time mismatch: got %v, want %v", got.ModTime, mtime)
		}
		users := got.Value.(map[string]any)["valid_users"].([]any)
		if users[0].(map[string]any)["age"] != int64(30) {
			t.Errorf("value mismatch: got %#v", got.Value)
		}
	})

	t.Run("Put_Replaces", func(t *testing.T) {
		newer := *entry
		newer.ModTime = mtime.Add(time.Minute)
		newer.Value = []any{"replaced"}
		if err := store.Put(ctx, &newer); err != nil {
			t.Fatalf("put failed: %v", err)
		}
		got, err := store.Get(ctx, entry.Path)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if !got.ModTime.Equal(newer.ModTime) {
			t.Errorf("expected replaced mod time, got %v", got.ModTime)
		}
		if list, ok := got.Value.([]any); !ok || len(list) != 1 || list[0] != "replaced" {
			t.Errorf("expected replaced value, got %#v", got.Value)
		}
	})

	t.Run("Put_Get_NumberKinds", func(t *testing.T) {
		rows := *entry
		rows.Path = "/data/versions.csv"
		rows.Format = domain.FormatCSV
		rows.Value = []any{map[string]any{"version": float64(13), "ram_gb": int64(8)}}
		if err := store.Put(ctx, &rows); err != nil {
			t.Fatalf("put failed: %v", err)
		}
		got, err := store.Get(ctx, rows.Path)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		row := got.Value.([]any)[0].(map[string]any)
		if v, ok := row["version"].(float64); !ok || v != 13 {
			t.Errorf("expected float64 13, got %#v", row["version"])
		}
		if v, ok := row["ram_gb"].(int64); !ok || v != 8 {
			t.Errorf("expected int64 8, got %#v", row["ram_gb"])
		}
		if err := store.Delete(ctx, rows.Path); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
	})

	t.Run("Len", func(t *testing.T) {
		other := *entry
		other.Path = "/data/devices.csv"
		other.Format = domain.FormatCSV
		if err := store.Put(ctx, &other); err != nil {
			t.Fatalf("put failed: %v", err)
		}
		n, err := store.Len(ctx)
		if err != nil {
			t.Fatalf("len failed: %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 entries, got %d", n)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(ctx, entry.Path); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if _, err := store.Get(ctx, entry.Path); !errors.Is(err, domain.ErrCacheMiss) {
			t.Errorf("expected ErrCacheMiss after delete, got %v", err)
		}
		if err := store.Delete(ctx, "/data/never-cached.json"); err != nil {
			t.Errorf("deleting a missing entry should succeed, got %v", err)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		if err := store.Clear(ctx); err != nil {
			t.Fatalf("clear failed: %v", err)
		}
		n, err := store.Len(ctx)
		if err != nil {
			t.Fatalf("len failed: %v", err)
		}
		if n != 0 {
			t.Errorf("expected empty store after clear, got %d", n)
		}
	})
}
