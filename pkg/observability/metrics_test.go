package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/fixtures/internal/logging"
	"github.com/aretw0/fixtures/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	hooks := m.Hooks()
	ctx := context.Background()
	load := &domain.LoadEvent{Format: domain.FormatCSV, Duration: 3 * time.Millisecond}

	hooks.OnLoad(ctx, load)
	hooks.OnCacheHit(ctx, load)
	hooks.OnCacheHit(ctx, load)
	hooks.OnLoadError(ctx, &domain.LoadEvent{Format: domain.FormatJSON})
	hooks.OnValidate(&domain.ValidationEvent{Schema: "user", Valid: false})

	assert.Equal(t, 1.0, gather(t, reg, "fixtures_loads_total", "csv"))
	assert.Equal(t, 2.0, gather(t, reg, "fixtures_cache_hits_total", "csv"))
	assert.Equal(t, 1.0, gather(t, reg, "fixtures_load_errors_total", "json"))
	assert.Equal(t, 1.0, gather(t, reg, "fixtures_validations_total", "user", "false"))
	assert.Equal(t, 1.0, gather(t, reg, "fixtures_load_duration_seconds", "csv"))
}

// gather returns the counter value, or the histogram sample count, of the
// series whose label values are values.
func gather(t *testing.T, reg *prometheus.Registry, name string, values ...string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	series:
		for _, metric := range mf.GetMetric() {
			labels := metric.GetLabel()
			if len(labels) != len(values) {
				continue
			}
			for i, l := range labels {
				if l.GetValue() != values[i] {
					continue series
				}
			}
			if h := metric.GetHistogram(); h != nil {
				return float64(h.GetSampleCount())
			}
			return metric.GetCounter().GetValue()
		}
	}
	t.Fatalf("series %s%v not found", name, values)
	return 0
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)

	_, err = NewMetrics(reg)
	assert.Error(t, err)
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	hooks := LogHooks(logging.NewJSON(&buf, slog.LevelWarn))

	hooks.OnLoad(context.Background(), &domain.LoadEvent{Path: "users.json"})
	assert.Empty(t, buf.String(), "loads log at debug level")

	hooks.OnLoadError(context.Background(), &domain.LoadEvent{Path: "users.json", Err: errors.New("boom")})
	assert.Contains(t, buf.String(), "fixture_load_error")
	assert.Contains(t, buf.String(), `"err":"boom"`)
}
