package observability

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/aretw0/fixtures/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors fed by engine hooks.
type Metrics struct {
	Loads        *prometheus.CounterVec
	CacheHits    *prometheus.CounterVec
	LoadErrors   *prometheus.CounterVec
	LoadDuration *prometheus.HistogramVec
	Validations  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fixtures_loads_total",
				Help: "Total number of fixture files parsed from disk",
			},
			[]string{"format"},
		),
		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fixtures_cache_hits_total",
				Help: "Total number of loads served from cache",
			},
			[]string{"format"},
		),
		LoadErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fixtures_load_errors_total",
				Help: "Total number of failed fixture loads",
			},
			[]string{"format"},
		),
		LoadDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fixtures_load_duration_seconds",
				Help:    "Duration of fixture parsing",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"format"},
		),
		Validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fixtures_validations_total",
				Help: "Total number of schema validations",
			},
			[]string{"schema", "valid"},
		),
	}

	for _, c := range []prometheus.Collector{m.Loads, m.CacheHits, m.LoadErrors, m.LoadDuration, m.Validations} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns callbacks that record events into the collectors.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnLoad: func(_ context.Context, e *domain.LoadEvent) {
			m.Loads.WithLabelValues(string(e.Format)).Inc()
			m.LoadDuration.WithLabelValues(string(e.Format)).Observe(e.Duration.Seconds())
		},
		OnCacheHit: func(_ context.Context, e *domain.LoadEvent) {
			m.CacheHits.WithLabelValues(string(e.Format)).Inc()
		},
		OnLoadError: func(_ context.Context, e *domain.LoadEvent) {
			m.LoadErrors.WithLabelValues(string(e.Format)).Inc()
		},
		OnValidate: func(e *domain.ValidationEvent) {
			m.Validations.WithLabelValues(e.Schema, strconv.FormatBool(e.Valid)).Inc()
		},
	}
}

// LogHooks returns callbacks that log every event at debug level,
// and load errors at warn level.
func LogHooks(logger *slog.Logger) domain.Hooks {
	return domain.Hooks{
		OnLoad: func(ctx context.Context, e *domain.LoadEvent) {
			logger.DebugContext(ctx, "fixture_load",
				"path", e.Path,
				"format", e.Format,
				"forced", e.Forced,
				"duration", e.Duration,
			)
		},
		OnCacheHit: func(ctx context.Context, e *domain.LoadEvent) {
			logger.DebugContext(ctx, "fixture_cache_hit", "path", e.Path)
		},
		OnLoadError: func(ctx context.Context, e *domain.LoadEvent) {
			logger.WarnContext(ctx, "fixture_load_error", "path", e.Path, "err", e.Err)
		},
		OnValidate: func(e *domain.ValidationEvent) {
			logger.Debug("validation",
				"schema", e.Schema,
				"valid", e.Valid,
				"errors", e.Errors,
				"warnings", e.Warnings,
			)
		},
	}
}
