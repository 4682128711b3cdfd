package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/fixtures"
	"github.com/aretw0/fixtures/internal/config"
	"github.com/aretw0/fixtures/pkg/adapters/redis"
	"github.com/aretw0/fixtures/pkg/observability"
	"github.com/aretw0/fixtures/pkg/persistence/middleware"
	"github.com/aretw0/fixtures/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fixtures",
	Short: "Fixtures serves and validates test data files",
	Long: `Fixtures loads JSON, YAML and CSV test data from a directory, caches it
by modification time and validates it against JSON-Schema-like documents.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("dir", "", "Directory containing the fixture files (default from config or test_data)")
	rootCmd.PersistentFlags().String("config", "", "Path to the config file (default fixtures.yaml when present)")
	rootCmd.PersistentFlags().String("env", "", "Environment name used for environment-specific data")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// app bundles what a command needs to serve fixture data.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	session  *fixtures.Session
}

// openApp resolves configuration, applies command-line overrides and opens a session.
// Callers must Close the returned app.
func openApp(cmd *cobra.Command) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadWithFallback(path)
	if err != nil {
		return nil, err
	}

	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		cfg.DataDir = dir
		if os.Getenv(config.EnvSchemaDir) == "" {
			cfg.SchemaDir = filepath.Join(dir, "schemas")
		}
	}
	if env, _ := cmd.Flags().GetString("env"); env != "" {
		cfg.Env = env
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Log.Level = "debug"
	}

	logger := cfg.Logger()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics, err := observability.NewMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	opts := []fixtures.Option{
		fixtures.WithLogger(logger),
		fixtures.WithEnvironment(cfg),
		fixtures.WithSchemaDir(cfg.SchemaDir),
		fixtures.WithHooks(metrics.Hooks()),
		fixtures.WithHooks(observability.LogHooks(logger)),
	}
	if cfg.Redis.Addr != "" {
		store, err := redisStore(cfg.Redis)
		if err != nil {
			return nil, err
		}
		opts = append(opts, fixtures.WithStore(store))
		logger.Debug("Using redis cache", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix, "encrypted", cfg.Redis.EncryptionKey != "")
	}

	sess, err := fixtures.New(cfg.DataDir, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", cfg.DataDir, err)
	}

	return &app{cfg: cfg, logger: logger, registry: registry, session: sess}, nil
}

// redisStore opens the shared cache, sealed when an encryption key is configured.
func redisStore(rc config.RedisConfig) (ports.CacheStore, error) {
	var store ports.CacheStore = redis.New(rc.Addr, rc.Password, rc.DB,
		redis.WithPrefix(rc.Prefix),
		redis.WithTTL(rc.TTL),
	)
	if rc.EncryptionKey == "" {
		return store, nil
	}

	key, err := middleware.ParseKey(rc.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("redis encryption key: %w", err)
	}
	seal, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
	if err != nil {
		return nil, err
	}
	return middleware.Chain(store, seal), nil
}

func (a *app) Close() error {
	return a.session.Close()
}

// withApp wraps a command body that needs an open session.
func withApp(run func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return run(cmd, args, a)
	}
}
