// Package bootstrap assembles the generation client and its optional
// Postgres-backed collaborators from configuration.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/domain"
	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/generation"
	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/infra"
	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/infra/credentials"
	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/infra/usage"
	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/middleware"
	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/providers"
)

// Runtime holds everything built from a Config. Pool, Tokens and Usage are
// nil when DATABASE_URL is not set.
type Runtime struct {
	Config    *infra.Config
	Logger    infra.Logger
	Pool      *pgxpool.Pool
	Tokens    *credentials.Store
	Usage     *usage.Store
	Gate      *credentials.Gate
	Registry  *prometheus.Registry
	Generator *generation.Client
}

// New connects to the database when one is configured and builds the
// generation client. Close must be called when done.
func New(ctx context.Context, cfg *infra.Config, logger infra.Logger) (*Runtime, error) {
	rt := &Runtime{Config: cfg, Logger: logger}

	pool, err := infra.NewDBPool(ctx, cfg)
	switch {
	case errors.Is(err, infra.ErrNoDatabase):
		logger.Info().Msg("DATABASE_URL not set; credentials from environment only, usage not stored")
	case err != nil:
		return nil, err
	default:
		if cfg.AutoMigrate {
			if _, err := infra.RunMigrations(ctx, cfg.DatabaseURL, logger); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		runner := infra.NewSQLRunner(pool, logger)
		runner.RequestID = middleware.RequestIDFromContext
		rt.Pool = pool
		rt.Tokens = credentials.NewStore(runner)
		rt.Usage = usage.NewStore(runner)
	}

	var tokens domain.TokenRepository
	var usageRepo domain.UsageRepository
	if rt.Pool != nil {
		tokens = rt.Tokens
		usageRepo = rt.Usage
	}
	rt.Gate = credentials.NewGate(cfg.GenAIBackend, tokens)

	backend, err := providers.NewBackend(cfg, nil, logger)
	if err != nil {
		rt.Close()
		return nil, err
	}

	prompts, err := generation.LoadPrompts(cfg.PromptsFile)
	if err != nil {
		rt.Close()
		return nil, err
	}

	var metrics *generation.Metrics
	if cfg.MetricsEnabled {
		rt.Registry = prometheus.NewRegistry()
		rt.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics = generation.NewMetrics(rt.Registry)
	}

	rt.Generator, err = generation.NewClient(generation.Options{
		Backend:   backend,
		Gate:      rt.Gate,
		Model:     cfg.Model(),
		Prompts:   &prompts,
		Timeout:   cfg.GenerationTimeout,
		Logger:    &logger,
		Metrics:   metrics,
		Usage:     usageRepo,
		RequestID: middleware.RequestIDFromContext,
	})
	if err != nil {
		rt.Close()
		return nil, err
	}

	logger.Info().
		Str("backend", backend.Name()).
		Str("model", cfg.Model()).
		Bool("database", rt.Pool != nil).
		Msg("generation client ready")
	return rt, nil
}

// MetricsHandler serves the registry, or nil when metrics are disabled.
func (rt *Runtime) MetricsHandler() http.Handler {
	if rt.Registry == nil {
		return nil
	}
	return promhttp.HandlerFor(rt.Registry, promhttp.HandlerOpts{})
}

func (rt *Runtime) Close() {
	if rt.Pool != nil {
		rt.Pool.Close()
	}
}
