package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/bootstrap"
	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/catalog"
	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/http/handlers"
	httpapi "github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/http/httpapi"
	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/infra"
	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/infra/geoip"
	"github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/store"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise generation client")
	}
	defer rt.Close()

	geo, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer geo.Close()

	app := handlers.NewApp(
		store.NewNeedBoard(catalog.Needs()),
		store.NewTranscripts(catalog.ChatGreeting),
		rt.Generator,
		catalog.Dashboard(),
		logger,
	)
	if rt.Usage != nil {
		app.Usage = rt.Usage
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		AllowedOrigins:  cfg.AllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		CountryLookup:   geo.Lookup(),
		Metrics:         rt.MetricsHandler(),
	})
	server := infra.NewHTTPServer(cfg, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Msgf("API listening on %s", server.Addr())
		return server.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("http server failed")
		rt.Close()
		os.Exit(1)
	}
	logger.Info().Msg("server stopped")
}
