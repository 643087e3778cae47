// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/carmatch/internal/api"
	"github.com/tomtom215/carmatch/internal/catalog"
	"github.com/tomtom215/carmatch/internal/config"
	"github.com/tomtom215/carmatch/internal/logging"
	"github.com/tomtom215/carmatch/internal/metrics"
	"github.com/tomtom215/carmatch/internal/recommend"
	"github.com/tomtom215/carmatch/internal/recommend/reranking"
	"github.com/tomtom215/carmatch/internal/recommend/storage"
	"github.com/tomtom215/carmatch/internal/supervisor"
	"github.com/tomtom215/carmatch/internal/supervisor/services"
	"github.com/tomtom215/carmatch/internal/textgen"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// idleTimeout is the keep-alive idle timeout of the HTTP server.
const idleTimeout = 60 * time.Second

func main() {
	// .env files are optional; real environment variables take precedence.
	loaded, envErr := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		// Config not yet available, so the default logger reports this.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	if envErr != nil {
		logging.Warn().Err(envErr).Msg("Failed to read .env file")
	} else if len(loaded) > 0 {
		logging.Info().Strs("files", loaded).Msg("Loaded environment files")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logging.Logger()); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

// run wires the service and blocks until ctx is cancelled.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	logger.Info().
		Str("version", version).
		Str("addr", cfg.Server.Addr()).
		Str("catalog", cfg.Catalog.Path).
		Str("profile_store", cfg.Profiles.Store).
		Bool("text_generation", cfg.TextGen.Active()).
		Msg("Starting CarMatch")

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(logger), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}

	cat, catalogSvc := initCatalog(ctx, cfg, logger)
	tree.AddDataService(catalogSvc)

	store, closeStore, err := initProfileStore(cfg, logger, tree)
	if err != nil {
		return err
	}
	defer closeStore()

	engine, err := initEngine(cfg, cat, store, logger)
	if err != nil {
		return err
	}

	handler := api.NewHandler(engine, cat, logger)
	router := api.NewRouter(handler, api.ChiMiddlewareConfigFromSecurity(&cfg.Security), logger)

	if cfg.HasWildcardCORS() {
		logger.Warn().Msg("CORS allows any origin")
	}
	if cfg.Security.RateLimitDisabled {
		logger.Warn().Msg("API rate limiting is disabled")
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  idleTimeout,
	}

	tree.AddAPIService(services.NewHTTPServerService(server, services.DefaultShutdownTimeout, logger))
	tree.AddAPIService(services.NewStatsReporter(engine, services.StatsReporterConfig{Version: version}, logger))

	logger.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	var serveErr error
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("Supervisor tree error")
			serveErr = err
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logger.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logger.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}
	return serveErr
}

// initCatalog performs the first catalog load and returns the refresher
// that keeps it current. A missing or invalid file is not fatal: the
// refresher retries it and readiness reports 503 until it loads.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initCatalog(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*catalog.Catalog, *catalog.Service) {
	cat := catalog.New(nil)
	svc := catalog.NewService(cat, cfg.Catalog.Path, cfg.Catalog.RefreshInterval, logger)
	svc.OnReload = metrics.RecordCatalogReload

	if _, err := svc.Refresh(ctx); err != nil {
		logger.Warn().Err(err).Str("path", cfg.Catalog.Path).Msg("Initial catalog load failed, will retry")
	}
	return cat, svc
}

// initProfileStore opens the configured profile store. The returned close
// function is always safe to call.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initProfileStore(cfg *config.Config, logger zerolog.Logger, tree *supervisor.SupervisorTree) (recommend.ProfileStore, func(), error) {
	if cfg.Profiles.Store != config.StoreBadger {
		logger.Info().Msg("Using in-memory profile store")
		return recommend.NewMemoryStore(), func() {}, nil
	}

	bs, err := storage.Open(cfg.StorageOptions(), logger)
	if err != nil {
		return nil, nil, err
	}
	// The store runs value-log GC under the supervisor.
	tree.AddDataService(bs)

	closeFn := func() {
		if err := bs.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing profile store")
		}
	}
	return bs, closeFn, nil
}

// initEngine builds the recommendation engine with its rerankers and the
// optional description generator.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initEngine(cfg *config.Config, cat recommend.Catalog, store recommend.ProfileStore, logger zerolog.Logger) (*recommend.Engine, error) {
	engine, err := recommend.NewEngine(cfg.EngineConfig(), cat, store, logger)
	if err != nil {
		return nil, err
	}
	engine.SetObserver(metrics.EngineObserver{})

	if lambda := cfg.Recommend.DiversityLambda; lambda > 0 {
		engine.RegisterReranker(reranking.NewMMR(lambda))
	}
	// Model diversity runs last so the promoted slot survives.
	engine.RegisterReranker(reranking.NewModelDiversity(reranking.NewCanonicalizer(reranking.DefaultCanonicalRules())))

	if cfg.TextGen.Active() {
		client, err := textgen.NewClient(cfg.ClientConfig())
		if err != nil {
			return nil, err
		}
		engine.SetTextGenerator(textgen.NewGuarded(client, cfg.GuardConfig(), logger))
		logger.Info().Str("model", cfg.TextGen.Model).Msg("Description generation enabled")
	}
	return engine, nil
}
