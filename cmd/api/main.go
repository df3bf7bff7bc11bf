// Copyright (c) 2026 Tosho. All rights reserved.
// Author: khoa.nv.dev@gmail.com

// Command api is the entry point for the Tosho HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire repositories, adapters, and the aggregation service.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nvkhoa/tosho/internal/aggregator"
	"github.com/nvkhoa/tosho/internal/aggregator/ratelimit"
	"github.com/nvkhoa/tosho/internal/aggregator/shikimori"
	"github.com/nvkhoa/tosho/internal/api"
	"github.com/nvkhoa/tosho/internal/catalog/chapter"
	"github.com/nvkhoa/tosho/internal/catalog/metadata"
	"github.com/nvkhoa/tosho/internal/catalog/source"
	"github.com/nvkhoa/tosho/internal/catalog/work"
	"github.com/nvkhoa/tosho/internal/platform/config"
	"github.com/nvkhoa/tosho/internal/platform/constants"
	"github.com/nvkhoa/tosho/internal/platform/migration"
	pgstore "github.com/nvkhoa/tosho/internal/platform/postgres"
	redisstore "github.com/nvkhoa/tosho/internal/platform/redis"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "tosho"))
	slog.SetDefault(log)

	log.Info("[Tosho] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "tosho"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Health handlers (wired with real dependency checkers) ─────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	workRepository := work.NewRepository(pool)
	sourceRepository := source.NewRepository(pool)
	metadataRepository := metadata.NewRepository(pool)
	chapterRepository := chapter.NewRepository(pool)
	translatorRepository := chapter.NewTranslatorRepository(pool)

	// One outbound limiter shared by every request to Shikimori, keeping
	// the whole process inside the published caps.
	shikimoriLimiter := ratelimit.New(cfg.SourceRequestsPerSecond, cfg.SourceRequestsPerMinute)
	shikimoriAdapter := shikimori.New(shikimori.Config{
		BaseURL:    cfg.ShikimoriBaseURL,
		GraphQLURL: cfg.ShikimoriGraphQLURL,
		AppName:    cfg.ShikimoriAppName,
		Timeout:    cfg.SourceRequestTimeout,
	}, shikimoriLimiter)

	registry := aggregator.NewRegistry()
	registry.Register(shikimori.SourceName, shikimoriAdapter)

	searchCache := aggregator.NewSearchCache(rdb, cfg.SearchCacheTTL, log)

	aggregationService := aggregator.NewService(aggregator.Dependencies{
		WorkRepo:       workRepository,
		SourceRepo:     sourceRepository,
		AuthorRepo:     metadataRepository,
		GenreRepo:      metadataRepository,
		TagRepo:        metadataRepository,
		ChapterRepo:    chapterRepository,
		TranslatorRepo: translatorRepository,
		Registry:       registry,
		Cache:          searchCache,
		Logger:         log,
	})
	aggregationHandler := aggregator.NewHandler(aggregationService)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:    liveness,
		Readiness:   readiness,
		Aggregation: aggregationHandler,
	}

	server := api.NewServer(startupCtx, cfg, log, handlers)

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
