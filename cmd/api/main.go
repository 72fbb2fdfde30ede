// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the manga catalog HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Start the notification hub and the outbox dispatcher.
//  7. Wire domain services and HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
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

	"github.com/taibuivan/mangaonline/internal/api"
	"github.com/taibuivan/mangaonline/internal/asset"
	"github.com/taibuivan/mangaonline/internal/core/author"
	"github.com/taibuivan/mangaonline/internal/core/category"
	"github.com/taibuivan/mangaonline/internal/core/chapter"
	"github.com/taibuivan/mangaonline/internal/core/manga"
	"github.com/taibuivan/mangaonline/internal/library"
	"github.com/taibuivan/mangaonline/internal/notify"
	"github.com/taibuivan/mangaonline/internal/platform/config"
	"github.com/taibuivan/mangaonline/internal/platform/constants"
	"github.com/taibuivan/mangaonline/internal/platform/metrics"
	"github.com/taibuivan/mangaonline/internal/platform/migration"
	pgstore "github.com/taibuivan/mangaonline/internal/platform/postgres"
	redisstore "github.com/taibuivan/mangaonline/internal/platform/redis"
	"github.com/taibuivan/mangaonline/internal/platform/sec"
	"github.com/taibuivan/mangaonline/internal/social"
	"github.com/taibuivan/mangaonline/internal/users/auth"
)

func main() {
	// # 1. Logger
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing")

	// # 2. Configuration
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Misconfiguration should fail fast rather than hang.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// # 3. PostgreSQL
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// # 4. Redis
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, redisstore.ServerProfile, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// # 5. Migrations
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// # 6. Notification Hub
	// The root context outlives startup; cancelling it stops the hub and the dispatcher.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	hub := notify.NewHub(log, cfg.HubClientBuffer)
	go hub.Run(rootCtx)

	outbox := notify.NewOutbox(cfg.OutboxBuffer, log)
	dispatcher := notify.NewDispatcher(outbox, hub, log)
	go func() {
		if err := dispatcher.Run(rootCtx); err != nil {
			log.Error("dispatcher_stopped", slog.Any("error", err))
		}
	}()

	// # 7. Domain Wiring
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	homeCache := manga.NewRedisHomeCache(rdb, cfg.HomeCacheTTL)
	assetStore := asset.NewStore(cfg.AssetRoot, cfg.AssetMaxBytes, log)

	authorService := author.NewService(author.NewPostgresRepository(pool), log)
	categoryService := category.NewService(category.NewPostgresRepository(pool), log)

	mangaRepository := manga.NewPostgresRepository(pool)
	mangaService := manga.NewService(mangaRepository, authorService, categoryService, assetStore, homeCache, log)
	chapterService := chapter.NewService(chapter.NewPostgresRepository(pool), outbox, homeCache, log)
	libraryService := library.NewService(library.NewPostgresRepository(pool), mangaRepository, log)
	socialService := social.NewService(social.NewPostgresRepository(pool), homeCache, log)
	authService := auth.NewService(auth.NewUserRepository(pool), auth.NewSessionRepository(rdb), jwtSvc, log)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		Probes: []api.Probe{
			{Name: "postgres", Check: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) }},
			{Name: "redis", Check: func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }},
		},
		HubClients: hub.ClientCount,
	}, log)

	// # 8. HTTP Server
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService),
		Files:     asset.NewHandler(assetStore),
		Manga: []api.RouteRegistrar{
			manga.NewHandler(mangaService),
			chapter.NewHandler(chapterService),
			author.NewHandler(authorService),
			category.NewHandler(categoryService),
			library.NewHandler(libraryService),
			social.NewHandler(socialService),
		},
		Hub:     notify.NewHandler(hub, cfg, log),
		Metrics: metrics.Handler(),
	}

	server := api.NewServer(rootCtx, cfg, log, jwtSvc, handlers)

	// # Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("server_shutting_down", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
	}

	// Every request has finished and Publish returns only after the dispatcher
	// acks, so no event is still queued when the outbox closes.
	if err := outbox.Close(); err != nil {
		log.Error("outbox_close_failed", slog.Any("error", err))
	}
	rootCancel()

	log.Info("server_stopped")
}

func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", "mangaonline"))
	slog.SetDefault(log)
	return log
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, errors are returned and handled.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
