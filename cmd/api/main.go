// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the BookCircle HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Initialize error reporting (Sentry, optional).
//  4. Build the repositories for the configured store backend.
//  5. Wire services and HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
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

	"github.com/taibuivan/bookcircle/internal/api"
	"github.com/taibuivan/bookcircle/internal/platform/config"
	"github.com/taibuivan/bookcircle/internal/platform/constants"
	"github.com/taibuivan/bookcircle/internal/platform/migration"
	"github.com/taibuivan/bookcircle/internal/platform/monitor"
	pgstore "github.com/taibuivan/bookcircle/internal/platform/postgres"
	redisstore "github.com/taibuivan/bookcircle/internal/platform/redis"
	"github.com/taibuivan/bookcircle/internal/platform/sec"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("store_backend", cfg.StoreBackend),
		slog.String("session_backend", cfg.SessionBackend),
	)

	// ── 3. Error reporting ────────────────────────────────────────────────
	if cfg.SentryDSN != "" {
		must(log, monitor.Init(cfg.SentryDSN, cfg.Environment, constants.AppVersion), "initialize sentry")
		defer monitor.Flush(constants.MonitorFlushTimeout)
		log.Info("error_reporting_enabled")
	}

	// Startup deadline so misconfiguration fails fast instead of hanging.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 4. Storage ────────────────────────────────────────────────────────
	stores := api.MemoryStores()
	dependencies := api.HealthDependencies{}

	if cfg.StoreBackend == constants.BackendPostgres {
		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing_postgres_pool")
			pool.Close()
		}()

		stores = api.PostgresStores(pool)
		dependencies.CheckDatabase = func(context context.Context) error {
			return pgstore.Ping(context, pool)
		}
	}

	if cfg.SessionBackend == constants.BackendRedis {
		client, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing_redis_client")
			if cerr := client.Close(); cerr != nil {
				log.Error("redis_close_failed", slog.Any("error", cerr))
			}
		}()

		stores = stores.WithRedisSessions(client)
		dependencies.CheckCache = func(context context.Context) error {
			return redisstore.Ping(context, client)
		}
	}

	// ── 5. Domain Wiring ──────────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.SessionSecret, constants.AuthIssuer)
	must(log, err, "initialize token service")

	services := api.NewServices(stores, tokens, cfg.SessionTTL, log)
	liveness, readiness := api.NewHealthHandlers(dependencies, log)

	// rootCtx outlives startup and stops background workers (rate limiter sweeps).
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	server := api.NewServer(rootCtx, cfg, log, services.Auth, api.NewHandlers(services, liveness, readiness))

	// ── 6. Graceful Shutdown ──────────────────────────────────────────────
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

	log.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("server_shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped")
}

// newLogger builds the JSON logger and installs it as the process default.
func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})).With(slog.String(constants.FieldApp, constants.AppName))
	slog.SetDefault(log)
	return log
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, errors are returned and handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
