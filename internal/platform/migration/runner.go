// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration provides a thin wrapper around golang-migrate for
// running database schema migrations.
//
// # Architecture
//
// The API server applies pending migrations at startup when the postgres
// backend is selected; the admin CLI exposes the same runner for operators.
package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// pgx5 driver registers "pgx5" scheme for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// file source reads .sql files from disk.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Runner owns a configured golang-migrate instance.
type Runner struct {
	migrator *migrate.Migrate
	logger   *slog.Logger
}

// Status describes the schema version currently recorded in the database.
type Status struct {
	Version uint
	Dirty   bool
	// Empty is true when no migration has ever been applied.
	Empty bool
}

// NewRunner opens the migration source and the target database.
//
// # Parameters
//   - dsn: A libpq-compatible DSN or postgres:// URL.
//   - migrationsPath: Filesystem path to the migrations directory.
//   - logger: Structured logger for migration events.
func NewRunner(dsn, migrationsPath string, logger *slog.Logger) (*Runner, error) {
	migrator, err := migrate.New("file://"+migrationsPath, DatabaseURL(dsn))
	if err != nil {
		return nil, fmt.Errorf("migration: failed to initialize: %w", err)
	}
	migrator.Log = &migrateLogger{logger: logger}

	return &Runner{migrator: migrator, logger: logger}, nil
}

// Close releases the source and database handles.
func (runner *Runner) Close() error {
	sourceErr, dbErr := runner.migrator.Close()
	return errors.Join(sourceErr, dbErr)
}

// Status reports the current schema version.
func (runner *Runner) Status() (Status, error) {
	version, dirty, err := runner.migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return Status{Empty: true}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("migration: failed to get current version: %w", err)
	}
	return Status{Version: version, Dirty: dirty}, nil
}

// Up applies all pending UP migrations. A dirty database is refused.
func (runner *Runner) Up() error {
	before, err := runner.Status()
	if err != nil {
		return err
	}
	if before.Dirty {
		return fmt.Errorf("migration: database is in a dirty state at version %d (manual intervention required)", before.Version)
	}

	runner.logger.Info("migration_started", slog.Int("current_version", int(before.Version)))

	if err := runner.migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			runner.logger.Info("migration_already_up_to_date")
			return nil
		}
		return fmt.Errorf("migration: up failed: %w", err)
	}

	after, err := runner.Status()
	if err != nil {
		return err
	}
	runner.logger.Info("migration_successful",
		slog.Int("from_version", int(before.Version)),
		slog.Int("to_version", int(after.Version)),
	)
	return nil
}

// RunUp is a convenience for callers that only need to migrate once and exit.
func RunUp(dsn, migrationsPath string, logger *slog.Logger) (err error) {
	runner, err := NewRunner(dsn, migrationsPath, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := runner.Close(); closeErr != nil {
			logger.Warn("migration_close_failed", slog.Any("error", closeErr))
		}
	}()
	return runner.Up()
}

// DatabaseURL rewrites a postgres:// DSN to the pgx5:// scheme golang-migrate expects.
func DatabaseURL(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, prefix); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// migrateLogger adapts golang-migrate's logger interface to slog.
type migrateLogger struct {
	logger *slog.Logger
}

// Printf implements migrate.Logger.
func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Verbose implements migrate.Logger.
func (l *migrateLogger) Verbose() bool {
	return false
}
