// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package admin implements the operator CLI: schema migrations and data seeding.
//
// Settings come from the same environment variables as the API server
// (DATABASE_URL, MIGRATION_PATH, SESSION_SECRET) and can be overridden by flags.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/taibuivan/bookcircle/internal/api"
	pgstore "github.com/taibuivan/bookcircle/internal/platform/postgres"
)

// ErrMissingDatabaseURL is returned by commands that need PostgreSQL when no DSN was given.
var ErrMissingDatabaseURL = errors.New("admin: DATABASE_URL or --database-url is required")

// Settings holds the connection settings shared by every subcommand.
type Settings struct {
	DatabaseURL   string `env:"DATABASE_URL"`
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`
	SessionSecret string `env:"SESSION_SECRET" envDefault:"bookcircle-admin"`
}

// StoreOpener builds the repositories a data command writes to.
// The returned release func closes whatever the stores hold open.
type StoreOpener func(context context.Context, settings *Settings, logger *slog.Logger) (api.Stores, func(), error)

// Options configures [NewRootCommand].
type Options struct {
	Logger *slog.Logger

	// OpenStores defaults to [OpenPostgresStores].
	OpenStores StoreOpener
}

// OpenPostgresStores connects to settings.DatabaseURL and returns PostgreSQL repositories.
func OpenPostgresStores(context context.Context, settings *Settings, logger *slog.Logger) (api.Stores, func(), error) {
	if settings.DatabaseURL == "" {
		return api.Stores{}, nil, ErrMissingDatabaseURL
	}

	pool, err := pgstore.NewPool(context, settings.DatabaseURL, logger)
	if err != nil {
		return api.Stores{}, nil, err
	}
	return api.PostgresStores(pool), pool.Close, nil
}

// NewRootCommand creates the root command for the admin CLI.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.OpenStores == nil {
		opts.OpenStores = OpenPostgresStores
	}

	settings := &Settings{}

	cmd := &cobra.Command{
		Use:   "bookcircle-admin",
		Short: "BookCircle operator tooling",
		Long:  "Apply database migrations and load seed data for the BookCircle API.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Flags win over the environment; only fill what the user left unset.
			var fromEnv Settings
			if err := env.Parse(&fromEnv); err != nil {
				return fmt.Errorf("admin: failed to parse environment: %w", err)
			}
			flags := cmd.Flags()
			if !flags.Changed("database-url") {
				settings.DatabaseURL = fromEnv.DatabaseURL
			}
			if !flags.Changed("migrations") {
				settings.MigrationPath = fromEnv.MigrationPath
			}
			settings.SessionSecret = fromEnv.SessionSecret
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&settings.DatabaseURL, "database-url", "", "PostgreSQL connection URL (default $DATABASE_URL)")
	cmd.PersistentFlags().StringVar(&settings.MigrationPath, "migrations", "", "migrations directory (default $MIGRATION_PATH)")

	cmd.AddCommand(NewMigrateCommand(settings, opts.Logger))
	cmd.AddCommand(NewSeedCommand(settings, opts))

	return cmd
}
