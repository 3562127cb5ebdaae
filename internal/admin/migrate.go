// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/taibuivan/bookcircle/internal/platform/migration"
)

// NewMigrateCommand creates the migrate command group.
func NewMigrateCommand(settings *Settings, logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if settings.DatabaseURL == "" {
				return ErrMissingDatabaseURL
			}
			if err := migration.RunUp(settings.DatabaseURL, settings.MigrationPath, logger); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if settings.DatabaseURL == "" {
				return ErrMissingDatabaseURL
			}

			runner, err := migration.NewRunner(settings.DatabaseURL, settings.MigrationPath, logger)
			if err != nil {
				return err
			}
			defer runner.Close()

			status, err := runner.Status()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), FormatStatus(status))
			return nil
		},
	})

	return cmd
}

// FormatStatus renders a migration status for terminal output.
func FormatStatus(status migration.Status) string {
	switch {
	case status.Empty:
		return "no migrations applied"
	case status.Dirty:
		return fmt.Sprintf("version %d (dirty)", status.Version)
	default:
		return fmt.Sprintf("version %d", status.Version)
	}
}
