// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taibuivan/bookcircle/internal/api"
	"github.com/taibuivan/bookcircle/internal/platform/constants"
	"github.com/taibuivan/bookcircle/internal/platform/sec"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(settings *Settings, opts Options) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Load users and clubs from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handle, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("admin: open seed file: %w", err)
			}
			defer handle.Close()

			file, err := ParseSeed(handle)
			if err != nil {
				return err
			}

			stores, release, err := opts.OpenStores(cmd.Context(), settings, opts.Logger)
			if err != nil {
				return err
			}
			defer release()

			// Seeded accounts get a throwaway session; the token is never printed.
			tokens, err := sec.NewTokenService(settings.SessionSecret, constants.AuthIssuer)
			if err != nil {
				return err
			}
			services := api.NewServices(stores, tokens, constants.DefaultSessionTTL, opts.Logger)

			report, err := NewSeeder(stores.Users, services.Auth, services.Clubs, opts.Logger).Apply(cmd.Context(), file)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "users created: %d, skipped: %d, clubs created: %d, memberships: %d\n",
				report.UsersCreated, report.UsersSkipped, report.ClubsCreated, report.Memberships)
			return nil
		},
	}
}
