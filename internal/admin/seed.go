// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/taibuivan/bookcircle/internal/core/club"
	"github.com/taibuivan/bookcircle/internal/platform/apperr"
	"github.com/taibuivan/bookcircle/internal/users/auth"
)

// # Seed File

// SeedFile is the YAML document accepted by the seed command.
//
//	users:
//	  - email: ada@example.com
//	    username: ada
//	    password: correct-horse
//	    fullName: Ada Lovelace
//	clubs:
//	  - name: Engines & Poetry
//	    description: Nineteenth century science writing.
//	    theme: History of Science
//	    owner: ada
//	    members: [grace]
type SeedFile struct {
	Users []SeedUser `yaml:"users"`
	Clubs []SeedClub `yaml:"clubs"`
}

// SeedUser is one account to register.
type SeedUser struct {
	Email    string `yaml:"email"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	FullName string `yaml:"fullName"`
}

// SeedClub is one club to create, owned by an existing or seeded username.
type SeedClub struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Theme       string   `yaml:"theme"`
	IsPrivate   bool     `yaml:"isPrivate"`
	Owner       string   `yaml:"owner"`
	Members     []string `yaml:"members"`
}

// ParseSeed decodes a seed document. Unknown keys are rejected so typos surface early.
func ParseSeed(reader io.Reader) (*SeedFile, error) {
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)

	var file SeedFile
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return &file, nil
		}
		return nil, fmt.Errorf("admin: invalid seed file: %w", err)
	}
	return &file, nil
}

// # Seeder

// SeedReport summarizes what a seed run changed.
type SeedReport struct {
	UsersCreated int
	UsersSkipped int
	ClubsCreated int
	Memberships  int
}

// Seeder applies a [SeedFile] through the domain services so that every
// record passes the same validation as an API request.
type Seeder struct {
	users       auth.UserRepository
	authService *auth.Service
	clubService *club.Service
	logger      *slog.Logger
}

// NewSeeder creates a Seeder.
func NewSeeder(users auth.UserRepository, authService *auth.Service, clubService *club.Service, logger *slog.Logger) *Seeder {
	return &Seeder{users: users, authService: authService, clubService: clubService, logger: logger}
}

/*
Apply registers the users and creates the clubs of file, in order.

Users whose username already exists are skipped, which makes re-running a
seed file safe for accounts. Clubs are always created.

Returns:
  - SeedReport: Counters for what was written before any failure
  - error: The first validation or storage failure
*/
func (seeder *Seeder) Apply(context context.Context, file *SeedFile) (SeedReport, error) {
	var report SeedReport

	for _, entry := range file.Users {
		if _, err := seeder.users.FindByUsername(context, entry.Username); err == nil {
			report.UsersSkipped++
			seeder.logger.InfoContext(context, "seed_user_exists", slog.String("username", entry.Username))
			continue
		} else if !apperr.HasCode(err, apperr.CodeNotFound) {
			return report, err
		}

		if _, err := seeder.authService.Register(context, auth.RegisterInput{
			Email:    entry.Email,
			Username: entry.Username,
			Password: entry.Password,
			FullName: entry.FullName,
		}); err != nil {
			return report, fmt.Errorf("seed user %q: %w", entry.Username, err)
		}
		report.UsersCreated++
	}

	for _, entry := range file.Clubs {
		owner, err := seeder.users.FindByUsername(context, entry.Owner)
		if err != nil {
			return report, fmt.Errorf("seed club %q owner %q: %w", entry.Name, entry.Owner, err)
		}

		created, err := seeder.clubService.CreateClub(context, owner.ID, owner.Username, club.CreateInput{
			Name:        entry.Name,
			Description: entry.Description,
			Theme:       entry.Theme,
			IsPrivate:   entry.IsPrivate,
		})
		if err != nil {
			return report, fmt.Errorf("seed club %q: %w", entry.Name, err)
		}
		report.ClubsCreated++

		for _, username := range entry.Members {
			member, err := seeder.users.FindByUsername(context, username)
			if err != nil {
				return report, fmt.Errorf("seed club %q member %q: %w", entry.Name, username, err)
			}
			if _, err := seeder.clubService.JoinClub(context, member.ID, member.Username, created.ID); err != nil {
				return report, fmt.Errorf("seed club %q member %q: %w", entry.Name, username, err)
			}
			report.Memberships++
		}
	}

	seeder.logger.InfoContext(context, "seed_applied",
		slog.Int("users_created", report.UsersCreated),
		slog.Int("users_skipped", report.UsersSkipped),
		slog.Int("clubs_created", report.ClubsCreated),
		slog.Int("memberships", report.Memberships),
	)
	return report, nil
}
