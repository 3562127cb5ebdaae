// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/bookcircle/internal/core/book"
	"github.com/taibuivan/bookcircle/internal/core/club"
	"github.com/taibuivan/bookcircle/internal/core/meeting"
	"github.com/taibuivan/bookcircle/internal/core/review"
	"github.com/taibuivan/bookcircle/internal/users/auth"
)

// # Store Selection

// Stores bundles one repository per domain.
//
// Backends can be mixed: sessions may live in Redis while everything else
// stays in memory or PostgreSQL.
type Stores struct {
	Users    auth.UserRepository
	Sessions auth.SessionRepository
	Clubs    club.Repository
	Books    book.Repository
	Meetings meeting.Repository
	Reviews  review.Repository
}

// MemoryStores returns a fresh set of in-memory repositories.
func MemoryStores() Stores {
	return Stores{
		Users:    auth.NewMemoryUserRepository(),
		Sessions: auth.NewMemorySessionRepository(),
		Clubs:    club.NewMemoryRepository(),
		Books:    book.NewMemoryRepository(),
		Meetings: meeting.NewMemoryRepository(),
		Reviews:  review.NewMemoryRepository(),
	}
}

// PostgresStores returns PostgreSQL repositories on pool.
//
// Sessions stay in memory; use [Stores.WithRedisSessions] to move them.
func PostgresStores(pool *pgxpool.Pool) Stores {
	return Stores{
		Users:    auth.NewPostgresUserRepository(pool),
		Sessions: auth.NewMemorySessionRepository(),
		Clubs:    club.NewPostgresRepository(pool),
		Books:    book.NewPostgresRepository(pool),
		Meetings: meeting.NewPostgresRepository(pool),
		Reviews:  review.NewPostgresRepository(pool),
	}
}

// WithRedisSessions swaps the session repository for one backed by client.
func (stores Stores) WithRedisSessions(client redis.UniversalClient) Stores {
	stores.Sessions = auth.NewRedisSessionRepository(client)
	return stores
}

// # Service Graph

// Services holds the domain services built on top of a [Stores].
type Services struct {
	Auth     *auth.Service
	Clubs    *club.Service
	Books    *book.Service
	Meetings *meeting.Service
	Reviews  *review.Service
}

// NewServices builds the service graph and registers the club-deletion cascade.
func NewServices(stores Stores, tokens auth.TokenProvider, sessionTTL time.Duration, logger *slog.Logger) *Services {
	clubs := club.NewService(stores.Clubs, logger)
	books := book.NewService(stores.Books, clubs, logger)

	clubs.OnDelete(stores.Reviews, stores.Meetings, stores.Books)

	return &Services{
		Auth:     auth.NewService(stores.Users, stores.Sessions, tokens, sessionTTL, logger),
		Clubs:    clubs,
		Books:    books,
		Meetings: meeting.NewService(stores.Meetings, clubs, books, logger),
		Reviews:  review.NewService(stores.Reviews, books, logger),
	}
}

// NewHandlers wraps every service in its HTTP handler.
func NewHandlers(services *Services, liveness, readiness http.HandlerFunc) Handlers {
	return Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(services.Auth),
		Club:      club.NewHandler(services.Clubs),
		Book:      book.NewHandler(services.Books),
		Meeting:   meeting.NewHandler(services.Meetings),
		Review:    review.NewHandler(services.Reviews),
	}
}
