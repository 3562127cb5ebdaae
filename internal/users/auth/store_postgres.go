// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/bookcircle/internal/platform/apperr"
	"github.com/taibuivan/bookcircle/internal/platform/dberr"
	"github.com/taibuivan/bookcircle/pkg/uuid"
)

// Unique constraint names declared in the users.account migration.
const (
	constraintAccountEmail    = "account_email_key"
	constraintAccountUsername = "account_username_key"
)

// PostgresUserRepository implements [UserRepository] on the users.account table.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresUserRepository creates a PostgreSQL-backed user store.
func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

const selectAccount = `
	SELECT id, email, username, passwordhash, fullname, avatarurl, createdat
	FROM users.account`

/*
Create persists a new user record into the users.account table.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict naming the duplicated field, or database errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (id, email, username, passwordhash, fullname, avatarurl, createdat)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.FullName,
		user.AvatarURL,
		user.CreatedAt,
	)

	if dberr.IsUniqueViolation(err) {
		switch dberr.ConstraintName(err) {
		case constraintAccountEmail:
			return apperr.Conflict(msgEmailTaken)
		case constraintAccountUsername:
			return apperr.Conflict(msgUsernameTaken)
		}
	}

	return dberr.Wrap(err, "User", "postgres_user_repo_create")
}

// FindByID implements [UserRepository].
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("User")
	}
	return repository.findOne(context, selectAccount+` WHERE id = $1`, id)
}

// FindByEmail implements [UserRepository].
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findOne(context, selectAccount+` WHERE email = $1`, email)
}

// FindByUsername implements [UserRepository].
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findOne(context, selectAccount+` WHERE username = $1`, username)
}

func (repository *PostgresUserRepository) findOne(context context.Context, query string, arg string) (*User, error) {
	user := &User{}
	err := repository.pool.QueryRow(context, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.FullName,
		&user.AvatarURL,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "User", "postgres_user_repo_find")
	}
	return user, nil
}
