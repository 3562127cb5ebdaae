// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "context"

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// Email and username are unique, compared case-sensitively.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		Create persists a brand-new user account.

		The uniqueness of email and username is enforced here atomically, so
		two concurrent registrations can never both succeed.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: apperr.Conflict on a duplicate identity, or storage failures
	*/
	Create(context context.Context, user *User) error
}

// # Session Data Access

// SessionRepository defines the data access contract for issued sessions.
type SessionRepository interface {

	/*
		Create persists a new session.

		Parameters:
		  - context: context.Context
		  - session: *Session

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, session *Session) error

	/*
		Find returns the session with the given ID, expired or not.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Session: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	Find(context context.Context, id string) (*Session, error)

	/*
		Delete removes a session. Deleting an absent session is not an error.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Storage failures
	*/
	Delete(context context.Context, id string) error
}
