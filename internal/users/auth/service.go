// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/bookcircle/internal/platform/apperr"
	"github.com/taibuivan/bookcircle/internal/platform/sec"
	"github.com/taibuivan/bookcircle/internal/platform/validate"
	"github.com/taibuivan/bookcircle/pkg/pointer"
	"github.com/taibuivan/bookcircle/pkg/uuid"
)

// # Contracts & Types

// TokenProvider signs and parses bearer tokens.
type TokenProvider interface {
	GenerateAccessToken(sessionID, userID, username string, issuedAt, expiresAt time.Time) (string, error)
	ParseToken(token string) (*sec.AuthClaims, error)
}

// Service implements registration, login and session resolution.
type Service struct {
	userRepository    UserRepository
	sessionRepository SessionRepository
	tokenProvider     TokenProvider
	sessionTTL        time.Duration
	now               func() time.Time
	logger            *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	sessionRepo SessionRepository,
	tokenProv TokenProvider,
	sessionTTL time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository:    userRepo,
		sessionRepository: sessionRepo,
		tokenProvider:     tokenProv,
		sessionTTL:        sessionTTL,
		now:               time.Now,
		logger:            logger,
	}
}

// WithClock replaces the time source. Tests use it to step past expiry.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User      *User     `json:"user"`
	Token     string    `json:"token"`
	ExpiresIn int64     `json:"expiresIn"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Email     string  `json:"email"`
	Username  string  `json:"username"`
	Password  string  `json:"password"`
	FullName  string  `json:"fullName"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

/*
Register validates, hashes, and persists a brand new user account, then
opens its first session.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *AuthResult: Created user plus a bearer token
  - err: Validation, Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*AuthResult, error) {
	input.Email = strings.TrimSpace(input.Email)
	input.Username = strings.TrimSpace(input.Username)
	input.FullName = strings.TrimSpace(input.FullName)
	input.AvatarURL = pointer.NonEmpty(input.AvatarURL)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, UsernameMinLength).
		MaxLen(FieldUsername, input.Username, UsernameMaxLength).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, PasswordMinLength).
		Custom(FieldPassword, len(input.Password) > PasswordMaxLength, fmt.Sprintf("Maximum %d bytes", PasswordMaxLength)).
		Required(FieldFullName, input.FullName).
		MaxLen(FieldFullName, input.FullName, FullNameMaxLength).
		OptionalURL(FieldAvatarURL, input.AvatarURL)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Early checks give a precise message; Create re-checks atomically.
	if _, err := service.userRepository.FindByEmail(context, input.Email); err == nil {
		return nil, apperr.Conflict(msgEmailTaken)
	} else if !apperr.HasCode(err, apperr.CodeNotFound) {
		return nil, err
	}

	if _, err := service.userRepository.FindByUsername(context, input.Username); err == nil {
		return nil, apperr.Conflict(msgUsernameTaken)
	} else if !apperr.HasCode(err, apperr.CodeNotFound) {
		return nil, err
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: hashedPassword,
		FullName:     input.FullName,
		AvatarURL:    input.AvatarURL,
		CreatedAt:    service.now().UTC(),
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "user_registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return service.openSession(context, user)
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
Login validates user credentials and issues a new token.

Existing sessions of the same user stay valid.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *AuthResult: User plus a fresh bearer token
  - err: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*AuthResult, error) {
	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.userRepository.FindByEmail(context, strings.TrimSpace(input.Email))
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.Unauthorized(msgInvalidCredentials)
		}
		return nil, err
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized(msgInvalidCredentials)
	}

	service.logger.InfoContext(context, "user_logged_in", slog.String("user_id", user.ID))

	return service.openSession(context, user)
}

/*
VerifyToken resolves a bearer token into the claims of a live session.

Expired sessions are deleted the first time they are presented.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - *sec.AuthClaims: Claims of the live session
  - err: Unauthorized, or storage failures
*/
func (service *Service) VerifyToken(context context.Context, token string) (*sec.AuthClaims, error) {
	claims, err := service.tokenProvider.ParseToken(token)
	if err != nil {
		return nil, apperr.Unauthorized(msgInvalidSession)
	}

	session, err := service.sessionRepository.Find(context, claims.SessionID())
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.Unauthorized(msgInvalidSession)
		}
		return nil, err
	}

	if session.UserID != claims.UserID {
		return nil, apperr.Unauthorized(msgInvalidSession)
	}

	if session.Expired(service.now()) {
		if err := service.sessionRepository.Delete(context, session.ID); err != nil {
			return nil, fmt.Errorf("auth_service_evict_failed: %w", err)
		}
		service.logger.DebugContext(context, "session_evicted", slog.String("session_id", session.ID))
		return nil, apperr.Unauthorized(msgInvalidSession)
	}

	return claims, nil
}

/*
Logout deletes the session behind the caller's token.

Logging out twice is not an error.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - err: Storage failures
*/
func (service *Service) Logout(context context.Context, sessionID string) error {
	if err := service.sessionRepository.Delete(context, sessionID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

// Me returns the profile of the authenticated user.
func (service *Service) Me(context context.Context, userID string) (*User, error) {
	return service.userRepository.FindByID(context, userID)
}

// openSession records a new session for user and signs its token.
func (service *Service) openSession(context context.Context, user *User) (*AuthResult, error) {
	issuedAt := service.now().UTC()
	session := &Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: issuedAt,
		ExpiresAt: issuedAt.Add(service.sessionTTL),
	}

	token, err := service.tokenProvider.GenerateAccessToken(session.ID, user.ID, user.Username, issuedAt, session.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	if err := service.sessionRepository.Create(context, session); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &AuthResult{
		User:      user,
		Token:     token,
		ExpiresIn: int64(service.sessionTTL.Seconds()),
		ExpiresAt: session.ExpiresAt,
	}, nil
}
