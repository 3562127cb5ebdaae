// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookcircle/internal/platform/apperr"
	"github.com/taibuivan/bookcircle/internal/platform/sec"
	"github.com/taibuivan/bookcircle/internal/users/auth"
)

type fixture struct {
	service  *auth.Service
	sessions *auth.MemorySessionRepository
	clock    *fakeClock
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tokens, err := sec.NewTokenService("test-secret", "bookcircle.test")
	require.NoError(t, err)

	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	sessions := auth.NewMemorySessionRepository()
	service := auth.NewService(
		auth.NewMemoryUserRepository(),
		sessions,
		tokens,
		24*time.Hour,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	).WithClock(clock.Now)

	return &fixture{service: service, sessions: sessions, clock: clock}
}

func alice() auth.RegisterInput {
	return auth.RegisterInput{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "correct-horse",
		FullName: "Alice Reader",
	}
}

/*
TestRegister_IssuesTokenAndHashesPassword covers the happy path.
*/
func TestRegister_IssuesTokenAndHashesPassword(t *testing.T) {
	f := newFixture(t)

	result, err := f.service.Register(context.Background(), alice())
	require.NoError(t, err)

	assert.NotEmpty(t, result.Token)
	assert.Equal(t, int64(86400), result.ExpiresIn)
	assert.NotEqual(t, "correct-horse", result.User.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("correct-horse", result.User.PasswordHash))

	claims, err := f.service.VerifyToken(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

/*
TestRegister_Duplicates rejects a second registration of the same email or username.
*/
func TestRegister_Duplicates(t *testing.T) {
	tests := []struct {
		name  string
		input auth.RegisterInput
	}{
		{"same_email", auth.RegisterInput{Email: "alice@example.com", Username: "alice2", Password: "password123", FullName: "Other"}},
		{"same_username", auth.RegisterInput{Email: "other@example.com", Username: "alice", Password: "password123", FullName: "Other"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.service.Register(context.Background(), alice())
			require.NoError(t, err)

			_, err = f.service.Register(context.Background(), tt.input)
			assert.True(t, apperr.HasCode(err, apperr.CodeConflict), "got %v", err)
		})
	}
}

/*
TestRegister_CaseSensitiveIdentity treats differently-cased emails as distinct.
*/
func TestRegister_CaseSensitiveIdentity(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Register(context.Background(), alice())
	require.NoError(t, err)

	_, err = f.service.Register(context.Background(), auth.RegisterInput{
		Email: "Alice@example.com", Username: "Alice", Password: "password123", FullName: "Capital Alice",
	})
	assert.NoError(t, err)
}

/*
TestRegister_Validation reports per-field problems.
*/
func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Register(context.Background(), auth.RegisterInput{Email: "nope", Username: "al", Password: "short"})
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeValidation, ae.Code)
	assert.GreaterOrEqual(t, len(ae.Details), 4)
}

/*
TestLogin covers valid credentials and both failure branches.
*/
func TestLogin(t *testing.T) {
	f := newFixture(t)
	registered, err := f.service.Register(context.Background(), alice())
	require.NoError(t, err)

	result, err := f.service.Login(context.Background(), auth.LoginInput{Email: "alice@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, result.User.ID)
	assert.NotEqual(t, registered.Token, result.Token)

	// Old token still valid after a new login.
	_, err = f.service.VerifyToken(context.Background(), registered.Token)
	assert.NoError(t, err)

	_, err = f.service.Login(context.Background(), auth.LoginInput{Email: "alice@example.com", Password: "wrong-password"})
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	_, err = f.service.Login(context.Background(), auth.LoginInput{Email: "ghost@example.com", Password: "correct-horse"})
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
}

/*
TestVerifyToken_ExpiredSessionIsEvicted checks lazy eviction.
*/
func TestVerifyToken_ExpiredSessionIsEvicted(t *testing.T) {
	f := newFixture(t)
	result, err := f.service.Register(context.Background(), alice())
	require.NoError(t, err)
	require.Equal(t, 1, f.sessions.Len())

	f.clock.Advance(24*time.Hour + time.Second)

	_, err = f.service.VerifyToken(context.Background(), result.Token)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
	assert.Equal(t, 0, f.sessions.Len())
}

/*
TestVerifyToken_Rejections covers garbage, foreign signatures and logged-out sessions.
*/
func TestVerifyToken_Rejections(t *testing.T) {
	f := newFixture(t)
	result, err := f.service.Register(context.Background(), alice())
	require.NoError(t, err)

	_, err = f.service.VerifyToken(context.Background(), "not-a-token")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	foreign, err := sec.NewTokenService("other-secret", "bookcircle.test")
	require.NoError(t, err)
	forged, err := foreign.GenerateAccessToken("s", result.User.ID, "alice", time.Now(), time.Now().Add(time.Hour))
	require.NoError(t, err)
	_, err = f.service.VerifyToken(context.Background(), forged)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	claims, err := f.service.VerifyToken(context.Background(), result.Token)
	require.NoError(t, err)
	require.NoError(t, f.service.Logout(context.Background(), claims.SessionID()))
	require.NoError(t, f.service.Logout(context.Background(), claims.SessionID()))

	_, err = f.service.VerifyToken(context.Background(), result.Token)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
}

/*
TestMe returns the stored profile.
*/
func TestMe(t *testing.T) {
	f := newFixture(t)
	result, err := f.service.Register(context.Background(), alice())
	require.NoError(t, err)

	user, err := f.service.Me(context.Background(), result.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Reader", user.FullName)

	_, err = f.service.Me(context.Background(), "missing")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}
