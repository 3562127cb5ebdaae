// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookcircle/internal/api"
	"github.com/taibuivan/bookcircle/internal/platform/config"
	"github.com/taibuivan/bookcircle/internal/platform/sec"
)

// # Harness

type harness struct {
	t       *testing.T
	handler http.Handler
}

func newHarness(t *testing.T, deps api.HealthDependencies) *harness {
	t.Helper()

	context, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens, err := sec.NewTokenService("test-secret", "bookcircle.test")
	require.NoError(t, err)

	services := api.NewServices(api.MemoryStores(), tokens, 24*time.Hour, logger)
	liveness, readiness := api.NewHealthHandlers(deps, logger)

	cfg := &config.Config{ServerPort: "0", Environment: "development"}
	server := api.NewServer(context, cfg, logger, services.Auth, api.NewHandlers(services, liveness, readiness))

	return &harness{t: t, handler: server.Handler()}
}

type envelope struct {
	Data json.RawMessage `json:"data"`
	Meta struct {
		Total   int  `json:"total"`
		HasMore bool `json:"hasMore"`
	} `json:"meta"`
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (h *harness) do(method, path, token string, body any) (int, envelope) {
	h.t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(payload)
	}

	request := httptest.NewRequest(method, path, reader)
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	h.handler.ServeHTTP(recorder, request)

	var decoded envelope
	if recorder.Body.Len() > 0 {
		require.NoError(h.t, json.Unmarshal(recorder.Body.Bytes(), &decoded), recorder.Body.String())
	}
	return recorder.Code, decoded
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

type account struct {
	ID    string
	Token string
}

func (h *harness) register(username string) account {
	h.t.Helper()

	status, body := h.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    username + "@example.com",
		"username": username,
		"password": "long-enough-secret",
		"fullName": "Reader " + username,
	})
	require.Equal(h.t, http.StatusCreated, status, body.Error)

	result := decode[struct {
		User  struct{ ID string } `json:"user"`
		Token string              `json:"token"`
	}](h.t, body.Data)
	return account{ID: result.User.ID, Token: result.Token}
}

type clubView struct {
	ID          string `json:"id"`
	MemberCount int    `json:"memberCount"`
}

func (h *harness) createClub(owner account) clubView {
	h.t.Helper()

	status, body := h.do(http.MethodPost, "/api/v1/clubs", owner.Token, map[string]any{
		"name":        "Sci-Fi Readers",
		"description": "Classic and modern science fiction.",
		"theme":       "Science Fiction",
	})
	require.Equal(h.t, http.StatusCreated, status, body.Error)
	return decode[clubView](h.t, body.Data)
}

type bookView struct {
	ID    string `json:"id"`
	Votes int    `json:"votes"`
}

func (h *harness) proposeBook(owner account, clubID string) bookView {
	h.t.Helper()

	status, body := h.do(http.MethodPost, "/api/v1/clubs/"+clubID+"/books", owner.Token, map[string]any{
		"title":      "The Left Hand of Darkness",
		"author":     "Ursula K. Le Guin",
		"totalPages": 300,
	})
	require.Equal(h.t, http.StatusCreated, status, body.Error)
	return decode[bookView](h.t, body.Data)
}

// # Scenarios

/*
TestScenario_ClubMembership follows register, create, join and leave.
*/
func TestScenario_ClubMembership(t *testing.T) {
	h := newHarness(t, api.HealthDependencies{})

	alice := h.register("alice")
	created := h.createClub(alice)
	assert.Equal(t, 1, created.MemberCount)

	bob := h.register("bob")
	status, _ := h.do(http.MethodPost, "/api/v1/clubs/"+created.ID+"/members", bob.Token, nil)
	require.Equal(t, http.StatusCreated, status)

	status, body := h.do(http.MethodGet, "/api/v1/clubs/"+created.ID, bob.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, decode[clubView](t, body.Data).MemberCount)

	status, body = h.do(http.MethodPost, "/api/v1/clubs/"+created.ID+"/members", bob.Token, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", body.Code)

	status, _ = h.do(http.MethodDelete, "/api/v1/clubs/"+created.ID+"/members/"+bob.ID, bob.Token, nil)
	require.Equal(t, http.StatusNoContent, status)

	status, body = h.do(http.MethodGet, "/api/v1/clubs/"+created.ID, alice.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, decode[clubView](t, body.Data).MemberCount)

	status, body = h.do(http.MethodGet, "/api/v1/clubs/"+created.ID+"/members", alice.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, body.Meta.Total)
}

/*
TestScenario_Voting proposes with an auto-vote, then votes and unvotes twice.
*/
func TestScenario_Voting(t *testing.T) {
	h := newHarness(t, api.HealthDependencies{})

	alice := h.register("alice")
	bob := h.register("bob")
	created := h.createClub(alice)

	proposed := h.proposeBook(alice, created.ID)
	assert.Equal(t, 1, proposed.Votes)

	votes := "/api/v1/clubs/" + created.ID + "/books/" + proposed.ID + "/votes"

	status, body := h.do(http.MethodPost, votes, bob.Token, nil)
	require.Equal(t, http.StatusOK, status, body.Error)
	assert.Equal(t, 2, decode[bookView](t, body.Data).Votes)

	status, body = h.do(http.MethodDelete, votes, bob.Token, nil)
	require.Equal(t, http.StatusOK, status, body.Error)
	assert.Equal(t, 1, decode[bookView](t, body.Data).Votes)

	status, body = h.do(http.MethodDelete, votes, bob.Token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body.Code)
	assert.Equal(t, "Vote not found", body.Error)
}

/*
TestScenario_MeetingAttendance sets attending then maybe, and cancels.
*/
func TestScenario_MeetingAttendance(t *testing.T) {
	h := newHarness(t, api.HealthDependencies{})

	alice := h.register("alice")
	bob := h.register("bob")
	created := h.createClub(alice)

	status, body := h.do(http.MethodPost, "/api/v1/clubs/"+created.ID+"/meetings", alice.Token, map[string]any{
		"scheduledAt": time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
		"duration":    90,
		"location":    "Central Library",
	})
	require.Equal(t, http.StatusCreated, status, body.Error)

	type meetingView struct {
		ID            string `json:"id"`
		Status        string `json:"status"`
		AttendeeCount int    `json:"attendeeCount"`
	}
	scheduled := decode[meetingView](t, body.Data)
	assert.Equal(t, "upcoming", scheduled.Status)

	path := "/api/v1/clubs/" + created.ID + "/meetings/" + scheduled.ID
	attendance := func(value string) int {
		status, body := h.do(http.MethodPut, path+"/attendance", alice.Token, map[string]string{"status": value})
		require.Equal(t, http.StatusOK, status, body.Error)
		return decode[struct {
			Meeting meetingView `json:"meeting"`
		}](t, body.Data).Meeting.AttendeeCount
	}

	assert.Equal(t, 1, attendance("attending"))
	assert.Equal(t, 1, attendance("attending"))
	assert.Equal(t, 0, attendance("maybe"))

	status, _ = h.do(http.MethodDelete, path, bob.Token, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = h.do(http.MethodDelete, path, alice.Token, nil)
	require.Equal(t, http.StatusNoContent, status, body.Error)

	status, body = h.do(http.MethodGet, path, bob.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "cancelled", decode[meetingView](t, body.Data).Status)
}

/*
TestProgressAndReviews exercises the nested book routes.
*/
func TestProgressAndReviews(t *testing.T) {
	h := newHarness(t, api.HealthDependencies{})

	alice := h.register("alice")
	created := h.createClub(alice)
	proposed := h.proposeBook(alice, created.ID)
	bookPath := "/api/v1/clubs/" + created.ID + "/books/" + proposed.ID

	status, body := h.do(http.MethodPut, bookPath+"/progress", alice.Token, map[string]int{"currentPage": 150})
	require.Equal(t, http.StatusOK, status, body.Error)
	progress := decode[struct {
		Percentage float64 `json:"percentage"`
		Status     string  `json:"status"`
	}](t, body.Data)
	assert.Equal(t, 50.0, progress.Percentage)
	assert.Equal(t, "reading", progress.Status)

	review := map[string]any{"rating": 5, "title": "Stunning", "content": "A book about trust."}
	status, body = h.do(http.MethodPost, bookPath+"/reviews", alice.Token, review)
	require.Equal(t, http.StatusCreated, status, body.Error)

	status, body = h.do(http.MethodPost, bookPath+"/reviews", alice.Token, review)
	assert.Equal(t, http.StatusConflict, status)

	review["rating"] = 6
	bob := h.register("bob")
	status, body = h.do(http.MethodPost, bookPath+"/reviews", bob.Token, review)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)

	status, body = h.do(http.MethodGet, bookPath+"/reviews", bob.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, body.Meta.Total)
}

/*
TestDeleteClub_Cascade removes the club's books as well.
*/
func TestDeleteClub_Cascade(t *testing.T) {
	h := newHarness(t, api.HealthDependencies{})

	alice := h.register("alice")
	bob := h.register("bob")
	created := h.createClub(alice)
	proposed := h.proposeBook(alice, created.ID)

	status, _ := h.do(http.MethodDelete, "/api/v1/clubs/"+created.ID, bob.Token, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = h.do(http.MethodDelete, "/api/v1/clubs/"+created.ID, alice.Token, nil)
	require.Equal(t, http.StatusNoContent, status)

	status, _ = h.do(http.MethodGet, "/api/v1/clubs/"+created.ID+"/books/"+proposed.ID, alice.Token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

// # Authentication

/*
TestAuth_TokenLifecycle covers missing tokens, logout and duplicate registration.
*/
func TestAuth_TokenLifecycle(t *testing.T) {
	h := newHarness(t, api.HealthDependencies{})

	status, body := h.do(http.MethodGet, "/api/v1/clubs", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", body.Code)

	status, _ = h.do(http.MethodGet, "/api/v1/clubs", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	alice := h.register("alice")

	status, body = h.do(http.MethodGet, "/api/v1/clubs", alice.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, body.Meta.Total)
	assert.JSONEq(t, `[]`, string(body.Data))

	status, body = h.do(http.MethodGet, "/api/v1/auth/me", alice.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, alice.ID, decode[struct{ ID string }](t, body.Data).ID)

	status, _ = h.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "alice@example.com", "username": "alice2", "password": "long-enough-secret", "fullName": "Alice",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = h.do(http.MethodPost, "/api/v1/auth/logout", alice.Token, nil)
	require.Equal(t, http.StatusNoContent, status)

	status, _ = h.do(http.MethodGet, "/api/v1/clubs", alice.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

/*
TestAuth_StaleTokenDoesNotBlockCredentials lets a logged-out client sign in again.
*/
func TestAuth_StaleTokenDoesNotBlockCredentials(t *testing.T) {
	h := newHarness(t, api.HealthDependencies{})

	alice := h.register("alice")
	status, _ := h.do(http.MethodPost, "/api/v1/auth/logout", alice.Token, nil)
	require.Equal(t, http.StatusNoContent, status)

	status, body := h.do(http.MethodPost, "/api/v1/auth/login", alice.Token, map[string]string{
		"email":    "alice@example.com",
		"password": "long-enough-secret",
	})
	require.Equal(t, http.StatusOK, status, body.Error)
	fresh := decode[struct {
		Token string `json:"token"`
	}](t, body.Data).Token
	assert.NotEmpty(t, fresh)

	status, body = h.do(http.MethodPost, "/api/v1/auth/register", "garbage", map[string]string{
		"email":    "bob@example.com",
		"username": "bob",
		"password": "long-enough-secret",
		"fullName": "Reader bob",
	})
	assert.Equal(t, http.StatusCreated, status, body.Error)

	status, _ = h.do(http.MethodGet, "/api/v1/clubs", alice.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = h.do(http.MethodGet, "/api/v1/clubs", fresh, nil)
	assert.Equal(t, http.StatusOK, status)
}

// # Health

/*
TestHealth_Probes reports liveness and degraded readiness.
*/
func TestHealth_Probes(t *testing.T) {
	h := newHarness(t, api.HealthDependencies{
		CheckDatabase: func(context.Context) error { return nil },
		CheckCache:    func(context.Context) error { return errors.New("connection refused") },
	})

	status, _ := h.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)

	status, body := h.do(http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)

	readiness := decode[struct {
		Status string `json:"status"`
		Checks []struct {
			Name string `json:"name"`
			OK   bool   `json:"ok"`
		} `json:"checks"`
	}](t, body.Data)
	assert.Equal(t, "degraded", readiness.Status)
	require.Len(t, readiness.Checks, 2)
	assert.True(t, readiness.Checks[0].OK)
	assert.False(t, readiness.Checks[1].OK)
}
