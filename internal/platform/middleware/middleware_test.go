// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookcircle/internal/platform/apperr"
	"github.com/taibuivan/bookcircle/internal/platform/ctxutil"
	"github.com/taibuivan/bookcircle/internal/platform/middleware"
	"github.com/taibuivan/bookcircle/internal/platform/sec"
)

type stubVerifier struct {
	claims *sec.AuthClaims
	err    error
}

func (s stubVerifier) VerifyToken(_ context.Context, token string) (*sec.AuthClaims, error) {
	if s.err != nil {
		return nil, s.err
	}
	if token != "good" {
		return nil, apperr.Unauthorized("unknown session")
	}
	return s.claims, nil
}

type devConfig struct {
	dev     bool
	origins []string
}

func (c devConfig) IsDevelopment() bool      { return c.dev }
func (c devConfig) AllowedOrigins() []string { return c.origins }

var okHandler = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
	writer.WriteHeader(http.StatusOK)
})

/*
TestRequestID_GeneratesAndPropagates checks both the generated and the forwarded IDs.
*/
func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "client-id")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "client-id", seen)
}

/*
TestRealIP prefers proxy headers over the socket address.
*/
func TestRealIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", middleware.RealIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", middleware.RealIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", middleware.RealIP(req))
}

/*
TestRateLimitWith_RejectsAfterBurst isolates buckets per IP.
*/
func TestRateLimitWith_RejectsAfterBurst(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.RateLimitWith(ctx, 0.001, 1)(okHandler)

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("X-Real-IP", ip)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("1.1.1.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("1.1.1.1"))
	assert.Equal(t, http.StatusOK, send("2.2.2.2"))
}

/*
TestRateLimitWith_RetryAfter advertises the refill interval in the 429 envelope.
*/
func TestRateLimitWith_RetryAfter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.RateLimitWith(ctx, 0.5, 1)(okHandler)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("X-Real-IP", "3.3.3.3")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, send().Code)

	rec := send()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"Too many requests. Try again in 2s.","code":"RATE_LIMITED"}`, rec.Body.String())
}

/*
TestAuthenticate covers anonymous, valid, invalid and malformed headers.
*/
func TestAuthenticate(t *testing.T) {
	claims := &sec.AuthClaims{UserID: "u1", Username: "reader"}

	var gotUser string
	inner := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		gotUser = ctxutil.GetUserID(request.Context())
		writer.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name     string
		header   string
		verifier stubVerifier
		wantCode int
		wantUser string
	}{
		{"anonymous", "", stubVerifier{claims: claims}, http.StatusOK, ""},
		{"valid", "Bearer good", stubVerifier{claims: claims}, http.StatusOK, "u1"},
		{"unknown_token_is_anonymous", "Bearer bad", stubVerifier{claims: claims}, http.StatusOK, ""},
		{"wrong_scheme_is_anonymous", "Basic good", stubVerifier{claims: claims}, http.StatusOK, ""},
		{"store_failure", "Bearer good", stubVerifier{err: apperr.Internal(errors.New("redis down"))}, http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser = ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			middleware.Authenticate(tt.verifier)(inner).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantUser, gotUser)
		})
	}
}

/*
TestRequireAuth rejects requests that carry no claims.
*/
func TestRequireAuth(t *testing.T) {
	rec := httptest.NewRecorder()
	middleware.RequireAuth(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), apperr.CodeUnauthorized)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(ctxutil.WithAuthUser(req.Context(), &sec.AuthClaims{UserID: "u1"}))
	rec = httptest.NewRecorder()
	middleware.RequireAuth(okHandler).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

/*
TestAuthenticate_StaleTokenOnlyBlocksProtectedRoutes keeps public routes reachable.
*/
func TestAuthenticate_StaleTokenOnlyBlocksProtectedRoutes(t *testing.T) {
	verifier := stubVerifier{claims: &sec.AuthClaims{UserID: "u1"}}

	send := func(handler http.Handler) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer expired")
		rec := httptest.NewRecorder()
		middleware.Authenticate(verifier)(handler).ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send(okHandler))
	assert.Equal(t, http.StatusUnauthorized, send(middleware.RequireAuth(okHandler)))
}

/*
TestBearerToken parses the Authorization header value.
*/
func TestBearerToken(t *testing.T) {
	token, ok := middleware.BearerToken("Bearer abc.def")
	require.True(t, ok)
	assert.Equal(t, "abc.def", token)

	_, ok = middleware.BearerToken("Bearer ")
	assert.False(t, ok)

	_, ok = middleware.BearerToken("abc")
	assert.False(t, ok)
}

/*
TestPanicRecovery turns a panic into a 500 envelope.
*/
func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), apperr.CodeInternal)
}

/*
TestCORS allows configured origins and answers pre-flight requests.
*/
func TestCORS(t *testing.T) {
	handler := middleware.CORS(devConfig{origins: []string{"https://app.example"}})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/clubs", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/clubs", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
