// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/bookcircle/internal/platform/apperr"
	"github.com/taibuivan/bookcircle/internal/platform/constants"
	"github.com/taibuivan/bookcircle/internal/platform/ctxutil"
	"github.com/taibuivan/bookcircle/internal/platform/monitor"
	"github.com/taibuivan/bookcircle/internal/platform/sec"
)

// # Authentication

// TokenVerifier resolves a raw bearer token into the claims of a live session.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*sec.AuthClaims, error)
}

// Authenticate attaches the caller's claims when a valid bearer token is supplied.
//
// A header that is absent, malformed, unknown or expired leaves the request
// anonymous; [RequireAuth] rejects it on protected routes, while public routes
// such as login stay reachable with a stale token. Session store failures are
// reported as-is.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			header := request.Header.Get(constants.HeaderAuthorization)
			if header == "" {
				next.ServeHTTP(writer, request)
				return
			}

			token, ok := BearerToken(header)
			if !ok {
				ctxutil.GetLogger(request.Context()).DebugContext(request.Context(), "authorization_header_malformed")
				next.ServeHTTP(writer, request)
				return
			}

			claims, err := verifier.VerifyToken(request.Context(), token)
			if err != nil {
				if ae := apperr.As(err); ae != nil && ae.Code != apperr.CodeUnauthorized {
					// Store outages must not masquerade as bad credentials
					ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "session_lookup_failed",
						slog.Any("error", err))
					monitor.CaptureError(request.Context(), err)
					writeError(writer, ae.HTTPStatus, ae.Code, ae.Message)
					return
				}
				ctxutil.GetLogger(request.Context()).DebugContext(request.Context(), "session_token_rejected",
					slog.Any("error", err))
				next.ServeHTTP(writer, request)
				return
			}

			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			monitor.SetUser(ctx, claims.UserID, claims.Username)

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests with 401.
//
// Must be mounted below [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			writeError(writer, http.StatusUnauthorized, apperr.CodeUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}
