// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bookcircle/internal/platform/middleware"
	requestutil "github.com/taibuivan/bookcircle/internal/platform/request"
	"github.com/taibuivan/bookcircle/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// credentialGuards wrap only the credential endpoints (register, login),
// which is where the stricter rate limit belongs.
//
// # Endpoints
//   - POST /register : Creates a new account and returns a token.
//   - POST /login    : Authenticates and returns a token.
//   - POST /logout   : Deletes the caller's session.
//   - GET  /me       : Returns the caller's profile.
func (handler *Handler) Routes(credentialGuards ...func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(credentialGuards...)
		r.Post("/register", handler.register)
		r.Post("/login", handler.login)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
		r.Get("/me", handler.me)
	})

	return router
}

/*
register handles the creation of a new user account.

POST /api/v1/auth/register

Response:
  - 201: {user, token, expiresIn}
  - 400: Validation failure
  - 409: Email or username already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input RegisterInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Register(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, result)
}

/*
login authenticates a user and opens a new session.

POST /api/v1/auth/login

Response:
  - 200: {user, token, expiresIn}
  - 401: Invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input LoginInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Login(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
logout deletes the session behind the presented token.

POST /api/v1/auth/logout

Response:
  - 204: Session removed
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), claims.SessionID()); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
me returns the authenticated user's profile.

GET /api/v1/auth/me
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Me(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
