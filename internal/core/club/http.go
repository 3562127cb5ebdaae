// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package club

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bookcircle/internal/platform/middleware"
	requestutil "github.com/taibuivan/bookcircle/internal/platform/request"
	"github.com/taibuivan/bookcircle/internal/platform/respond"
	"github.com/taibuivan/bookcircle/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the club and membership HTTP endpoints.
type Handler struct {
	clubService *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{clubService: service}
}

// Routes returns a [chi.Router] for /clubs.
//
// books and meetings are mounted under /{clubID}; both may be nil.
//
// # Endpoints
//   - GET    /                          : List clubs (theme, search)
//   - POST   /                          : Create a club
//   - GET    /{clubID}                  : Get club
//   - PUT    /{clubID}                  : Update club (creator)
//   - DELETE /{clubID}                  : Delete club (creator)
//   - GET    /{clubID}/members          : List members
//   - POST   /{clubID}/members          : Join
//   - DELETE /{clubID}/members/{userID} : Leave or remove
func (handler *Handler) Routes(books, meetings http.Handler) chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.list)
	router.Post("/", handler.create)

	router.Route("/{clubID}", func(r chi.Router) {
		r.Get("/", handler.get)
		r.Put("/", handler.update)
		r.Delete("/", handler.delete)

		r.Get("/members", handler.listMembers)
		r.Post("/members", handler.join)
		r.Delete("/members/{userID}", handler.leave)

		if books != nil {
			r.Mount("/books", books)
		}
		if meetings != nil {
			r.Mount("/meetings", meetings)
		}
	})

	return router
}

/*
list returns a paginated page of clubs.

GET /api/v1/clubs?theme=&search=&limit=&offset=
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := Filter{
		Theme:  requestutil.OptionalQuery(request, "theme"),
		Search: requestutil.Query(request, "search"),
	}

	clubs, total, err := handler.clubService.ListClubs(request.Context(), filter, params.Limit, params.Offset)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, clubs, pagination.NewMeta(total, params))
}

/*
create registers a new club owned by the caller.

POST /api/v1/clubs

Response:
  - 201: Club
  - 400: Validation failure
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	club, err := handler.clubService.CreateClub(request.Context(), claims.UserID, claims.Username, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, club)
}

// get handles GET /api/v1/clubs/{clubID}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	club, err := handler.clubService.GetClub(request.Context(), requestutil.Param(request, "clubID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, club)
}

/*
update applies a partial update.

PUT /api/v1/clubs/{clubID}

Response:
  - 200: Updated club
  - 403: Caller is not the creator
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	club, err := handler.clubService.UpdateClub(request.Context(), userID, requestutil.Param(request, "clubID"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, club)
}

// delete handles DELETE /api/v1/clubs/{clubID}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.clubService.DeleteClub(request.Context(), userID, requestutil.Param(request, "clubID")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// listMembers handles GET /api/v1/clubs/{clubID}/members.
func (handler *Handler) listMembers(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	members, total, err := handler.clubService.ListMembers(request.Context(), requestutil.Param(request, "clubID"), params.Limit, params.Offset)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, members, pagination.NewMeta(total, params))
}

/*
join adds the caller to the club.

POST /api/v1/clubs/{clubID}/members

Response:
  - 201: Member
  - 404: Club not found
  - 409: Already a member
*/
func (handler *Handler) join(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	member, err := handler.clubService.JoinClub(request.Context(), claims.UserID, claims.Username, requestutil.Param(request, "clubID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, member)
}

/*
leave removes a member. Members may remove themselves; admins may remove anyone.

DELETE /api/v1/clubs/{clubID}/members/{userID}
*/
func (handler *Handler) leave(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	clubID := requestutil.Param(request, "clubID")
	target := requestutil.Param(request, "userID")

	if err := handler.clubService.LeaveClub(request.Context(), userID, clubID, target); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
