// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/bookcircle/internal/platform/request"
	"github.com/taibuivan/bookcircle/internal/platform/respond"
	"github.com/taibuivan/bookcircle/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the book, vote and progress HTTP endpoints.
type Handler struct {
	bookService *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{bookService: service}
}

// Routes returns a [chi.Router] for /clubs/{clubID}/books.
//
// It expects to be mounted behind RequireAuth. reviews, when non-nil, is
// mounted at /{bookID}/reviews.
//
// # Endpoints
//   - GET    /                   : List books (status)
//   - POST   /                   : Propose a book
//   - GET    /{bookID}           : Get book
//   - PUT    /{bookID}/status    : Change status (club admin)
//   - POST   /{bookID}/votes     : Vote
//   - DELETE /{bookID}/votes     : Remove vote
//   - GET    /{bookID}/progress  : Caller's progress
//   - PUT    /{bookID}/progress  : Upsert caller's progress
func (handler *Handler) Routes(reviews http.Handler) chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.propose)

	router.Route("/{bookID}", func(r chi.Router) {
		r.Get("/", handler.get)
		r.Put("/status", handler.updateStatus)
		r.Post("/votes", handler.vote)
		r.Delete("/votes", handler.removeVote)
		r.Get("/progress", handler.getProgress)
		r.Put("/progress", handler.updateProgress)

		if reviews != nil {
			r.Mount("/reviews", reviews)
		}
	})

	return router
}

// list handles GET /api/v1/clubs/{clubID}/books?status=.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	var filter Filter
	if status := requestutil.OptionalQuery(request, "status"); status != nil {
		filter.Status = (*Status)(status)
	}

	books, total, err := handler.bookService.ListBooks(request.Context(), requestutil.Param(request, "clubID"), filter, params.Limit, params.Offset)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, books, pagination.NewMeta(total, params))
}

/*
propose adds a book to the club with the caller's vote.

POST /api/v1/clubs/{clubID}/books

Response:
  - 201: Book (votes = 1)
  - 404: Club not found
*/
func (handler *Handler) propose(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input ProposeInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.bookService.ProposeBook(request.Context(), requestutil.Param(request, "clubID"), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, book)
}

// get handles GET /api/v1/clubs/{clubID}/books/{bookID}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	book, err := handler.bookService.GetBook(request.Context(), requestutil.Param(request, "clubID"), requestutil.Param(request, "bookID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, book)
}

// updateStatus handles PUT /api/v1/clubs/{clubID}/books/{bookID}/status.
func (handler *Handler) updateStatus(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input StatusInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.bookService.UpdateBookStatus(request.Context(), userID,
		requestutil.Param(request, "clubID"), requestutil.Param(request, "bookID"), input.Status)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, book)
}

/*
vote adds the caller's vote.

POST /api/v1/clubs/{clubID}/books/{bookID}/votes

Response:
  - 200: Book with updated votes
  - 409: Already voted
*/
func (handler *Handler) vote(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.bookService.Vote(request.Context(), userID,
		requestutil.Param(request, "clubID"), requestutil.Param(request, "bookID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, book)
}

/*
removeVote withdraws the caller's vote.

DELETE /api/v1/clubs/{clubID}/books/{bookID}/votes

Response:
  - 200: Book with updated votes
  - 404: Vote not found
*/
func (handler *Handler) removeVote(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.bookService.RemoveVote(request.Context(), userID,
		requestutil.Param(request, "clubID"), requestutil.Param(request, "bookID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, book)
}

// getProgress handles GET /api/v1/clubs/{clubID}/books/{bookID}/progress.
func (handler *Handler) getProgress(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	progress, err := handler.bookService.GetProgress(request.Context(), userID,
		requestutil.Param(request, "clubID"), requestutil.Param(request, "bookID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, progress)
}

// updateProgress handles PUT /api/v1/clubs/{clubID}/books/{bookID}/progress.
func (handler *Handler) updateProgress(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input ProgressInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	progress, err := handler.bookService.UpdateProgress(request.Context(), userID,
		requestutil.Param(request, "clubID"), requestutil.Param(request, "bookID"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, progress)
}
