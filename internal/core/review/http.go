// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/bookcircle/internal/platform/request"
	"github.com/taibuivan/bookcircle/internal/platform/respond"
	"github.com/taibuivan/bookcircle/pkg/pagination"
)

// Handler implements the review HTTP endpoints.
type Handler struct {
	reviewService *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{reviewService: service}
}

// Routes returns a [chi.Router] for /clubs/{clubID}/books/{bookID}/reviews.
//
// # Endpoints
//   - GET    /                   : List reviews
//   - POST   /                   : Write a review
//   - PUT    /{reviewID}         : Edit (author)
//   - DELETE /{reviewID}         : Delete (author)
//   - POST   /{reviewID}/likes   : Like
//   - DELETE /{reviewID}/likes   : Unlike
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)

	router.Route("/{reviewID}", func(r chi.Router) {
		r.Put("/", handler.update)
		r.Delete("/", handler.delete)
		r.Post("/likes", handler.like)
		r.Delete("/likes", handler.unlike)
	})

	return router
}

func scope(request *http.Request) (clubID, bookID, reviewID string) {
	return requestutil.Param(request, "clubID"), requestutil.Param(request, "bookID"), requestutil.Param(request, "reviewID")
}

// list handles GET .../books/{bookID}/reviews.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	clubID, bookID, _ := scope(request)

	reviews, total, err := handler.reviewService.ListReviews(request.Context(), clubID, bookID, params.Limit, params.Offset)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, reviews, pagination.NewMeta(total, params))
}

/*
create publishes the caller's review.

POST /api/v1/clubs/{clubID}/books/{bookID}/reviews

Response:
  - 201: Review
  - 400: Rating outside 1-5 or missing text
  - 409: Caller already reviewed this book
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	clubID, bookID, _ := scope(request)
	review, err := handler.reviewService.CreateReview(request.Context(), claims.UserID, claims.Username, clubID, bookID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, review)
}

// update handles PUT .../reviews/{reviewID}.
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

	clubID, bookID, reviewID := scope(request)
	review, err := handler.reviewService.UpdateReview(request.Context(), userID, clubID, bookID, reviewID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

// delete handles DELETE .../reviews/{reviewID}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	clubID, bookID, reviewID := scope(request)
	if err := handler.reviewService.DeleteReview(request.Context(), userID, clubID, bookID, reviewID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// like handles POST .../reviews/{reviewID}/likes.
func (handler *Handler) like(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	clubID, bookID, reviewID := scope(request)
	review, err := handler.reviewService.LikeReview(request.Context(), userID, clubID, bookID, reviewID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

// unlike handles DELETE .../reviews/{reviewID}/likes.
func (handler *Handler) unlike(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	clubID, bookID, reviewID := scope(request)
	review, err := handler.reviewService.UnlikeReview(request.Context(), userID, clubID, bookID, reviewID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}
