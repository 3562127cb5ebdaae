// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package meeting

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/bookcircle/internal/platform/request"
	"github.com/taibuivan/bookcircle/internal/platform/respond"
	"github.com/taibuivan/bookcircle/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the meeting and attendance HTTP endpoints.
type Handler struct {
	meetingService *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{meetingService: service}
}

// Routes returns a [chi.Router] for /clubs/{clubID}/meetings.
//
// It expects to be mounted behind RequireAuth.
//
// # Endpoints
//   - GET    /                          : List meetings (status)
//   - POST   /                          : Schedule a meeting (club member)
//   - GET    /{meetingID}               : Get meeting
//   - PUT    /{meetingID}               : Update meeting (creator)
//   - DELETE /{meetingID}               : Cancel meeting (creator)
//   - GET    /{meetingID}/attendance    : List RSVPs
//   - PUT    /{meetingID}/attendance    : Upsert caller's RSVP
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)

	router.Route("/{meetingID}", func(r chi.Router) {
		r.Get("/", handler.get)
		r.Put("/", handler.update)
		r.Delete("/", handler.cancel)
		r.Get("/attendance", handler.listAttendance)
		r.Put("/attendance", handler.setAttendance)
	})

	return router
}

// list handles GET /api/v1/clubs/{clubID}/meetings?status=.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	status := (*Status)(requestutil.OptionalQuery(request, "status"))

	meetings, total, err := handler.meetingService.ListMeetings(request.Context(),
		requestutil.Param(request, "clubID"), status, params.Limit, params.Offset)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, meetings, pagination.NewMeta(total, params))
}

/*
create schedules a meeting.

POST /api/v1/clubs/{clubID}/meetings

Response:
  - 201: Meeting
  - 400: Validation failure (duration, scheduledAt, URLs)
  - 403: Caller is not a club member
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	meeting, err := handler.meetingService.CreateMeeting(request.Context(), requestutil.Param(request, "clubID"), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, meeting)
}

// get handles GET /api/v1/clubs/{clubID}/meetings/{meetingID}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	meeting, err := handler.meetingService.GetMeeting(request.Context(),
		requestutil.Param(request, "clubID"), requestutil.Param(request, "meetingID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, meeting)
}

// update handles PUT /api/v1/clubs/{clubID}/meetings/{meetingID}.
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

	meeting, err := handler.meetingService.UpdateMeeting(request.Context(), userID,
		requestutil.Param(request, "clubID"), requestutil.Param(request, "meetingID"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, meeting)
}

/*
cancel marks the meeting cancelled. The row is kept and still served by GET.

DELETE /api/v1/clubs/{clubID}/meetings/{meetingID}

Response:
  - 204: Meeting cancelled
  - 403: Caller is not the creator
*/
func (handler *Handler) cancel(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if _, err := handler.meetingService.CancelMeeting(request.Context(), userID,
		requestutil.Param(request, "clubID"), requestutil.Param(request, "meetingID")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// listAttendance handles GET /api/v1/clubs/{clubID}/meetings/{meetingID}/attendance.
func (handler *Handler) listAttendance(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	rsvps, total, err := handler.meetingService.ListAttendance(request.Context(),
		requestutil.Param(request, "clubID"), requestutil.Param(request, "meetingID"), params.Limit, params.Offset)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, rsvps, pagination.NewMeta(total, params))
}

/*
setAttendance upserts the caller's RSVP.

PUT /api/v1/clubs/{clubID}/meetings/{meetingID}/attendance

Response:
  - 200: {attendance, meeting}
  - 400: Invalid status or cancelled meeting
*/
func (handler *Handler) setAttendance(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input AttendanceInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.meetingService.SetAttendance(request.Context(), userID,
		requestutil.Param(request, "clubID"), requestutil.Param(request, "meetingID"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}
