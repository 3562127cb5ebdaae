// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package meeting

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/bookcircle/internal/core/book"
	"github.com/taibuivan/bookcircle/internal/core/club"
	"github.com/taibuivan/bookcircle/internal/platform/apperr"
	"github.com/taibuivan/bookcircle/internal/platform/validate"
	"github.com/taibuivan/bookcircle/pkg/pointer"
	"github.com/taibuivan/bookcircle/pkg/uuid"
)

// # Collaborators

// Clubs is the slice of the club service the meeting manager depends on.
type Clubs interface {
	GetClub(context context.Context, id string) (*club.Club, error)
	IsMember(context context.Context, clubID, userID string) (bool, error)
}

// Books resolves the title snapshot stored on a meeting.
type Books interface {
	GetBook(context context.Context, clubID, bookID string) (*book.Book, error)
}

// # Service Layer

// Service implements meeting scheduling and attendance.
type Service struct {
	repo   Repository
	clubs  Clubs
	books  Books
	now    func() time.Time
	logger *slog.Logger
}

// NewService constructs a new meeting [Service].
func NewService(repo Repository, clubs Clubs, books Books, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		clubs:  clubs,
		books:  books,
		now:    time.Now,
		logger: logger,
	}
}

// WithClock replaces the time source, for tests.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

// # Inputs

// CreateInput carries the fields of a new meeting.
type CreateInput struct {
	ScheduledAt       time.Time `json:"scheduledAt"`
	Duration          int       `json:"duration"`
	BookID            *string   `json:"bookId"`
	Location          *string   `json:"location"`
	LocationURL       *string   `json:"locationUrl"`
	Description       *string   `json:"description"`
	IsVirtual         bool      `json:"isVirtual"`
	VirtualMeetingURL *string   `json:"virtualMeetingUrl"`
}

// UpdateInput carries a partial update; nil fields are left unchanged.
//
// An empty BookID detaches the meeting from its book.
type UpdateInput struct {
	ScheduledAt       *time.Time `json:"scheduledAt"`
	Duration          *int       `json:"duration"`
	BookID            *string    `json:"bookId"`
	Location          *string    `json:"location"`
	LocationURL       *string    `json:"locationUrl"`
	Description       *string    `json:"description"`
	IsVirtual         *bool      `json:"isVirtual"`
	VirtualMeetingURL *string    `json:"virtualMeetingUrl"`
}

// AttendanceResult pairs a stored RSVP with the meeting it changed.
type AttendanceResult struct {
	Attendance *Attendance `json:"attendance"`
	Meeting    *Meeting    `json:"meeting"`
}

// AttendanceInput is an RSVP.
type AttendanceInput struct {
	Status AttendanceStatus `json:"status"`
	Note   *string          `json:"note"`
}

func validateMeeting(validator *validate.Validator, meeting *Meeting) {
	validator.Range(FieldDuration, meeting.Duration, DurationMin, DurationMax).
		MaxLen(FieldLocation, pointer.Val(meeting.Location), LocationMaxLength).
		OptionalURL(FieldLocationURL, meeting.LocationURL).
		MaxLen(FieldDescription, pointer.Val(meeting.Description), DescriptionMaxLength).
		OptionalURL(FieldVirtualMeetingURL, meeting.VirtualMeetingURL).
		Custom(FieldVirtualMeetingURL, meeting.IsVirtual && meeting.VirtualMeetingURL == nil,
			"Required for virtual meetings")
}

// resolveBookTitle snapshots the title of bookID, or clears both fields when bookID is nil.
func (service *Service) resolveBookTitle(context context.Context, meeting *Meeting) error {
	if meeting.BookID == nil {
		meeting.BookTitle = nil
		return nil
	}

	found, err := service.books.GetBook(context, meeting.ClubID, *meeting.BookID)
	if err != nil {
		return err
	}
	meeting.BookTitle = pointer.To(found.Title)
	return nil
}

// # Meeting Management

/*
CreateMeeting schedules a meeting. The creator must belong to the club.

Parameters:
  - context: context.Context
  - clubID: string
  - creatorID: string
  - input: CreateInput

Returns:
  - *Meeting: Created meeting, status upcoming
  - error: NotFound (club or book), Forbidden, Validation
*/
func (service *Service) CreateMeeting(context context.Context, clubID, creatorID string, input CreateInput) (*Meeting, error) {
	if _, err := service.clubs.GetClub(context, clubID); err != nil {
		return nil, err
	}

	isMember, err := service.clubs.IsMember(context, clubID, creatorID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, apperr.Forbidden("Only club members can schedule meetings")
	}

	now := service.now().UTC()
	meeting := &Meeting{
		ID:                uuid.New(),
		ClubID:            clubID,
		BookID:            pointer.NonEmpty(input.BookID),
		ScheduledAt:       input.ScheduledAt.UTC(),
		Duration:          input.Duration,
		Location:          pointer.NonEmpty(input.Location),
		LocationURL:       pointer.NonEmpty(input.LocationURL),
		Description:       pointer.NonEmpty(input.Description),
		CreatedBy:         creatorID,
		Status:            StatusUpcoming,
		IsVirtual:         input.IsVirtual,
		VirtualMeetingURL: pointer.NonEmpty(input.VirtualMeetingURL),
		CreatedAt:         now,
	}

	validator := &validate.Validator{}
	validator.Future(FieldScheduledAt, meeting.ScheduledAt, now)
	validateMeeting(validator, meeting)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.resolveBookTitle(context, meeting); err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, meeting); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "meeting_created",
		slog.String("meeting_id", meeting.ID),
		slog.String("club_id", clubID),
		slog.Time("scheduled_at", meeting.ScheduledAt),
	)
	return meeting, nil
}

/*
ListMeetings returns a page of a club's meetings in schedule order.

Parameters:
  - context: context.Context
  - clubID: string
  - status: *Status (optional, matched against the derived status)
  - limit, offset: int

Returns:
  - []*Meeting: Meetings with derived status
  - int: Total matching count
  - error: NotFound (club), Validation
*/
func (service *Service) ListMeetings(context context.Context, clubID string, status *Status, limit, offset int) ([]*Meeting, int, error) {
	if _, err := service.clubs.GetClub(context, clubID); err != nil {
		return nil, 0, err
	}

	if status != nil {
		validator := &validate.Validator{}
		validator.OneOf(FieldStatus, string(*status), string(StatusUpcoming), string(StatusPast), string(StatusCancelled))
		if err := validator.Err(); err != nil {
			return nil, 0, err
		}
	}

	now := service.now()
	meetings, total, err := service.repo.List(context, clubID, Filter{Status: status, Now: now}, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	for _, meeting := range meetings {
		meeting.ResolveStatus(now)
	}
	return meetings, total, nil
}

// GetMeeting retrieves a meeting with its derived status.
func (service *Service) GetMeeting(context context.Context, clubID, meetingID string) (*Meeting, error) {
	meeting, err := service.repo.FindByID(context, clubID, meetingID)
	if err != nil {
		return nil, err
	}

	meeting.ResolveStatus(service.now())
	return meeting, nil
}

// findOwned loads a meeting and checks that actorID created it.
func (service *Service) findOwned(context context.Context, actorID, clubID, meetingID, action string) (*Meeting, error) {
	meeting, err := service.repo.FindByID(context, clubID, meetingID)
	if err != nil {
		return nil, err
	}

	if meeting.CreatedBy != actorID {
		return nil, apperr.Forbidden("Only the meeting creator can " + action + " this meeting")
	}
	return meeting, nil
}

/*
UpdateMeeting applies a partial update. Only the creator may update.

A changed BookID re-resolves the title snapshot.

Parameters:
  - context: context.Context
  - actorID: string
  - clubID: string
  - meetingID: string
  - input: UpdateInput

Returns:
  - *Meeting: Updated meeting
  - error: NotFound, Forbidden, Validation
*/
func (service *Service) UpdateMeeting(context context.Context, actorID, clubID, meetingID string, input UpdateInput) (*Meeting, error) {
	meeting, err := service.findOwned(context, actorID, clubID, meetingID, "update")
	if err != nil {
		return nil, err
	}

	if meeting.Status == StatusCancelled {
		return nil, validate.FieldError(FieldStatus, "Cancelled meetings cannot be edited")
	}

	now := service.now().UTC()
	validator := &validate.Validator{}

	if input.ScheduledAt != nil {
		meeting.ScheduledAt = input.ScheduledAt.UTC()
		validator.Future(FieldScheduledAt, meeting.ScheduledAt, now)
	}
	if input.Duration != nil {
		meeting.Duration = *input.Duration
	}
	if input.Location != nil {
		meeting.Location = pointer.NonEmpty(input.Location)
	}
	if input.LocationURL != nil {
		meeting.LocationURL = pointer.NonEmpty(input.LocationURL)
	}
	if input.Description != nil {
		meeting.Description = pointer.NonEmpty(input.Description)
	}
	if input.IsVirtual != nil {
		meeting.IsVirtual = *input.IsVirtual
	}
	if input.VirtualMeetingURL != nil {
		meeting.VirtualMeetingURL = pointer.NonEmpty(input.VirtualMeetingURL)
	}

	validateMeeting(validator, meeting)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if input.BookID != nil {
		bookID := pointer.NonEmpty(input.BookID)
		if !pointer.Equal(bookID, meeting.BookID) {
			meeting.BookID = bookID
			if err := service.resolveBookTitle(context, meeting); err != nil {
				return nil, err
			}
		}
	}

	meeting.UpdatedAt = &now
	if err := service.repo.Update(context, meeting); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "meeting_updated", slog.String("meeting_id", meetingID))

	meeting.ResolveStatus(now)
	return meeting, nil
}

/*
CancelMeeting marks a meeting cancelled. Only the creator may cancel.

The row is kept and stays visible in lists and lookups. Cancelling twice
is a no-op.

Parameters:
  - context: context.Context
  - actorID: string
  - clubID: string
  - meetingID: string

Returns:
  - *Meeting: The cancelled meeting
  - error: NotFound, Forbidden
*/
func (service *Service) CancelMeeting(context context.Context, actorID, clubID, meetingID string) (*Meeting, error) {
	meeting, err := service.findOwned(context, actorID, clubID, meetingID, "cancel")
	if err != nil {
		return nil, err
	}

	if meeting.Status == StatusCancelled {
		return meeting, nil
	}

	now := service.now().UTC()
	meeting.Status = StatusCancelled
	meeting.UpdatedAt = &now
	if err := service.repo.Update(context, meeting); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "meeting_cancelled",
		slog.String("meeting_id", meetingID),
		slog.String("club_id", clubID),
	)
	return meeting, nil
}

// # Attendance

/*
SetAttendance upserts userID's RSVP.

AttendeeCount is recomputed from the stored rows, so repeating the same
status never changes it.

Parameters:
  - context: context.Context
  - userID: string
  - clubID: string
  - meetingID: string
  - input: AttendanceInput

Returns:
  - *AttendanceResult: Stored RSVP and the meeting with its recomputed attendee count
  - error: NotFound, Validation (including cancelled meetings)
*/
func (service *Service) SetAttendance(context context.Context, userID, clubID, meetingID string, input AttendanceInput) (*AttendanceResult, error) {
	meeting, err := service.repo.FindByID(context, clubID, meetingID)
	if err != nil {
		return nil, err
	}

	if meeting.Status == StatusCancelled {
		return nil, validate.FieldError(FieldStatus, "Meeting has been cancelled")
	}

	attendance := &Attendance{
		MeetingID: meetingID,
		UserID:    userID,
		Status:    input.Status,
		Note:      pointer.NonEmpty(input.Note),
		UpdatedAt: service.now().UTC(),
	}

	validator := &validate.Validator{}
	validator.OneOf(FieldStatus, string(attendance.Status),
		string(AttendanceAttending), string(AttendanceNotAttending), string(AttendanceMaybe)).
		MaxLen(FieldNote, strings.TrimSpace(pointer.Val(attendance.Note)), NoteMaxLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.SetAttendance(context, attendance); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "meeting_attendance_set",
		slog.String("meeting_id", meetingID),
		slog.String("user_id", userID),
		slog.String("status", string(attendance.Status)),
	)

	meeting, err = service.GetMeeting(context, clubID, meetingID)
	if err != nil {
		return nil, err
	}
	return &AttendanceResult{Attendance: attendance, Meeting: meeting}, nil
}

// ListAttendance returns a page of RSVPs for a meeting.
func (service *Service) ListAttendance(context context.Context, clubID, meetingID string, limit, offset int) ([]*Attendance, int, error) {
	if _, err := service.repo.FindByID(context, clubID, meetingID); err != nil {
		return nil, 0, err
	}
	return service.repo.ListAttendance(context, meetingID, limit, offset)
}
