// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package meeting

import "context"

// # Data Access Contract

// Repository defines the persistence contract for meetings and attendance.
type Repository interface {

	/*
		List returns a club's meetings ordered by scheduled time.

		Parameters:
		  - context: context.Context
		  - clubID: string
		  - filter: Filter
		  - limit: int
		  - offset: int

		Returns:
		  - []*Meeting: The requested window with AttendeeCount populated
		  - int: Total matching count
		  - error: Storage failures
	*/
	List(context context.Context, clubID string, filter Filter, limit, offset int) ([]*Meeting, int, error)

	// FindByID retrieves a meeting inside a club, or apperr.NotFound.
	FindByID(context context.Context, clubID, meetingID string) (*Meeting, error)

	// Create persists a new meeting.
	Create(context context.Context, meeting *Meeting) error

	// Update persists every mutable field, including Status.
	Update(context context.Context, meeting *Meeting) error

	/*
		SetAttendance upserts an RSVP keyed by (user, meeting).

		Parameters:
		  - context: context.Context
		  - attendance: *Attendance

		Returns:
		  - error: apperr.NotFound (meeting) or persistence failures
	*/
	SetAttendance(context context.Context, attendance *Attendance) error

	// ListAttendance returns a page of RSVPs for a meeting, oldest first.
	ListAttendance(context context.Context, meetingID string, limit, offset int) ([]*Attendance, int, error)

	// DeleteByClub removes every meeting of a club along with its attendance.
	DeleteByClub(context context.Context, clubID string) error
}
