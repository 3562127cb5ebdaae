// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package meeting schedules club meetings and tracks who is coming.

# Core Responsibility

  - Scheduling: A [Meeting] belongs to one club and may discuss one of its books.
  - Attendance: One [Attendance] row per (user, meeting), written by upsert.
  - Lifecycle: Cancelling keeps the row; "past" is derived from the clock.

AttendeeCount is the number of attendance rows whose status is attending,
computed at read time.
*/
package meeting

import "time"

// # Meeting Enums

// Status is the lifecycle state reported to clients.
//
// Only upcoming and cancelled are stored; past is derived on read.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusPast      Status = "past"
	StatusCancelled Status = "cancelled"
)

// AttendanceStatus is a member's RSVP.
type AttendanceStatus string

const (
	AttendanceAttending    AttendanceStatus = "attending"
	AttendanceNotAttending AttendanceStatus = "not-attending"
	AttendanceMaybe        AttendanceStatus = "maybe"
)

// # Core Entities

// Meeting is a scheduled club gathering, physical or virtual.
type Meeting struct {
	ID                string     `json:"id"`
	ClubID            string     `json:"clubId"`
	BookID            *string    `json:"bookId,omitempty"`
	BookTitle         *string    `json:"bookTitle,omitempty"` // Snapshot taken when BookID is set
	ScheduledAt       time.Time  `json:"scheduledAt"`
	Duration          int        `json:"duration"` // Minutes
	Location          *string    `json:"location,omitempty"`
	LocationURL       *string    `json:"locationUrl,omitempty"`
	Description       *string    `json:"description,omitempty"`
	CreatedBy         string     `json:"createdBy"`
	AttendeeCount     int        `json:"attendeeCount"`
	Status            Status     `json:"status"`
	IsVirtual         bool       `json:"isVirtual"`
	VirtualMeetingURL *string    `json:"virtualMeetingUrl,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         *time.Time `json:"updatedAt,omitempty"`
}

// EndsAt returns the scheduled end of the meeting.
func (meeting *Meeting) EndsAt() time.Time {
	return meeting.ScheduledAt.Add(time.Duration(meeting.Duration) * time.Minute)
}

// ResolveStatus reports an upcoming meeting that has already ended as past.
func (meeting *Meeting) ResolveStatus(now time.Time) {
	if meeting.Status == StatusUpcoming && meeting.EndsAt().Before(now) {
		meeting.Status = StatusPast
	}
}

// Attendance is one user's RSVP for one meeting.
type Attendance struct {
	MeetingID string           `json:"meetingId"`
	UserID    string           `json:"userId"`
	Status    AttendanceStatus `json:"status"`
	Note      *string          `json:"note,omitempty"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// # Search & Filtering

// Filter narrows a club's meeting list.
type Filter struct {
	// Status uses the derived value, so past and upcoming depend on Now.
	Status *Status
	Now    time.Time
}

// # Field Identifiers

const (
	FieldScheduledAt       = "scheduledAt"
	FieldDuration          = "duration"
	FieldBookID            = "bookId"
	FieldLocation          = "location"
	FieldLocationURL       = "locationUrl"
	FieldDescription       = "description"
	FieldVirtualMeetingURL = "virtualMeetingUrl"
	FieldStatus            = "status"
	FieldNote              = "note"
)

// # Constraints

const (
	DurationMin          = 15
	DurationMax          = 480
	LocationMaxLength    = 200
	DescriptionMaxLength = 2000
	NoteMaxLength        = 500
)
