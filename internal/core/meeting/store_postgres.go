// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package meeting

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/bookcircle/internal/platform/apperr"
	"github.com/taibuivan/bookcircle/internal/platform/dberr"
	"github.com/taibuivan/bookcircle/internal/platform/postgres"
	"github.com/taibuivan/bookcircle/pkg/uuid"
)

// PostgresRepository implements [Repository] on core.meeting and core.meetingattendance.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a PostgreSQL-backed meeting store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectMeeting = `
	SELECT
		m.id, m.clubid, m.bookid, m.booktitle, m.scheduledat, m.duration,
		m.location, m.locationurl, m.description, m.createdby, m.status,
		m.isvirtual, m.virtualmeetingurl, m.createdat, m.updatedat,
		(SELECT COUNT(*) FROM core.meetingattendance a
		  WHERE a.meetingid = m.id AND a.status = 'attending') AS attendeecount
	FROM core.meeting m`

func scanMeeting(row pgx.Row) (*Meeting, error) {
	meeting := &Meeting{}
	err := row.Scan(
		&meeting.ID, &meeting.ClubID, &meeting.BookID, &meeting.BookTitle, &meeting.ScheduledAt, &meeting.Duration,
		&meeting.Location, &meeting.LocationURL, &meeting.Description, &meeting.CreatedBy, &meeting.Status,
		&meeting.IsVirtual, &meeting.VirtualMeetingURL, &meeting.CreatedAt, &meeting.UpdatedAt,
		&meeting.AttendeeCount,
	)
	return meeting, err
}

// endsAt is the SQL form of [Meeting.EndsAt].
const endsAt = `(m.scheduledat + m.duration * INTERVAL '1 minute')`

// List implements [Repository].
func (repository *PostgresRepository) List(context context.Context, clubID string, filter Filter, limit, offset int) ([]*Meeting, int, error) {
	if !uuid.Valid(clubID) {
		return []*Meeting{}, 0, nil
	}

	var args postgres.Args
	var where strings.Builder
	where.WriteString(" WHERE m.clubid = " + args.Add(clubID))

	if filter.Status != nil {
		switch *filter.Status {
		case StatusCancelled:
			where.WriteString(" AND m.status = 'cancelled'")
		case StatusPast:
			where.WriteString(" AND m.status = 'upcoming' AND " + endsAt + " < " + args.Add(filter.Now))
		case StatusUpcoming:
			where.WriteString(" AND m.status = 'upcoming' AND " + endsAt + " >= " + args.Add(filter.Now))
		default:
			where.WriteString(" AND FALSE")
		}
	}

	var total int
	if err := repository.db.QueryRow(context,
		`SELECT COUNT(*) FROM core.meeting m`+where.String(), args.Values()...,
	).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "Meeting", "count_meetings")
	}

	query := selectMeeting + where.String() +
		" ORDER BY m.scheduledat ASC, m.id ASC LIMIT " + args.Add(limit) + " OFFSET " + args.Add(offset)

	rows, err := repository.db.Query(context, query, args.Values()...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Meeting", "list_meetings")
	}
	defer rows.Close()

	meetings := make([]*Meeting, 0, limit)
	for rows.Next() {
		meeting, err := scanMeeting(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "Meeting", "scan_meeting")
		}
		meetings = append(meetings, meeting)
	}

	return meetings, total, dberr.Wrap(rows.Err(), "Meeting", "list_meetings")
}

// FindByID implements [Repository].
func (repository *PostgresRepository) FindByID(context context.Context, clubID, meetingID string) (*Meeting, error) {
	if !uuid.Valid(clubID) || !uuid.Valid(meetingID) {
		return nil, apperr.NotFound("Meeting")
	}

	meeting, err := scanMeeting(repository.db.QueryRow(context,
		selectMeeting+` WHERE m.id = $1 AND m.clubid = $2`, meetingID, clubID))
	if err != nil {
		return nil, dberr.Wrap(err, "Meeting", "find_meeting")
	}
	return meeting, nil
}

// Create implements [Repository].
func (repository *PostgresRepository) Create(context context.Context, meeting *Meeting) error {
	const query = `
		INSERT INTO core.meeting (
			id, clubid, bookid, booktitle, scheduledat, duration, location, locationurl,
			description, createdby, status, isvirtual, virtualmeetingurl, createdat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := repository.db.Exec(context, query,
		meeting.ID, meeting.ClubID, meeting.BookID, meeting.BookTitle, meeting.ScheduledAt, meeting.Duration,
		meeting.Location, meeting.LocationURL, meeting.Description, meeting.CreatedBy, meeting.Status,
		meeting.IsVirtual, meeting.VirtualMeetingURL, meeting.CreatedAt,
	)
	if dberr.IsForeignKeyViolation(err) {
		return apperr.NotFound("Club")
	}
	if err != nil {
		return dberr.Wrap(err, "Meeting", "insert_meeting")
	}

	meeting.AttendeeCount = 0
	return nil
}

// Update implements [Repository].
func (repository *PostgresRepository) Update(context context.Context, meeting *Meeting) error {
	const query = `
		UPDATE core.meeting SET
			bookid = $2, booktitle = $3, scheduledat = $4, duration = $5, location = $6,
			locationurl = $7, description = $8, status = $9, isvirtual = $10,
			virtualmeetingurl = $11, updatedat = $12
		WHERE id = $1
		RETURNING (SELECT COUNT(*) FROM core.meetingattendance a WHERE a.meetingid = $1 AND a.status = 'attending')`

	err := repository.db.QueryRow(context, query,
		meeting.ID, meeting.BookID, meeting.BookTitle, meeting.ScheduledAt, meeting.Duration, meeting.Location,
		meeting.LocationURL, meeting.Description, meeting.Status, meeting.IsVirtual,
		meeting.VirtualMeetingURL, meeting.UpdatedAt,
	).Scan(&meeting.AttendeeCount)

	return dberr.Wrap(err, "Meeting", "update_meeting")
}

// SetAttendance implements [Repository].
func (repository *PostgresRepository) SetAttendance(context context.Context, attendance *Attendance) error {
	const query = `
		INSERT INTO core.meetingattendance (meetingid, userid, status, note, updatedat)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (meetingid, userid)
		DO UPDATE SET status = EXCLUDED.status, note = EXCLUDED.note, updatedat = EXCLUDED.updatedat`

	_, err := repository.db.Exec(context, query,
		attendance.MeetingID, attendance.UserID, attendance.Status, attendance.Note, attendance.UpdatedAt,
	)
	if dberr.IsForeignKeyViolation(err) {
		return apperr.NotFound("Meeting")
	}
	return dberr.Wrap(err, "Attendance", "upsert_attendance")
}

// ListAttendance implements [Repository].
func (repository *PostgresRepository) ListAttendance(context context.Context, meetingID string, limit, offset int) ([]*Attendance, int, error) {
	if !uuid.Valid(meetingID) {
		return []*Attendance{}, 0, nil
	}

	var total int
	if err := repository.db.QueryRow(context,
		`SELECT COUNT(*) FROM core.meetingattendance WHERE meetingid = $1`, meetingID,
	).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "Attendance", "count_attendance")
	}

	rows, err := repository.db.Query(context, `
		SELECT meetingid, userid, status, note, updatedat
		FROM core.meetingattendance
		WHERE meetingid = $1
		ORDER BY updatedat ASC, userid ASC
		LIMIT $2 OFFSET $3`, meetingID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Attendance", "list_attendance")
	}
	defer rows.Close()

	rsvps := make([]*Attendance, 0, limit)
	for rows.Next() {
		rsvp := &Attendance{}
		if err := rows.Scan(&rsvp.MeetingID, &rsvp.UserID, &rsvp.Status, &rsvp.Note, &rsvp.UpdatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "Attendance", "scan_attendance")
		}
		rsvps = append(rsvps, rsvp)
	}

	return rsvps, total, dberr.Wrap(rows.Err(), "Attendance", "list_attendance")
}

// DeleteByClub implements [Repository]. Attendance cascades with each meeting.
func (repository *PostgresRepository) DeleteByClub(context context.Context, clubID string) error {
	if !uuid.Valid(clubID) {
		return nil
	}

	_, err := repository.db.Exec(context, `DELETE FROM core.meeting WHERE clubid = $1`, clubID)
	return dberr.Wrap(err, "Meeting", "delete_club_meetings")
}
