// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package meeting_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookcircle/internal/core/book"
	"github.com/taibuivan/bookcircle/internal/core/club"
	"github.com/taibuivan/bookcircle/internal/core/meeting"
	"github.com/taibuivan/bookcircle/internal/platform/apperr"
	"github.com/taibuivan/bookcircle/pkg/pointer"
)

type fixture struct {
	meetings *meeting.Service
	books    *book.Service
	clubs    *club.Service
	clubID   string
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{now: time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)}
	clock := func() time.Time { return f.now }
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	f.clubs = club.NewService(club.NewMemoryRepository(), logger).WithClock(clock)
	f.books = book.NewService(book.NewMemoryRepository(), f.clubs, logger).WithClock(clock)

	repo := meeting.NewMemoryRepository()
	f.clubs.OnDelete(repo)
	f.meetings = meeting.NewService(repo, f.clubs, f.books, logger).WithClock(clock)

	created, err := f.clubs.CreateClub(context.Background(), "host", "hana", club.CreateInput{
		Name:        "Poetry Circle",
		Description: "Reading modern poetry aloud every month.",
	})
	require.NoError(t, err)
	f.clubID = created.ID

	return f
}

func (f *fixture) schedule(t *testing.T) *meeting.Meeting {
	t.Helper()
	created, err := f.meetings.CreateMeeting(context.Background(), f.clubID, "host", meeting.CreateInput{
		ScheduledAt: f.now.Add(48 * time.Hour),
		Duration:    90,
		Location:    pointer.To("Central Library, room 4"),
	})
	require.NoError(t, err)
	return created
}

/*
TestAttendance_Scenario follows attend, maybe, cancel by stranger, cancel by creator.
*/
func TestAttendance_Scenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	scheduled := f.schedule(t)
	assert.Equal(t, meeting.StatusUpcoming, scheduled.Status)
	assert.Zero(t, scheduled.AttendeeCount)

	result, err := f.meetings.SetAttendance(ctx, "host", f.clubID, scheduled.ID, meeting.AttendanceInput{Status: meeting.AttendanceAttending})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Meeting.AttendeeCount)

	result, err = f.meetings.SetAttendance(ctx, "host", f.clubID, scheduled.ID, meeting.AttendanceInput{Status: meeting.AttendanceMaybe})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Meeting.AttendeeCount)

	_, err = f.meetings.CancelMeeting(ctx, "stranger", f.clubID, scheduled.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	cancelled, err := f.meetings.CancelMeeting(ctx, "host", f.clubID, scheduled.ID)
	require.NoError(t, err)
	assert.Equal(t, meeting.StatusCancelled, cancelled.Status)

	fetched, err := f.meetings.GetMeeting(ctx, f.clubID, scheduled.ID)
	require.NoError(t, err)
	assert.Equal(t, meeting.StatusCancelled, fetched.Status)

	listed, total, err := f.meetings.ListMeetings(ctx, f.clubID, nil, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, listed, 1)
	assert.Equal(t, meeting.StatusCancelled, listed[0].Status)

	_, err = f.meetings.SetAttendance(ctx, "host", f.clubID, scheduled.ID, meeting.AttendanceInput{Status: meeting.AttendanceAttending})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestAttendeeCount_Idempotent repeats the same status and mixes users.
*/
func TestAttendeeCount_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	scheduled := f.schedule(t)

	updates := []struct {
		user   string
		status meeting.AttendanceStatus
		want   int
	}{
		{"a", meeting.AttendanceAttending, 1},
		{"a", meeting.AttendanceAttending, 1},
		{"b", meeting.AttendanceAttending, 2},
		{"b", meeting.AttendanceNotAttending, 1},
		{"b", meeting.AttendanceNotAttending, 1},
		{"c", meeting.AttendanceMaybe, 1},
		{"a", meeting.AttendanceMaybe, 0},
		{"c", meeting.AttendanceAttending, 1},
	}

	for _, update := range updates {
		result, err := f.meetings.SetAttendance(ctx, update.user, f.clubID, scheduled.ID, meeting.AttendanceInput{Status: update.status})
		require.NoError(t, err)
		assert.Equal(t, update.want, result.Meeting.AttendeeCount, "after %s -> %s", update.user, update.status)
	}

	rsvps, total, err := f.meetings.ListAttendance(ctx, f.clubID, scheduled.ID, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, rsvps, 3)

	_, err = f.meetings.SetAttendance(ctx, "a", f.clubID, scheduled.ID, meeting.AttendanceInput{Status: "perhaps"})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestCreateMeeting_Rules covers membership, duration, scheduling and virtual URLs.
*/
func TestCreateMeeting_Rules(t *testing.T) {
	f := newFixture(t)

	valid := func() meeting.CreateInput {
		return meeting.CreateInput{ScheduledAt: f.now.Add(time.Hour), Duration: 60}
	}

	tests := []struct {
		name     string
		creator  string
		mutate   func(*meeting.CreateInput)
		wantCode string
	}{
		{"non_member", "stranger", func(*meeting.CreateInput) {}, apperr.CodeForbidden},
		{"too_short", "host", func(in *meeting.CreateInput) { in.Duration = 14 }, apperr.CodeValidation},
		{"too_long", "host", func(in *meeting.CreateInput) { in.Duration = 481 }, apperr.CodeValidation},
		{"in_the_past", "host", func(in *meeting.CreateInput) { in.ScheduledAt = f.now.Add(-time.Minute) }, apperr.CodeValidation},
		{"virtual_without_url", "host", func(in *meeting.CreateInput) { in.IsVirtual = true }, apperr.CodeValidation},
		{"bad_location_url", "host", func(in *meeting.CreateInput) { in.LocationURL = pointer.To("ftp://x") }, apperr.CodeValidation},
		{"unknown_book", "host", func(in *meeting.CreateInput) { in.BookID = pointer.To("missing") }, apperr.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid()
			tt.mutate(&input)

			_, err := f.meetings.CreateMeeting(context.Background(), f.clubID, tt.creator, input)
			assert.True(t, apperr.HasCode(err, tt.wantCode), "got %v", err)
		})
	}

	_, err := f.meetings.CreateMeeting(context.Background(), "missing", "host", valid())
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	input := valid()
	input.Duration = 15
	input.IsVirtual = true
	input.VirtualMeetingURL = pointer.To("https://meet.example.com/poetry")
	created, err := f.meetings.CreateMeeting(context.Background(), f.clubID, "host", input)
	require.NoError(t, err)
	assert.True(t, created.IsVirtual)
}

/*
TestUpdateMeeting_BookTitleSnapshot re-resolves the title only when the book changes.
*/
func TestUpdateMeeting_BookTitleSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.books.ProposeBook(ctx, f.clubID, "host", book.ProposeInput{Title: "Ariel", Author: "Sylvia Plath"})
	require.NoError(t, err)
	second, err := f.books.ProposeBook(ctx, f.clubID, "host", book.ProposeInput{Title: "Howl", Author: "Allen Ginsberg"})
	require.NoError(t, err)

	created, err := f.meetings.CreateMeeting(ctx, f.clubID, "host", meeting.CreateInput{
		ScheduledAt: f.now.Add(time.Hour),
		Duration:    60,
		BookID:      &first.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ariel", pointer.Val(created.BookTitle))

	_, err = f.meetings.UpdateMeeting(ctx, "stranger", f.clubID, created.ID, meeting.UpdateInput{Duration: pointer.To(30)})
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	updated, err := f.meetings.UpdateMeeting(ctx, "host", f.clubID, created.ID, meeting.UpdateInput{BookID: &second.ID})
	require.NoError(t, err)
	assert.Equal(t, "Howl", pointer.Val(updated.BookTitle))
	assert.NotNil(t, updated.UpdatedAt)

	updated, err = f.meetings.UpdateMeeting(ctx, "host", f.clubID, created.ID, meeting.UpdateInput{BookID: pointer.To("")})
	require.NoError(t, err)
	assert.Nil(t, updated.BookID)
	assert.Nil(t, updated.BookTitle)

	_, err = f.meetings.UpdateMeeting(ctx, "host", f.clubID, created.ID, meeting.UpdateInput{Duration: pointer.To(500)})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestStatus_DerivedPast reports an ended meeting as past and filters on it.
*/
func TestStatus_DerivedPast(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	scheduled := f.schedule(t)

	f.now = f.now.Add(72 * time.Hour)

	fetched, err := f.meetings.GetMeeting(ctx, f.clubID, scheduled.ID)
	require.NoError(t, err)
	assert.Equal(t, meeting.StatusPast, fetched.Status)

	past := meeting.StatusPast
	listed, total, err := f.meetings.ListMeetings(ctx, f.clubID, &past, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, listed, 1)

	upcoming := meeting.StatusUpcoming
	_, total, err = f.meetings.ListMeetings(ctx, f.clubID, &upcoming, 20, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
}

/*
TestDeleteClub_RemovesMeetings cascades through the registered cleaner.
*/
func TestDeleteClub_RemovesMeetings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	scheduled := f.schedule(t)

	require.NoError(t, f.clubs.DeleteClub(ctx, "host", f.clubID))

	_, err := f.meetings.GetMeeting(ctx, f.clubID, scheduled.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}
