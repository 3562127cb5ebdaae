// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package meeting

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/taibuivan/bookcircle/internal/platform/apperr"
	"github.com/taibuivan/bookcircle/pkg/pagination"
)

// MemoryRepository implements [Repository] with maps guarded by one lock.
type MemoryRepository struct {
	mu         sync.RWMutex
	meetings   map[string]Meeting
	attendance map[string]map[string]Attendance
}

// NewMemoryRepository creates an empty in-memory meeting store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		meetings:   make(map[string]Meeting),
		attendance: make(map[string]map[string]Attendance),
	}
}

func (repository *MemoryRepository) hydrate(meeting Meeting) *Meeting {
	meeting.AttendeeCount = 0
	for _, rsvp := range repository.attendance[meeting.ID] {
		if rsvp.Status == AttendanceAttending {
			meeting.AttendeeCount++
		}
	}
	return &meeting
}

// List implements [Repository].
func (repository *MemoryRepository) List(_ context.Context, clubID string, filter Filter, limit, offset int) ([]*Meeting, int, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	var matched []*Meeting
	for _, meeting := range repository.meetings {
		if meeting.ClubID != clubID {
			continue
		}
		if filter.Status != nil {
			probe := meeting
			probe.ResolveStatus(filter.Now)
			if probe.Status != *filter.Status {
				continue
			}
		}
		matched = append(matched, repository.hydrate(meeting))
	}

	slices.SortFunc(matched, func(a, b *Meeting) int {
		if c := a.ScheduledAt.Compare(b.ScheduledAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	return pagination.Window(matched, pagination.Params{Limit: limit, Offset: offset}), len(matched), nil
}

// FindByID implements [Repository].
func (repository *MemoryRepository) FindByID(_ context.Context, clubID, meetingID string) (*Meeting, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	meeting, ok := repository.meetings[meetingID]
	if !ok || meeting.ClubID != clubID {
		return nil, apperr.NotFound("Meeting")
	}
	return repository.hydrate(meeting), nil
}

// Create implements [Repository].
func (repository *MemoryRepository) Create(_ context.Context, meeting *Meeting) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, exists := repository.meetings[meeting.ID]; exists {
		return apperr.Conflict("Meeting already exists")
	}

	stored := *meeting
	stored.AttendeeCount = 0
	repository.meetings[meeting.ID] = stored
	repository.attendance[meeting.ID] = make(map[string]Attendance)

	meeting.AttendeeCount = 0
	return nil
}

// Update implements [Repository].
func (repository *MemoryRepository) Update(_ context.Context, meeting *Meeting) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.meetings[meeting.ID]; !ok {
		return apperr.NotFound("Meeting")
	}

	stored := *meeting
	stored.AttendeeCount = 0
	repository.meetings[meeting.ID] = stored

	meeting.AttendeeCount = repository.hydrate(stored).AttendeeCount
	return nil
}

// SetAttendance implements [Repository].
func (repository *MemoryRepository) SetAttendance(_ context.Context, attendance *Attendance) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	rsvps, ok := repository.attendance[attendance.MeetingID]
	if !ok {
		return apperr.NotFound("Meeting")
	}

	rsvps[attendance.UserID] = *attendance
	return nil
}

// ListAttendance implements [Repository].
func (repository *MemoryRepository) ListAttendance(_ context.Context, meetingID string, limit, offset int) ([]*Attendance, int, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	rsvps := make([]*Attendance, 0, len(repository.attendance[meetingID]))
	for _, rsvp := range repository.attendance[meetingID] {
		rsvps = append(rsvps, &rsvp)
	}

	slices.SortFunc(rsvps, func(a, b *Attendance) int {
		if c := a.UpdatedAt.Compare(b.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.UserID, b.UserID)
	})

	return pagination.Window(rsvps, pagination.Params{Limit: limit, Offset: offset}), len(rsvps), nil
}

// DeleteByClub implements [Repository].
func (repository *MemoryRepository) DeleteByClub(_ context.Context, clubID string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for id, meeting := range repository.meetings {
		if meeting.ClubID == clubID {
			delete(repository.meetings, id)
			delete(repository.attendance, id)
		}
	}
	return nil
}
