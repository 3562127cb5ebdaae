// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package club

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/taibuivan/bookcircle/internal/platform/apperr"
	"github.com/taibuivan/bookcircle/pkg/pagination"
	"github.com/taibuivan/bookcircle/pkg/textmatch"
)

// MemoryRepository implements [Repository] with maps guarded by one lock.
//
// Holding a single lock across the club and membership maps makes every
// read of MemberCount consistent with the roster it is computed from.
type MemoryRepository struct {
	mu      sync.RWMutex
	clubs   map[string]Club
	order   []string // club IDs in creation order
	members map[string]map[string]Member
}

// NewMemoryRepository creates an empty in-memory club store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		clubs:   make(map[string]Club),
		members: make(map[string]map[string]Member),
	}
}

// List implements [Repository].
func (repository *MemoryRepository) List(_ context.Context, filter Filter, limit, offset int) ([]*Club, int, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	var matched []*Club
	for _, id := range repository.order {
		club := repository.clubs[id]

		if filter.Theme != nil && !strings.EqualFold(club.Theme, *filter.Theme) {
			continue
		}
		if filter.Search != "" && !textmatch.AnyContains(filter.Search, club.Name, club.Description) {
			continue
		}

		matched = append(matched, repository.hydrate(club))
	}

	return pagination.Window(matched, pagination.Params{Limit: limit, Offset: offset}), len(matched), nil
}

// FindByID implements [Repository].
func (repository *MemoryRepository) FindByID(_ context.Context, id string) (*Club, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	club, ok := repository.clubs[id]
	if !ok {
		return nil, apperr.NotFound("Club")
	}
	return repository.hydrate(club), nil
}

// Create implements [Repository].
func (repository *MemoryRepository) Create(_ context.Context, club *Club, owner *Member) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, exists := repository.clubs[club.ID]; exists {
		return apperr.Conflict("Club already exists")
	}

	stored := *club
	stored.MemberCount = 0
	repository.clubs[club.ID] = stored
	repository.order = append(repository.order, club.ID)
	repository.members[club.ID] = map[string]Member{owner.UserID: *owner}

	club.MemberCount = 1
	return nil
}

// Update implements [Repository].
func (repository *MemoryRepository) Update(_ context.Context, club *Club) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.clubs[club.ID]
	if !ok {
		return apperr.NotFound("Club")
	}

	stored.Name = club.Name
	stored.Description = club.Description
	stored.Theme = club.Theme
	stored.IsPrivate = club.IsPrivate
	stored.UpdatedAt = club.UpdatedAt
	repository.clubs[club.ID] = stored

	club.MemberCount = len(repository.members[club.ID])
	return nil
}

// Delete implements [Repository].
func (repository *MemoryRepository) Delete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.clubs[id]; !ok {
		return apperr.NotFound("Club")
	}

	delete(repository.clubs, id)
	delete(repository.members, id)
	repository.order = slices.DeleteFunc(repository.order, func(candidate string) bool { return candidate == id })
	return nil
}

// FindMember implements [Repository].
func (repository *MemoryRepository) FindMember(_ context.Context, clubID, userID string) (*Member, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	member, ok := repository.members[clubID][userID]
	if !ok {
		return nil, apperr.NotFound("Membership")
	}
	return &member, nil
}

// ListMembers implements [Repository].
func (repository *MemoryRepository) ListMembers(_ context.Context, clubID string, limit, offset int) ([]*Member, int, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	roster := make([]*Member, 0, len(repository.members[clubID]))
	for _, member := range repository.members[clubID] {
		roster = append(roster, &member)
	}

	slices.SortFunc(roster, func(a, b *Member) int {
		if c := a.JoinedAt.Compare(b.JoinedAt); c != 0 {
			return c
		}
		return strings.Compare(a.UserID, b.UserID)
	})

	return pagination.Window(roster, pagination.Params{Limit: limit, Offset: offset}), len(roster), nil
}

// AddMember implements [Repository].
func (repository *MemoryRepository) AddMember(_ context.Context, member *Member) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	roster, ok := repository.members[member.ClubID]
	if _, exists := repository.clubs[member.ClubID]; !exists || !ok {
		return apperr.NotFound("Club")
	}
	if _, exists := roster[member.UserID]; exists {
		return apperr.Conflict("Already a member of this club")
	}

	roster[member.UserID] = *member
	return nil
}

// RemoveMember implements [Repository].
func (repository *MemoryRepository) RemoveMember(_ context.Context, clubID, userID string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.members[clubID][userID]; !ok {
		return apperr.NotFound("Membership")
	}

	delete(repository.members[clubID], userID)
	return nil
}

// IncrementBooksRead implements [Repository].
func (repository *MemoryRepository) IncrementBooksRead(_ context.Context, clubID, userID string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	member, ok := repository.members[clubID][userID]
	if !ok {
		return apperr.NotFound("Membership")
	}

	member.BooksRead++
	repository.members[clubID][userID] = member
	return nil
}

// hydrate copies a stored club and fills in the derived count. Callers hold the lock.
func (repository *MemoryRepository) hydrate(club Club) *Club {
	club.MemberCount = len(repository.members[club.ID])
	return &club
}
