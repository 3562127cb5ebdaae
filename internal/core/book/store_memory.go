// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"slices"
	"sync"

	"github.com/taibuivan/bookcircle/internal/platform/apperr"
	"github.com/taibuivan/bookcircle/pkg/pagination"
)

type progressKey struct {
	userID string
	bookID string
}

// MemoryRepository implements [Repository] with maps guarded by one lock.
type MemoryRepository struct {
	mu       sync.RWMutex
	books    map[string]Book
	order    []string
	votes    map[string]map[string]struct{}
	progress map[progressKey]Progress
}

// NewMemoryRepository creates an empty in-memory book store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		books:    make(map[string]Book),
		votes:    make(map[string]map[string]struct{}),
		progress: make(map[progressKey]Progress),
	}
}

func (repository *MemoryRepository) hydrate(book Book) *Book {
	book.Votes = len(repository.votes[book.ID])
	return &book
}

// List implements [Repository].
func (repository *MemoryRepository) List(_ context.Context, clubID string, filter Filter, limit, offset int) ([]*Book, int, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	var matched []*Book
	for _, id := range repository.order {
		book := repository.books[id]
		if book.ClubID != clubID {
			continue
		}
		if filter.Status != nil && book.Status != *filter.Status {
			continue
		}
		matched = append(matched, repository.hydrate(book))
	}

	return pagination.Window(matched, pagination.Params{Limit: limit, Offset: offset}), len(matched), nil
}

// FindByID implements [Repository].
func (repository *MemoryRepository) FindByID(_ context.Context, clubID, bookID string) (*Book, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	book, ok := repository.books[bookID]
	if !ok || book.ClubID != clubID {
		return nil, apperr.NotFound("Book")
	}
	return repository.hydrate(book), nil
}

// Create implements [Repository].
func (repository *MemoryRepository) Create(_ context.Context, book *Book) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, exists := repository.books[book.ID]; exists {
		return apperr.Conflict("Book already exists")
	}

	stored := *book
	stored.Votes = 0
	repository.books[book.ID] = stored
	repository.order = append(repository.order, book.ID)
	repository.votes[book.ID] = map[string]struct{}{book.ProposedBy: {}}

	book.Votes = 1
	return nil
}

// UpdateStatus implements [Repository].
func (repository *MemoryRepository) UpdateStatus(_ context.Context, book *Book) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.books[book.ID]
	if !ok {
		return apperr.NotFound("Book")
	}

	stored.Status = book.Status
	repository.books[book.ID] = stored
	book.Votes = len(repository.votes[book.ID])
	return nil
}

// AddVote implements [Repository].
func (repository *MemoryRepository) AddVote(_ context.Context, bookID, userID string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	voters, ok := repository.votes[bookID]
	if !ok {
		return apperr.NotFound("Book")
	}
	if _, voted := voters[userID]; voted {
		return apperr.Conflict("Already voted for this book")
	}

	voters[userID] = struct{}{}
	return nil
}

// RemoveVote implements [Repository].
func (repository *MemoryRepository) RemoveVote(_ context.Context, bookID, userID string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, voted := repository.votes[bookID][userID]; !voted {
		return apperr.NotFound("Vote")
	}

	delete(repository.votes[bookID], userID)
	return nil
}

// FindProgress implements [Repository].
func (repository *MemoryRepository) FindProgress(_ context.Context, userID, bookID string) (*Progress, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	progress, ok := repository.progress[progressKey{userID: userID, bookID: bookID}]
	if !ok {
		return nil, apperr.NotFound("Reading progress")
	}
	return &progress, nil
}

// SaveProgress implements [Repository].
func (repository *MemoryRepository) SaveProgress(_ context.Context, progress *Progress) (*Progress, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.books[progress.BookID]; !ok {
		return nil, apperr.NotFound("Book")
	}

	key := progressKey{userID: progress.UserID, bookID: progress.BookID}
	previous, existed := repository.progress[key]
	repository.progress[key] = *progress

	if !existed {
		return nil, nil
	}
	return &previous, nil
}

// DeleteByClub implements [Repository].
func (repository *MemoryRepository) DeleteByClub(_ context.Context, clubID string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	removed := make(map[string]bool)
	for id, book := range repository.books {
		if book.ClubID == clubID {
			removed[id] = true
			delete(repository.books, id)
			delete(repository.votes, id)
		}
	}

	for key := range repository.progress {
		if removed[key.bookID] {
			delete(repository.progress, key)
		}
	}

	repository.order = slices.DeleteFunc(repository.order, func(id string) bool { return removed[id] })
	return nil
}
