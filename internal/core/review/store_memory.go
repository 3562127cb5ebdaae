// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"slices"
	"sync"

	"github.com/taibuivan/bookcircle/internal/platform/apperr"
	"github.com/taibuivan/bookcircle/pkg/pagination"
)

type authorKey struct {
	userID string
	bookID string
}

// MemoryRepository implements [Repository] with maps guarded by one lock.
type MemoryRepository struct {
	mu       sync.RWMutex
	reviews  map[string]Review
	order    []string
	byAuthor map[authorKey]string
	likes    map[string]map[string]struct{}
}

// NewMemoryRepository creates an empty in-memory review store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		reviews:  make(map[string]Review),
		byAuthor: make(map[authorKey]string),
		likes:    make(map[string]map[string]struct{}),
	}
}

func (repository *MemoryRepository) hydrate(review Review) *Review {
	review.LikesCount = len(repository.likes[review.ID])
	return &review
}

// List implements [Repository].
func (repository *MemoryRepository) List(_ context.Context, bookID string, limit, offset int) ([]*Review, int, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	var matched []*Review
	for _, id := range repository.order {
		if review := repository.reviews[id]; review.BookID == bookID {
			matched = append(matched, repository.hydrate(review))
		}
	}

	return pagination.Window(matched, pagination.Params{Limit: limit, Offset: offset}), len(matched), nil
}

// FindByID implements [Repository].
func (repository *MemoryRepository) FindByID(_ context.Context, bookID, reviewID string) (*Review, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	review, ok := repository.reviews[reviewID]
	if !ok || review.BookID != bookID {
		return nil, apperr.NotFound("Review")
	}
	return repository.hydrate(review), nil
}

// Create implements [Repository].
func (repository *MemoryRepository) Create(_ context.Context, review *Review) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	key := authorKey{userID: review.UserID, bookID: review.BookID}
	if _, exists := repository.byAuthor[key]; exists {
		return apperr.Conflict("You have already reviewed this book")
	}

	stored := *review
	stored.LikesCount = 0
	repository.reviews[review.ID] = stored
	repository.order = append(repository.order, review.ID)
	repository.byAuthor[key] = review.ID
	repository.likes[review.ID] = make(map[string]struct{})

	review.LikesCount = 0
	return nil
}

// Update implements [Repository].
func (repository *MemoryRepository) Update(_ context.Context, review *Review) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.reviews[review.ID]
	if !ok {
		return apperr.NotFound("Review")
	}

	stored.Rating = review.Rating
	stored.Title = review.Title
	stored.Content = review.Content
	stored.UpdatedAt = review.UpdatedAt
	repository.reviews[review.ID] = stored

	review.LikesCount = len(repository.likes[review.ID])
	return nil
}

// Delete implements [Repository].
func (repository *MemoryRepository) Delete(_ context.Context, reviewID string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	review, ok := repository.reviews[reviewID]
	if !ok {
		return apperr.NotFound("Review")
	}

	repository.remove(review)
	return nil
}

func (repository *MemoryRepository) remove(review Review) {
	delete(repository.reviews, review.ID)
	delete(repository.likes, review.ID)
	delete(repository.byAuthor, authorKey{userID: review.UserID, bookID: review.BookID})
	repository.order = slices.DeleteFunc(repository.order, func(id string) bool { return id == review.ID })
}

// AddLike implements [Repository].
func (repository *MemoryRepository) AddLike(_ context.Context, reviewID, userID string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	likers, ok := repository.likes[reviewID]
	if !ok {
		return apperr.NotFound("Review")
	}
	if _, liked := likers[userID]; liked {
		return apperr.Conflict("Already liked this review")
	}

	likers[userID] = struct{}{}
	return nil
}

// RemoveLike implements [Repository].
func (repository *MemoryRepository) RemoveLike(_ context.Context, reviewID, userID string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, liked := repository.likes[reviewID][userID]; !liked {
		return apperr.NotFound("Like")
	}

	delete(repository.likes[reviewID], userID)
	return nil
}

// DeleteByClub implements [Repository].
func (repository *MemoryRepository) DeleteByClub(_ context.Context, clubID string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, review := range repository.reviews {
		if review.ClubID == clubID {
			repository.remove(review)
		}
	}
	return nil
}
