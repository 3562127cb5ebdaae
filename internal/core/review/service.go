// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/bookcircle/internal/core/book"
	"github.com/taibuivan/bookcircle/internal/platform/apperr"
	"github.com/taibuivan/bookcircle/internal/platform/validate"
	"github.com/taibuivan/bookcircle/pkg/uuid"
)

// Books resolves the book a review is attached to.
type Books interface {
	GetBook(context context.Context, clubID, bookID string) (*book.Book, error)
}

// Service implements review authoring and likes.
type Service struct {
	repo   Repository
	books  Books
	now    func() time.Time
	logger *slog.Logger
}

// NewService constructs a new review [Service].
func NewService(repo Repository, books Books, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
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

// Input carries the editable fields of a review.
type Input struct {
	Rating  int    `json:"rating"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdateInput carries a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Rating  *int    `json:"rating"`
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func validateReview(review *Review) error {
	validator := &validate.Validator{}
	validator.Range(FieldRating, review.Rating, RatingMin, RatingMax).
		Required(FieldTitle, review.Title).
		MaxLen(FieldTitle, review.Title, TitleMaxLength).
		Required(FieldContent, review.Content).
		MaxLen(FieldContent, review.Content, ContentMaxLength)
	return validator.Err()
}

/*
CreateReview publishes userID's review of a book.

Parameters:
  - context: context.Context
  - userID, username: string (author)
  - clubID, bookID: string
  - input: Input

Returns:
  - *Review: Created review
  - error: NotFound (book), Conflict (already reviewed), Validation
*/
func (service *Service) CreateReview(context context.Context, userID, username, clubID, bookID string, input Input) (*Review, error) {
	if _, err := service.books.GetBook(context, clubID, bookID); err != nil {
		return nil, err
	}

	review := &Review{
		ID:        uuid.New(),
		BookID:    bookID,
		ClubID:    clubID,
		UserID:    userID,
		Username:  username,
		Rating:    input.Rating,
		Title:     strings.TrimSpace(input.Title),
		Content:   strings.TrimSpace(input.Content),
		CreatedAt: service.now().UTC(),
	}

	if err := validateReview(review); err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, review); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "review_created",
		slog.String("review_id", review.ID),
		slog.String("book_id", bookID),
		slog.Int("rating", review.Rating),
	)
	return review, nil
}

// ListReviews returns a page of a book's reviews.
func (service *Service) ListReviews(context context.Context, clubID, bookID string, limit, offset int) ([]*Review, int, error) {
	if _, err := service.books.GetBook(context, clubID, bookID); err != nil {
		return nil, 0, err
	}
	return service.repo.List(context, bookID, limit, offset)
}

// findOwned loads a review of a book in the club and checks that actorID wrote it.
func (service *Service) findOwned(context context.Context, actorID, clubID, bookID, reviewID, action string) (*Review, error) {
	if _, err := service.books.GetBook(context, clubID, bookID); err != nil {
		return nil, err
	}

	review, err := service.repo.FindByID(context, bookID, reviewID)
	if err != nil {
		return nil, err
	}

	if review.UserID != actorID {
		return nil, apperr.Forbidden("Only the author can " + action + " this review")
	}
	return review, nil
}

/*
UpdateReview edits a review. Only its author may do so.

Parameters:
  - context: context.Context
  - actorID: string
  - clubID, bookID, reviewID: string
  - input: UpdateInput

Returns:
  - *Review: Updated review
  - error: NotFound, Forbidden, Validation
*/
func (service *Service) UpdateReview(context context.Context, actorID, clubID, bookID, reviewID string, input UpdateInput) (*Review, error) {
	review, err := service.findOwned(context, actorID, clubID, bookID, reviewID, "update")
	if err != nil {
		return nil, err
	}

	if input.Rating != nil {
		review.Rating = *input.Rating
	}
	if input.Title != nil {
		review.Title = strings.TrimSpace(*input.Title)
	}
	if input.Content != nil {
		review.Content = strings.TrimSpace(*input.Content)
	}

	if err := validateReview(review); err != nil {
		return nil, err
	}

	now := service.now().UTC()
	review.UpdatedAt = &now
	if err := service.repo.Update(context, review); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "review_updated", slog.String("review_id", reviewID))
	return review, nil
}

// DeleteReview removes a review. Only its author may do so.
func (service *Service) DeleteReview(context context.Context, actorID, clubID, bookID, reviewID string) error {
	if _, err := service.findOwned(context, actorID, clubID, bookID, reviewID, "delete"); err != nil {
		return err
	}

	if err := service.repo.Delete(context, reviewID); err != nil {
		return err
	}

	service.logger.InfoContext(context, "review_deleted", slog.String("review_id", reviewID))
	return nil
}

/*
LikeReview adds userID to the review's like set.

Parameters:
  - context: context.Context
  - userID: string
  - clubID, bookID, reviewID: string

Returns:
  - *Review: Review with its recomputed like count
  - error: NotFound, Conflict (already liked)
*/
func (service *Service) LikeReview(context context.Context, userID, clubID, bookID, reviewID string) (*Review, error) {
	if _, err := service.lookup(context, clubID, bookID, reviewID); err != nil {
		return nil, err
	}

	if err := service.repo.AddLike(context, reviewID, userID); err != nil {
		return nil, err
	}
	return service.repo.FindByID(context, bookID, reviewID)
}

// UnlikeReview withdraws userID's like; NotFound if there was none.
func (service *Service) UnlikeReview(context context.Context, userID, clubID, bookID, reviewID string) (*Review, error) {
	if _, err := service.lookup(context, clubID, bookID, reviewID); err != nil {
		return nil, err
	}

	if err := service.repo.RemoveLike(context, reviewID, userID); err != nil {
		return nil, err
	}
	return service.repo.FindByID(context, bookID, reviewID)
}

func (service *Service) lookup(context context.Context, clubID, bookID, reviewID string) (*Review, error) {
	if _, err := service.books.GetBook(context, clubID, bookID); err != nil {
		return nil, err
	}
	return service.repo.FindByID(context, bookID, reviewID)
}
