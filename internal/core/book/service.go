// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/taibuivan/bookcircle/internal/core/club"
	"github.com/taibuivan/bookcircle/internal/platform/apperr"
	"github.com/taibuivan/bookcircle/internal/platform/validate"
	"github.com/taibuivan/bookcircle/pkg/pointer"
	"github.com/taibuivan/bookcircle/pkg/uuid"
)

// # Collaborators

// Clubs is the slice of the club service the book manager depends on.
type Clubs interface {
	GetClub(context context.Context, id string) (*club.Club, error)
	MembershipOf(context context.Context, clubID, userID string) (*club.Member, error)
	RecordBookCompleted(context context.Context, clubID, userID string) error
}

// # Service Layer

// Service implements proposals, voting and reading progress.
type Service struct {
	repo   Repository
	clubs  Clubs
	now    func() time.Time
	logger *slog.Logger
}

// NewService constructs a new book [Service].
func NewService(repo Repository, clubs Clubs, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		clubs:  clubs,
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

// ProposeInput carries a new book proposal.
type ProposeInput struct {
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	ISBN        *string `json:"isbn"`
	Description *string `json:"description"`
	CoverURL    *string `json:"coverUrl"`
	TotalPages  *int    `json:"totalPages"`
}

// StatusInput moves a book through the reading cycle.
type StatusInput struct {
	Status Status `json:"status"`
}

// ProgressInput reports a reader's position.
//
// When Status is nil it is derived from CurrentPage.
type ProgressInput struct {
	CurrentPage int             `json:"currentPage"`
	Status      *ProgressStatus `json:"status"`
}

// # Proposals

/*
ProposeBook adds a book to a club. The proposer's vote is cast automatically.

Parameters:
  - context: context.Context
  - clubID: string
  - proposerID: string
  - input: ProposeInput

Returns:
  - *Book: Created book with Votes = 1 and Status = proposed
  - error: NotFound (club) or Validation
*/
func (service *Service) ProposeBook(context context.Context, clubID, proposerID string, input ProposeInput) (*Book, error) {
	if _, err := service.clubs.GetClub(context, clubID); err != nil {
		return nil, err
	}

	book := &Book{
		ID:          uuid.New(),
		ClubID:      clubID,
		Title:       strings.TrimSpace(input.Title),
		Author:      strings.TrimSpace(input.Author),
		ISBN:        pointer.NonEmpty(input.ISBN),
		Description: pointer.NonEmpty(input.Description),
		CoverURL:    pointer.NonEmpty(input.CoverURL),
		Status:      StatusProposed,
		ProposedBy:  proposerID,
		ProposedAt:  service.now().UTC(),
		TotalPages:  input.TotalPages,
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, book.Title).
		MaxLen(FieldTitle, book.Title, TitleMaxLength).
		Required(FieldAuthor, book.Author).
		MaxLen(FieldAuthor, book.Author, AuthorMaxLength).
		MaxLen(FieldISBN, pointer.Val(book.ISBN), ISBNMaxLength).
		MaxLen(FieldDescription, pointer.Val(book.Description), DescriptionMaxLength).
		OptionalURL(FieldCoverURL, book.CoverURL).
		Custom(FieldTotalPages, book.TotalPages != nil && *book.TotalPages < 1, "Must be at least 1")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, book); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "book_proposed",
		slog.String("book_id", book.ID),
		slog.String("club_id", clubID),
		slog.String("proposer_id", proposerID),
	)

	return book, nil
}

// ListBooks returns a page of a club's books, optionally filtered by status.
func (service *Service) ListBooks(context context.Context, clubID string, filter Filter, limit, offset int) ([]*Book, int, error) {
	if _, err := service.clubs.GetClub(context, clubID); err != nil {
		return nil, 0, err
	}

	if filter.Status != nil {
		validator := &validate.Validator{}
		validator.OneOf(FieldStatus, string(*filter.Status), string(StatusProposed), string(StatusReading), string(StatusCompleted))
		if err := validator.Err(); err != nil {
			return nil, 0, err
		}
	}

	return service.repo.List(context, clubID, filter, limit, offset)
}

// GetBook retrieves a book inside a club.
func (service *Service) GetBook(context context.Context, clubID, bookID string) (*Book, error) {
	return service.repo.FindByID(context, clubID, bookID)
}

/*
UpdateBookStatus moves a book between proposed, reading and completed.

Only club admins may do this.

Parameters:
  - context: context.Context
  - actorID: string
  - clubID: string
  - bookID: string
  - status: Status

Returns:
  - *Book: Updated book
  - error: NotFound, Forbidden or Validation
*/
func (service *Service) UpdateBookStatus(context context.Context, actorID, clubID, bookID string, status Status) (*Book, error) {
	book, err := service.repo.FindByID(context, clubID, bookID)
	if err != nil {
		return nil, err
	}

	member, err := service.clubs.MembershipOf(context, clubID, actorID)
	if err != nil && !apperr.HasCode(err, apperr.CodeNotFound) {
		return nil, err
	}
	if member == nil || !member.IsAdmin() {
		return nil, apperr.Forbidden("Only club admins can change a book's status")
	}

	validator := &validate.Validator{}
	validator.OneOf(FieldStatus, string(status), string(StatusProposed), string(StatusReading), string(StatusCompleted))
	if err := validator.Err(); err != nil {
		return nil, err
	}

	book.Status = status
	if err := service.repo.UpdateStatus(context, book); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "book_status_changed",
		slog.String("book_id", bookID),
		slog.String("status", string(status)),
	)
	return book, nil
}

// # Voting

/*
Vote adds userID to the book's vote set.

Parameters:
  - context: context.Context
  - userID: string
  - clubID: string
  - bookID: string

Returns:
  - *Book: The book with its recomputed vote count
  - error: NotFound (book), Conflict (already voted)
*/
func (service *Service) Vote(context context.Context, userID, clubID, bookID string) (*Book, error) {
	if _, err := service.repo.FindByID(context, clubID, bookID); err != nil {
		return nil, err
	}

	if err := service.repo.AddVote(context, bookID, userID); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "book_voted",
		slog.String("book_id", bookID),
		slog.String("user_id", userID),
	)
	return service.repo.FindByID(context, clubID, bookID)
}

/*
RemoveVote withdraws userID's vote.

Parameters:
  - context: context.Context
  - userID: string
  - clubID: string
  - bookID: string

Returns:
  - *Book: The book with its recomputed vote count
  - error: NotFound (book, or "Vote not found" when the user has not voted)
*/
func (service *Service) RemoveVote(context context.Context, userID, clubID, bookID string) (*Book, error) {
	if _, err := service.repo.FindByID(context, clubID, bookID); err != nil {
		return nil, err
	}

	if err := service.repo.RemoveVote(context, bookID, userID); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "book_vote_removed",
		slog.String("book_id", bookID),
		slog.String("user_id", userID),
	)
	return service.repo.FindByID(context, clubID, bookID)
}

// # Reading Progress

/*
UpdateProgress records how far userID has read. The row is always upserted.

Percentage is currentPage/totalPages as a percentage, rounded to two
decimals and clamped to [0, 100]. Books without a page count are treated as
[DefaultTotalPages] long. Moving into completed credits the reader's club
membership once.

Parameters:
  - context: context.Context
  - userID: string
  - clubID: string
  - bookID: string
  - input: ProgressInput

Returns:
  - *Progress: Stored row
  - error: NotFound (book) or Validation
*/
func (service *Service) UpdateProgress(context context.Context, userID, clubID, bookID string, input ProgressInput) (*Progress, error) {
	book, err := service.repo.FindByID(context, clubID, bookID)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Min(FieldCurrentPage, input.CurrentPage, 0)
	if input.Status != nil {
		validator.OneOf(FieldStatus, string(*input.Status),
			string(ProgressNotStarted), string(ProgressReading), string(ProgressCompleted))
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	totalPages := pointer.Fallback(book.TotalPages, DefaultTotalPages)

	progress := &Progress{
		UserID:      userID,
		BookID:      bookID,
		ClubID:      clubID,
		CurrentPage: input.CurrentPage,
		TotalPages:  totalPages,
		Percentage:  Percentage(input.CurrentPage, totalPages),
		Status:      pointer.Fallback(input.Status, deriveStatus(input.CurrentPage, totalPages)),
		LastUpdated: service.now().UTC(),
	}

	previous, err := service.repo.SaveProgress(context, progress)
	if err != nil {
		return nil, err
	}

	completedNow := progress.Status == ProgressCompleted &&
		(previous == nil || previous.Status != ProgressCompleted)
	if completedNow {
		if err := service.clubs.RecordBookCompleted(context, clubID, userID); err != nil {
			return nil, err
		}
	}

	service.logger.InfoContext(context, "reading_progress_updated",
		slog.String("book_id", bookID),
		slog.String("user_id", userID),
		slog.Float64("percentage", progress.Percentage),
	)
	return progress, nil
}

// GetProgress returns userID's progress on a book.
func (service *Service) GetProgress(context context.Context, userID, clubID, bookID string) (*Progress, error) {
	if _, err := service.repo.FindByID(context, clubID, bookID); err != nil {
		return nil, err
	}
	return service.repo.FindProgress(context, userID, bookID)
}

// Percentage computes currentPage/totalPages in percent, clamped to [0, 100].
func Percentage(currentPage, totalPages int) float64 {
	if totalPages <= 0 {
		return 0
	}

	percent := float64(currentPage) / float64(totalPages) * 100
	percent = math.Max(0, math.Min(percent, 100))
	return math.Round(percent*100) / 100
}

func deriveStatus(currentPage, totalPages int) ProgressStatus {
	switch {
	case currentPage <= 0:
		return ProgressNotStarted
	case currentPage >= totalPages:
		return ProgressCompleted
	default:
		return ProgressReading
	}
}
