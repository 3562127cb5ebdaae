// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import "context"

// # Data Access Contract

// Repository defines the persistence contract for books, votes and reading progress.
type Repository interface {

	/*
		List returns a club's books, oldest proposal first.

		Parameters:
		  - context: context.Context
		  - clubID: string
		  - filter: Filter
		  - limit: int
		  - offset: int

		Returns:
		  - []*Book: The requested window with Votes populated
		  - int: Total matching count
		  - error: Storage failures
	*/
	List(context context.Context, clubID string, filter Filter, limit, offset int) ([]*Book, int, error)

	/*
		FindByID retrieves a book inside a club.

		A book that exists in another club is reported as not found.

		Parameters:
		  - context: context.Context
		  - clubID: string
		  - bookID: string

		Returns:
		  - *Book: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, clubID, bookID string) (*Book, error)

	/*
		Create persists a book and its proposer's vote together.

		Parameters:
		  - context: context.Context
		  - book: *Book

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, book *Book) error

	// UpdateStatus persists book.Status.
	UpdateStatus(context context.Context, book *Book) error

	// AddVote records userID's vote. apperr.Conflict if it already exists.
	AddVote(context context.Context, bookID, userID string) error

	// RemoveVote withdraws userID's vote. apperr.NotFound if there is none.
	RemoveVote(context context.Context, bookID, userID string) error

	// FindProgress returns userID's progress on bookID, or apperr.NotFound.
	FindProgress(context context.Context, userID, bookID string) (*Progress, error)

	/*
		SaveProgress upserts a progress row.

		Parameters:
		  - context: context.Context
		  - progress: *Progress

		Returns:
		  - *Progress: The row it replaced, nil when it was created
		  - error: Persistence failures
	*/
	SaveProgress(context context.Context, progress *Progress) (*Progress, error)

	// DeleteByClub removes every book of a club along with votes and progress.
	DeleteByClub(context context.Context, clubID string) error
}
