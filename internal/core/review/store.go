// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import "context"

// # Data Access Contract

// Repository defines the persistence contract for reviews and likes.
type Repository interface {

	/*
		List returns a book's reviews, oldest first.

		Parameters:
		  - context: context.Context
		  - bookID: string
		  - limit: int
		  - offset: int

		Returns:
		  - []*Review: The requested window with LikesCount populated
		  - int: Total review count
		  - error: Storage failures
	*/
	List(context context.Context, bookID string, limit, offset int) ([]*Review, int, error)

	// FindByID retrieves a review of bookID, or apperr.NotFound.
	FindByID(context context.Context, bookID, reviewID string) (*Review, error)

	// Create persists a review. apperr.Conflict if the user already reviewed the book.
	Create(context context.Context, review *Review) error

	// Update persists rating, title, content and updatedAt.
	Update(context context.Context, review *Review) error

	// Delete removes a review and its likes.
	Delete(context context.Context, reviewID string) error

	// AddLike records a like. apperr.Conflict if userID already liked it.
	AddLike(context context.Context, reviewID, userID string) error

	// RemoveLike withdraws a like. apperr.NotFound if there is none.
	RemoveLike(context context.Context, reviewID, userID string) error

	// DeleteByClub removes every review written in a club.
	DeleteByClub(context context.Context, clubID string) error
}
