// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package club

import "context"

// # Data Access Contract

// Repository defines the persistence contract for clubs and memberships.
type Repository interface {

	/*
		List returns clubs matching filter, oldest first.

		Parameters:
		  - context: context.Context
		  - filter: Filter
		  - limit: int
		  - offset: int

		Returns:
		  - []*Club: The requested window, with MemberCount populated
		  - int: Total matching count before pagination
		  - error: Storage failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Club, int, error)

	/*
		FindByID retrieves a club with its live member count.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Club: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*Club, error)

	/*
		Create persists a club together with its first (admin) membership.

		Either both rows are written or neither is.

		Parameters:
		  - context: context.Context
		  - club: *Club
		  - owner: *Member

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, club *Club, owner *Member) error

	/*
		Update persists the mutable club fields.

		Parameters:
		  - context: context.Context
		  - club: *Club

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	Update(context context.Context, club *Club) error

	/*
		Delete removes a club and its memberships.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	Delete(context context.Context, id string) error

	/*
		FindMember returns the membership of userID in clubID.

		Parameters:
		  - context: context.Context
		  - clubID: string
		  - userID: string

		Returns:
		  - *Member: Hydrated membership
		  - error: apperr.NotFound or storage failures
	*/
	FindMember(context context.Context, clubID, userID string) (*Member, error)

	/*
		ListMembers returns the roster of a club, earliest joiner first.

		Parameters:
		  - context: context.Context
		  - clubID: string
		  - limit: int
		  - offset: int

		Returns:
		  - []*Member: The requested window
		  - int: Total member count
		  - error: Storage failures
	*/
	ListMembers(context context.Context, clubID string, limit, offset int) ([]*Member, int, error)

	/*
		AddMember inserts a membership.

		Parameters:
		  - context: context.Context
		  - member: *Member

		Returns:
		  - error: apperr.NotFound (club), apperr.Conflict (already a member) or storage failures
	*/
	AddMember(context context.Context, member *Member) error

	/*
		RemoveMember deletes a membership.

		Parameters:
		  - context: context.Context
		  - clubID: string
		  - userID: string

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	RemoveMember(context context.Context, clubID, userID string) error

	/*
		IncrementBooksRead adds one to a member's booksRead counter.

		Parameters:
		  - context: context.Context
		  - clubID: string
		  - userID: string

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	IncrementBooksRead(context context.Context, clubID, userID string) error
}

// Cleaner removes rows owned by a club when the club is deleted.
//
// Book, meeting and review repositories implement it.
type Cleaner interface {
	DeleteByClub(context context.Context, clubID string) error
}
