// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package book manages the books a club proposes, votes on and reads.

# Core Responsibility

  - Proposals: A [Book] belongs to exactly one club and starts as proposed.
  - Voting: Each user holds at most one vote per book.
  - Progress: One [Progress] row per (user, book), written only by upsert.

Votes is never stored. It is the size of the vote set at read time, so
concurrent voters cannot lose updates.
*/
package book

import "time"

// # Book Enums

// Status tracks where a book is in the club's reading cycle.
type Status string

const (
	StatusProposed  Status = "proposed"
	StatusReading   Status = "reading"
	StatusCompleted Status = "completed"
)

// ProgressStatus describes a single reader's position in a book.
type ProgressStatus string

const (
	ProgressNotStarted ProgressStatus = "not-started"
	ProgressReading    ProgressStatus = "reading"
	ProgressCompleted  ProgressStatus = "completed"
)

// # Core Entities

// Book is a title proposed inside a club.
type Book struct {
	ID          string    `json:"id"`
	ClubID      string    `json:"clubId"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	ISBN        *string   `json:"isbn,omitempty"`
	Description *string   `json:"description,omitempty"`
	CoverURL    *string   `json:"coverUrl,omitempty"`
	Status      Status    `json:"status"`
	ProposedBy  string    `json:"proposedBy"`
	ProposedAt  time.Time `json:"proposedAt"`
	Votes       int       `json:"votes"`
	TotalPages  *int      `json:"totalPages,omitempty"`
}

// Progress is one reader's position in one book.
type Progress struct {
	UserID      string         `json:"userId"`
	BookID      string         `json:"bookId"`
	ClubID      string         `json:"clubId"`
	CurrentPage int            `json:"currentPage"`
	TotalPages  int            `json:"totalPages"`
	Percentage  float64        `json:"percentage"`
	Status      ProgressStatus `json:"status"`
	LastUpdated time.Time      `json:"lastUpdated"`
}

// # Search & Filtering

// Filter narrows a club's book list.
type Filter struct {
	Status *Status
}

// # Field Identifiers

const (
	FieldTitle       = "title"
	FieldAuthor      = "author"
	FieldISBN        = "isbn"
	FieldDescription = "description"
	FieldCoverURL    = "coverUrl"
	FieldTotalPages  = "totalPages"
	FieldStatus      = "status"
	FieldCurrentPage = "currentPage"
)

// # Constraints

const (
	TitleMaxLength       = 200
	AuthorMaxLength      = 200
	ISBNMaxLength        = 20
	DescriptionMaxLength = 2000

	// DefaultTotalPages is assumed when a book has no page count.
	DefaultTotalPages = 100
)
