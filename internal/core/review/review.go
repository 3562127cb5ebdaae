// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package review stores readers' reviews of club books.

Each user may review a given book once. LikesCount is the size of the
review's like set at read time.
*/
package review

import "time"

// Review is one reader's opinion of one book.
type Review struct {
	ID         string     `json:"id"`
	BookID     string     `json:"bookId"`
	ClubID     string     `json:"clubId"`
	UserID     string     `json:"userId"`
	Username   string     `json:"username"` // Denormalized for display
	Rating     int        `json:"rating"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	LikesCount int        `json:"likesCount"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

// # Field Identifiers

const (
	FieldRating  = "rating"
	FieldTitle   = "title"
	FieldContent = "content"
)

// # Constraints

const (
	RatingMin        = 1
	RatingMax        = 5
	TitleMaxLength   = 200
	ContentMaxLength = 5000
)
