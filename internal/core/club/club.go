// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package club manages book clubs and their memberships.

# Core Responsibility

  - Organization: Defines the [Club] entity and its metadata.
  - Membership: Manages [Member] rows and the admin/member roles.
  - Lifecycle: Deleting a club removes everything that belongs to it.

MemberCount is never stored. It is computed from the membership rows every
time a club is read, so it cannot drift from the roster.
*/
package club

import "time"

// # Club Enums

// Role defines the authority level of a member within a club.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// # Core Entities

// Club represents a reading group.
type Club struct {
	ID          string     `json:"id"` // UUIDv7
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Theme       string     `json:"theme"`
	IsPrivate   bool       `json:"isPrivate"`
	MemberCount int        `json:"memberCount"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// Member represents a user's affiliation with a club.
type Member struct {
	ClubID    string    `json:"clubId"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"` // Denormalized for roster views
	Role      Role      `json:"role"`
	JoinedAt  time.Time `json:"joinedAt"`
	BooksRead int       `json:"booksRead"`
}

// IsAdmin reports whether the member administers the club.
func (member *Member) IsAdmin() bool {
	return member.Role == RoleAdmin
}

// # Search & Filtering

// Filter holds parameters for listing clubs.
//
// Theme and Search compose with AND.
type Filter struct {
	// Theme matches the club theme exactly, ignoring case.
	Theme *string

	// Search is a substring matched against name OR description.
	Search string
}

// # Field Identifiers

const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldTheme       = "theme"
)

// # Constraints

const (
	NameMinLength        = 3
	NameMaxLength        = 100
	DescriptionMinLength = 10
	DescriptionMaxLength = 1000
	ThemeMaxLength       = 50
)
