// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the identity and session management layer.

It defines the core entities (User, Session), the repositories that store
them, and the service that registers members, issues bearer tokens and
resolves tokens back into live sessions.

# Architecture

A token is only a signed pointer to a session row. The session table decides
whether the token is still usable: expired rows are evicted the first time
they are presented, and logout deletes the row outright.
*/
package auth

import "time"

// # Domain Entities

// User represents a registered BookCircle member.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	FullName     string    `json:"fullName"`
	AvatarURL    *string   `json:"avatarUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Session represents one issued bearer token.
//
// A user may hold any number of live sessions; logging in again never
// revokes the previous ones.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Expired reports whether the session is no longer usable at now.
func (session *Session) Expired(now time.Time) bool {
	return !now.Before(session.ExpiresAt)
}

// # Field Identifiers

// Field names used in validation errors and JSON payloads.
const (
	FieldEmail     = "email"
	FieldUsername  = "username"
	FieldPassword  = "password"
	FieldFullName  = "fullName"
	FieldAvatarURL = "avatarUrl"
)
