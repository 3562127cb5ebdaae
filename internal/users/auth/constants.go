// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Identity Constraints

const (
	// UsernameMinLength is the shortest accepted username.
	UsernameMinLength = 3

	// UsernameMaxLength is the longest accepted username.
	UsernameMaxLength = 30

	// PasswordMinLength is the shortest accepted password.
	PasswordMinLength = 8

	// PasswordMaxLength guards bcrypt, which ignores input beyond 72 bytes.
	PasswordMaxLength = 72

	// FullNameMaxLength bounds the display name.
	FullNameMaxLength = 100
)

// Client-safe messages for credential failures. Both login branches use the
// same text so that callers cannot probe which emails are registered.
const (
	msgInvalidCredentials = "Invalid email or password"
	msgInvalidSession     = "Invalid or expired session"
	msgEmailTaken         = "Email is already registered"
	msgUsernameTaken      = "Username is already taken"
)
