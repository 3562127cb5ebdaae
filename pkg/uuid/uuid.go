// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides time-ordered unique identifiers for BookCircle entities.

Version 7 values sort by creation time, which keeps PostgreSQL B-tree
indexes compact and lets the in-memory stores order rows by id as a tiebreak.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
//
// Entropy failure is unrecoverable, so it panics.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}
	return id.String()
}

// Valid reports whether s parses as a UUID of any version.
//
// Repositories use it to short-circuit lookups of ids that cannot exist,
// which also keeps malformed ids away from PostgreSQL's uuid casts.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
