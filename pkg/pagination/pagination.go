// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// Lists are windowed with limit/offset query parameters. The response meta
// reports the filtered total before the window was applied and whether more
// items follow it.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 20
	// MaxLimit is the upper bound for items per page to prevent system abuse.
	MaxLimit = 100
)

// Params holds the parsed limit and offset from a request's query string.
type Params struct {
	Limit  int
	Offset int
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

// NewMeta constructs pagination metadata for a response.
//
// hasMore is total > offset+limit, rearranged so a client-supplied offset near
// the int limit cannot overflow.
func NewMeta(total int, params Params) Meta {
	return Meta{
		Total:   total,
		Limit:   params.Limit,
		Offset:  params.Offset,
		HasMore: total-params.Limit > params.Offset,
	}
}

// FromRequest parses "limit" and "offset" query parameters from an HTTP request.
//
// # Clamping
//
// Invalid or non-positive limits fall back to [DefaultLimit]; limits above
// [MaxLimit] are capped. Negative offsets become zero.
func FromRequest(r *http.Request) Params {
	return Normalize(
		parseIntParam(r, "limit", DefaultLimit),
		parseIntParam(r, "offset", 0),
	)
}

// Normalize applies the clamping rules of [FromRequest] to raw values.
func Normalize(limit, offset int) Params {
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Params{Limit: limit, Offset: offset}
}

// Window returns the sub-slice of items selected by params.
//
// Out-of-range offsets yield an empty slice, never a panic.
func Window[T any](items []T, params Params) []T {
	if params.Offset >= len(items) {
		return []T{}
	}
	end := min(params.Offset+params.Limit, len(items))
	return items[params.Offset:end]
}

// parseIntParam parses a single integer query parameter with a fallback default.
func parseIntParam(r *http.Request, key string, defaultVal int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}

	return n
}
