// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookcircle/pkg/pagination"
)

/*
TestFromRequest clamps limit and offset.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		query string
		want  pagination.Params
	}{
		{"", pagination.Params{Limit: 20, Offset: 0}},
		{"?limit=5&offset=10", pagination.Params{Limit: 5, Offset: 10}},
		{"?limit=500", pagination.Params{Limit: 100, Offset: 0}},
		{"?limit=0&offset=-3", pagination.Params{Limit: 20, Offset: 0}},
		{"?limit=abc&offset=xyz", pagination.Params{Limit: 20, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/clubs"+tt.query, nil)
			assert.Equal(t, tt.want, pagination.FromRequest(req))
		})
	}
}

/*
TestNewMeta computes hasMore as total > offset+limit.
*/
func TestNewMeta(t *testing.T) {
	assert.True(t, pagination.NewMeta(25, pagination.Params{Limit: 10, Offset: 10}).HasMore)
	assert.False(t, pagination.NewMeta(20, pagination.Params{Limit: 10, Offset: 10}).HasMore)
	assert.False(t, pagination.NewMeta(0, pagination.Params{Limit: 20}).HasMore)
}

/*
TestNewMeta_HugeOffset reports no further pages past the end of the int range.
*/
func TestNewMeta_HugeOffset(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/clubs?offset="+strconv.Itoa(math.MaxInt-7)+"&limit=50", nil)
	params := pagination.FromRequest(req)
	require.Equal(t, math.MaxInt-7, params.Offset)

	meta := pagination.NewMeta(1, params)
	assert.False(t, meta.HasMore)
	assert.Empty(t, pagination.Window([]int{1}, params))
}

/*
TestWindow slices without panicking on out-of-range offsets.
*/
func TestWindow(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2}, pagination.Window(items, pagination.Params{Limit: 2}))
	assert.Equal(t, []int{4, 5}, pagination.Window(items, pagination.Params{Limit: 10, Offset: 3}))
	assert.Empty(t, pagination.Window(items, pagination.Params{Limit: 10, Offset: 9}))
}
