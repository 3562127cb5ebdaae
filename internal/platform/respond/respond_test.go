// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookcircle/internal/platform/apperr"
	"github.com/taibuivan/bookcircle/internal/platform/respond"
	"github.com/taibuivan/bookcircle/pkg/pagination"
)

/*
TestError_Envelope maps application errors and hides unexpected causes.
*/
func TestError_Envelope(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{"not_found", apperr.NotFound("Club"), http.StatusNotFound, apperr.CodeNotFound, "Club not found"},
		{"conflict", apperr.Conflict("Already voted"), http.StatusConflict, apperr.CodeConflict, "Already voted"},
		{"forbidden", apperr.Forbidden("Only the creator"), http.StatusForbidden, apperr.CodeForbidden, "Only the creator"},
		{"unexpected", errors.New("pq: connection refused"), http.StatusInternalServerError, apperr.CodeInternal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respond.Error(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body respond.ErrorEnvelope
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotContains(t, body.Error, "pq:")
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, body.Error)
			}
		})
	}
}

/*
TestPaginated_EmptyList renders [] rather than null.
*/
func TestPaginated_EmptyList(t *testing.T) {
	rec := httptest.NewRecorder()
	var none []string
	respond.Paginated(rec, none, pagination.NewMeta(0, pagination.Params{Limit: 20}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[],"meta":{"total":0,"limit":20,"offset":0,"hasMore":false}}`, rec.Body.String())
}
