// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookcircle/internal/platform/apperr"
	"github.com/taibuivan/bookcircle/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		hasError bool
	}{
		{"valid_string", "Mystery Lovers", false},
		{"empty_string", "", true},
		{"whitespace_only", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required("name", tt.value)

			if tt.hasError {
				ae := apperr.As(v.Err())
				require.NotNil(t, ae)
				assert.Equal(t, apperr.CodeValidation, ae.Code)
				assert.Equal(t, "name", ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		email   string
		isValid bool
	}{
		{"reader@example.com", true},
		{"invalid-email", false},
		{"reader@", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			v := (&validate.Validator{}).Email("email", tt.email)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_URL accepts only absolute http(s) links.
*/
func TestValidator_URL(t *testing.T) {
	tests := []struct {
		value   string
		isValid bool
	}{
		{"https://meet.example.com/room/42", true},
		{"http://localhost:8080", true},
		{"ftp://files.example.com", false},
		{"meet.example.com", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			v := (&validate.Validator{}).URL("virtualMeetingUrl", tt.value)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}

	empty := ""
	assert.False(t, (&validate.Validator{}).OptionalURL("coverUrl", nil).HasErrors())
	assert.False(t, (&validate.Validator{}).OptionalURL("coverUrl", &empty).HasErrors())
}

/*
TestValidator_Chain collects every failing rule into one error.
*/
func TestValidator_Chain(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	err := (&validate.Validator{}).
		Range("duration", 10, 15, 480).
		Range("rating", 3, 1, 5).
		MinLen("name", "ab", 3).
		MaxLen("theme", "short", 50).
		Future("scheduledAt", now.Add(-time.Minute), now).
		OneOf("status", "archived", "proposed", "reading", "completed").
		Err()

	ae := apperr.As(err)
	require.NotNil(t, ae)

	fields := make([]string, 0, len(ae.Details))
	for _, detail := range ae.Details {
		fields = append(fields, detail.Field)
	}
	assert.Equal(t, []string{"duration", "name", "scheduledAt", "status"}, fields)
}

/*
TestFieldError builds a single-detail validation error.
*/
func TestFieldError(t *testing.T) {
	ae := validate.FieldError("status", "Meeting is cancelled")
	assert.Equal(t, apperr.CodeValidation, ae.Code)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, "status", ae.Details[0].Field)
}
