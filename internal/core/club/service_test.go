// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package club_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookcircle/internal/core/club"
	"github.com/taibuivan/bookcircle/internal/platform/apperr"
	"github.com/taibuivan/bookcircle/pkg/pointer"
)

func newService() *club.Service {
	return club.NewService(club.NewMemoryRepository(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func sciFi() club.CreateInput {
	return club.CreateInput{
		Name:        "Sci-Fi Readers",
		Description: "We read science fiction classics together.",
		Theme:       "Science Fiction",
	}
}

type recordingCleaner struct {
	cleaned []string
	err     error
}

func (cleaner *recordingCleaner) DeleteByClub(_ context.Context, clubID string) error {
	cleaner.cleaned = append(cleaner.cleaned, clubID)
	return cleaner.err
}

/*
TestMemberCount_FollowsRoster walks create, join and leave and checks the
count on every read.
*/
func TestMemberCount_FollowsRoster(t *testing.T) {
	ctx := context.Background()
	service := newService()

	created, err := service.CreateClub(ctx, "u1", "alice", sciFi())
	require.NoError(t, err)
	assert.Equal(t, 1, created.MemberCount)
	assert.Equal(t, "u1", created.CreatedBy)

	owner, err := service.MembershipOf(ctx, created.ID, "u1")
	require.NoError(t, err)
	assert.True(t, owner.IsAdmin())

	member, err := service.JoinClub(ctx, "u2", "bob", created.ID)
	require.NoError(t, err)
	assert.Equal(t, club.RoleMember, member.Role)

	fetched, err := service.GetClub(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, fetched.MemberCount)

	require.NoError(t, service.LeaveClub(ctx, "u2", created.ID, "u2"))

	fetched, err = service.GetClub(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fetched.MemberCount)
}

/*
TestJoinClub_Errors covers duplicate joins and unknown clubs.
*/
func TestJoinClub_Errors(t *testing.T) {
	ctx := context.Background()
	service := newService()

	created, err := service.CreateClub(ctx, "u1", "alice", sciFi())
	require.NoError(t, err)

	_, err = service.JoinClub(ctx, "u1", "alice", created.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))

	_, err = service.JoinClub(ctx, "u2", "bob", "missing")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestCreateClub_Validation rejects short names and descriptions.
*/
func TestCreateClub_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*club.CreateInput)
	}{
		{"short_name", func(in *club.CreateInput) { in.Name = "ab" }},
		{"blank_name", func(in *club.CreateInput) { in.Name = "   " }},
		{"short_description", func(in *club.CreateInput) { in.Description = "too short" }},
		{"long_theme", func(in *club.CreateInput) {
			in.Theme = "abcdefghijklmnopqrstuvwxyzabcdefghijklmnopqrstuvwxyz"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := sciFi()
			tt.mutate(&input)

			_, err := newService().CreateClub(context.Background(), "u1", "alice", input)
			assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
		})
	}
}

/*
TestUpdateClub_CreatorOnly applies partial updates and refuses other members.
*/
func TestUpdateClub_CreatorOnly(t *testing.T) {
	ctx := context.Background()
	service := newService()

	created, err := service.CreateClub(ctx, "u1", "alice", sciFi())
	require.NoError(t, err)
	_, err = service.JoinClub(ctx, "u2", "bob", created.ID)
	require.NoError(t, err)

	_, err = service.UpdateClub(ctx, "u2", created.ID, club.UpdateInput{Name: pointer.To("Hijacked")})
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	updated, err := service.UpdateClub(ctx, "u1", created.ID, club.UpdateInput{IsPrivate: pointer.To(true)})
	require.NoError(t, err)
	assert.True(t, updated.IsPrivate)
	assert.Equal(t, "Sci-Fi Readers", updated.Name)
	assert.Equal(t, 2, updated.MemberCount)
	assert.NotNil(t, updated.UpdatedAt)
}

/*
TestDeleteClub_RunsCleaners removes the club and cascades to registered stores.
*/
func TestDeleteClub_RunsCleaners(t *testing.T) {
	ctx := context.Background()
	service := newService()
	cleaner := &recordingCleaner{}
	service.OnDelete(cleaner)

	created, err := service.CreateClub(ctx, "u1", "alice", sciFi())
	require.NoError(t, err)

	err = service.DeleteClub(ctx, "u2", created.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))
	assert.Empty(t, cleaner.cleaned)

	require.NoError(t, service.DeleteClub(ctx, "u1", created.ID))
	assert.Equal(t, []string{created.ID}, cleaner.cleaned)

	_, err = service.GetClub(ctx, created.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestDeleteClub_CleanerFailure surfaces cascade errors.
*/
func TestDeleteClub_CleanerFailure(t *testing.T) {
	ctx := context.Background()
	service := newService()
	service.OnDelete(&recordingCleaner{err: errors.New("disk full")})

	created, err := service.CreateClub(ctx, "u1", "alice", sciFi())
	require.NoError(t, err)

	assert.Error(t, service.DeleteClub(ctx, "u1", created.ID))
}

/*
TestLeaveClub_Permissions lets admins remove others and stops regular members.
*/
func TestLeaveClub_Permissions(t *testing.T) {
	ctx := context.Background()
	service := newService()

	created, err := service.CreateClub(ctx, "u1", "alice", sciFi())
	require.NoError(t, err)
	for _, id := range []string{"u2", "u3"} {
		_, err = service.JoinClub(ctx, id, "reader-"+id, created.ID)
		require.NoError(t, err)
	}

	err = service.LeaveClub(ctx, "u2", created.ID, "u3")
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	err = service.LeaveClub(ctx, "outsider", created.ID, "u3")
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	require.NoError(t, service.LeaveClub(ctx, "u1", created.ID, "u3"))

	err = service.LeaveClub(ctx, "u1", created.ID, "u3")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	isMember, err := service.IsMember(ctx, created.ID, "u3")
	require.NoError(t, err)
	assert.False(t, isMember)
}

/*
TestListClubs_Filters combines theme and accent-insensitive search.
*/
func TestListClubs_Filters(t *testing.T) {
	ctx := context.Background()
	service := newService()

	_, err := service.CreateClub(ctx, "u1", "alice", sciFi())
	require.NoError(t, err)
	_, err = service.CreateClub(ctx, "u1", "alice", club.CreateInput{
		Name:        "Café Mystères",
		Description: "Whodunits over coffee every Sunday.",
		Theme:       "Mystery",
	})
	require.NoError(t, err)

	clubs, total, err := service.ListClubs(ctx, club.Filter{Theme: pointer.To("mystery")}, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, clubs, 1)
	assert.Equal(t, "Café Mystères", clubs[0].Name)

	clubs, total, err = service.ListClubs(ctx, club.Filter{Search: "cafe"}, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, clubs, 1)

	clubs, total, err = service.ListClubs(ctx, club.Filter{}, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, clubs, 1)
	assert.Equal(t, "Café Mystères", clubs[0].Name)
}

/*
TestRecordBookCompleted increments members and ignores outsiders.
*/
func TestRecordBookCompleted(t *testing.T) {
	ctx := context.Background()
	service := newService()

	created, err := service.CreateClub(ctx, "u1", "alice", sciFi())
	require.NoError(t, err)

	require.NoError(t, service.RecordBookCompleted(ctx, created.ID, "u1"))
	require.NoError(t, service.RecordBookCompleted(ctx, created.ID, "stranger"))

	member, err := service.MembershipOf(ctx, created.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, member.BooksRead)
}
