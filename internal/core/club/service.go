// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package club

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/bookcircle/internal/platform/apperr"
	"github.com/taibuivan/bookcircle/internal/platform/validate"
	"github.com/taibuivan/bookcircle/pkg/pointer"
	"github.com/taibuivan/bookcircle/pkg/uuid"
)

// # Service Layer

// Service orchestrates business rules for clubs and memberships.
type Service struct {
	repo     Repository
	cleaners []Cleaner
	now      func() time.Time
	logger   *slog.Logger
}

// NewService constructs a new club [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		now:    time.Now,
		logger: logger,
	}
}

// WithClock replaces the time source, for tests.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

// OnDelete registers stores whose club-owned rows must go when a club is deleted.
func (service *Service) OnDelete(cleaners ...Cleaner) {
	service.cleaners = append(service.cleaners, cleaners...)
}

// # Inputs

// CreateInput carries the fields of a new club.
type CreateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Theme       string `json:"theme"`
	IsPrivate   bool   `json:"isPrivate"`
}

// UpdateInput carries a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Theme       *string `json:"theme"`
	IsPrivate   *bool   `json:"isPrivate"`
}

func validateClub(club *Club) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, club.Name).
		MinLen(FieldName, club.Name, NameMinLength).
		MaxLen(FieldName, club.Name, NameMaxLength).
		Required(FieldDescription, club.Description).
		MinLen(FieldDescription, club.Description, DescriptionMinLength).
		MaxLen(FieldDescription, club.Description, DescriptionMaxLength).
		MaxLen(FieldTheme, club.Theme, ThemeMaxLength)
	return validator.Err()
}

// # Club Management

/*
CreateClub registers a new club and makes its creator the first admin.

Parameters:
  - context: context.Context
  - ownerID: string
  - ownerName: string (denormalized onto the membership)
  - input: CreateInput

Returns:
  - *Club: Created club with MemberCount = 1
  - error: Validation or persistence failures
*/
func (service *Service) CreateClub(context context.Context, ownerID, ownerName string, input CreateInput) (*Club, error) {
	now := service.now().UTC()

	club := &Club{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Theme:       strings.TrimSpace(input.Theme),
		IsPrivate:   input.IsPrivate,
		CreatedBy:   ownerID,
		CreatedAt:   now,
	}

	if err := validateClub(club); err != nil {
		return nil, err
	}

	owner := &Member{
		ClubID:   club.ID,
		UserID:   ownerID,
		Username: ownerName,
		Role:     RoleAdmin,
		JoinedAt: now,
	}

	if err := service.repo.Create(context, club, owner); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "club_created",
		slog.String("club_id", club.ID),
		slog.String("creator_id", ownerID),
	)

	return club, nil
}

/*
ListClubs retrieves a filtered, paginated list of clubs.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit, offset: int

Returns:
  - []*Club: List of clubs
  - int: Total matching count
  - error: Retrieval errors
*/
func (service *Service) ListClubs(context context.Context, filter Filter, limit, offset int) ([]*Club, int, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Theme = pointer.NonEmpty(filter.Theme)
	return service.repo.List(context, filter, limit, offset)
}

// GetClub retrieves a club by ID.
func (service *Service) GetClub(context context.Context, id string) (*Club, error) {
	return service.repo.FindByID(context, id)
}

/*
UpdateClub applies a partial update. Only the creator may update a club.

Parameters:
  - context: context.Context
  - actorID: string
  - id: string
  - input: UpdateInput

Returns:
  - *Club: Updated entity
  - error: NotFound, Forbidden, Validation or persistence failures
*/
func (service *Service) UpdateClub(context context.Context, actorID, id string, input UpdateInput) (*Club, error) {
	club, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if club.CreatedBy != actorID {
		return nil, apperr.Forbidden("Only the club creator can update this club")
	}

	if input.Name != nil {
		club.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		club.Description = strings.TrimSpace(*input.Description)
	}
	if input.Theme != nil {
		club.Theme = strings.TrimSpace(*input.Theme)
	}
	if input.IsPrivate != nil {
		club.IsPrivate = *input.IsPrivate
	}

	if err := validateClub(club); err != nil {
		return nil, err
	}

	club.UpdatedAt = pointer.To(service.now().UTC())
	if err := service.repo.Update(context, club); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "club_updated", slog.String("club_id", club.ID))
	return club, nil
}

/*
DeleteClub removes a club and everything it owns. Only the creator may delete it.

Parameters:
  - context: context.Context
  - actorID: string
  - id: string

Returns:
  - error: NotFound, Forbidden or persistence failures
*/
func (service *Service) DeleteClub(context context.Context, actorID, id string) error {
	club, err := service.repo.FindByID(context, id)
	if err != nil {
		return err
	}

	if club.CreatedBy != actorID {
		return apperr.Forbidden("Only the club creator can delete this club")
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	for _, cleaner := range service.cleaners {
		if err := cleaner.DeleteByClub(context, id); err != nil {
			return fmt.Errorf("club_service_cascade_failed: %w", err)
		}
	}

	service.logger.InfoContext(context, "club_deleted", slog.String("club_id", id))
	return nil
}

// # Membership Management

/*
JoinClub adds the caller to a club as a regular member.

Parameters:
  - context: context.Context
  - userID: string
  - username: string
  - clubID: string

Returns:
  - *Member: The new membership
  - error: NotFound (club), Conflict (already a member)
*/
func (service *Service) JoinClub(context context.Context, userID, username, clubID string) (*Member, error) {
	if _, err := service.repo.FindByID(context, clubID); err != nil {
		return nil, err
	}

	member := &Member{
		ClubID:   clubID,
		UserID:   userID,
		Username: username,
		Role:     RoleMember,
		JoinedAt: service.now().UTC(),
	}

	if err := service.repo.AddMember(context, member); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "club_joined",
		slog.String("club_id", clubID),
		slog.String("user_id", userID),
	)
	return member, nil
}

/*
LeaveClub removes targetUserID from a club.

A member may always remove themselves; removing someone else requires the
admin role in that club.

Parameters:
  - context: context.Context
  - actorID: string
  - clubID: string
  - targetUserID: string

Returns:
  - error: NotFound (club or membership), Forbidden
*/
func (service *Service) LeaveClub(context context.Context, actorID, clubID, targetUserID string) error {
	if _, err := service.repo.FindByID(context, clubID); err != nil {
		return err
	}

	if actorID != targetUserID {
		actor, err := service.repo.FindMember(context, clubID, actorID)
		if err != nil && !apperr.HasCode(err, apperr.CodeNotFound) {
			return err
		}
		if actor == nil || !actor.IsAdmin() {
			return apperr.Forbidden("Only club admins can remove other members")
		}
	}

	if err := service.repo.RemoveMember(context, clubID, targetUserID); err != nil {
		return err
	}

	service.logger.InfoContext(context, "club_left",
		slog.String("club_id", clubID),
		slog.String("user_id", targetUserID),
		slog.String("actor_id", actorID),
	)
	return nil
}

// ListMembers returns a page of the club roster.
func (service *Service) ListMembers(context context.Context, clubID string, limit, offset int) ([]*Member, int, error) {
	if _, err := service.repo.FindByID(context, clubID); err != nil {
		return nil, 0, err
	}
	return service.repo.ListMembers(context, clubID, limit, offset)
}

// MembershipOf returns userID's membership in clubID, or NotFound.
func (service *Service) MembershipOf(context context.Context, clubID, userID string) (*Member, error) {
	return service.repo.FindMember(context, clubID, userID)
}

// IsMember reports whether userID belongs to clubID.
func (service *Service) IsMember(context context.Context, clubID, userID string) (bool, error) {
	_, err := service.repo.FindMember(context, clubID, userID)
	if apperr.HasCode(err, apperr.CodeNotFound) {
		return false, nil
	}
	return err == nil, err
}

/*
RecordBookCompleted credits a member with one more finished book.

Readers who are not members of the club have no counter to credit, which
is not an error.

Parameters:
  - context: context.Context
  - clubID: string
  - userID: string

Returns:
  - error: Storage failures
*/
func (service *Service) RecordBookCompleted(context context.Context, clubID, userID string) error {
	err := service.repo.IncrementBooksRead(context, clubID, userID)
	if apperr.HasCode(err, apperr.CodeNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	service.logger.InfoContext(context, "club_book_completed",
		slog.String("club_id", clubID),
		slog.String("user_id", userID),
	)
	return nil
}
