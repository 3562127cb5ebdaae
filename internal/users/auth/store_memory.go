// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"sync"

	"github.com/taibuivan/bookcircle/internal/platform/apperr"
)

// # User Repository

// MemoryUserRepository implements [UserRepository] with maps guarded by one lock.
type MemoryUserRepository struct {
	mu         sync.RWMutex
	byID       map[string]User
	byEmail    map[string]string
	byUsername map[string]string
}

// NewMemoryUserRepository creates an empty in-memory user store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:       make(map[string]User),
		byEmail:    make(map[string]string),
		byUsername: make(map[string]string),
	}
}

// FindByID implements [UserRepository].
func (repository *MemoryUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	user, ok := repository.byID[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return &user, nil
}

// FindByEmail implements [UserRepository].
func (repository *MemoryUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	repository.mu.RLock()
	id, ok := repository.byEmail[email]
	repository.mu.RUnlock()

	if !ok {
		return nil, apperr.NotFound("User")
	}
	return repository.FindByID(context, id)
}

// FindByUsername implements [UserRepository].
func (repository *MemoryUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	repository.mu.RLock()
	id, ok := repository.byUsername[username]
	repository.mu.RUnlock()

	if !ok {
		return nil, apperr.NotFound("User")
	}
	return repository.FindByID(context, id)
}

// Create implements [UserRepository].
func (repository *MemoryUserRepository) Create(_ context.Context, user *User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, taken := repository.byEmail[user.Email]; taken {
		return apperr.Conflict(msgEmailTaken)
	}
	if _, taken := repository.byUsername[user.Username]; taken {
		return apperr.Conflict(msgUsernameTaken)
	}

	repository.byID[user.ID] = *user
	repository.byEmail[user.Email] = user.ID
	repository.byUsername[user.Username] = user.ID
	return nil
}

// # Session Repository

// MemorySessionRepository implements [SessionRepository] with a single map.
//
// Expired entries stay in the map until the service evicts them on lookup.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemorySessionRepository creates an empty in-memory session table.
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]Session)}
}

// Create implements [SessionRepository].
func (repository *MemorySessionRepository) Create(_ context.Context, session *Session) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.sessions[session.ID] = *session
	return nil
}

// Find implements [SessionRepository].
func (repository *MemorySessionRepository) Find(_ context.Context, id string) (*Session, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	session, ok := repository.sessions[id]
	if !ok {
		return nil, apperr.NotFound("Session")
	}
	return &session, nil
}

// Delete implements [SessionRepository].
func (repository *MemorySessionRepository) Delete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	delete(repository.sessions, id)
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (repository *MemorySessionRepository) Len() int {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	return len(repository.sessions)
}
