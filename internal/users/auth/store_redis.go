// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/bookcircle/internal/platform/apperr"
	"github.com/taibuivan/bookcircle/internal/platform/constants"
	redisutil "github.com/taibuivan/bookcircle/internal/platform/redis"
)

// RedisSessionRepository implements [SessionRepository] using Redis.
//
// Each session is a JSON value whose key expires with the session itself,
// so Redis performs the eviction that the memory store leaves to the service.
type RedisSessionRepository struct {
	client redis.UniversalClient
	now    func() time.Time
}

// NewRedisSessionRepository creates a new Redis-backed SessionRepository.
func NewRedisSessionRepository(client redis.UniversalClient) *RedisSessionRepository {
	return &RedisSessionRepository{client: client, now: time.Now}
}

/*
Create stores the session with a TTL matching its expiry.

Parameters:
  - context: context.Context
  - session: *Session

Returns:
  - error: Serialization or execution errors
*/
func (repository *RedisSessionRepository) Create(context context.Context, session *Session) error {
	// An already-expired session has nothing worth storing.
	ttl := session.ExpiresAt.Sub(repository.now())
	if ttl <= 0 {
		return nil
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis_session_encode_failed: %w", err)
	}

	key := redisutil.Key(constants.RedisPrefixSession, session.ID)
	if err := repository.client.Set(context, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}

	return nil
}

/*
Find retrieves a session by ID.

Description: Returns apperr.NotFound if the key is absent or already expired.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Session: Decoded session
  - error: apperr.NotFound or connectivity errors
*/
func (repository *RedisSessionRepository) Find(context context.Context, id string) (*Session, error) {
	raw, err := repository.client.Get(context, redisutil.Key(constants.RedisPrefixSession, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("redis_session_get_failed: %w", err)
	}

	session := &Session{}
	if err := json.Unmarshal(raw, session); err != nil {
		return nil, fmt.Errorf("redis_session_decode_failed: %w", err)
	}

	return session, nil
}

/*
Delete removes the session key. Missing keys are ignored.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisSessionRepository) Delete(context context.Context, id string) error {
	if err := repository.client.Del(context, redisutil.Key(constants.RedisPrefixSession, id)).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}
