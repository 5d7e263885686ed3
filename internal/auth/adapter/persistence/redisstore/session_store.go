package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"campus-facilities/internal/auth/domain/model"
	"campus-facilities/internal/auth/usecase"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "session:"
	userSetKeyPrefix = "user-sessions:"
)

// RedisSessionStore implements the SessionStore interface on Redis.
// Sessions carry a TTL so stale entries expire without cleanup; the
// per-user set supports revoking every session of one user.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore creates a new Redis session store.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

// Save stores the session under its identifier with a TTL matching its
// expiry, and records it in the user's session set.
func (s *RedisSessionStore) Save(ctx context.Context, session *model.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session is already expired")
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKeyPrefix+session.ID, raw, ttl)
	pipe.SAdd(ctx, userSetKeyPrefix+session.UserID, session.ID)
	pipe.Expire(ctx, userSetKeyPrefix+session.UserID, ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// Get retrieves a session by identifier.
func (s *RedisSessionStore) Get(ctx context.Context, id string) (*model.Session, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete removes a single session, revoking its token.
func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	session, err := s.Get(ctx, id)
	if err != nil {
		if errors.Is(err, usecase.ErrSessionNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKeyPrefix+id)
	pipe.SRem(ctx, userSetKeyPrefix+session.UserID, id)
	_, err = pipe.Exec(ctx)
	return err
}

// DeleteAllForUser removes every session of one user.
func (s *RedisSessionStore) DeleteAllForUser(ctx context.Context, userID string) error {
	ids, err := s.client.SMembers(ctx, userSetKeyPrefix+userID).Result()
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, sessionKeyPrefix+id)
	}
	pipe.Del(ctx, userSetKeyPrefix+userID)
	_, err = pipe.Exec(ctx)
	return err
}
