package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/EmmanuelKeifala/LMS-SERVER/internal/domain"
)

// ErrNotFound is returned when no session exists for the user. On the refresh
// path this is the enforcement point for logout: a deleted session means the
// refresh token is dead no matter how long its signature remains valid.
var ErrNotFound = errors.New("session not found")

const keyPrefix = "session:"

// Store caches one user snapshot per user in Redis. It is the sole authority
// for refresh-token acceptance and is written through on every profile
// mutation so cached reads never serve stale identity data.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a session store with the given process-wide TTL.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func key(userID string) string {
	return keyPrefix + userID
}

// Put writes the user snapshot, resetting the TTL (sliding expiry).
func (s *Store) Put(ctx context.Context, user *domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, key(user.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Get returns the cached user snapshot, or ErrNotFound if absent.
func (s *Store) Get(ctx context.Context, userID string) (*domain.User, error) {
	data, err := s.client.Get(ctx, key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &user, nil
}

// Delete removes the session entry. Deleting a missing entry is not an error;
// logout is idempotent.
func (s *Store) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Ping checks Redis availability for health probes.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
