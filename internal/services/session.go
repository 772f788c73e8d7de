package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// SessionDuration is 7 days.
	SessionDuration = 7 * 24 * time.Hour
	// SessionKeyPrefix is the Redis key prefix for sessions.
	SessionKeyPrefix = "session:"
	// UserSessionKeyPrefix is the Redis key prefix for the user->session mapping.
	UserSessionKeyPrefix = "user_session:"
)

// SessionStore is the token side of the identity guard. The production
// implementation is Redis-backed; tests substitute an in-memory one.
type SessionStore interface {
	Create(ctx context.Context, userID string) (string, error)
	// Validate resolves a token to a user id; ok is false for unknown or
	// expired tokens.
	Validate(ctx context.Context, token string) (userID string, ok bool, err error)
	Invalidate(ctx context.Context, token string) error
}

// RedisSessions stores opaque session tokens in Redis with a 7-day TTL and a
// single active session per user.
type RedisSessions struct {
	client *redis.Client
}

func NewRedisSessions(client *redis.Client) *RedisSessions {
	return &RedisSessions{client: client}
}

// Create issues a new session token for the user. Any existing session is
// invalidated first so the 7-day timer restarts from this login.
func (s *RedisSessions) Create(ctx context.Context, userID string) (string, error) {
	s.invalidateUserSession(ctx, userID)

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := base64.URLEncoding.EncodeToString(tokenBytes)

	if err := s.client.Set(ctx, SessionKeyPrefix+token, userID, SessionDuration).Err(); err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, UserSessionKeyPrefix+userID, token, SessionDuration).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisSessions) Validate(ctx context.Context, token string) (string, bool, error) {
	if token == "" {
		return "", false, nil
	}
	userID, err := s.client.Get(ctx, SessionKeyPrefix+token).Result()
	if err != nil {
		// Treat missing/expired keys and transient errors alike: not authenticated.
		return "", false, nil
	}
	return userID, true, nil
}

func (s *RedisSessions) Invalidate(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	userID, err := s.client.Get(ctx, SessionKeyPrefix+token).Result()
	if err == nil && userID != "" {
		s.client.Del(ctx, UserSessionKeyPrefix+userID)
	}
	return s.client.Del(ctx, SessionKeyPrefix+token).Err()
}

func (s *RedisSessions) invalidateUserSession(ctx context.Context, userID string) {
	token, err := s.client.Get(ctx, UserSessionKeyPrefix+userID).Result()
	if err == nil && token != "" {
		s.client.Del(ctx, SessionKeyPrefix+token)
	}
	s.client.Del(ctx, UserSessionKeyPrefix+userID)
}
