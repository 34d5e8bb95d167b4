package services

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/avdm2017/microblog/internal/logger"
)

const sessionKeyPrefix = "session:"

// RedisClient is the subset of the go-redis client used by the session
// registry.
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// SessionService keeps login sessions in Redis. Sessions carry no TTL:
// they stay alive until an explicit logout removes them.
type SessionService struct {
	rdb RedisClient
}

// NewSessionService creates a new SessionService instance.
func NewSessionService(rdb RedisClient) *SessionService {
	return &SessionService{rdb: rdb}
}

// Create registers a new session for the user and returns its id.
func (s *SessionService) Create(ctx context.Context, userID int64) (string, error) {
	sessionID := uuid.NewString()

	if err := s.rdb.Set(ctx, sessionKeyPrefix+sessionID, strconv.FormatInt(userID, 10), 0).Err(); err != nil {
		logger.Log.Errorw("failed to store session", "err", err)
		return "", err
	}

	return sessionID, nil
}

// Exists reports whether the session is still alive.
func (s *SessionService) Exists(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.rdb.Exists(ctx, sessionKeyPrefix+sessionID).Result()
	if err != nil {
		logger.Log.Errorw("failed to check session", "err", err)
		return false, err
	}
	return n > 0, nil
}

// Delete removes the session. Deleting an unknown session is not an error.
func (s *SessionService) Delete(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		logger.Log.Errorw("failed to delete session", "err", err)
		return err
	}
	return nil
}
