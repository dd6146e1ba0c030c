package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps toasts in one Redis list per session so several console
// replicas can share them. Lists expire after ttl.
type RedisStore struct {
	redis     *redis.Client
	keyPrefix string
	ttl       time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		redis:     client,
		keyPrefix: "console:toasts:",
		ttl:       ttl,
	}
}

func (s *RedisStore) key(sessionID string) string {
	return s.keyPrefix + sessionID
}

func (s *RedisStore) Append(ctx context.Context, sessionID string, toast Toast) error {
	payload, err := json.Marshal(toast)
	if err != nil {
		return fmt.Errorf("failed to encode toast: %w", err)
	}
	key := s.key(sessionID)
	if err := s.redis.RPush(ctx, key, string(payload)).Err(); err != nil {
		return fmt.Errorf("failed to push toast: %w", err)
	}
	if s.ttl > 0 {
		if err := s.redis.Expire(ctx, key, s.ttl).Err(); err != nil {
			return fmt.Errorf("failed to set toast expiry: %w", err)
		}
	}
	return nil
}

func (s *RedisStore) Take(ctx context.Context, sessionID string) ([]Toast, error) {
	key := s.key(sessionID)
	raw, err := s.redis.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read toasts: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	if err := s.redis.Del(ctx, key).Err(); err != nil {
		return nil, fmt.Errorf("failed to clear toasts: %w", err)
	}

	toasts := make([]Toast, 0, len(raw))
	for _, item := range raw {
		var t Toast
		if err := json.Unmarshal([]byte(item), &t); err != nil {
			continue
		}
		toasts = append(toasts, t)
	}
	return toasts, nil
}
