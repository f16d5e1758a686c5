package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore remembers revoked token ids until the tokens expire.
type SessionStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type RedisSessionStore struct {
	rdb    redis.Cmdable
	prefix string
}

func NewRedisSessionStore(rdb redis.Cmdable, prefix string) *RedisSessionStore {
	if prefix == "" {
		prefix = "portal"
	}
	return &RedisSessionStore{rdb: rdb, prefix: prefix}
}

func (s *RedisSessionStore) key(tokenID string) string {
	return s.prefix + ":revoked:" + tokenID
}

// Revoke is a no-op for tokens that have already expired.
func (s *RedisSessionStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, s.key(tokenID), "1", ttl).Err()
}

func (s *RedisSessionStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.rdb.Exists(ctx, s.key(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// NopSessionStore is used when redis is not configured: logout is accepted
// but tokens stay valid until they expire.
type NopSessionStore struct{}

func (NopSessionStore) Revoke(context.Context, string, time.Time) error { return nil }

func (NopSessionStore) IsRevoked(context.Context, string) (bool, error) { return false, nil }
