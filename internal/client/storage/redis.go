package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const tabKeyPrefix = "dashboard:tab:"

// RedisBackend is the tab-scoped backend. Every key lives under the tab's
// namespace and expires after ttl of inactivity.
type RedisBackend struct {
	rdb   redis.UniversalClient
	tabID string
	ttl   time.Duration
}

// NewRedisBackend returns a backend bound to tabID. An empty tabID starts a
// fresh tab with a random id. A zero ttl keeps keys until deleted.
func NewRedisBackend(rdb redis.UniversalClient, tabID string, ttl time.Duration) *RedisBackend {
	if tabID == "" {
		tabID = uuid.NewString()
	}
	return &RedisBackend{rdb: rdb, tabID: tabID, ttl: ttl}
}

func (r *RedisBackend) TabID() string { return r.tabID }

func (r *RedisBackend) key(key string) string {
	return tabKeyPrefix + r.tabID + ":" + key
}

func (r *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	k := r.key(key)
	value, err := r.rdb.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", k, err)
	}
	if r.ttl > 0 {
		// sliding expiry: reading keeps the tab alive
		if err := r.rdb.Expire(ctx, k, r.ttl).Err(); err != nil {
			return nil, fmt.Errorf("failed to touch %s: %w", k, err)
		}
	}
	return value, nil
}

func (r *RedisBackend) Set(ctx context.Context, key string, value []byte) error {
	k := r.key(key)
	if err := r.rdb.Set(ctx, k, value, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", k, err)
	}
	return nil
}

func (r *RedisBackend) Delete(ctx context.Context, key string) error {
	k := r.key(key)
	if err := r.rdb.Del(ctx, k).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", k, err)
	}
	return nil
}
