package kv

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// RedisStore backs the store with a Redis instance. Useful when the
// board should be shared across machines; note that two application
// instances writing through the same Redis are last-writer-wins.
type RedisStore struct {
	rc *redis.Client
}

// OpenRedis connects to the Redis server at addr and verifies the
// connection with a ping.
func OpenRedis(ctx context.Context, addr string) (*RedisStore, error) {
	rc := redis.NewClient(&redis.Options{Addr: addr})
	if err := rc.Ping(ctx).Err(); err != nil {
		rc.Close()
		return nil, err
	}
	return &RedisStore{rc: rc}, nil
}

// NewRedis wraps an existing client, used by tests running against
// miniredis.
func NewRedis(rc *redis.Client) *RedisStore {
	return &RedisStore{rc: rc}
}

// Get retrieves the value stored under key
func (s *RedisStore) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	value, err := s.rc.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return json.RawMessage(value), true, nil
}

// Set stores value under key with no expiration
func (s *RedisStore) Set(ctx context.Context, key string, value json.RawMessage) error {
	return s.rc.Set(ctx, key, string(value), 0).Err()
}

// Close closes the client connection
func (s *RedisStore) Close() error {
	return s.rc.Close()
}
