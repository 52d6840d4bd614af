package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultRedisNamespace = "cozinha:"

// RedisSubstrate stores values as plain redis strings under a namespace.
type RedisSubstrate struct {
	client    *redis.Client
	namespace string
}

// NewRedisSubstrate connects to addr and checks the connection.
func NewRedisSubstrate(ctx context.Context, addr string) (*RedisSubstrate, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &RedisSubstrate{client: client, namespace: defaultRedisNamespace}, nil
}

// Get reads the value for key.
func (s *RedisSubstrate) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.namespace+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

// Put writes the value for key with no expiry.
func (s *RedisSubstrate) Put(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.namespace+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Close closes the redis client.
func (s *RedisSubstrate) Close() error {
	return s.client.Close()
}
