package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"wonder-electronics/internal/config"
)

const slotPrefix = "wonder:slot:"

// redisStore keeps slots in Redis, for deployments where storefront and
// admin processes share state.
type redisStore struct {
	client *redis.Client
}

// OpenRedis connects to Redis and verifies the connection.
func OpenRedis(cfg config.RedisConfig) (Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &redisStore{client: client}, nil
}

// NewRedisWithClient wraps an existing client; used by tests with miniredis.
func NewRedisWithClient(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, slotPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, nil
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, slotPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, slotPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
