package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps the snapshot as a single string value under Key.
type RedisStorage struct {
	client *redis.Client
	key    string
}

// NewRedisStorage connects to redisURL and fails fast if the server does not
// answer a PING within the retry window.
func NewRedisStorage(redisURL string) (*RedisStorage, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	storage := &RedisStorage{
		client: redis.NewClient(opts),
		key:    Key,
	}

	ctx := context.Background()
	if err := storage.healthCheckWithRetry(ctx); err != nil {
		storage.client.Close()
		return nil, fmt.Errorf("%w: %v", ErrStorageUnreachable, err)
	}

	return storage, nil
}

// healthCheckWithRetry pings with exponential backoff.
// Initial interval 500ms, max interval 5s, max elapsed 15s.
func (s *RedisStorage) healthCheckWithRetry(ctx context.Context) error {
	exponentialBackoff := backoff.NewExponentialBackOff()
	exponentialBackoff.InitialInterval = 500 * time.Millisecond
	exponentialBackoff.MaxInterval = 5 * time.Second
	exponentialBackoff.MaxElapsedTime = 15 * time.Second

	return backoff.Retry(func() error {
		return s.Health(ctx)
	}, backoff.WithContext(exponentialBackoff, ctx))
}

func (s *RedisStorage) Health(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (s *RedisStorage) Load(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnreachable, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: redis key %s", ErrCorruptState, s.key)
	}
	return data, nil
}

func (s *RedisStorage) Save(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (s *RedisStorage) Close() error {
	return s.client.Close()
}
