package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/threadmind/threadmind/pkg/config"
	"github.com/threadmind/threadmind/pkg/logging"
)

// ErrNotFound is returned when a key is absent or expired.
var ErrNotFound = errors.New("kv: key not found")

// Store wraps a Redis client as an ephemeral key-value store with per-key
// TTLs. Reset tokens and sessions live here and nowhere else.
type Store struct {
	client *redis.Client
}

// New creates a new Redis-backed store
func New(cfg *config.RedisConfig) (*Store, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logging.GetLogger().Info("Redis connection established")

	return &Store{client: client}, nil
}

// namespaceKey prefixes keys to keep the store shareable across apps
func (s *Store) namespaceKey(key string) string {
	return "threadmind:" + key
}

// Get retrieves a value. Absent or expired keys return ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.namespaceKey(key)).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	return val, err
}

// Set stores a value with a TTL
func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, s.namespaceKey(key), value, ttl).Err()
}

// GetDel atomically retrieves and deletes a value. Concurrent callers on
// the same key see at most one success; the rest get ErrNotFound.
func (s *Store) GetDel(ctx context.Context, key string) (string, error) {
	val, err := s.client.GetDel(ctx, s.namespaceKey(key)).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	return val, err
}

// Delete removes a key
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.namespaceKey(key)).Err()
}

// Exists checks if a key exists
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	count, err := s.client.Exists(ctx, s.namespaceKey(key)).Result()
	return count > 0, err
}

// Expire resets a key's TTL
func (s *Store) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return s.client.Expire(ctx, s.namespaceKey(key), ttl).Err()
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

// Health checks Redis health
func (s *Store) Health(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
