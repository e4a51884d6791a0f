package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"processapi/internal/config"
)

// RedisFactory is a Factory backed by a shared go-redis client.
// Keys are stored as "<namespace>:<key>".
type RedisFactory struct {
	client *redis.Client
}

var _ Factory = (*RedisFactory)(nil)

// NewRedis connects to Redis using cfg and verifies connectivity.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*RedisFactory, error) {
	if cfg.URL == "" {
		return nil, errors.New("redis url is required")
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewRedisFactory(client), nil
}

// NewRedisFactory wraps an existing client.
func NewRedisFactory(client *redis.Client) *RedisFactory {
	return &RedisFactory{client: client}
}

// Get returns the store bound to namespace.
func (f *RedisFactory) Get(namespace string) Store {
	return &redisStore{client: f.client, namespace: namespace}
}

// Ping checks the Redis connection.
func (f *RedisFactory) Ping(ctx context.Context) error {
	return f.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (f *RedisFactory) Close() error {
	return f.client.Close()
}

type redisStore struct {
	client    *redis.Client
	namespace string
}

func (s *redisStore) Namespace() string { return s.namespace }

func (s *redisStore) key(k string) string {
	return s.namespace + ":" + k
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.key(key), value, ttl).Err()
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}
