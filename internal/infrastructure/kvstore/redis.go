package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vendora/api/internal/config"
)

// redisClient implements Client on a Redis instance.
type redisClient struct {
	rdb *redis.Client
}

// NewRedis connects to Redis and verifies the connection before returning.
func NewRedis(cfg *config.Config) (Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("kvstore: redis ping failed: %w", err)
	}

	return &redisClient{rdb: rdb}, nil
}

// NewRedisFromClient wraps an existing go-redis client (used by tests).
func NewRedisFromClient(rdb *redis.Client) Client {
	return &redisClient{rdb: rdb}
}

func (c *redisClient) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (c *redisClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *redisClient) SetKeep(ctx context.Context, key, value string, fallback time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, redis.KeepTTL).Err(); err != nil {
		return err
	}
	// KEEPTTL on a key without one (fresh, or expired since the caller's
	// read) leaves it persistent. Guard: a TTL of -1 means no expiry, so
	// apply the fallback window.
	ttl, err := c.rdb.TTL(ctx, key).Result()
	if err != nil {
		return err
	}
	if ttl == -1 {
		return c.rdb.Expire(ctx, key, fallback).Err()
	}
	return nil
}

func (c *redisClient) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}
