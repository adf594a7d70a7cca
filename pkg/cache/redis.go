// Package cache holds the Redis connection and the published-template read cache.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wono/hostpanel/pkg/config"
)

const pingTimeout = 2 * time.Second

// RedisClient owns the Redis pool shared by the template cache and the session store.
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient dials cfg.RedisURL and pings it. Query parameters in the URL
// (pool_size, dial_timeout, ...) override the defaults below.
func NewRedisClient(cfg *config.Config) (*RedisClient, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	applyPoolDefaults(opts, cfg)

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &RedisClient{client: rdb}, nil
}

// applyPoolDefaults fills settings the URL left at zero. Published-site reads
// are many and small, so the pool favours more idle connections over long timeouts.
func applyPoolDefaults(opts *redis.Options, cfg *config.Config) {
	if opts.ClientName == "" {
		opts.ClientName = cfg.ServiceName
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = cfg.RedisPoolSize
	}
	if opts.MinIdleConns == 0 {
		opts.MinIdleConns = max(opts.PoolSize/4, 1)
	}
	opts.MaxRetries = 3
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 5 * time.Second
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = time.Second
	}
	if opts.PoolTimeout == 0 {
		opts.PoolTimeout = 2 * time.Second
	}
}

// Ping checks the Redis connection health.
func (r *RedisClient) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close shuts down the pool.
func (r *RedisClient) Close() error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("redis close: %w", err)
	}
	return nil
}

// Client exposes the pool for the session store.
func (r *RedisClient) Client() *redis.Client {
	return r.client
}
