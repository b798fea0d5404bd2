package infra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// The cache only holds idempotency records and submit counters, so calls are
// kept short. A slow cache must not hold a registration open.
const (
	cacheDialTimeout = 2 * time.Second
	cacheIOTimeout   = 500 * time.Millisecond
)

// NewRedisClient connects the cache behind idempotent submissions and the
// submit rate limit.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := cacheOptions(url)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache unreachable: %w", err)
	}

	return client, nil
}

// cacheOptions fills the timeouts url leaves unset.
func cacheOptions(url string) (*redis.Options, error) {
	if url == "" {
		return nil, errors.New("cache url is required")
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse cache url: %w", err)
	}
	if opt.ClientName == "" {
		opt.ClientName = applicationName
	}
	if opt.DialTimeout == 0 {
		opt.DialTimeout = cacheDialTimeout
	}
	if opt.ReadTimeout == 0 {
		opt.ReadTimeout = cacheIOTimeout
	}
	if opt.WriteTimeout == 0 {
		opt.WriteTimeout = cacheIOTimeout
	}
	opt.ContextTimeoutEnabled = true
	return opt, nil
}
