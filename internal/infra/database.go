package infra

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const applicationName = "lusoconnect-onboarding"

// MemberStoreOptions sizes the pool behind members and subscriptions. Zero
// values keep the pgx defaults.
type MemberStoreOptions struct {
	MaxConns         int32
	StatementTimeout time.Duration
}

// NewPostgresPool opens the member store and checks that it answers.
func NewPostgresPool(ctx context.Context, url string, opts MemberStoreOptions) (*pgxpool.Pool, error) {
	cfg, err := memberStoreConfig(url, opts)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open member store: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("member store unreachable: %w", err)
	}

	return pool, nil
}

// memberStoreConfig applies opts on top of url. Runtime parameters written in
// url are left alone.
func memberStoreConfig(url string, opts MemberStoreOptions) (*pgxpool.Config, error) {
	if url == "" {
		return nil, errors.New("member store url is required")
	}

	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse member store url: %w", err)
	}

	params := cfg.ConnConfig.RuntimeParams
	setDefault(params, "application_name", applicationName)
	// created_at is written and read as UTC.
	setDefault(params, "timezone", "UTC")
	if opts.StatementTimeout > 0 {
		setDefault(params, "statement_timeout", strconv.FormatInt(opts.StatementTimeout.Milliseconds(), 10))
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second
	return cfg, nil
}

func setDefault(params map[string]string, key, value string) {
	if _, ok := params[key]; !ok {
		params[key] = value
	}
}
