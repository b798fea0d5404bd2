package infra

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	defer client.Close()
	opt := client.Options()
	assert.Equal(t, applicationName, opt.ClientName)
	assert.Equal(t, cacheDialTimeout, opt.DialTimeout)
	assert.Equal(t, cacheIOTimeout, opt.ReadTimeout)
	assert.True(t, opt.ContextTimeoutEnabled)
}

func TestCacheOptionsKeepURLSettings(t *testing.T) {
	opt, err := cacheOptions("redis://localhost:6379/2?client_name=worker&read_timeout=3s")
	require.NoError(t, err)
	assert.Equal(t, "worker", opt.ClientName)
	assert.Equal(t, 3*time.Second, opt.ReadTimeout)
	assert.Equal(t, cacheIOTimeout, opt.WriteTimeout)
	assert.Equal(t, 2, opt.DB)
}

func TestNewRedisClientErrors(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "")
	assert.ErrorContains(t, err, "required")

	_, err = NewRedisClient(context.Background(), "http://nope")
	assert.ErrorContains(t, err, "parse cache url")
}

func TestMemberStoreConfig(t *testing.T) {
	cfg, err := memberStoreConfig("postgres://app@localhost:5432/onboarding", MemberStoreOptions{
		MaxConns:         7,
		StatementTimeout: 2500 * time.Millisecond,
	})
	require.NoError(t, err)
	params := cfg.ConnConfig.RuntimeParams
	assert.Equal(t, applicationName, params["application_name"])
	assert.Equal(t, "UTC", params["timezone"])
	assert.Equal(t, "2500", params["statement_timeout"])
	assert.Equal(t, int32(7), cfg.MaxConns)
}

func TestMemberStoreConfigKeepsURLParams(t *testing.T) {
	cfg, err := memberStoreConfig("postgres://app@localhost/onboarding?application_name=migrator&timezone=Europe/Lisbon", MemberStoreOptions{})
	require.NoError(t, err)
	params := cfg.ConnConfig.RuntimeParams
	assert.Equal(t, "migrator", params["application_name"])
	assert.Equal(t, "Europe/Lisbon", params["timezone"])
	assert.NotContains(t, params, "statement_timeout")
}

func TestNewPostgresPoolErrors(t *testing.T) {
	_, err := NewPostgresPool(context.Background(), "", MemberStoreOptions{})
	assert.ErrorContains(t, err, "required")

	_, err = NewPostgresPool(context.Background(), "postgres://%zz", MemberStoreOptions{})
	assert.ErrorContains(t, err, "parse member store url")
}
