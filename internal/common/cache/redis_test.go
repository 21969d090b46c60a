package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"application-admin/internal/common/config"
)

func newMiniredisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test:", ttl)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStore_SetGetInvalidate(t *testing.T) {
	ctx := context.Background()
	store, mr := newMiniredisStore(t, time.Minute)

	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.Set(ctx, "list:page=1", []byte(`{"n":1}`), TagApplicationList))
	require.NoError(t, store.Set(ctx, "app:5", []byte(`{"id":5}`), ApplicationTag("5")))

	assert.True(t, mr.Exists("test:entry:list:page=1"))
	members, err := mr.SMembers("test:tag:ApplicationList")
	require.NoError(t, err)
	assert.Equal(t, []string{"test:entry:list:page=1"}, members)

	val, ok, err := store.Get(ctx, "app:5")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":5}`, string(val))

	require.NoError(t, store.Invalidate(ctx, TagApplicationList))
	_, ok, err = store.Get(ctx, "list:page=1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists("test:tag:ApplicationList"))

	_, ok, _ = store.Get(ctx, "app:5")
	assert.True(t, ok)
}

func TestRedisStore_TTL(t *testing.T) {
	ctx := context.Background()
	store, mr := newMiniredisStore(t, 10*time.Second)

	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	mr.FastForward(11 * time.Second)

	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_GetError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisStore(db, "p:", time.Minute)

	mock.ExpectGet("p:entry:k").SetErr(errors.New("connection reset"))

	_, ok, err := store.Get(context.Background(), "k")
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_InvalidateError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisStore(db, "p:", time.Minute)

	mock.ExpectSMembers("p:tag:Application:9").SetErr(errors.New("readonly replica"))

	err := store.Invalidate(context.Background(), ApplicationTag("9"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "readonly replica")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewFromConfig(t *testing.T) {
	ctx := context.Background()

	store, err := NewFromConfig(ctx, config.CacheConfig{Backend: config.CacheBackendMemory, TTL: 1000})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	mr := miniredis.RunT(t)
	store, err = NewFromConfig(ctx, config.CacheConfig{
		Backend: config.CacheBackendRedis,
		TTL:     1000,
		Redis:   config.RedisConfig{Address: mr.Addr(), KeyPrefix: "x:"},
	})
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, store)
	require.NoError(t, store.Close())

	_, err = NewFromConfig(ctx, config.CacheConfig{Backend: "memcached"})
	require.Error(t, err)
}
