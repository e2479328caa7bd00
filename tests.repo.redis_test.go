package main

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

func TestRedisStore(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisTokenStore(zap.NewNop(), client, DefaultSessionKey, 0)
	defer store.Close()
	ctx := context.Background()

	t.Run("load missing token", func(t *testing.T) {
		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, ErrTokenNotFound)
	})

	t.Run("save then load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "t:1"))
		token, err := store.Load(ctx)
		assert.NoError(t, err)
		assert.Equal(t, "t:1", token)
		got, err := mr.Get(DefaultSessionKey)
		assert.NoError(t, err)
		assert.Equal(t, "t:1", got)
		assert.Zero(t, mr.TTL(DefaultSessionKey))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx))
		assert.False(t, mr.Exists(DefaultSessionKey))
		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, ErrTokenNotFound)
	})
}

func TestRedisStore_TTL(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisTokenStore(zap.NewNop(), client, "chat:42", time.Hour)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "t:ttl"))
	assert.Equal(t, time.Hour, mr.TTL("chat:42"))

	mr.FastForward(2 * time.Hour)
	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestRedisStore_ServerDown(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisTokenStore(zap.NewNop(), client, DefaultSessionKey, 0)
	defer store.Close()
	mr.Close()

	_, err := store.Load(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrTokenNotFound)
}

func TestGetRedisClient(t *testing.T) {
	mr, _ := newTestRedis(t)
	config := DefaultConfig()
	config.Redis.Host = mr.Host()
	config.Redis.Port = mr.Port()

	client, err := GetRedisClient(config)
	require.NoError(t, err)
	assert.NoError(t, client.Close())

	mr.Close()
	_, err = GetRedisClient(config)
	assert.Error(t, err)
}
