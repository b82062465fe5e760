package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisStore on it
func setupTestRedis(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	kv := NewRedisStore(client, ttl)
	t.Cleanup(func() {
		_ = kv.Close()
	})

	return kv, mr
}

func TestRedisStore_GetMissing(t *testing.T) {
	kv, _ := setupTestRedis(t, 0)

	_, err := kv.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_SetAndGet(t *testing.T) {
	kv, mr := setupTestRedis(t, 0)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "o:kishki_cart", `[]`))

	stored, err := mr.Get("o:kishki_cart")
	require.NoError(t, err)
	assert.Equal(t, `[]`, stored)
	assert.Equal(t, time.Duration(0), mr.TTL("o:kishki_cart"), "keys are durable by default")

	value, err := kv.Get(ctx, "o:kishki_cart")
	require.NoError(t, err)
	assert.Equal(t, `[]`, value)
}

func TestRedisStore_WithTTL(t *testing.T) {
	kv, mr := setupTestRedis(t, 30*24*time.Hour)

	require.NoError(t, kv.Set(context.Background(), "k", "v"))
	assert.Equal(t, 30*24*time.Hour, mr.TTL("k"))
}

func TestRedisStore_ServerDown(t *testing.T) {
	kv, mr := setupTestRedis(t, 0)
	mr.Close()

	_, err := kv.Get(context.Background(), "k")
	require.ErrorContains(t, err, "redis get failed")
	require.ErrorContains(t, kv.Set(context.Background(), "k", "v"), "redis set failed")
}

func TestRedisStore_BacksRepository(t *testing.T) {
	kv, mr := setupTestRedis(t, 0)
	ctx := context.Background()
	repo := NewRepository(kv, "shop", nil)

	require.NoError(t, repo.SaveCart(ctx, testItems()))
	assert.True(t, mr.Exists("shop:kishki_cart"))

	loaded := repo.LoadCart(ctx)
	require.Len(t, loaded, 2)
	assert.Equal(t, "2", loaded[1].ID)

	mr.Set("shop:kishki_cart", "{not json")
	assert.Empty(t, repo.LoadCart(ctx))
}

func TestConnectRedis_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := ConnectRedis(ctx, "127.0.0.1:1", "", 0)
	require.ErrorContains(t, err, "failed to ping redis")
}
