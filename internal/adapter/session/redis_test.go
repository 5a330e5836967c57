package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_Integration(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	client, err := Connect(ctx, url, 2*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	s := NewRedisStore(client, "empathy:test:"+t.Name(), time.Minute)
	t.Cleanup(func() { _ = s.ClearToken(ctx) })

	token, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, s.SetToken(ctx, "persisted"))
	token, err = s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "persisted", token)

	ttl, err := client.TTL(ctx, s.key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, s.ClearToken(ctx))
	token, err = s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func newMiniredisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client, "empathy:test", ttl), mr
}

func TestRedisStore_Lifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, mr := newMiniredisStore(t, 0)

	token, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token, "missing key reads as no token")

	require.NoError(t, s.SetToken(ctx, "abc"))
	stored, err := mr.Get("empathy:test")
	require.NoError(t, err)
	assert.Equal(t, "abc", stored)
	assert.Zero(t, mr.TTL("empathy:test"), "zero ttl keeps the token")

	token, err = s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	require.NoError(t, s.ClearToken(ctx))
	assert.False(t, mr.Exists("empathy:test"))

	require.NoError(t, s.ClearToken(ctx), "clearing twice is fine")
}

func TestRedisStore_EmptyTokenClears(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, mr := newMiniredisStore(t, 0)

	require.NoError(t, s.SetToken(ctx, "abc"))
	require.NoError(t, s.SetToken(ctx, ""))
	assert.False(t, mr.Exists("empathy:test"))
}

func TestRedisStore_TTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, mr := newMiniredisStore(t, time.Minute)

	require.NoError(t, s.SetToken(ctx, "abc"))
	assert.Equal(t, time.Minute, mr.TTL("empathy:test"))

	mr.FastForward(30 * time.Second)
	require.NoError(t, s.SetToken(ctx, "def"))
	assert.Equal(t, time.Minute, mr.TTL("empathy:test"), "set refreshes the ttl")

	mr.FastForward(2 * time.Minute)
	token, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestRedisStore_ServerDown(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, mr := newMiniredisStore(t, 0)
	mr.Close()

	_, err := s.Token(ctx)
	assert.Error(t, err)
	assert.Error(t, s.SetToken(ctx, "abc"))
	assert.Error(t, s.ClearToken(ctx))
}

func TestConnect(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mr := miniredis.RunT(t)

	client, err := Connect(ctx, "redis://"+mr.Addr(), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	s := NewRedisStore(client, "", 0)
	require.NoError(t, s.SetToken(ctx, "abc"))
	assert.True(t, mr.Exists(defaultKey))

	addr := mr.Addr()
	mr.Close()
	_, err = Connect(ctx, "redis://"+addr, 200*time.Millisecond)
	assert.ErrorIs(t, err, ErrRedisNotReady)
}

func TestConnect_InvalidURL(t *testing.T) {
	t.Parallel()

	_, err := Connect(context.Background(), "://bad", time.Second)
	require.Error(t, err)
}

func TestNewRedisStore_DefaultKey(t *testing.T) {
	t.Parallel()

	s := NewRedisStore(nil, "", 0)
	assert.Equal(t, defaultKey, s.key)
}
