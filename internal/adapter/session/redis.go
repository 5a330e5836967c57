package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"empathy-client/internal/domain/ports"
)

const defaultKey = "empathy:session:token"

var ErrRedisNotReady = errors.New("redis is not ready")

// RedisStore persists the bearer token in Redis so it survives restarts
// and can be shared by several CLI invocations.
type RedisStore struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

var _ ports.TokenStore = (*RedisStore)(nil)

// NewRedisStore wraps client. An empty key falls back to the default; a zero
// ttl keeps the token until it is cleared.
func NewRedisStore(client redis.UniversalClient, key string, ttl time.Duration) *RedisStore {
	if key == "" {
		key = defaultKey
	}
	return &RedisStore{client: client, key: key, ttl: ttl}
}

// Connect parses url and pings the server once.
func Connect(ctx context.Context, url string, timeout time.Duration) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Join(ErrRedisNotReady, err)
	}
	return client, nil
}

// Token returns the stored token; a missing key is not an error.
func (s *RedisStore) Token(ctx context.Context) (string, error) {
	val, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get session token: %w", err)
	}
	return val, nil
}

// SetToken stores token, refreshing the TTL.
func (s *RedisStore) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return s.ClearToken(ctx)
	}
	if err := s.client.Set(ctx, s.key, token, s.ttl).Err(); err != nil {
		return fmt.Errorf("set session token: %w", err)
	}
	return nil
}

// ClearToken deletes the stored token.
func (s *RedisStore) ClearToken(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	return nil
}
