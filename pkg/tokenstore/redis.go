package tokenstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/klwxsrx/vocab-client/pkg/session"
)

const defaultRedisPrefix = "vocab"

// Redis shares one session between several client processes on a host or a CI runner.
type Redis struct {
	client redis.UniversalClient
	key    string
}

func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}

	return &Redis{
		client: client,
		key:    prefix + ":" + session.TokenKey,
	}
}

// OpenRedis parses a redis:// url and checks the connection.
func OpenRedis(ctx context.Context, url, prefix string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedis(client, prefix), nil
}

func (r *Redis) Get(ctx context.Context) (string, error) {
	token, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", session.ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", r.key, err)
	}
	return token, nil
}

func (r *Redis) Set(ctx context.Context, token string) error {
	if err := r.client.Set(ctx, r.key, token, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", r.key, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
