package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures a Redis-backed store.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// KeyPrefix is prepended to every key, separated by a colon.
	KeyPrefix string
	// TTL expires marked keys. Zero keeps them forever.
	TTL time.Duration
}

// Redis is a Store shared through a Redis server.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis connects to the server and verifies it answers a PING.
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}

	return newRedisWithClient(client, opts), nil
}

func newRedisWithClient(client *redis.Client, opts RedisOptions) *Redis {
	prefix := ""
	if opts.KeyPrefix != "" {
		prefix = opts.KeyPrefix + ":"
	}
	return &Redis{client: client, prefix: prefix, ttl: opts.TTL}
}

func (r *Redis) key(k string) string {
	return r.prefix + k
}

func (r *Redis) Seen(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(key)).Result()
	if err != nil {
		return false, r.wrap("lookup", err)
	}
	return n > 0, nil
}

func (r *Redis) Mark(ctx context.Context, key string) error {
	err := r.client.Set(ctx, r.key(key), time.Now().Unix(), r.ttl).Err()
	if err != nil {
		return r.wrap("set", err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) wrap(op string, err error) error {
	if errors.Is(err, redis.ErrClosed) {
		return ErrClosed
	}
	return fmt.Errorf("failed to %s processed key: %w", op, err)
}
