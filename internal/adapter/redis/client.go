// Package redis is a read-through provider cache shared by every service replica.
package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Client is a thin wrapper over go-redis exposing only what the caches need.
type Client struct {
	rdb *goredis.Client
}

// New creates a Redis client. No connection is made until first use.
func New(addr, password string, db int) *Client {
	return &Client{rdb: goredis.NewClient(&goredis.Options{Addr: addr, Password: password, DB: db})}
}

// Ping checks connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Get returns the value for key. A missing key returns ok=false with a nil error.
func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set stores val under key with the given expiry.
func (c *Client) Set(ctx context.Context, key, val string, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, val, ttl).Err()
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}
