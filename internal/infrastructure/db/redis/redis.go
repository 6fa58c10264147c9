package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTimeout = 5 * time.Second

// Config describes the Redis deployment shared by the storefront tabs.
type Config struct {
	Addr     string
	Password string
	DB       int
	Timeout  time.Duration
	// ClientName shows up in CLIENT LIST, e.g. "storefront:<tab id>".
	ClientName string
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultTimeout
	}
	return c.Timeout
}

// options maps c onto go-redis options. Every network step shares one
// timeout; the Pub/Sub reader has its own health checks.
func (c Config) options() *redis.Options {
	t := c.timeout()
	return &redis.Options{
		Addr:         c.Addr,
		Password:     c.Password,
		DB:           c.DB,
		ClientName:   c.ClientName,
		DialTimeout:  t,
		ReadTimeout:  t,
		WriteTimeout: t,
	}
}

// Connect opens a client and fails unless the server answers a ping within
// the configured timeout.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(cfg.options())

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout())
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s db %d unreachable: %w", cfg.Addr, cfg.DB, err)
	}
	return client, nil
}
