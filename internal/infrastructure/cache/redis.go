package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options configures the shared client used by the idempotency store and the
// notification queue.
type Options struct {
	Addr     string
	Password string
	DB       int
	// ReadTimeout must exceed the longest blocking pop issued on the client.
	ReadTimeout time.Duration
}

func OpenRedis(ctx context.Context, o Options) (*redis.Client, error) {
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = 10 * time.Second
	}
	r := redis.NewClient(&redis.Options{
		Addr:        o.Addr,
		Password:    o.Password,
		DB:          o.DB,
		ReadTimeout: o.ReadTimeout,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := r.Ping(pingCtx).Err(); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("redis ping %s: %w", o.Addr, err)
	}
	return r, nil
}

// Ping is a health check for r.
func Ping(r *redis.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error { return r.Ping(ctx).Err() }
}
