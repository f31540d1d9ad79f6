// Package redis holds the login throttle and its connection helper. Redis is
// optional: without it the service still serves logins, it just stops
// counting failures.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultDialTimeout = 5 * time.Second
	clientName         = "auth-service"
)

// Config selects the Redis instance and logical database backing the login
// throttle counters.
type Config struct {
	Addr string
	DB   int

	// DialTimeout bounds the startup connectivity check. Zero means the
	// default.
	DialTimeout time.Duration
}

// Connect opens a client against the throttle database and proves it
// reachable with one ping, so a bad address fails at startup rather than
// silently disabling the throttle on the first failed login.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		DB:          cfg.DB,
		ClientName:  clientName,
		DialTimeout: timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
