package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/abhishek622/exitview/internal/config"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds the client backing the candidate lock. Timeouts stay
// well under the lock TTL so a slow Redis fails the request instead of
// outliving the lease.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ClientName:   "exitview-api",
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

// Ping checks the connection, giving up after timeout.
func Ping(ctx context.Context, c *redis.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", c.Options().Addr, err)
	}
	return nil
}
