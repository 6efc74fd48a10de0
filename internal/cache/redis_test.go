package cache

import (
	"context"
	"testing"
	"time"

	"github.com/abhishek622/exitview/internal/config"
)

func TestNewRedisClient_UsesConfig(t *testing.T) {
	t.Parallel()
	client := NewRedisClient(config.RedisConfig{Addr: "redis.internal:6380", Password: "pw", DB: 3})
	t.Cleanup(func() { _ = client.Close() })

	opts := client.Options()
	if opts.Addr != "redis.internal:6380" || opts.Password != "pw" || opts.DB != 3 {
		t.Fatalf("options=%+v", opts)
	}
	if opts.ClientName != "exitview-api" || opts.DialTimeout != 2*time.Second {
		t.Fatalf("client name=%q dial timeout=%s", opts.ClientName, opts.DialTimeout)
	}
}

func TestPing_Unreachable(t *testing.T) {
	t.Parallel()
	// nothing listens on port 1
	client := NewRedisClient(config.RedisConfig{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = client.Close() })

	if err := Ping(context.Background(), client, 500*time.Millisecond); err == nil {
		t.Fatal("ping to an unreachable redis succeeded")
	}
}
