package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/abhishek622/exitview/internal/config"
	"github.com/abhishek622/exitview/internal/lifecycle"
	"github.com/google/uuid"
)

func TestCandidateLocker_skipIfNoRedis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping redis test")
	}
	ctx := context.Background()
	client := NewRedisClient(config.RedisConfig{Addr: addr, Password: os.Getenv("REDIS_PASSWORD")})
	t.Cleanup(func() { _ = client.Close() })
	if err := Ping(ctx, client, 2*time.Second); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	locker := NewCandidateLocker(client, nil, 2*time.Second)
	locker.retries = 1
	locker.backoff = 5 * time.Millisecond
	key := "candidate:" + uuid.NewString()

	unlock, err := locker.Lock(ctx, key)
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}

	_, err = locker.Lock(ctx, key)
	if !errors.Is(err, ErrLockBusy) || !errors.Is(err, lifecycle.ErrConcurrentModification) {
		t.Fatalf("second Lock: err=%v, want busy", err)
	}

	unlock()
	unlock2, err := locker.Lock(ctx, key)
	if err != nil {
		t.Fatalf("Lock after release: %v", err)
	}
	unlock2()
}
