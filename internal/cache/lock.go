package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhishek622/exitview/internal/lifecycle"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrLockBusy = errors.New("lock is held by another request")

// release deletes the key only if it still holds our token.
var release = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// CandidateLocker serializes read-modify-write cycles on one candidate
// across API instances with a SET NX PX lease.
type CandidateLocker struct {
	client  *redis.Client
	logger  *zap.Logger
	ttl     time.Duration
	retries int
	backoff time.Duration
	prefix  string
}

var _ lifecycle.Locker = (*CandidateLocker)(nil)

func NewCandidateLocker(client *redis.Client, logger *zap.Logger, ttl time.Duration) *CandidateLocker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CandidateLocker{
		client:  client,
		logger:  logger,
		ttl:     ttl,
		retries: 5,
		backoff: 20 * time.Millisecond,
		prefix:  "exitview:lock:",
	}
}

func (l *CandidateLocker) Lock(ctx context.Context, key string) (func(), error) {
	k := l.prefix + key
	token := uuid.NewString()

	for attempt := 0; ; attempt++ {
		ok, err := l.client.SetNX(ctx, k, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", k, err)
		}
		if ok {
			break
		}
		if attempt >= l.retries {
			return nil, fmt.Errorf("%w: %w", lifecycle.ErrConcurrentModification, ErrLockBusy)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.backoff):
		}
	}

	unlock := func() {
		// the request context may already be cancelled; the release must still run
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := release.Run(ctx, l.client, []string{k}, token).Err(); err != nil {
			l.logger.Sugar().Warnw("release candidate lock", "key", k, "err", err)
		}
	}
	return unlock, nil
}
