// Package lifecycle owns every state transition of a candidate through
// follow-up calls, interview scheduling, interview execution and completion.
package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/abhishek622/exitview/pkg/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is the record store the engine reads and writes candidates through.
//
// SaveCandidate must persist c only if the stored version still equals
// expectedVersion, returning ErrConcurrentModification otherwise, and must
// bump c.Version on success. Follow-up attempts not yet persisted are
// written in the same atomic step.
type Store interface {
	CreateCandidate(ctx context.Context, c *model.Candidate) error
	GetCandidate(ctx context.Context, id uuid.UUID) (*model.Candidate, error)
	ListProjectCandidates(ctx context.Context, projectID uuid.UUID) ([]model.Candidate, error)
	SaveCandidate(ctx context.Context, c *model.Candidate, expectedVersion int64) error
}

// Locker provides per-candidate mutual exclusion across processes.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// Observer is notified of every operation outcome and status change.
type Observer interface {
	ObserveOperation(op string, err error)
	ObserveTransition(from, to model.OverallStatus)
}

type noopLocker struct{}

func (noopLocker) Lock(context.Context, string) (func(), error) { return func() {}, nil }

type noopObserver struct{}

func (noopObserver) ObserveOperation(string, error)            {}
func (noopObserver) ObserveTransition(_, _ model.OverallStatus) {}

type Service struct {
	store       Store
	locker      Locker
	observer    Observer
	logger      *zap.Logger
	now         func() time.Time
	maxAttempts int
}

type Option func(*Service)

func WithLocker(l Locker) Option {
	return func(s *Service) {
		if l != nil {
			s.locker = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(s *Service) {
		if o != nil {
			s.observer = o
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDefaultMaxAttempts sets the limit given to candidates created without one.
func WithDefaultMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:       store,
		locker:      noopLocker{},
		observer:    noopObserver{},
		logger:      zap.NewNop(),
		now:         func() time.Time { return time.Now().UTC() },
		maxAttempts: model.DefaultMaxFollowupAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func lockKey(id uuid.UUID) string {
	return "candidate:" + id.String()
}

// mutate runs fn against a fresh copy of the candidate under the candidate
// lock and saves the result with an optimistic version check. Nothing is
// written when fn fails.
func (s *Service) mutate(ctx context.Context, op string, id uuid.UUID, fn func(c *model.Candidate, now time.Time) error) (out *model.Candidate, err error) {
	defer func() { s.observer.ObserveOperation(op, err) }()

	unlock, err := s.locker.Lock(ctx, lockKey(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer unlock()

	cur, err := s.store.GetCandidate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	next := cur.Clone()
	if err := fn(next, now); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	next.UpdatedAt = now

	if err := s.store.SaveCandidate(ctx, next, cur.Version); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if cur.OverallStatus != next.OverallStatus {
		s.observer.ObserveTransition(cur.OverallStatus, next.OverallStatus)
		s.logger.Sugar().Infow("candidate status changed",
			"candidate_id", id, "operation", op,
			"from", cur.OverallStatus, "to", next.OverallStatus)
	}
	return next, nil
}
