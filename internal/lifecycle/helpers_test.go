package lifecycle_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/abhishek622/exitview/internal/lifecycle"
	"github.com/abhishek622/exitview/internal/repository"
	"github.com/abhishek622/exitview/pkg/model"
	"github.com/google/uuid"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	svc      *lifecycle.Service
	store    *repository.MemoryCandidateStore
	clock    *fakeClock
	operator uuid.UUID
	project  uuid.UUID
}

func newFixture(t *testing.T, opts ...lifecycle.Option) *fixture {
	t.Helper()
	f := &fixture{
		store:    repository.NewMemoryCandidateStore(),
		clock:    &fakeClock{now: time.Date(2025, 2, 20, 9, 0, 0, 0, time.UTC)},
		operator: uuid.New(),
		project:  uuid.New(),
	}
	opts = append([]lifecycle.Option{lifecycle.WithClock(f.clock.Now)}, opts...)
	f.svc = lifecycle.NewService(f.store, opts...)
	return f
}

func (f *fixture) newCandidate(t *testing.T, maxAttempts int) *model.Candidate {
	t.Helper()
	req := model.CreateCandidateReq{ProjectID: f.project, Name: "Priya Sharma"}
	if maxAttempts > 0 {
		req.MaxFollowupAttempts = &maxAttempts
	}
	c, err := f.svc.CreateCandidate(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateCandidate: %v", err)
	}
	return c
}

func (f *fixture) record(t *testing.T, id uuid.UUID, status model.CallStatus) (*model.Candidate, error) {
	t.Helper()
	in := lifecycle.FollowupInput{CallStatus: status, AttemptedBy: f.operator}
	if status == model.CallAnsweredAgreed {
		when := f.clock.Now().Add(72 * time.Hour)
		in.ScheduledInterviewDate = &when
	}
	return f.svc.RecordFollowup(context.Background(), id, in)
}

func (f *fixture) mustRecord(t *testing.T, id uuid.UUID, status model.CallStatus) *model.Candidate {
	t.Helper()
	c, err := f.record(t, id, status)
	if err != nil {
		t.Fatalf("RecordFollowup(%s): %v", status, err)
	}
	return c
}

func (f *fixture) get(t *testing.T, id uuid.UUID) *model.Candidate {
	t.Helper()
	c, err := f.store.GetCandidate(context.Background(), id)
	if err != nil {
		t.Fatalf("GetCandidate: %v", err)
	}
	return c
}

// assertDerived checks that the stored status agrees with the derivation oracle.
func assertDerived(t *testing.T, c *model.Candidate) {
	t.Helper()
	if got := lifecycle.Derive(c); got != c.OverallStatus {
		t.Fatalf("stored status %s disagrees with derived %s (attempts=%d window_start=%d overridden=%t)",
			c.OverallStatus, got, len(c.FollowupAttempts), c.AttemptWindowStart, c.StatusOverridden)
	}
}

func ptr[T any](v T) *T { return &v }
