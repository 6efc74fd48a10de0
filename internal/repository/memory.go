package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/abhishek622/exitview/internal/lifecycle"
	"github.com/abhishek622/exitview/pkg/model"
	"github.com/google/uuid"
)

// MemoryCandidateStore keeps candidates in process. It enforces the same
// version check as the PostgreSQL store and is used for local runs and tests.
type MemoryCandidateStore struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]*model.Candidate
	order []uuid.UUID
}

var _ lifecycle.Store = (*MemoryCandidateStore)(nil)

func NewMemoryCandidateStore() *MemoryCandidateStore {
	return &MemoryCandidateStore{byID: make(map[uuid.UUID]*model.Candidate)}
}

func (s *MemoryCandidateStore) CreateCandidate(_ context.Context, c *model.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[c.CandidateID]; ok {
		return lifecycle.ErrConcurrentModification
	}
	s.byID[c.CandidateID] = c.Clone()
	s.order = append(s.order, c.CandidateID)
	return nil
}

func (s *MemoryCandidateStore) GetCandidate(_ context.Context, id uuid.UUID) (*model.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byID[id]
	if !ok {
		return nil, lifecycle.ErrCandidateNotFound
	}
	return c.Clone(), nil
}

func (s *MemoryCandidateStore) ListProjectCandidates(_ context.Context, projectID uuid.UUID) ([]model.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Candidate, 0, len(s.order))
	for _, id := range s.order {
		if c := s.byID[id]; c.ProjectID == projectID {
			out = append(out, *c.Clone())
		}
	}
	return out, nil
}

func (s *MemoryCandidateStore) SaveCandidate(_ context.Context, c *model.Candidate, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.byID[c.CandidateID]
	if !ok {
		return lifecycle.ErrCandidateNotFound
	}
	if cur.Version != expectedVersion {
		return lifecycle.ErrConcurrentModification
	}
	c.Version = expectedVersion + 1
	s.byID[c.CandidateID] = c.Clone()
	return nil
}

// MemoryUserStore is the in-process counterpart of UserRepository.
type MemoryUserStore struct {
	mu    sync.Mutex
	users []model.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{}
}

func (s *MemoryUserStore) Create(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return fmt.Errorf("%w: %s", ErrEmailTaken, u.Email)
		}
	}
	now := time.Now().UTC()
	u.UserID = uuid.New()
	u.CreatedAt, u.UpdatedAt = now, now
	s.users = append(s.users, *u)
	return nil
}

func (s *MemoryUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return s.find(func(u model.User) bool { return u.Email == email })
}

func (s *MemoryUserStore) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	return s.find(func(u model.User) bool { return u.UserID == id })
}

func (s *MemoryUserStore) ListByRole(_ context.Context, role model.UserRole) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.User{}
	for _, u := range s.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryUserStore) find(match func(model.User) bool) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, ErrUserNotFound
}
