package lifecycle_test

import (
	"context"
	"errors"
	"testing"

	"github.com/abhishek622/exitview/internal/lifecycle"
	"github.com/abhishek622/exitview/pkg/model"
	"github.com/google/uuid"
)

func newIDs(n int) []uuid.UUID {
	out := make([]uuid.UUID, n)
	for i := range out {
		out[i] = uuid.New()
	}
	return out
}

func TestDistribute(t *testing.T) {
	t.Parallel()
	tests := []struct {
		candidates   int
		interviewers int
		want         []int
	}{
		{5, 2, []int{3, 2}},
		{5, 4, []int{2, 2, 1, 0}},
		{6, 3, []int{2, 2, 2}},
		{1, 3, []int{1, 0, 0}},
		{0, 2, []int{0, 0}},
		{10, 1, []int{10}},
	}
	for _, tc := range tests {
		cands := newIDs(tc.candidates)
		buckets, err := lifecycle.Distribute(cands, newIDs(tc.interviewers))
		if err != nil {
			t.Fatalf("Distribute(%d, %d): %v", tc.candidates, tc.interviewers, err)
		}
		if len(buckets) != len(tc.want) {
			t.Fatalf("Distribute(%d, %d): %d buckets, want %d", tc.candidates, tc.interviewers, len(buckets), len(tc.want))
		}

		seen := map[uuid.UUID]int{}
		var flat []uuid.UUID
		for i, b := range buckets {
			if len(b.CandidateIDs) != tc.want[i] {
				t.Errorf("Distribute(%d, %d): bucket %d has %d, want %d", tc.candidates, tc.interviewers, i, len(b.CandidateIDs), tc.want[i])
			}
			for _, id := range b.CandidateIDs {
				seen[id]++
				flat = append(flat, id)
			}
		}
		for i, id := range cands {
			if seen[id] != 1 {
				t.Fatalf("candidate %s assigned %d times", id, seen[id])
			}
			if flat[i] != id {
				t.Fatalf("order not preserved at %d", i)
			}
		}
	}
}

func TestDistribute_Interviewers(t *testing.T) {
	t.Parallel()
	if _, err := lifecycle.Distribute(newIDs(3), nil); !errors.Is(err, lifecycle.ErrNoInterviewersAvailable) {
		t.Fatalf("no interviewers: err=%v", err)
	}
	if _, err := lifecycle.Distribute(newIDs(3), []uuid.UUID{uuid.Nil}); !errors.Is(err, lifecycle.ErrNoInterviewersAvailable) {
		t.Fatalf("only nil interviewers: err=%v", err)
	}

	a, b := uuid.New(), uuid.New()
	buckets, err := lifecycle.Distribute(newIDs(4), []uuid.UUID{a, b, a})
	if err != nil {
		t.Fatalf("Distribute: %v", err)
	}
	if len(buckets) != 2 || buckets[0].InterviewerID != a || buckets[1].InterviewerID != b {
		t.Fatalf("duplicates not collapsed: %+v", buckets)
	}
}

func TestAutoAssignInterviewers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	var created []*model.Candidate
	for i := 0; i < 5; i++ {
		created = append(created, f.newCandidate(t, 4))
	}
	// one candidate already in the call flow keeps its status
	f.mustRecord(t, created[1].CandidateID, model.CallBusy)
	// inactive candidates are left alone
	inactive := f.get(t, created[4].CandidateID)
	inactive.IsActive = false
	if err := f.store.SaveCandidate(ctx, inactive, inactive.Version); err != nil {
		t.Fatalf("SaveCandidate: %v", err)
	}
	// a candidate in another project is never touched
	other, err := f.svc.CreateCandidate(ctx, model.CreateCandidateReq{ProjectID: uuid.New(), Name: "Other"})
	if err != nil {
		t.Fatalf("CreateCandidate: %v", err)
	}

	interviewers := newIDs(2)
	res, err := f.svc.AutoAssignInterviewers(ctx, f.project, interviewers, f.operator)
	if err != nil {
		t.Fatalf("AutoAssignInterviewers: %v", err)
	}
	if len(res.Failures) != 0 {
		t.Fatalf("failures: %+v", res.Failures)
	}
	if len(res.Distribution) != 2 || res.Distribution[0].CandidateCount != 2 || res.Distribution[1].CandidateCount != 2 {
		t.Fatalf("distribution=%+v, want 2 and 2", res.Distribution)
	}

	wantInterviewer := []uuid.UUID{interviewers[0], interviewers[0], interviewers[1], interviewers[1]}
	for i, c := range created[:4] {
		got := f.get(t, c.CandidateID)
		if got.AssignedInterviewer == nil || *got.AssignedInterviewer != wantInterviewer[i] {
			t.Fatalf("candidate %d assigned to %v, want %s", i, got.AssignedInterviewer, wantInterviewer[i])
		}
		if *got.AssignedBy != f.operator {
			t.Fatalf("candidate %d assigned_by=%v", i, got.AssignedBy)
		}
		want := model.StatusAssigned
		if i == 1 {
			want = model.StatusAttempting
		}
		if got.OverallStatus != want {
			t.Fatalf("candidate %d status=%s, want %s", i, got.OverallStatus, want)
		}
		assertDerived(t, got)
	}
	if got := f.get(t, created[4].CandidateID); got.AssignedInterviewer != nil {
		t.Fatal("inactive candidate was assigned")
	}
	if got := f.get(t, other.CandidateID); got.AssignedInterviewer != nil {
		t.Fatal("candidate from another project was assigned")
	}

	if _, err := f.svc.AutoAssignInterviewers(ctx, f.project, nil, f.operator); !errors.Is(err, lifecycle.ErrNoInterviewersAvailable) {
		t.Fatalf("zero interviewers: err=%v", err)
	}
}

// failingStore rejects writes to one candidate.
type failingStore struct {
	lifecycle.Store
	fail uuid.UUID
}

func (s *failingStore) SaveCandidate(ctx context.Context, c *model.Candidate, expectedVersion int64) error {
	if c.CandidateID == s.fail {
		return lifecycle.ErrConcurrentModification
	}
	return s.Store.SaveCandidate(ctx, c, expectedVersion)
}

func TestAutoAssignInterviewers_PartialFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	a := f.newCandidate(t, 4)
	b := f.newCandidate(t, 4)
	c := f.newCandidate(t, 4)

	svc := lifecycle.NewService(&failingStore{Store: f.store, fail: b.CandidateID})
	interviewer := uuid.New()
	res, err := svc.AutoAssignInterviewers(ctx, f.project, []uuid.UUID{interviewer}, f.operator)
	if err != nil {
		t.Fatalf("AutoAssignInterviewers: %v", err)
	}
	if len(res.Failures) != 1 || res.Failures[0].CandidateID != b.CandidateID {
		t.Fatalf("failures=%+v, want only %s", res.Failures, b.CandidateID)
	}
	if res.Distribution[0].CandidateCount != 2 {
		t.Fatalf("count=%d, want 2 successful writes", res.Distribution[0].CandidateCount)
	}
	for _, id := range []uuid.UUID{a.CandidateID, c.CandidateID} {
		if got := f.get(t, id); got.OverallStatus != model.StatusAssigned {
			t.Fatalf("candidate %s status=%s, want ASSIGNED", id, got.OverallStatus)
		}
	}
	if got := f.get(t, b.CandidateID); got.OverallStatus != model.StatusNew {
		t.Fatalf("failed candidate status=%s, want NEW", got.OverallStatus)
	}
}

func TestAssignInterviewer(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	a := f.newCandidate(t, 4)
	missing := uuid.New()
	interviewer := uuid.New()

	res, err := f.svc.AssignInterviewer(ctx, []uuid.UUID{a.CandidateID, missing}, interviewer, f.operator)
	if err != nil {
		t.Fatalf("AssignInterviewer: %v", err)
	}
	if len(res.Candidates) != 1 || res.Candidates[0].OverallStatus != model.StatusAssigned {
		t.Fatalf("candidates=%+v", res.Candidates)
	}
	if len(res.Failures) != 1 || res.Failures[0].CandidateID != missing {
		t.Fatalf("failures=%+v", res.Failures)
	}

	if _, err := f.svc.AssignInterviewer(ctx, []uuid.UUID{a.CandidateID}, uuid.Nil, f.operator); !errors.Is(err, lifecycle.ErrInvalidInput) {
		t.Fatalf("nil interviewer: err=%v", err)
	}
	if _, err := f.svc.AssignInterviewer(ctx, nil, interviewer, f.operator); !errors.Is(err, lifecycle.ErrInvalidInput) {
		t.Fatalf("no candidates: err=%v", err)
	}
}
