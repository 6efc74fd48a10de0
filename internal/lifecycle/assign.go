package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/abhishek622/exitview/pkg/model"
	"github.com/google/uuid"
)

// Bucket is the contiguous slice of candidates handed to one interviewer.
type Bucket struct {
	InterviewerID uuid.UUID
	CandidateIDs  []uuid.UUID
}

// Distribute splits candidates, in the given order, into contiguous blocks
// of ceil(len(candidates)/len(interviewers)), one per interviewer. Every
// interviewer gets a bucket, possibly empty. Duplicate interviewer ids are
// collapsed, keeping the first occurrence.
func Distribute(candidateIDs, interviewerIDs []uuid.UUID) ([]Bucket, error) {
	seen := make(map[uuid.UUID]bool, len(interviewerIDs))
	interviewers := make([]uuid.UUID, 0, len(interviewerIDs))
	for _, id := range interviewerIDs {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		interviewers = append(interviewers, id)
	}
	if len(interviewers) == 0 {
		return nil, ErrNoInterviewersAvailable
	}

	n, k := len(candidateIDs), len(interviewers)
	size := (n + k - 1) / k
	buckets := make([]Bucket, k)
	for i, interviewer := range interviewers {
		lo := min(i*size, n)
		hi := min(lo+size, n)
		buckets[i] = Bucket{InterviewerID: interviewer, CandidateIDs: candidateIDs[lo:hi]}
	}
	return buckets, nil
}

// AssignInterviewer gives every listed candidate to one interviewer. Each
// candidate is written independently; failures are reported per candidate.
func (s *Service) AssignInterviewer(ctx context.Context, candidateIDs []uuid.UUID, interviewerID, assignedBy uuid.UUID) (*model.AssignResult, error) {
	if interviewerID == uuid.Nil {
		return nil, fmt.Errorf("assign interviewer: %w: interviewer_id is required", ErrInvalidInput)
	}
	if len(candidateIDs) == 0 {
		return nil, fmt.Errorf("assign interviewer: %w: candidate_ids is empty", ErrInvalidInput)
	}

	res := &model.AssignResult{Candidates: []model.Candidate{}, Failures: []model.AssignFailure{}}
	for _, id := range candidateIDs {
		c, err := s.assignOne(ctx, id, interviewerID, assignedBy)
		if err != nil {
			res.Failures = append(res.Failures, model.AssignFailure{CandidateID: id, Error: err.Error()})
			continue
		}
		res.Candidates = append(res.Candidates, *c)
	}
	return res, nil
}

// AutoAssignInterviewers spreads a project's active candidates evenly over
// the given interviewers. It is best effort: a failed write is reported
// and does not undo the others.
func (s *Service) AutoAssignInterviewers(ctx context.Context, projectID uuid.UUID, interviewerIDs []uuid.UUID, assignedBy uuid.UUID) (*model.AutoAssignResult, error) {
	if _, err := Distribute(nil, interviewerIDs); err != nil {
		return nil, fmt.Errorf("auto assign: %w", err)
	}

	candidates, err := s.store.ListProjectCandidates(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("auto assign: list candidates: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(candidates))
	for _, c := range candidates {
		if c.IsActive {
			ids = append(ids, c.CandidateID)
		}
	}

	buckets, err := Distribute(ids, interviewerIDs)
	if err != nil {
		return nil, fmt.Errorf("auto assign: %w", err)
	}

	res := &model.AutoAssignResult{
		Distribution: make([]model.InterviewerLoad, 0, len(buckets)),
		Failures:     []model.AssignFailure{},
	}
	for _, b := range buckets {
		load := model.InterviewerLoad{InterviewerID: b.InterviewerID}
		for _, id := range b.CandidateIDs {
			if _, err := s.assignOne(ctx, id, b.InterviewerID, assignedBy); err != nil {
				s.logger.Sugar().Warnw("auto assign write failed", "candidate_id", id, "interviewer_id", b.InterviewerID, "err", err)
				res.Failures = append(res.Failures, model.AssignFailure{CandidateID: id, Error: err.Error()})
				continue
			}
			load.CandidateCount++
		}
		res.Distribution = append(res.Distribution, load)
	}
	return res, nil
}

func (s *Service) assignOne(ctx context.Context, candidateID, interviewerID, assignedBy uuid.UUID) (*model.Candidate, error) {
	return s.mutate(ctx, "assign interviewer", candidateID, func(c *model.Candidate, _ time.Time) error {
		applyAssign(c, interviewerID, assignedBy)
		return nil
	})
}

func applyAssign(c *model.Candidate, interviewerID, assignedBy uuid.UUID) {
	interviewer := interviewerID
	c.AssignedInterviewer = &interviewer
	if assignedBy != uuid.Nil {
		by := assignedBy
		c.AssignedBy = &by
	}
	if c.OverallStatus == model.StatusNew {
		// keeps StatusOverridden as is: a manually set NEW stays a manual flow
		c.OverallStatus = model.StatusAssigned
	}
}
