package lifecycle

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhishek622/exitview/pkg/model"
	"github.com/google/uuid"
)

// CreateCandidate registers a new candidate in a project with status NEW.
func (s *Service) CreateCandidate(ctx context.Context, req model.CreateCandidateReq) (out *model.Candidate, err error) {
	defer func() { s.observer.ObserveOperation("create candidate", err) }()

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("create candidate: %w: name is required", ErrInvalidInput)
	}
	if req.ProjectID == uuid.Nil {
		return nil, fmt.Errorf("create candidate: %w: project_id is required", ErrInvalidInput)
	}

	limit := s.maxAttempts
	if req.MaxFollowupAttempts != nil {
		if *req.MaxFollowupAttempts < 1 {
			return nil, fmt.Errorf("create candidate: %w: max_followup_attempts must be at least 1", ErrInvalidInput)
		}
		limit = *req.MaxFollowupAttempts
	}

	now := s.now()
	c := &model.Candidate{
		CandidateID:         uuid.New(),
		ProjectID:           req.ProjectID,
		Name:                name,
		Email:               req.Email,
		Phone:               req.Phone,
		EmployeeCode:        req.EmployeeCode,
		Department:          req.Department,
		Designation:         req.Designation,
		ExitDate:            req.ExitDate,
		OverallStatus:       model.StatusNew,
		MaxFollowupAttempts: limit,
		FollowupAttempts:    []model.FollowupAttempt{},
		InterviewDetails:    model.Interview{QuestionnaireID: req.QuestionnaireID},
		IsActive:            true,
		Version:             1,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.store.CreateCandidate(ctx, c); err != nil {
		return nil, fmt.Errorf("create candidate: %w", err)
	}
	return c, nil
}

func (s *Service) GetCandidate(ctx context.Context, id uuid.UUID) (*model.Candidate, error) {
	c, err := s.store.GetCandidate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get candidate: %w", err)
	}
	return c, nil
}

func (s *Service) ListProjectCandidates(ctx context.Context, projectID uuid.UUID) ([]model.Candidate, error) {
	cs, err := s.store.ListProjectCandidates(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	return cs, nil
}

// CheckConsistency compares the stored status with the derived one.
func (s *Service) CheckConsistency(ctx context.Context, id uuid.UUID) (*model.ConsistencyRes, error) {
	c, err := s.GetCandidate(ctx, id)
	if err != nil {
		return nil, err
	}
	derived := Derive(c)
	return &model.ConsistencyRes{
		CandidateID:    c.CandidateID,
		StoredStatus:   c.OverallStatus,
		DerivedStatus:  derived,
		InterviewPhase: c.InterviewDetails.Phase(),
		Consistent:     derived == c.OverallStatus,
	}, nil
}
