package lifecycle

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/abhishek622/exitview/pkg/model"
	"github.com/google/uuid"
)

// StartInterview moves a scheduled interview into progress.
func (s *Service) StartInterview(ctx context.Context, candidateID uuid.UUID) (*model.Candidate, error) {
	return s.mutate(ctx, "start interview", candidateID, applyStart)
}

// CompleteInterview closes an in-progress interview and records its duration.
func (s *Service) CompleteInterview(ctx context.Context, candidateID uuid.UUID, answersSubmitted bool) (*model.Candidate, error) {
	return s.mutate(ctx, "complete interview", candidateID, func(c *model.Candidate, now time.Time) error {
		return applyComplete(c, answersSubmitted, now)
	})
}

// MarkReportGenerated links an externally generated report to a completed interview.
func (s *Service) MarkReportGenerated(ctx context.Context, candidateID, reportID uuid.UUID) (*model.Candidate, error) {
	return s.mutate(ctx, "mark report generated", candidateID, func(c *model.Candidate, _ time.Time) error {
		return applyReport(c, reportID)
	})
}

func requirePhase(c *model.Candidate, want model.InterviewPhase) error {
	if c.OverallStatus == model.StatusDropped {
		return ErrCandidateDropped
	}
	if got := c.InterviewDetails.Phase(); got != want {
		return fmt.Errorf("%w: interview is %s, want %s", ErrInvalidPhaseTransition, got, want)
	}
	return nil
}

func applyStart(c *model.Candidate, now time.Time) error {
	if err := requirePhase(c, model.PhaseScheduled); err != nil {
		return err
	}
	started := now
	c.InterviewDetails.StartedAt = &started
	setDerivedStatus(c, model.StatusInProgress)
	return nil
}

func applyComplete(c *model.Candidate, answersSubmitted bool, now time.Time) error {
	if err := requirePhase(c, model.PhaseInProgress); err != nil {
		return err
	}
	completed := now
	minutes := durationMinutes(*c.InterviewDetails.StartedAt, completed)
	c.InterviewDetails.CompletedAt = &completed
	c.InterviewDetails.InterviewDurationMinutes = &minutes
	c.InterviewDetails.AnswersSubmitted = answersSubmitted
	setDerivedStatus(c, model.StatusInterviewed)
	return nil
}

func applyReport(c *model.Candidate, reportID uuid.UUID) error {
	if reportID == uuid.Nil {
		return fmt.Errorf("%w: report_id is required", ErrInvalidInput)
	}
	if err := requirePhase(c, model.PhaseCompleted); err != nil {
		return err
	}
	id := reportID
	c.ReportID = &id
	setDerivedStatus(c, model.StatusReportGenerated)
	return nil
}

// durationMinutes rounds to the nearest minute and never goes negative under clock skew.
func durationMinutes(start, end time.Time) int {
	ms := end.Sub(start).Milliseconds()
	if ms <= 0 {
		return 0
	}
	return int(math.Round(float64(ms) / 60000))
}
