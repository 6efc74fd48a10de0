package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/abhishek622/exitview/pkg/model"
	"github.com/google/uuid"
)

type FollowupInput struct {
	// AttemptNumber is what the caller believes the next attempt is. Zero skips the check.
	AttemptNumber          int
	CallStatus             model.CallStatus
	Notes                  *string
	ScheduledInterviewDate *time.Time
	AttemptedBy            uuid.UUID
}

// RecordFollowup appends a call outcome to the candidate and applies its status effects.
func (s *Service) RecordFollowup(ctx context.Context, candidateID uuid.UUID, in FollowupInput) (*model.Candidate, error) {
	return s.mutate(ctx, "record followup", candidateID, func(c *model.Candidate, now time.Time) error {
		return applyFollowup(c, in, now)
	})
}

func applyFollowup(c *model.Candidate, in FollowupInput, now time.Time) error {
	if !in.CallStatus.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCallStatus, in.CallStatus)
	}
	if in.AttemptedBy == uuid.Nil {
		return fmt.Errorf("%w: attempted_by is required", ErrInvalidInput)
	}
	agreed := in.CallStatus == model.CallAnsweredAgreed
	if agreed && in.ScheduledInterviewDate == nil {
		return ErrMissingScheduledDate
	}
	if !agreed && in.ScheduledInterviewDate != nil {
		return fmt.Errorf("%w: scheduled_interview_date only applies to %s", ErrInvalidInput, model.CallAnsweredAgreed)
	}

	if c.OverallStatus == model.StatusDropped {
		return ErrCandidateDropped
	}
	if phase := c.InterviewDetails.Phase(); phase == model.PhaseInProgress || phase == model.PhaseCompleted {
		return fmt.Errorf("%w: interview is %s", ErrInvalidPhaseTransition, phase)
	}

	attemptNumber := len(c.FollowupAttempts) + 1
	if in.AttemptNumber != 0 && in.AttemptNumber != attemptNumber {
		return fmt.Errorf("%w: attempt %d requested, next attempt is %d", ErrConcurrentModification, in.AttemptNumber, attemptNumber)
	}
	limit := maxAttempts(c)
	windowIndex := attemptNumber - c.AttemptWindowStart
	if windowIndex > limit {
		return fmt.Errorf("%w: attempt %d of %d", ErrAttemptLimitExceeded, windowIndex, limit)
	}

	attempt := model.FollowupAttempt{
		AttemptID:        uuid.New(),
		CandidateID:      c.CandidateID,
		AttemptNumber:    attemptNumber,
		CallStatus:       in.CallStatus,
		Notes:            in.Notes,
		AttemptedBy:      in.AttemptedBy,
		AttemptTimestamp: now,
	}
	if agreed {
		when := in.ScheduledInterviewDate.UTC()
		attempt.ScheduledInterviewDate = &when
	}
	c.FollowupAttempts = append(c.FollowupAttempts, attempt)

	switch {
	case agreed:
		when := *attempt.ScheduledInterviewDate
		c.InterviewDetails.ScheduledDate = &when
		setDerivedStatus(c, model.StatusScheduled)
	case in.CallStatus.Terminal():
		setDerivedStatus(c, model.StatusDropped)
	case windowIndex == limit:
		// out of attempts without a scheduled interview
		setDerivedStatus(c, model.StatusDropped)
	case windowIndex == 1:
		setDerivedStatus(c, model.StatusAttempting)
	}
	return nil
}
