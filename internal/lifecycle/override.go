package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/abhishek622/exitview/pkg/model"
	"github.com/google/uuid"
)

// SetStatus forces the overall status without any state-machine guard.
//
// Moving a candidate off DROPPED restores it: the attempt limit starts
// counting again from the attempts already on record. Follow-up attempts
// and interview fields are left untouched.
func (s *Service) SetStatus(ctx context.Context, candidateID uuid.UUID, status model.OverallStatus) (*model.Candidate, error) {
	return s.mutate(ctx, "set status", candidateID, func(c *model.Candidate, _ time.Time) error {
		return applySetStatus(c, status)
	})
}

func applySetStatus(c *model.Candidate, status model.OverallStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if c.OverallStatus == model.StatusDropped && status != model.StatusDropped {
		c.AttemptWindowStart = len(c.FollowupAttempts)
	}
	c.OverallStatus = status
	c.StatusOverridden = true
	return nil
}
