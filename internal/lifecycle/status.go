package lifecycle

import "github.com/abhishek622/exitview/pkg/model"

// Derive computes the canonical overall status for c. Every automatic
// transition in this package must leave a candidate in the status Derive
// returns; only a manual override may disagree, and it is reported as
// authoritative while StatusOverridden is set.
func Derive(c *model.Candidate) model.OverallStatus {
	if c.StatusOverridden {
		return c.OverallStatus
	}

	iv := c.InterviewDetails
	if iv.CompletedAt != nil {
		if c.ReportID != nil {
			return model.StatusReportGenerated
		}
		return model.StatusInterviewed
	}
	if iv.StartedAt != nil {
		return model.StatusInProgress
	}

	window := c.WindowAttempts()
	if len(window) > 0 {
		last := window[len(window)-1]
		if last.CallStatus.Terminal() {
			return model.StatusDropped
		}
		if len(window) >= maxAttempts(c) && last.CallStatus != model.CallAnsweredAgreed {
			return model.StatusDropped
		}
		for _, a := range window {
			if a.CallStatus == model.CallAnsweredAgreed {
				return model.StatusScheduled
			}
		}
		return model.StatusAttempting
	}

	if c.AssignedInterviewer != nil {
		return model.StatusAssigned
	}
	return model.StatusNew
}

// Consistent reports whether the stored status matches the derived one.
func Consistent(c *model.Candidate) bool {
	return Derive(c) == c.OverallStatus
}

func maxAttempts(c *model.Candidate) int {
	if c.MaxFollowupAttempts <= 0 {
		return model.DefaultMaxFollowupAttempts
	}
	return c.MaxFollowupAttempts
}

// setDerivedStatus records an automatic transition, which supersedes any manual override.
func setDerivedStatus(c *model.Candidate, st model.OverallStatus) {
	c.OverallStatus = st
	c.StatusOverridden = false
}
