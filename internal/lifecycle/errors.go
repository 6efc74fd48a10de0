package lifecycle

import "errors"

var (
	ErrCandidateNotFound       = errors.New("candidate not found")
	ErrCandidateDropped        = errors.New("candidate is dropped")
	ErrAttemptLimitExceeded    = errors.New("attempt limit exceeded")
	ErrMissingScheduledDate    = errors.New("scheduled interview date is required when the candidate agreed")
	ErrInvalidPhaseTransition  = errors.New("invalid interview phase transition")
	ErrNoInterviewersAvailable = errors.New("no interviewers available")
	ErrConcurrentModification  = errors.New("candidate was modified concurrently")

	ErrInvalidCallStatus = errors.New("invalid call status")
	ErrInvalidStatus     = errors.New("invalid overall status")
	ErrInvalidInput      = errors.New("invalid input")
)

// Kind returns a stable machine-readable code for err, or "" when err is not a lifecycle error.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCandidateNotFound):
		return "CANDIDATE_NOT_FOUND"
	case errors.Is(err, ErrCandidateDropped):
		return "CANDIDATE_DROPPED"
	case errors.Is(err, ErrAttemptLimitExceeded):
		return "ATTEMPT_LIMIT_EXCEEDED"
	case errors.Is(err, ErrMissingScheduledDate):
		return "MISSING_SCHEDULED_DATE"
	case errors.Is(err, ErrInvalidPhaseTransition):
		return "INVALID_PHASE_TRANSITION"
	case errors.Is(err, ErrNoInterviewersAvailable):
		return "NO_INTERVIEWERS_AVAILABLE"
	case errors.Is(err, ErrConcurrentModification):
		return "CONCURRENT_MODIFICATION"
	case errors.Is(err, ErrInvalidCallStatus), errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidInput):
		return "VALIDATION_ERROR"
	}
	return ""
}
