package model

import (
	"time"

	"github.com/google/uuid"
)

type InterviewPhase string

const (
	PhaseNotStarted InterviewPhase = "NOT_STARTED"
	PhaseScheduled  InterviewPhase = "SCHEDULED"
	PhaseInProgress InterviewPhase = "IN_PROGRESS"
	PhaseCompleted  InterviewPhase = "COMPLETED"
)

type Interview struct {
	ScheduledDate            *time.Time `json:"scheduled_date" db:"scheduled_date"`
	StartedAt                *time.Time `json:"started_at" db:"started_at"`
	CompletedAt              *time.Time `json:"completed_at" db:"completed_at"`
	InterviewDurationMinutes *int       `json:"interview_duration_minutes" db:"interview_duration_minutes"`
	AnswersSubmitted         bool       `json:"answers_submitted" db:"answers_submitted"`
	QuestionnaireID          *uuid.UUID `json:"questionnaire_id" db:"questionnaire_id"`
}

// Phase is computed on read and never stored.
func (i Interview) Phase() InterviewPhase {
	switch {
	case i.CompletedAt != nil:
		return PhaseCompleted
	case i.StartedAt != nil:
		return PhaseInProgress
	case i.ScheduledDate != nil:
		return PhaseScheduled
	default:
		return PhaseNotStarted
	}
}

func (i Interview) clone() Interview {
	i.ScheduledDate = clonePtr(i.ScheduledDate)
	i.StartedAt = clonePtr(i.StartedAt)
	i.CompletedAt = clonePtr(i.CompletedAt)
	i.InterviewDurationMinutes = clonePtr(i.InterviewDurationMinutes)
	i.QuestionnaireID = clonePtr(i.QuestionnaireID)
	return i
}

type CompleteInterviewReq struct {
	AnswersSubmitted *bool `json:"answers_submitted"`
}
