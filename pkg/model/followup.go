package model

import (
	"time"

	"github.com/google/uuid"
)

type CallStatus string

const (
	CallAnsweredAgreed    CallStatus = "ANSWERED_AGREED"
	CallAnsweredDeclined  CallStatus = "ANSWERED_DECLINED"
	CallNotAnswering      CallStatus = "NOT_ANSWERING"
	CallWrongNumber       CallStatus = "WRONG_NUMBER"
	CallSwitchedOff       CallStatus = "SWITCHED_OFF"
	CallBusy              CallStatus = "BUSY"
	CallCallbackRequested CallStatus = "CALLBACK_REQUESTED"
)

func (s CallStatus) Valid() bool {
	switch s {
	case CallAnsweredAgreed, CallAnsweredDeclined, CallNotAnswering, CallWrongNumber,
		CallSwitchedOff, CallBusy, CallCallbackRequested:
		return true
	}
	return false
}

// Terminal outcomes drop the candidate on the spot.
func (s CallStatus) Terminal() bool {
	return s == CallAnsweredDeclined || s == CallWrongNumber
}

type FollowupAttempt struct {
	AttemptID              uuid.UUID  `json:"attempt_id" db:"attempt_id"`
	CandidateID            uuid.UUID  `json:"candidate_id" db:"candidate_id"`
	AttemptNumber          int        `json:"attempt_number" db:"attempt_number"`
	CallStatus             CallStatus `json:"call_status" db:"call_status"`
	Notes                  *string    `json:"notes" db:"notes"`
	ScheduledInterviewDate *time.Time `json:"scheduled_interview_date" db:"scheduled_interview_date"`
	AttemptedBy            uuid.UUID  `json:"attempted_by" db:"attempted_by"`
	AttemptTimestamp       time.Time  `json:"attempt_timestamp" db:"attempt_timestamp"`
}

func (a FollowupAttempt) clone() FollowupAttempt {
	a.Notes = clonePtr(a.Notes)
	a.ScheduledInterviewDate = clonePtr(a.ScheduledInterviewDate)
	return a
}

type RecordFollowupReq struct {
	// AttemptNumber is the caller's view of the next attempt; zero skips the staleness check.
	AttemptNumber          int        `json:"attempt_number" binding:"omitempty,min=1"`
	CallStatus             CallStatus `json:"call_status" binding:"required"`
	Notes                  *string    `json:"notes"`
	ScheduledInterviewDate *time.Time `json:"scheduled_interview_date"`
}
