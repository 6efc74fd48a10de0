package model

import (
	"time"

	"github.com/google/uuid"
)

type OverallStatus string

const (
	StatusNew             OverallStatus = "NEW"
	StatusAssigned        OverallStatus = "ASSIGNED"
	StatusAttempting      OverallStatus = "ATTEMPTING"
	StatusScheduled       OverallStatus = "SCHEDULED"
	StatusInProgress      OverallStatus = "IN_PROGRESS"
	StatusInterviewed     OverallStatus = "INTERVIEWED"
	StatusReportGenerated OverallStatus = "REPORT_GENERATED"
	StatusDropped         OverallStatus = "DROPPED"
)

func (s OverallStatus) Valid() bool {
	switch s {
	case StatusNew, StatusAssigned, StatusAttempting, StatusScheduled,
		StatusInProgress, StatusInterviewed, StatusReportGenerated, StatusDropped:
		return true
	}
	return false
}

// DefaultMaxFollowupAttempts is used when neither the candidate nor the config set a limit.
const DefaultMaxFollowupAttempts = 4

type Candidate struct {
	CandidateID  uuid.UUID  `json:"candidate_id" db:"candidate_id"`
	ProjectID    uuid.UUID  `json:"project_id" db:"project_id"`
	Name         string     `json:"name" db:"name"`
	Email        *string    `json:"email" db:"email"`
	Phone        *string    `json:"phone" db:"phone_enc"`
	EmployeeCode *string    `json:"employee_code" db:"employee_code"`
	Department   *string    `json:"department" db:"department"`
	Designation  *string    `json:"designation" db:"designation"`
	ExitDate     *time.Time `json:"exit_date" db:"exit_date"`

	OverallStatus       OverallStatus `json:"overall_status" db:"overall_status"`
	StatusOverridden    bool          `json:"status_overridden" db:"status_overridden"`
	MaxFollowupAttempts int           `json:"max_followup_attempts" db:"max_followup_attempts"`
	// AttemptWindowStart is the attempt count at the last restore from DROPPED.
	AttemptWindowStart int               `json:"attempt_window_start" db:"attempt_window_start"`
	FollowupAttempts   []FollowupAttempt `json:"followup_attempts"`

	AssignedInterviewer *uuid.UUID `json:"assigned_interviewer" db:"assigned_interviewer"`
	AssignedBy          *uuid.UUID `json:"assigned_by" db:"assigned_by"`

	InterviewDetails Interview  `json:"interview_details"`
	ReportID         *uuid.UUID `json:"report_id" db:"report_id"`

	IsActive  bool      `json:"is_active" db:"is_active"`
	Version   int64     `json:"version" db:"version"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// WindowAttempts returns the attempts recorded since the last restore.
func (c *Candidate) WindowAttempts() []FollowupAttempt {
	start := c.AttemptWindowStart
	if start < 0 {
		start = 0
	}
	if start > len(c.FollowupAttempts) {
		return nil
	}
	return c.FollowupAttempts[start:]
}

// Clone returns a deep copy so callers can mutate without touching the original.
func (c *Candidate) Clone() *Candidate {
	out := *c
	out.FollowupAttempts = make([]FollowupAttempt, len(c.FollowupAttempts))
	for i, a := range c.FollowupAttempts {
		out.FollowupAttempts[i] = a.clone()
	}
	out.Email = clonePtr(c.Email)
	out.Phone = clonePtr(c.Phone)
	out.EmployeeCode = clonePtr(c.EmployeeCode)
	out.Department = clonePtr(c.Department)
	out.Designation = clonePtr(c.Designation)
	out.ExitDate = clonePtr(c.ExitDate)
	out.AssignedInterviewer = clonePtr(c.AssignedInterviewer)
	out.AssignedBy = clonePtr(c.AssignedBy)
	out.ReportID = clonePtr(c.ReportID)
	out.InterviewDetails = c.InterviewDetails.clone()
	return &out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

type CreateCandidateReq struct {
	ProjectID           uuid.UUID  `json:"project_id" binding:"required"`
	Name                string     `json:"name" binding:"required"`
	Email               *string    `json:"email" binding:"omitempty,email"`
	Phone               *string    `json:"phone"`
	EmployeeCode        *string    `json:"employee_code"`
	Department          *string    `json:"department"`
	Designation         *string    `json:"designation"`
	ExitDate            *time.Time `json:"exit_date"`
	MaxFollowupAttempts *int       `json:"max_followup_attempts" binding:"omitempty,min=1,max=20"`
	QuestionnaireID     *uuid.UUID `json:"questionnaire_id"`
}

type SetStatusReq struct {
	OverallStatus OverallStatus `json:"overall_status" binding:"required"`
}

type MarkReportReq struct {
	ReportID uuid.UUID `json:"report_id" binding:"required"`
}

type CandidateRes struct {
	Candidate
	InterviewPhase InterviewPhase `json:"interview_phase"`
}

type ConsistencyRes struct {
	CandidateID    uuid.UUID      `json:"candidate_id"`
	StoredStatus   OverallStatus  `json:"stored_status"`
	DerivedStatus  OverallStatus  `json:"derived_status"`
	InterviewPhase InterviewPhase `json:"interview_phase"`
	Consistent     bool           `json:"consistent"`
}
