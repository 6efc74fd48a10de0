package model

import "github.com/google/uuid"

type AssignInterviewerReq struct {
	CandidateIDs  []uuid.UUID `json:"candidate_ids" binding:"required,min=1,max=500"`
	InterviewerID uuid.UUID   `json:"interviewer_id" binding:"required"`
}

type AutoAssignReq struct {
	InterviewerIDs []uuid.UUID `json:"interviewer_ids"`
}

type InterviewerLoad struct {
	InterviewerID  uuid.UUID `json:"interviewer_id"`
	CandidateCount int       `json:"candidate_count"`
}

type AssignFailure struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	Error       string    `json:"error"`
}

type AssignResult struct {
	Candidates []Candidate     `json:"candidates"`
	Failures   []AssignFailure `json:"failures"`
}

type AutoAssignResult struct {
	Distribution []InterviewerLoad `json:"distribution"`
	Failures     []AssignFailure   `json:"failures"`
}
