package handler

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/abhishek622/exitview/internal/lifecycle"
	"github.com/abhishek622/exitview/internal/repository"
	"github.com/abhishek622/exitview/pkg/model"
	"github.com/abhishek622/exitview/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func candidateRes(c *model.Candidate) model.CandidateRes {
	return model.CandidateRes{Candidate: *c, InterviewPhase: c.InterviewDetails.Phase()}
}

func (h *Handler) CreateCandidate(c *gin.Context) {
	var req model.CreateCandidateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.Sugar().Warnw("create candidate bad request", "err", err)
		response.BadRequest(c, err.Error())
		return
	}

	cand, err := h.Lifecycle.CreateCandidate(c.Request.Context(), req)
	if err != nil {
		h.lifecycleError(c, "create candidate", err)
		return
	}
	response.Created(c, candidateRes(cand))
}

func (h *Handler) GetCandidate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cand, err := h.Lifecycle.GetCandidate(c.Request.Context(), id)
	if err != nil {
		h.lifecycleError(c, "get candidate", err)
		return
	}
	response.OK(c, candidateRes(cand))
}

func (h *Handler) ListProjectCandidates(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cands, err := h.Lifecycle.ListProjectCandidates(c.Request.Context(), projectID)
	if err != nil {
		h.lifecycleError(c, "list candidates", err)
		return
	}

	out := make([]model.CandidateRes, len(cands))
	for i := range cands {
		out[i] = candidateRes(&cands[i])
	}
	response.OKWithMeta(c, out, &response.Meta{Total: len(out)})
}

func (h *Handler) CheckConsistency(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	res, err := h.Lifecycle.CheckConsistency(c.Request.Context(), id)
	if err != nil {
		h.lifecycleError(c, "check consistency", err)
		return
	}
	response.OK(c, res)
}

func (h *Handler) RecordFollowup(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	var req model.RecordFollowupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.Sugar().Warnw("record followup bad request", "err", err)
		response.BadRequest(c, err.Error())
		return
	}

	cand, err := h.Lifecycle.RecordFollowup(c.Request.Context(), id, lifecycle.FollowupInput{
		AttemptNumber:          req.AttemptNumber,
		CallStatus:             req.CallStatus,
		Notes:                  req.Notes,
		ScheduledInterviewDate: req.ScheduledInterviewDate,
		AttemptedBy:            claims.UserID,
	})
	if err != nil {
		h.lifecycleError(c, "record followup", err)
		return
	}
	response.Created(c, candidateRes(cand))
}

func (h *Handler) StartInterview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cand, err := h.Lifecycle.StartInterview(c.Request.Context(), id)
	if err != nil {
		h.lifecycleError(c, "start interview", err)
		return
	}
	response.OK(c, candidateRes(cand))
}

func (h *Handler) CompleteInterview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req model.CompleteInterviewReq
	// an empty body means the answers were submitted
	if c.Request.Body != nil {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			response.BadRequest(c, err.Error())
			return
		}
	}
	answers := true
	if req.AnswersSubmitted != nil {
		answers = *req.AnswersSubmitted
	}

	cand, err := h.Lifecycle.CompleteInterview(c.Request.Context(), id, answers)
	if err != nil {
		h.lifecycleError(c, "complete interview", err)
		return
	}
	response.OK(c, candidateRes(cand))
}

func (h *Handler) MarkReportGenerated(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req model.MarkReportReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	cand, err := h.Lifecycle.MarkReportGenerated(c.Request.Context(), id, req.ReportID)
	if err != nil {
		h.lifecycleError(c, "mark report generated", err)
		return
	}
	response.OK(c, candidateRes(cand))
}

func (h *Handler) SetStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req model.SetStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	cand, err := h.Lifecycle.SetStatus(c.Request.Context(), id, req.OverallStatus)
	if err != nil {
		h.lifecycleError(c, "set status", err)
		return
	}
	if claims := h.GetClaimsFromContext(c); claims != nil {
		h.Logger.Sugar().Infow("manual status override", "candidate_id", id, "status", req.OverallStatus, "by", claims.UserID)
	}
	response.OK(c, candidateRes(cand))
}

func (h *Handler) AssignInterviewer(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	var req model.AssignInterviewerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.checkInterviewers(c.Request.Context(), []uuid.UUID{req.InterviewerID}); err != nil {
		h.lifecycleError(c, "assign interviewer", err)
		return
	}

	res, err := h.Lifecycle.AssignInterviewer(c.Request.Context(), req.CandidateIDs, req.InterviewerID, claims.UserID)
	if err != nil {
		h.lifecycleError(c, "assign interviewer", err)
		return
	}
	response.OK(c, res)
}

func (h *Handler) AutoAssignInterviewers(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	var req model.AutoAssignReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.checkInterviewers(c.Request.Context(), req.InterviewerIDs); err != nil {
		h.lifecycleError(c, "auto assign", err)
		return
	}

	res, err := h.Lifecycle.AutoAssignInterviewers(c.Request.Context(), projectID, req.InterviewerIDs, claims.UserID)
	if err != nil {
		h.lifecycleError(c, "auto assign", err)
		return
	}
	response.OK(c, res)
}

// checkInterviewers rejects ids that do not belong to an interviewer account.
// Nil ids are left to the lifecycle service, which ignores them.
func (h *Handler) checkInterviewers(ctx context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		u, err := h.Users.GetByID(ctx, id)
		if errors.Is(err, repository.ErrUserNotFound) {
			return fmt.Errorf("%w: interviewer %s does not exist", lifecycle.ErrInvalidInput, id)
		}
		if err != nil {
			return fmt.Errorf("lookup interviewer %s: %w", id, err)
		}
		if u.Role != model.UserRoleInterviewer {
			return fmt.Errorf("%w: user %s is not an interviewer", lifecycle.ErrInvalidInput, id)
		}
	}
	return nil
}
