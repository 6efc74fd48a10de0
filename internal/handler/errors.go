package handler

import (
	"net/http"

	"github.com/abhishek622/exitview/internal/lifecycle"
	"github.com/abhishek622/exitview/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var kindStatus = map[string]int{
	"CANDIDATE_NOT_FOUND":       http.StatusNotFound,
	"CANDIDATE_DROPPED":         http.StatusConflict,
	"ATTEMPT_LIMIT_EXCEEDED":    http.StatusConflict,
	"MISSING_SCHEDULED_DATE":    http.StatusUnprocessableEntity,
	"INVALID_PHASE_TRANSITION":  http.StatusConflict,
	"NO_INTERVIEWERS_AVAILABLE": http.StatusUnprocessableEntity,
	"CONCURRENT_MODIFICATION":   http.StatusConflict,
	"VALIDATION_ERROR":          http.StatusUnprocessableEntity,
}

// lifecycleError reports typed lifecycle failures as-is and hides everything else behind a 500.
func (h *Handler) lifecycleError(c *gin.Context, op string, err error) {
	kind := lifecycle.Kind(err)
	if status, ok := kindStatus[kind]; ok {
		h.Logger.Sugar().Infow(op+" rejected", "kind", kind, "err", err)
		response.Error(c, status, kind, err.Error())
		return
	}
	h.Logger.Sugar().Errorw(op+" failed", "err", err)
	response.InternalError(c, "")
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	raw := c.Param(name)
	if raw == "" {
		response.BadRequest(c, "missing "+name)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.BadRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
