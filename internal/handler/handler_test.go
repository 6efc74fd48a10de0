package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abhishek622/exitview/internal/auth"
	"github.com/abhishek622/exitview/internal/lifecycle"
	"github.com/abhishek622/exitview/internal/repository"
	"github.com/abhishek622/exitview/pkg/model"
	"github.com/abhishek622/exitview/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type testEnv struct {
	router   *gin.Engine
	handler  *Handler
	operator *auth.UserClaims
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := &Handler{
		Logger:     zap.NewNop(),
		Lifecycle:  lifecycle.NewService(repository.NewMemoryCandidateStore()),
		Users:      repository.NewMemoryUserStore(),
		TokenMaker: auth.NewJWTMaker(testSecret),
		TokenTTL:   time.Hour,
	}
	env := &testEnv{
		handler:  h,
		operator: &auth.UserClaims{UserID: uuid.New(), Email: "ops@example.com", Role: model.UserRoleOperator},
	}

	r := gin.New()
	r.POST("/signup", h.SignUp)
	r.POST("/login", h.Login)

	authed := r.Group("/")
	authed.Use(func(c *gin.Context) {
		c.Set(ClaimsKey, env.operator)
		c.Next()
	})
	authed.GET("/interviewers", h.ListInterviewers)
	authed.POST("/candidates", h.CreateCandidate)
	authed.GET("/candidates/:id", h.GetCandidate)
	authed.GET("/candidates/:id/consistency", h.CheckConsistency)
	authed.POST("/candidates/:id/followups", h.RecordFollowup)
	authed.POST("/candidates/:id/interview/start", h.StartInterview)
	authed.POST("/candidates/:id/interview/complete", h.CompleteInterview)
	authed.POST("/candidates/:id/report", h.MarkReportGenerated)
	authed.PUT("/candidates/:id/status", h.SetStatus)
	authed.POST("/candidates/assign", h.AssignInterviewer)
	authed.GET("/projects/:id/candidates", h.ListProjectCandidates)
	authed.POST("/projects/:id/auto-assign", h.AutoAssignInterviewers)
	authed.POST("/users", h.CreateUser)

	// /me without claims
	r.GET("/me", h.Me)

	env.router = r
	return env
}

type envelope struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorInfo `json:"error"`
	Meta    *response.Meta      `json:"meta"`
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s %s response %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code, env
}

func decodeCandidate(t *testing.T, env envelope) model.CandidateRes {
	t.Helper()
	var c model.CandidateRes
	if err := json.Unmarshal(env.Data, &c); err != nil {
		t.Fatalf("decode candidate: %v", err)
	}
	return c
}

func (e *testEnv) createCandidate(t *testing.T, projectID uuid.UUID) model.CandidateRes {
	t.Helper()
	code, env := e.do(t, http.MethodPost, "/candidates", map[string]any{
		"project_id": projectID,
		"name":       "Neha Verma",
		"email":      "neha@example.com",
	})
	if code != http.StatusCreated {
		t.Fatalf("create candidate: status=%d error=%+v", code, env.Error)
	}
	return decodeCandidate(t, env)
}
