package main

import (
	"net/http"
	"time"

	"github.com/abhishek622/exitview/pkg/model"
	"github.com/gin-gonic/gin"
)

func (app *application) routes() http.Handler {
	if app.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// simple logger middleware that uses zap
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		app.Logger.Sugar().Infow("http", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "duration", time.Since(start))
	})
	r.Use(app.CORSMiddleware())

	r.GET("/healthz", app.healthz)
	r.GET("/metrics", gin.WrapH(app.Metrics.Handler()))

	h := app.Handler
	v1 := r.Group("/api/v1")
	{
		v1.POST("/signup", h.SignUp)
		v1.POST("/login", h.Login)
	}

	protected := v1.Group("/")
	protected.Use(app.AuthMiddleware())
	{
		protected.GET("/me", h.Me)
		protected.GET("/interviewers", h.ListInterviewers)

		// candidate lifecycle
		protected.POST("/candidates", h.CreateCandidate)
		protected.GET("/candidates/:id", h.GetCandidate)
		protected.GET("/candidates/:id/consistency", h.CheckConsistency)
		protected.POST("/candidates/:id/followups", h.RecordFollowup)
		protected.POST("/candidates/:id/interview/start", h.StartInterview)
		protected.POST("/candidates/:id/interview/complete", h.CompleteInterview)
		protected.POST("/candidates/:id/report", h.MarkReportGenerated)
		protected.GET("/projects/:id/candidates", h.ListProjectCandidates)
	}

	managers := protected.Group("/")
	managers.Use(app.RequireRoles(model.UserRoleAdmin, model.UserRoleOperator))
	{
		managers.PUT("/candidates/:id/status", h.SetStatus)
		managers.POST("/candidates/assign", h.AssignInterviewer)
		managers.POST("/projects/:id/auto-assign", h.AutoAssignInterviewers)
	}

	admins := protected.Group("/")
	admins.Use(app.RequireRoles(model.UserRoleAdmin))
	{
		admins.POST("/users", h.CreateUser)
	}

	return r
}

func (app *application) healthz(c *gin.Context) {
	if app.DB != nil {
		if err := app.DB.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
			return
		}
	}
	if app.Redis != nil {
		if err := app.Redis.Ping(c.Request.Context()).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "redis": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
