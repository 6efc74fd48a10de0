package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhishek622/exitview/internal/repository"
	"github.com/abhishek622/exitview/pkg"
	"github.com/abhishek622/exitview/pkg/model"
	"github.com/abhishek622/exitview/pkg/response"
	"github.com/gin-gonic/gin"
)

// SignUp self-registers an interviewer account. Operators are created by an
// admin through CreateUser.
func (h *Handler) SignUp(c *gin.Context) {
	var req model.SignUpReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.Sugar().Warnw("signup bad request", "err", err)
		response.BadRequest(c, err.Error())
		return
	}

	role := req.Role
	if role == "" {
		role = model.UserRoleInterviewer
	}
	if role != model.UserRoleInterviewer {
		h.Logger.Sugar().Warnw("signup rejected role", "email", req.Email, "role", role)
		response.BadRequest(c, "invalid role")
		return
	}

	h.createUser(c, req.Name, req.Email, req.Password, role)
}

// CreateUser lets an admin provision operator and interviewer accounts
func (h *Handler) CreateUser(c *gin.Context) {
	var req model.CreateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.Sugar().Warnw("create user bad request", "err", err)
		response.BadRequest(c, err.Error())
		return
	}
	// admins are seeded at startup only
	if req.Role != model.UserRoleOperator && req.Role != model.UserRoleInterviewer {
		response.BadRequest(c, "invalid role")
		return
	}

	h.createUser(c, req.Name, req.Email, req.Password, req.Role)
}

func (h *Handler) createUser(c *gin.Context, name, email, password string, role model.UserRole) {
	pwHash, err := pkg.HashPassword(password)
	if err != nil {
		h.Logger.Sugar().Errorw("failed to hash password", "err", err)
		response.InternalError(c, "")
		return
	}

	user := &model.User{
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(email),
		PasswordHash: pwHash,
		Role:         role,
	}
	if err := h.Users.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			response.Conflict(c, "email already registered")
			return
		}
		h.Logger.Sugar().Errorw("user create failed", "email", email, "err", err)
		response.InternalError(c, "could not create user")
		return
	}

	response.Created(c, model.UserRes{UserID: user.UserID, Name: user.Name, Email: user.Email, Role: user.Role})
}

// EnsureAdmin creates the bootstrap admin account unless the email is
// already registered.
func (h *Handler) EnsureAdmin(ctx context.Context, name, email, password string) error {
	email = strings.ToLower(email)
	if _, err := h.Users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("lookup admin %s: %w", email, err)
	}

	pwHash, err := pkg.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	user := &model.User{Name: name, Email: email, PasswordHash: pwHash, Role: model.UserRoleAdmin}
	if err := h.Users.Create(ctx, user); err != nil && !errors.Is(err, repository.ErrEmailTaken) {
		return fmt.Errorf("create admin %s: %w", email, err)
	}
	h.Logger.Sugar().Infow("bootstrap admin ready", "email", email)
	return nil
}

// Login verifies credentials and returns a JWT access token
func (h *Handler) Login(c *gin.Context) {
	var req model.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.Sugar().Warnw("login bad request", "err", err)
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.Users.GetByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		h.Logger.Sugar().Warnw("login user not found", "email", req.Email, "err", err)
		response.Unauthorized(c, "invalid credentials")
		return
	}
	if err := pkg.ComparePassword(user.PasswordHash, req.Password); err != nil {
		h.Logger.Sugar().Warnw("login password mismatch", "email", req.Email)
		response.Unauthorized(c, "invalid credentials")
		return
	}

	token, claims, err := h.TokenMaker.GenerateToken(user.UserID, user.Email, user.Role, h.TokenTTL)
	if err != nil {
		h.Logger.Sugar().Errorw("error creating token", "err", err)
		response.InternalError(c, "could not generate token")
		return
	}

	response.OK(c, model.LoginUserRes{
		AccessToken:          token,
		AccessTokenExpiresAt: claims.ExpiresAt.Time,
		User:                 model.UserRes{UserID: user.UserID, Name: user.Name, Email: user.Email, Role: user.Role},
	})
}

// Me returns the current operator profile
func (h *Handler) Me(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	user, err := h.Users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Unauthorized(c, "")
		return
	}

	response.OK(c, model.UserRes{UserID: user.UserID, Name: user.Name, Email: user.Email, Role: user.Role})
}

// ListInterviewers returns every account that can be assigned candidates
func (h *Handler) ListInterviewers(c *gin.Context) {
	users, err := h.Users.ListByRole(c.Request.Context(), model.UserRoleInterviewer)
	if err != nil {
		h.Logger.Sugar().Errorw("list interviewers failed", "err", err)
		response.InternalError(c, "")
		return
	}

	out := make([]model.UserRes, len(users))
	for i, u := range users {
		out[i] = model.UserRes{UserID: u.UserID, Name: u.Name, Email: u.Email, Role: u.Role}
	}
	response.OK(c, out)
}
