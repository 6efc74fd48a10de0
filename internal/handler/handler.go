package handler

import (
	"context"
	"time"

	"github.com/abhishek622/exitview/internal/auth"
	"github.com/abhishek622/exitview/internal/lifecycle"
	"github.com/abhishek622/exitview/pkg/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClaimsKey is the gin context key the auth middleware stores claims under.
const ClaimsKey = "claims"

// UserStore is satisfied by repository.UserRepository and repository.MemoryUserStore.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	ListByRole(ctx context.Context, role model.UserRole) ([]model.User, error)
}

type Handler struct {
	Logger     *zap.Logger
	Lifecycle  *lifecycle.Service
	Users      UserStore
	TokenMaker *auth.JWTMaker
	TokenTTL   time.Duration
}

// GetClaimsFromContext retrieves the authenticated operator from the gin context
func (h *Handler) GetClaimsFromContext(c *gin.Context) *auth.UserClaims {
	v, exists := c.Get(ClaimsKey)
	if !exists {
		return nil
	}

	claims, ok := v.(*auth.UserClaims)
	if !ok {
		return nil
	}

	return claims
}
