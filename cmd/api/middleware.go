package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abhishek622/exitview/internal/auth"
	"github.com/abhishek622/exitview/internal/handler"
	"github.com/abhishek622/exitview/pkg/model"
	"github.com/abhishek622/exitview/pkg/response"
	"github.com/gin-gonic/gin"
)

func (app *application) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := verifyClaimsFromAuthHeader(c, app.Handler.TokenMaker)
		if err != nil {
			response.Unauthorized(c, err.Error())
			c.Abort()
			return
		}

		// Check if user still exists
		if _, err := app.Handler.Users.GetByID(c.Request.Context(), claims.UserID); err != nil {
			response.Unauthorized(c, "Unauthorized access")
			c.Abort()
			return
		}

		c.Set(handler.ClaimsKey, claims)
		c.Next()
	}
}

// RequireRoles must run after AuthMiddleware.
func (app *application) RequireRoles(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := app.Handler.GetClaimsFromContext(c)
		if claims == nil || !slices.Contains(roles, claims.Role) {
			response.Forbidden(c, "insufficient role")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (app *application) CORSMiddleware() gin.HandlerFunc {
	origins := app.Config.GetCORSOrigins()
	return func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" && slices.Contains(origins, origin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Vary", "Origin")
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func verifyClaimsFromAuthHeader(c *gin.Context, tokenMaker *auth.JWTMaker) (*auth.UserClaims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, fmt.Errorf("authorization header is missing")
	}

	fields := strings.Fields(authHeader)
	if len(fields) != 2 || fields[0] != "Bearer" {
		return nil, fmt.Errorf("invalid authorization header")
	}

	claims, err := tokenMaker.VerifyToken(fields[1])
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	return claims, nil
}
