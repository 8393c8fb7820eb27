package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/project-calendar/api/internal/auth"
	"github.com/project-calendar/api/internal/constants"
	apierrors "github.com/project-calendar/api/internal/errors"
)

const bearerPrefix = "Bearer "

// RequireAuth validates the bearer token and resolves the acting user id
// before any handler runs. Failures short-circuit with 401 uniformly, so no
// protected operation ever touches state for an unauthenticated caller.
func RequireAuth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) || len(header) <= len(bearerPrefix) {
			apierrors.Unauthorized(c, "Missing or invalid Authorization header")
			c.Abort()
			return
		}

		userID, err := tokens.Verify(header[len(bearerPrefix):])
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return "", false
	}

	id, ok := userID.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
