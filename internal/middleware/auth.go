package middleware

import (
	"errors"
	"net/http"
	"strings"

	"backend/internal/models"
	"backend/internal/service"
	"backend/internal/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// userKey is the gin context key the resolved identity is stored under.
const userKey = "currentUser"

// RequireAuth creates a Gin middleware that resolves the bearer token to an
// identity record. Every failure — missing header, bad signature, expired
// token, unknown subject — produces the same 401 body so the response never
// reveals which check failed; the detail goes to the logs only.
func RequireAuth(auth service.AuthService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			logger.Debug("Missing or malformed Authorization header")
			abortUnauthenticated(c)
			return
		}

		user, err := auth.ResolveUser(parts[1])
		if err != nil {
			if errors.Is(err, token.ErrInvalidToken) {
				logger.Debug("Failed to resolve session", zap.Error(err))
				abortUnauthenticated(c)
				return
			}
			// Store connectivity problems are not an auth failure.
			logger.Error("Failed to look up session user", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
}

// CurrentUser returns the identity record resolved by RequireAuth.
func CurrentUser(c *gin.Context) *models.User {
	return c.MustGet(userKey).(*models.User)
}
