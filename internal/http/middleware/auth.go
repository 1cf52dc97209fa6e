package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"devloft.app/server/common/auth"
	"devloft.app/server/common/logger"
)

const userIDKey = "auth_user_id"

// RequireAuth validates the bearer token and stashes the caller's user
// id in the gin context. WebSocket clients can't set headers from the
// browser, so a "token" query parameter is accepted as a fallback.
func RequireAuth(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		userID, err := verifier.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(userIDKey, userID)

		ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{
			UserID: logger.Ptr(userID.String()),
		})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// UserID returns the authenticated user id set by RequireAuth.
func UserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
