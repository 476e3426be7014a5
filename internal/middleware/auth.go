package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/tkoeppen/giftlist-api/internal/constants"
	apierrors "github.com/tkoeppen/giftlist-api/internal/errors"
)

// RequireAuth checks if the user is authenticated via session
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userUUID := session.Get(constants.ContextKeyUserUUID)

		if userUUID == nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		// Store user UUID in context for easy access in handlers
		c.Set(constants.ContextKeyUserUUID, userUUID)
		c.Next()
	}
}

// GetUserUUID retrieves the current user UUID from context
func GetUserUUID(c *gin.Context) (string, bool) {
	userUUID, exists := c.Get(constants.ContextKeyUserUUID)
	if !exists {
		return "", false
	}

	uuid, ok := userUUID.(string)
	if !ok || uuid == "" {
		return "", false
	}
	return uuid, true
}
