// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/zonagamer/zonagamer-backend/internal/config"
	"github.com/zonagamer/zonagamer-backend/internal/domain/user"
	"github.com/zonagamer/zonagamer-backend/internal/pkg/auth"
)

// Identity resolves the requester from the Authorization header and
// stores it in the request context. It never rejects: a missing,
// malformed, expired or otherwise unusable token simply leaves the
// request anonymous, and the route policy decides what to do with it.
func Identity(cfg *config.Config, userService *user.Service) gin.HandlerFunc {
	jwtManager := auth.NewJWTManager(cfg)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		tokenString := auth.ExtractTokenFromHeader(authHeader)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := jwtManager.ValidateToken(tokenString)
		if err != nil {
			c.Next()
			return
		}

		// A valid token for a deactivated or deleted account is
		// treated the same as no token at all.
		account, err := userService.GetActiveUser(claims.UserID)
		if err != nil {
			c.Next()
			return
		}

		c.Set("user_id", account.ID)
		c.Set("user_email", account.Email)
		c.Set("is_admin", account.IsAdmin)

		c.Next()
	}
}

// GetUserIDFromContext extracts user ID from gin context
func GetUserIDFromContext(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	return userID.(uint), true
}

// GetUserEmailFromContext extracts user email from gin context
func GetUserEmailFromContext(c *gin.Context) (string, bool) {
	email, exists := c.Get("user_email")
	if !exists {
		return "", false
	}
	return email.(string), true
}

// IsAdminFromContext checks if user is admin from gin context
func IsAdminFromContext(c *gin.Context) bool {
	isAdmin, exists := c.Get("is_admin")
	if !exists {
		return false
	}
	return isAdmin.(bool)
}
