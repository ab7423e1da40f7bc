package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/01moynul/storefront-golang/internal/store"
	"github.com/gin-gonic/gin"
)

// UserLookup loads the caller to check its flags.
type UserLookup interface {
	GetUser(ctx context.Context, userID int64) (*models.User, error)
}

// AdminMiddleware must run after AuthMiddleware. It reads the user fresh
// from the database, so demoting an admin takes effect immediately.
func AdminMiddleware(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt64(UserIDKey)
		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context (AuthMiddleware must run first)"})
			return
		}

		user, err := users.GetUser(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid user"})
				return
			}
			log.Printf("admin check failed: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Database error checking role"})
			return
		}

		if !user.IsAdmin || !user.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: admin role required"})
			return
		}
		c.Next()
	}
}
