package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/01moynul/storefront-golang/internal/auth"
	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	UserIDKey         = "userID"
	TokenIDKey        = "tokenID"
	TokenExpiresAtKey = "tokenExpiresAt"
)

// SessionChecker reports whether a token id was revoked on logout and
// whether its user may still use the API.
type SessionChecker interface {
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
	IsUserActive(ctx context.Context, userID int64) (bool, error)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(c *gin.Context) (string, bool) {
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware rejects requests without a valid, unrevoked access token
// of an active user, and stores the caller's user id in the context.
func AuthMiddleware(tokens *auth.TokenManager, sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		tokenString, ok := BearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format (must be Bearer)"})
			return
		}

		claims, err := tokens.Validate(tokenString, auth.AccessToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		ctx := c.Request.Context()
		isRevoked, err := sessions.IsTokenRevoked(ctx, claims.ID)
		if err != nil {
			log.Printf("revocation check failed: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if isRevoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has been revoked"})
			return
		}

		// Deactivation takes effect immediately, not when the token expires.
		isActive, err := sessions.IsUserActive(ctx, claims.UserID)
		if err != nil {
			log.Printf("user status check failed: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if !isActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Account is inactive"})
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(TokenIDKey, claims.ID)
		c.Set(TokenExpiresAtKey, claims.ExpiresAt)
		c.Next()
	}
}
