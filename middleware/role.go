package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole rejects requests whose session lacks the given role.
// SessionAuthMiddleware must run earlier on the chain.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !HasRole(c, role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}

// HasRole reports whether the session carries the given role.
func HasRole(c *gin.Context, role string) bool {
	raw, exists := c.Get("roles")
	if !exists {
		return false
	}
	roles, ok := raw.([]string)
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// SessionUserID returns the authenticated user id, or "".
func SessionUserID(c *gin.Context) string {
	raw, exists := c.Get("userID")
	if !exists {
		return ""
	}
	id, _ := raw.(string)
	return id
}
