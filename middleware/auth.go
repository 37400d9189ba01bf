package middleware

import (
	"net/http"
	"strings"

	"soothe/utils"

	"github.com/gin-gonic/gin"
)

// SessionAuthMiddleware resolves the request's identity from a Bearer
// token and stores {userID, roles} on the context. Validated sessions are
// cached in Redis keyed by the token hash so repeat requests skip the
// signature check.
func SessionAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}

		tokenHash := utils.HashToken(tokenString)
		if userID, roles, ok := cachedSession(c, tokenHash); ok {
			c.Set("userID", userID)
			c.Set("roles", roles)
			c.Next()
			return
		}

		userID, roles, err := utils.ExtractClaims(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		cacheSession(c, tokenHash, userID, roles)
		c.Set("userID", userID)
		c.Set("roles", roles)
		c.Next()
	}
}

func cachedSession(c *gin.Context, tokenHash string) (string, []string, bool) {
	client := utils.GetAuthCacheClient()
	if client == nil {
		return "", nil, false
	}
	raw, err := client.Get(c.Request.Context(), utils.AuthCachePrefix+tokenHash).Result()
	if err != nil || raw == "" {
		return "", nil, false
	}
	parts := strings.Split(raw, "|")
	if len(parts) != 2 || parts[0] == "" {
		return "", nil, false
	}
	var roles []string
	if parts[1] != "" {
		roles = strings.Split(parts[1], ",")
	}
	return parts[0], roles, true
}

func cacheSession(c *gin.Context, tokenHash, userID string, roles []string) {
	client := utils.GetAuthCacheClient()
	if client == nil {
		return
	}
	val := userID + "|" + strings.Join(roles, ",")
	// Cache failures are not fatal; the next request just revalidates.
	client.Set(c.Request.Context(), utils.AuthCachePrefix+tokenHash, val, utils.AuthCacheTTL)
}
