// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireSession rejects visitors that are not logged in. While the session
// is still rehydrating the guard answers 503 instead of deciding. The
// registry only hands out rehydrated visitors, so that branch is reached
// only by sessions attached before Rehydrate returns.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		v := GetVisitor(c)
		if v == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Visitor not loaded",
			})
			return
		}

		if v.Session.Loading() {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": "Session is loading",
			})
			return
		}

		if !v.Session.IsAuthenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			return
		}

		c.Next()
	}
}

// RequireAdmin must run after RequireSession
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		v := GetVisitor(c)
		if v == nil || !v.Session.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Admin access required",
			})
			return
		}

		c.Next()
	}
}
