package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/your-org/kbeauty-storefront/internal/domain/visitor"
)

const (
	// VisitorCookie names the cookie carrying the visitor id
	VisitorCookie = "session_id"
	visitorKey    = "visitor"
	visitorMaxAge = 86400 * 30
)

// Visitors resolves a visitor id to its stores
type Visitors interface {
	Get(ctx context.Context, id string) (*visitor.Visitor, error)
}

// Visitor loads the caller's stores from the session_id cookie, issuing a new
// id when the cookie is missing or malformed.
func Visitor(visitors Visitors, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(VisitorCookie)
		if _, perr := uuid.Parse(id); err != nil || perr != nil {
			id = uuid.NewString()
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(VisitorCookie, id, visitorMaxAge, "/", "", secureCookie, true)

		v, err := visitors.Get(c.Request.Context(), id)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to load visitor",
			})
			return
		}

		c.Set(visitorKey, v)
		c.Next()
	}
}

// GetVisitor returns the visitor loaded by the Visitor middleware
func GetVisitor(c *gin.Context) *visitor.Visitor {
	v, _ := c.Get(visitorKey)
	vis, _ := v.(*visitor.Visitor)
	return vis
}

func visitorIDFromKeys(keys map[string]any) string {
	if v, ok := keys[visitorKey].(*visitor.Visitor); ok {
		return v.ID
	}
	return ""
}
