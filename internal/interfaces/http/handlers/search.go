package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/kbeauty-storefront/internal/interfaces/http/middleware"
)

// SearchHandler serves suggestion panels and records submitted searches
type SearchHandler struct{}

// NewSearchHandler creates a new search handler
func NewSearchHandler() *SearchHandler {
	return &SearchHandler{}
}

// SubmitSearchRequest carries a submitted search term
type SubmitSearchRequest struct {
	Term string `json:"term"`
}

// Suggestions handles GET /search/suggestions?q=. It never fails: a backend
// error yields an empty panel.
func (h *SearchHandler) Suggestions(c *gin.Context) {
	v := middleware.GetVisitor(c)
	c.JSON(http.StatusOK, v.Search.Suggest(c.Request.Context(), c.Query("q")))
}

// Submit handles POST /search
func (h *SearchHandler) Submit(c *gin.Context) {
	v := middleware.GetVisitor(c)

	var req SubmitSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	nav, err := v.Search.Submit(c.Request.Context(), req.Term)
	if err != nil {
		respondError(c, err, "Failed to submit search")
		return
	}

	c.JSON(http.StatusOK, nav)
}

// Recent handles GET /search/recent
func (h *SearchHandler) Recent(c *gin.Context) {
	v := middleware.GetVisitor(c)
	c.JSON(http.StatusOK, gin.H{"recent": v.Search.Recent()})
}
