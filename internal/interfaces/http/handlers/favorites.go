package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/kbeauty-storefront/internal/domain/product"
	"github.com/your-org/kbeauty-storefront/internal/interfaces/http/middleware"
)

// FavoritesHandler handles favorites endpoints
type FavoritesHandler struct {
	catalog Catalog
}

// NewFavoritesHandler creates a new favorites handler
func NewFavoritesHandler(catalog Catalog) *FavoritesHandler {
	return &FavoritesHandler{catalog: catalog}
}

// AddFavoriteRequest names the product to like
type AddFavoriteRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// GetFavorites handles GET /favorites
func (h *FavoritesHandler) GetFavorites(c *gin.Context) {
	v := middleware.GetVisitor(c)
	c.JSON(http.StatusOK, gin.H{
		"items": v.Favorites.Items(),
		"count": v.Favorites.Count(),
	})
}

// AddFavorite handles POST /favorites
func (h *FavoritesHandler) AddFavorite(c *gin.Context) {
	v := middleware.GetVisitor(c)

	var req AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.catalog.Product(c.Request.Context(), req.ProductID)
	if err != nil {
		respondError(c, err, "Failed to retrieve product")
		return
	}
	v.Favorites.AddToFavorites(c.Request.Context(), *p)

	c.JSON(http.StatusOK, gin.H{
		"is_favorite": true,
		"count":       v.Favorites.Count(),
	})
}

// ToggleFavorite handles POST /favorites/:id/toggle. The catalog is only asked
// for a snapshot when the product is being added.
func (h *FavoritesHandler) ToggleFavorite(c *gin.Context) {
	v := middleware.GetVisitor(c)
	id := c.Param("id")

	p := &product.Product{ID: id}
	if !v.Favorites.IsFavorite(id) {
		var err error
		if p, err = h.catalog.Product(c.Request.Context(), id); err != nil {
			respondError(c, err, "Failed to retrieve product")
			return
		}
	}

	liked := v.Favorites.ToggleFavorite(c.Request.Context(), *p)
	c.JSON(http.StatusOK, gin.H{
		"is_favorite": liked,
		"count":       v.Favorites.Count(),
	})
}

// RemoveFavorite handles DELETE /favorites/:id
func (h *FavoritesHandler) RemoveFavorite(c *gin.Context) {
	v := middleware.GetVisitor(c)
	v.Favorites.RemoveFromFavorites(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, gin.H{
		"is_favorite": false,
		"count":       v.Favorites.Count(),
	})
}
