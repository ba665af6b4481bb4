// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/kbeauty-storefront/internal/domain/product"
)

// Catalog is the read-only product API of the backend
type Catalog interface {
	Products(ctx context.Context, filter product.Filter) (*product.ProductList, error)
	Product(ctx context.Context, id string) (*product.Product, error)
	Bestsellers(ctx context.Context, limit int) ([]product.Product, error)
	Brands(ctx context.Context) ([]product.Brand, error)
	Categories(ctx context.Context) ([]product.Category, error)
}

// CatalogHandler passes catalog reads through to the backend
type CatalogHandler struct {
	catalog Catalog
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListProducts handles GET /products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var filter product.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, err)
		return
	}

	list, err := h.catalog.Products(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to retrieve products")
		return
	}

	c.JSON(http.StatusOK, list)
}

// GetProduct handles GET /products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	p, err := h.catalog.Product(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve product")
		return
	}

	c.JSON(http.StatusOK, p)
}

// Bestsellers handles GET /products/bestsellers
func (h *CatalogHandler) Bestsellers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "8"))

	products, err := h.catalog.Bestsellers(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, "Failed to retrieve bestsellers")
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": nonNil(products)})
}

// ListBrands handles GET /brands
func (h *CatalogHandler) ListBrands(c *gin.Context) {
	brands, err := h.catalog.Brands(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve brands")
		return
	}

	c.JSON(http.StatusOK, gin.H{"brands": nonNil(brands)})
}

// ListCategories handles GET /categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": nonNil(categories)})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
