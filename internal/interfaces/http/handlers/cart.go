// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/your-org/kbeauty-storefront/internal/domain/cart"
	"github.com/your-org/kbeauty-storefront/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	catalog     Catalog
	deliveryFee decimal.Decimal
}

// NewCartHandler creates a new cart handler
func NewCartHandler(catalog Catalog, deliveryFee decimal.Decimal) *CartHandler {
	return &CartHandler{catalog: catalog, deliveryFee: deliveryFee}
}

// AddToCartRequest names the product to snapshot and how many to add
type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// UpdateCartItemRequest sets a line quantity; zero removes the line
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// CartResponse is the cart with its computed totals
type CartResponse struct {
	Items   []cart.LineItem `json:"items"`
	Summary cart.Summary    `json:"summary"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	v := middleware.GetVisitor(c)
	c.JSON(http.StatusOK, h.response(v.Cart))
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	v := middleware.GetVisitor(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	p, err := h.catalog.Product(c.Request.Context(), req.ProductID)
	if err != nil {
		respondError(c, err, "Failed to retrieve product")
		return
	}

	if err := v.Cart.AddToCart(c.Request.Context(), *p, req.Quantity); err != nil {
		respondError(c, err, "Failed to add item to cart")
		return
	}

	c.JSON(http.StatusOK, h.response(v.Cart))
}

// UpdateCartItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	v := middleware.GetVisitor(c)

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	v.Cart.UpdateQuantity(c.Request.Context(), c.Param("id"), *req.Quantity)
	c.JSON(http.StatusOK, h.response(v.Cart))
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	v := middleware.GetVisitor(c)
	v.Cart.RemoveFromCart(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, h.response(v.Cart))
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	v := middleware.GetVisitor(c)
	v.Cart.ClearCart(c.Request.Context())
	c.JSON(http.StatusOK, h.response(v.Cart))
}

// GetCartCount handles GET /cart/count
func (h *CartHandler) GetCartCount(c *gin.Context) {
	v := middleware.GetVisitor(c)
	c.JSON(http.StatusOK, gin.H{"count": v.Cart.CartCount()})
}

func (h *CartHandler) response(s *cart.Store) CartResponse {
	return CartResponse{
		Items:   s.Items(),
		Summary: s.Summary(h.deliveryFee),
	}
}
