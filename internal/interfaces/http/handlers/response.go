package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/kbeauty-storefront/internal/domain/analytics"
	"github.com/your-org/kbeauty-storefront/internal/domain/cart"
	"github.com/your-org/kbeauty-storefront/internal/domain/order"
	"github.com/your-org/kbeauty-storefront/internal/domain/search"
	"github.com/your-org/kbeauty-storefront/internal/domain/session"
	"github.com/your-org/kbeauty-storefront/internal/infrastructure/backend"
)

// respondError writes err with the status it maps to. Backend errors keep the
// backend status and detail so the renderer can show them verbatim; anything
// unrecognised becomes a 500 carrying fallback.
func respondError(c *gin.Context, err error, fallback string) {
	if status := backend.StatusOf(err); status != 0 {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	switch {
	case errors.Is(err, session.ErrNotAuthenticated), errors.Is(err, order.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrInvalidAddress),
		errors.Is(err, order.ErrUnsupportedPayment),
		errors.Is(err, search.ErrEmptyQuery),
		errors.Is(err, analytics.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, order.ErrNotCancellable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrIncompleteSession):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Backend did not answer in time"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request data",
		"details": err.Error(),
	})
}
