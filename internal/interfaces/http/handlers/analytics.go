// internal/interfaces/http/handlers/analytics.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/kbeauty-storefront/internal/domain/analytics"
	"github.com/your-org/kbeauty-storefront/internal/domain/order"
	"github.com/your-org/kbeauty-storefront/internal/interfaces/http/middleware"
	"github.com/your-org/kbeauty-storefront/internal/pkg/export"
)

// AnalyticsHandler handles the admin dashboard and order management
type AnalyticsHandler struct {
	analyticsService *analytics.Service
	logger           logrus.FieldLogger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *analytics.Service, logger logrus.FieldLogger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// GetDashboard handles GET /admin/dashboard
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	v := middleware.GetVisitor(c)

	stats, err := h.analyticsService.GetDashboardStats(c.Request.Context(), v.Session.Credential())
	if err != nil {
		respondError(c, err, "Failed to retrieve dashboard statistics")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Dashboard statistics retrieved successfully",
		"data":    stats,
	})
}

// GetOrders handles GET /admin/orders?status=&limit=
func (h *AnalyticsHandler) GetOrders(c *gin.Context) {
	orders, ok := h.listOrders(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":    orders,
		"by_status": analytics.StatusBreakdown(orders),
	})
}

// ExportOrders handles GET /admin/orders/export
func (h *AnalyticsHandler) ExportOrders(c *gin.Context) {
	orders, ok := h.listOrders(c)
	if !ok {
		return
	}

	filename := fmt.Sprintf("commandes-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", export.ContentType)
	c.Status(http.StatusOK)

	if err := export.WriteOrders(c.Writer, orders); err != nil {
		h.logger.WithError(err).Error("Failed to export orders")
	}
}

// UpdateOrderStatus handles PUT /admin/orders/:id/status
func (h *AnalyticsHandler) UpdateOrderStatus(c *gin.Context) {
	v := middleware.GetVisitor(c)

	var req order.StatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	id := c.Param("id")
	if err := h.analyticsService.UpdateOrderStatus(c.Request.Context(), v.Session.Credential(), id, req.Status); err != nil {
		respondError(c, err, "Failed to update order status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"status":  req.Status,
		"label":   req.Status.Label(),
	})
}

func (h *AnalyticsHandler) listOrders(c *gin.Context) ([]order.Order, bool) {
	v := middleware.GetVisitor(c)
	limit, _ := strconv.Atoi(c.Query("limit"))
	status := order.OrderStatus(c.Query("status"))

	orders, err := h.analyticsService.ListOrders(c.Request.Context(), v.Session.Credential(), status, limit)
	if err != nil {
		respondError(c, err, "Failed to retrieve orders")
		return nil, false
	}
	return nonNil(orders), true
}
