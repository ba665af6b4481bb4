package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/kbeauty-storefront/internal/domain/notification"
	"github.com/your-org/kbeauty-storefront/internal/interfaces/http/middleware"
)

// NotificationHandler exposes one poll of the order-status watcher
type NotificationHandler struct {
	logger logrus.FieldLogger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(logger logrus.FieldLogger) *NotificationHandler {
	return &NotificationHandler{logger: logger}
}

// Poll handles GET /notifications. Polling failures are swallowed.
func (h *NotificationHandler) Poll(c *gin.Context) {
	v := middleware.GetVisitor(c)

	changes, err := v.Notifications.Check(c.Request.Context(), v.Session.Credential())
	if err != nil {
		h.logger.WithError(err).WithField("visitor_id", v.ID).Debug("Notification poll failed")
		changes = nil
	}

	c.JSON(http.StatusOK, gin.H{"changes": nonNil[notification.Change](changes)})
}
