package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	notificationRepo "linque/database/repository/notification"
	"linque/models"
)

// NotificationHandler serves the persisted notification feed. The same
// handler backs both customer and vendor routes; the auth middleware decides
// which principal is set on the context.
type NotificationHandler struct {
	Repo notificationRepo.NotificationRepository
}

func NewNotificationHandler(repo notificationRepo.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{Repo: repo}
}

// principal resolves the addressee from whichever auth middleware ran.
func principal(c *gin.Context) (kind, id string, ok bool) {
	if vendorID := c.GetString("vendorID"); vendorID != "" {
		return models.NotificationKindVendor, vendorID, true
	}
	if userID := c.GetString("userID"); userID != "" {
		return models.NotificationKindCustomer, userID, true
	}
	return "", "", false
}

// ListNotificationsHandler returns the principal's notifications, newest
// first.
func (h *NotificationHandler) ListNotificationsHandler(c *gin.Context) {
	logger := getLogger(c)

	kind, id, ok := principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}

	notifications, err := h.Repo.ListForAddressee(c.Request.Context(), kind, id)
	if err != nil {
		logger.Error("Failed to list notifications", zap.String("addressee", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkNotificationReadHandler flags a notification as read.
func (h *NotificationHandler) MarkNotificationReadHandler(c *gin.Context) {
	logger := getLogger(c)
	id := c.Param("id")

	n, err := h.Repo.MarkRead(c.Request.Context(), id)
	if err != nil {
		logger.Warn("Failed to mark notification read", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, n)
}
