// File: /controllers/notification_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ballpark-api/services"
	"ballpark-api/utils"
)

type NotificationController struct {
	notifications *services.NotificationService
}

func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{notifications: notifications}
}

// GetNotifications gets paginated notifications for the current user
func (nc *NotificationController) GetNotifications(c *gin.Context) {
	page, limit := utils.ParsePagination(c, 20, 50)

	result, err := nc.notifications.List(c.Request.Context(), viewerID(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (nc *NotificationController) MarkAsRead(c *gin.Context) {
	if err := nc.notifications.MarkRead(c.Request.Context(), viewerID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.SendMessage(c, "Notification marked as read")
}

func (nc *NotificationController) MarkAllAsRead(c *gin.Context) {
	if err := nc.notifications.MarkAllRead(c.Request.Context(), viewerID(c)); err != nil {
		respondError(c, err)
		return
	}
	utils.SendMessage(c, "All notifications marked as read")
}
