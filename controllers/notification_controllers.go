package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/dinein-backend/services"
	"github.com/yeremiapane/dinein-backend/utils"
)

type NotificationController struct {
	notifications *services.NotificationService
}

func NewNotificationController(svc *services.Container) *NotificationController {
	return &NotificationController{notifications: svc.Notifications}
}

// GetAllNotifications -> ?unread=true hanya yang belum dibaca
func (nc *NotificationController) GetAllNotifications(c *gin.Context) {
	notifs, err := nc.notifications.List(c.Request.Context(), restaurantID(c), c.Query("unread") == "true")
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All notifications", notifs)
}

func (nc *NotificationController) MarkAsRead(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := nc.notifications.MarkRead(c.Request.Context(), restaurantID(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification marked as read", nil)
}
