package notification

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Dikshant005/Titan-Strength/internal/api"
	"github.com/Dikshant005/Titan-Strength/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ListMyNotifications godoc
// @Summary      My notifications
// @Tags         notifications
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.Envelope
// @Router       /notifications/me [get]
func (h *Handler) ListMyNotifications(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.Err("User not authenticated"))
		return
	}

	notifications, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.Err("Failed to fetch notifications"))
		return
	}

	c.JSON(http.StatusOK, api.List(notifications, len(notifications)))
}

// MarkRead godoc
// @Summary      Mark a notification as read
// @Tags         notifications
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Notification ID"
// @Success      200  {object}  api.MessageResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /notifications/{id}/read [post]
func (h *Handler) MarkRead(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.Err("User not authenticated"))
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, api.Err("Invalid notification id"))
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, api.Err("Notification not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, api.Err("Failed to mark notification"))
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Success: true, Message: "Marked as read"})
}

// GetUnreadCount godoc
// @Summary      Unread notification count
// @Tags         notifications
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.Envelope
// @Router       /notifications/me/unread [get]
func (h *Handler) GetUnreadCount(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.Err("User not authenticated"))
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.Err("Failed to fetch unread count"))
		return
	}

	c.JSON(http.StatusOK, api.OK(UnreadCountResponse{Unread: count}))
}
