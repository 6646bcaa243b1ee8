package attendance

import (
	"errors"
	"net/http"
	"strconv"
	"time"

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

// CheckIn godoc
// @Summary      Gym floor check-in
// @Description  Opens a visit for the member. Checking in while a visit is open returns the open visit.
// @Tags         attendance
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.Envelope  "Already checked in"
// @Success      201  {object}  api.Envelope
// @Failure      402  {object}  api.ErrorResponse
// @Router       /attendance/checkin [post]
func (h *Handler) CheckIn(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.Err("User not authenticated"))
		return
	}

	visit, opened, err := h.service.CheckIn(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNoMembership) {
			c.JSON(http.StatusPaymentRequired, api.Err("Active membership required to check in"))
			return
		}
		c.JSON(http.StatusInternalServerError, api.Err("Failed to check in"))
		return
	}

	if !opened {
		c.JSON(http.StatusOK, api.OKWithMessage(visit, "Already checked in"))
		return
	}

	c.JSON(http.StatusCreated, api.OKWithMessage(visit, "Checked in"))
}

// CheckOut godoc
// @Summary      Gym floor check-out
// @Description  Closes the member's open visit. Checking out without an open visit is a no-op.
// @Tags         attendance
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.Envelope
// @Router       /attendance/checkout [post]
func (h *Handler) CheckOut(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.Err("User not authenticated"))
		return
	}

	visit, closed, err := h.service.CheckOut(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.Err("Failed to check out"))
		return
	}

	if !closed {
		c.JSON(http.StatusOK, api.Envelope{Success: true, Message: "No open visit"})
		return
	}

	c.JSON(http.StatusOK, api.OKWithMessage(visit, "Checked out"))
}

// GetMyHistory godoc
// @Summary      My visit history
// @Tags         attendance
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.Envelope
// @Router       /attendance/me [get]
func (h *Handler) GetMyHistory(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.Err("User not authenticated"))
		return
	}

	visits, err := h.service.History(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.Err("Failed to fetch history"))
		return
	}

	c.JSON(http.StatusOK, api.List(visits, len(visits)))
}

// GetMyMonthlyVisits godoc
// @Summary      My visit count for the current month
// @Tags         attendance
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.Envelope
// @Router       /attendance/me/monthly [get]
func (h *Handler) GetMyMonthlyVisits(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.Err("User not authenticated"))
		return
	}

	summary, err := h.service.MonthlyVisits(c.Request.Context(), userID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.Err("Failed to fetch visit count"))
		return
	}

	c.JSON(http.StatusOK, api.OK(summary))
}

// GetUserHistory godoc
// @Summary      Visit history for a member
// @Description  Staff view of any member's visit history.
// @Tags         attendance
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  api.Envelope
// @Failure      400  {object}  api.ErrorResponse
// @Router       /admin/attendance/users/{id} [get]
func (h *Handler) GetUserHistory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, api.Err("Invalid user id"))
		return
	}

	visits, err := h.service.History(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.Err("Failed to fetch history"))
		return
	}

	c.JSON(http.StatusOK, api.List(visits, len(visits)))
}
