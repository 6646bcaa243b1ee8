package class

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

func sessionID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, api.Err("Invalid session id"))
		return 0, false
	}
	return id, true
}

// CreateSession godoc
// @Summary      Create class session
// @Description  Schedules a new class led by a trainer. Capacity defaults to 20.
// @Tags         classes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateSessionRequest  true  "Session details"
// @Success      201      {object}  api.Envelope
// @Failure      400      {object}  api.ErrorResponse
// @Router       /classes [post]
func (h *Handler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Err(err.Error()))
		return
	}

	session, err := h.service.CreateSession(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrNotTrainer) {
			c.JSON(http.StatusBadRequest, api.Err("Assigned user is not a trainer"))
			return
		}
		c.JSON(http.StatusInternalServerError, api.Err("Failed to create session"))
		return
	}

	c.JSON(http.StatusCreated, api.OK(session))
}

// ListSessions godoc
// @Summary      List upcoming sessions
// @Description  Returns scheduled sessions that have not started yet, with remaining capacity.
// @Tags         classes
// @Produce      json
// @Success      200  {object}  api.Envelope
// @Router       /classes [get]
func (h *Handler) ListSessions(c *gin.Context) {
	sessions, err := h.service.ListUpcoming(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.Err("Failed to list sessions"))
		return
	}

	c.JSON(http.StatusOK, api.List(sessions, len(sessions)))
}

// GetSession godoc
// @Summary      Get class session
// @Tags         classes
// @Produce      json
// @Param        id   path      int  true  "Session ID"
// @Success      200  {object}  api.Envelope
// @Failure      404  {object}  api.ErrorResponse
// @Router       /classes/{id} [get]
func (h *Handler) GetSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	session, err := h.service.GetSession(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, api.Err("Session not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, api.Err("Failed to fetch session"))
		return
	}

	c.JSON(http.StatusOK, api.OK(session))
}

// UpdateSession godoc
// @Summary      Update class session
// @Tags         classes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                   true  "Session ID"
// @Param        request  body      UpdateSessionRequest  true  "Fields to update"
// @Success      200      {object}  api.Envelope
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /classes/{id} [put]
func (h *Handler) UpdateSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Err(err.Error()))
		return
	}

	session, err := h.service.UpdateSession(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionNotFound):
			c.JSON(http.StatusNotFound, api.Err("Session not found"))
		case errors.Is(err, ErrNotTrainer):
			c.JSON(http.StatusBadRequest, api.Err("Assigned user is not a trainer"))
		default:
			c.JSON(http.StatusInternalServerError, api.Err("Failed to update session"))
		}
		return
	}

	c.JSON(http.StatusOK, api.OK(session))
}

// CancelSession godoc
// @Summary      Cancel class session
// @Tags         classes
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Session ID"
// @Success      200  {object}  api.MessageResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /classes/{id} [delete]
func (h *Handler) CancelSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	if err := h.service.CancelSession(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, api.Err("Session not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, api.Err("Failed to cancel session"))
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Success: true, Message: "Session cancelled"})
}

// BookClass godoc
// @Summary      Book a class spot
// @Description  Reserves a spot for the caller. Requires an active membership whose plan allows class booking. Booking twice returns the existing reservation.
// @Tags         classes
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Session ID"
// @Success      200  {object}  api.Envelope  "Already booked"
// @Success      201  {object}  api.Envelope
// @Failure      402  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Failure      409  {object}  api.ErrorResponse
// @Router       /classes/{id}/book [post]
func (h *Handler) BookClass(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.Err("User not authenticated"))
		return
	}

	id, ok := sessionID(c)
	if !ok {
		return
	}

	attendance, created, err := h.service.Book(c.Request.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionNotFound):
			c.JSON(http.StatusNotFound, api.Err("Session not found"))
		case errors.Is(err, ErrSessionCancelled):
			c.JSON(http.StatusConflict, api.Err("Session has been cancelled"))
		case errors.Is(err, ErrSessionStarted):
			c.JSON(http.StatusConflict, api.Err("Session has already started"))
		case errors.Is(err, ErrSessionFull):
			c.JSON(http.StatusConflict, api.Err("Session is full"))
		case errors.Is(err, ErrNoMembership):
			c.JSON(http.StatusPaymentRequired, api.Err("Active membership required to book classes"))
		case errors.Is(err, ErrPlanForbidsBooking):
			c.JSON(http.StatusForbidden, api.Err("Your plan does not include class booking"))
		case errors.Is(err, ErrWeeklyLimitReached):
			c.JSON(http.StatusConflict, api.Err("Weekly class booking limit reached"))
		default:
			c.JSON(http.StatusInternalServerError, api.Err("Failed to book class"))
		}
		return
	}

	if !created {
		c.JSON(http.StatusOK, api.OKWithMessage(attendance, "Already booked"))
		return
	}

	c.JSON(http.StatusCreated, api.OKWithMessage(attendance, "Spot reserved"))
}

// CancelBooking godoc
// @Summary      Cancel a class booking
// @Description  Releases the caller's reservation. Cancelling a booking that does not exist is a no-op.
// @Tags         classes
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Session ID"
// @Success      200  {object}  api.MessageResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /classes/{id}/book [delete]
func (h *Handler) CancelBooking(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.Err("User not authenticated"))
		return
	}

	id, ok := sessionID(c)
	if !ok {
		return
	}

	removed, err := h.service.CancelBooking(c.Request.Context(), id, userID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, api.Err("Session not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, api.Err("Failed to cancel booking"))
		return
	}

	message := "No booking to cancel"
	if removed {
		message = "Booking cancelled"
	}
	c.JSON(http.StatusOK, api.MessageResponse{Success: true, Message: message})
}

// MarkAttendance godoc
// @Summary      Mark class attendance
// @Description  Records a member as present or absent for a session. Staff only.
// @Tags         classes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                    true  "Session ID"
// @Param        request  body      MarkAttendanceRequest  true  "Attendance record"
// @Success      200      {object}  api.Envelope
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /classes/{id}/attendance [post]
func (h *Handler) MarkAttendance(c *gin.Context) {
	staffID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.Err("User not authenticated"))
		return
	}

	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Err(err.Error()))
		return
	}

	attendance, err := h.service.MarkAttendance(c.Request.Context(), id, req, staffID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, api.Err("Session not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, api.Err("Failed to mark attendance"))
		return
	}

	c.JSON(http.StatusOK, api.OK(attendance))
}

// GetRoster godoc
// @Summary      Class roster
// @Description  Lists everyone booked or marked for a session. Staff only.
// @Tags         classes
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Session ID"
// @Success      200  {object}  api.Envelope
// @Failure      404  {object}  api.ErrorResponse
// @Router       /classes/{id}/roster [get]
func (h *Handler) GetRoster(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	roster, err := h.service.Roster(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, api.Err("Session not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, api.Err("Failed to fetch roster"))
		return
	}

	c.JSON(http.StatusOK, api.List(roster, len(roster)))
}

// ListMyBookings godoc
// @Summary      My class bookings
// @Tags         classes
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.Envelope
// @Router       /bookings/me [get]
func (h *Handler) ListMyBookings(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.Err("User not authenticated"))
		return
	}

	bookings, err := h.service.MyBookings(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.Err("Failed to fetch bookings"))
		return
	}

	c.JSON(http.StatusOK, api.List(bookings, len(bookings)))
}
