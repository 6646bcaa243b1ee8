package subscription

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

// CreateSubscription godoc
// @Summary      Issue subscription manually
// @Description  Manual/cash issuance by front desk staff. The member is looked up by email.
// @Tags         subscriptions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateSubscriptionRequest  true  "Issuance data"
// @Success      201      {object}  api.Envelope
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /subscriptions [post]
func (h *Handler) CreateSubscription(c *gin.Context) {
	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Err(err.Error()))
		return
	}

	method := MethodManual
	if req.PaymentMethod != "" {
		method = PaymentMethod(req.PaymentMethod)
	}

	sub, err := h.service.IssueByEmail(c.Request.Context(), req.Email, req.PlanID, method)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			c.JSON(http.StatusNotFound, api.Err("User not found. Please register them first."))
		case errors.Is(err, ErrPlanNotFound):
			c.JSON(http.StatusNotFound, api.Err("Plan not found"))
		case errors.Is(err, ErrPlanInactive):
			c.JSON(http.StatusBadRequest, api.Err("Plan is no longer offered"))
		case errors.Is(err, ErrDuplicateActiveSubscription):
			c.JSON(http.StatusConflict, api.Err("User already has an active subscription"))
		default:
			c.JSON(http.StatusInternalServerError, api.Err("Failed to create subscription"))
		}
		return
	}

	c.JSON(http.StatusCreated, api.OKWithMessage(sub, "Subscription created"))
}

// ListSubscriptions godoc
// @Summary      List subscriptions
// @Description  All subscriptions, optionally filtered by member email. Manager/owner only.
// @Tags         subscriptions
// @Security     BearerAuth
// @Produce      json
// @Param        email  query     string  false  "Filter by member email"
// @Success      200    {object}  api.Envelope
// @Router       /subscriptions [get]
func (h *Handler) ListSubscriptions(c *gin.Context) {
	subs, err := h.service.ListAll(c.Request.Context(), c.Query("email"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.Err("Failed to fetch subscriptions"))
		return
	}

	c.JSON(http.StatusOK, api.List(subs, len(subs)))
}

// ListMySubscriptions godoc
// @Summary      List my subscriptions
// @Tags         subscriptions
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.Envelope
// @Router       /subscriptions/me [get]
func (h *Handler) ListMySubscriptions(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.Err("User not authenticated"))
		return
	}

	subs, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.Err("Failed to fetch subscriptions"))
		return
	}

	c.JSON(http.StatusOK, api.List(subs, len(subs)))
}

// GetMyActiveSubscription godoc
// @Summary      Get my active subscription
// @Tags         subscriptions
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.Envelope
// @Failure      404  {object}  api.ErrorResponse
// @Router       /subscriptions/me/active [get]
func (h *Handler) GetMyActiveSubscription(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.Err("User not authenticated"))
		return
	}

	sub, err := h.service.GetActive(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNoActiveSubscription) {
			c.JSON(http.StatusNotFound, api.Err("No active subscription"))
			return
		}
		c.JSON(http.StatusInternalServerError, api.Err("Failed to fetch subscription"))
		return
	}

	c.JSON(http.StatusOK, api.OK(sub))
}

// CancelSubscription godoc
// @Summary      Cancel subscription
// @Description  Marks an active subscription as cancelled. Manager/owner only.
// @Tags         subscriptions
// @Security     BearerAuth
// @Produce      json
// @Param        subscriptionID  path      int  true  "Subscription ID"
// @Success      200             {object}  api.MessageResponse
// @Failure      404             {object}  api.ErrorResponse
// @Router       /subscriptions/{subscriptionID} [delete]
func (h *Handler) CancelSubscription(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("subscriptionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.Err("Invalid subscription ID"))
		return
	}

	if err := h.service.Cancel(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrSubscriptionNotFound) {
			c.JSON(http.StatusNotFound, api.Err("Subscription not found or not active"))
			return
		}
		c.JSON(http.StatusInternalServerError, api.Err("Failed to cancel subscription"))
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Success: true, Message: "Subscription cancelled"})
}
