package payment

import (
	"errors"
	"io"
	"net/http"

	"github.com/Dikshant005/Titan-Strength/internal/api"
	"github.com/Dikshant005/Titan-Strength/internal/auth"
	"github.com/Dikshant005/Titan-Strength/internal/subscription"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreateOrder godoc
// @Summary      Create payment order
// @Description  Creates a provider order for the selected plan. Rejected when the user already holds an active subscription.
// @Tags         payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateOrderRequest  true  "Plan selection"
// @Success      201      {object}  api.Envelope
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /payments/order [post]
func (h *Handler) CreateOrder(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.Err("User not authenticated"))
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Err(err.Error()))
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), userID, req.PlanID)
	if err != nil {
		switch {
		case errors.Is(err, ErrPlanNotFound):
			c.JSON(http.StatusNotFound, api.Err("Plan not found"))
		case errors.Is(err, ErrPlanInactive):
			c.JSON(http.StatusBadRequest, api.Err("Plan is no longer offered"))
		case errors.Is(err, subscription.ErrDuplicateActiveSubscription):
			c.JSON(http.StatusConflict, api.Err("You already have an active subscription"))
		default:
			c.JSON(http.StatusInternalServerError, api.Err("Failed to create order"))
		}
		return
	}

	c.JSON(http.StatusCreated, api.OK(order))
}

// VerifyPayment godoc
// @Summary      Verify provider payment
// @Description  Verifies the checkout signature and activates the subscription.
// @Tags         payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      VerifyPaymentRequest  true  "Provider payment proof"
// @Success      201      {object}  api.Envelope
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /payments/verify [post]
func (h *Handler) VerifyPayment(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.Err("User not authenticated"))
		return
	}

	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Err(err.Error()))
		return
	}

	sub, err := h.service.VerifyRazorpay(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSignatureMismatch):
			c.JSON(http.StatusBadRequest, api.Err("Payment verification failed"))
		case errors.Is(err, ErrOrderNotFound):
			c.JSON(http.StatusNotFound, api.Err("Order not found"))
		case errors.Is(err, ErrOrderOwnership):
			c.JSON(http.StatusForbidden, api.Err("Order does not belong to this user"))
		case errors.Is(err, ErrOrderConsumed):
			c.JSON(http.StatusConflict, api.Err("Order already processed"))
		case errors.Is(err, subscription.ErrDuplicateActiveSubscription):
			c.JSON(http.StatusConflict, api.Err("You already have an active subscription"))
		default:
			c.JSON(http.StatusInternalServerError, api.Err("Failed to verify payment"))
		}
		return
	}

	c.JSON(http.StatusCreated, api.OKWithMessage(sub, "Payment verified, subscription active"))
}

// StripeWebhook godoc
// @Summary      Stripe webhook receiver
// @Description  Verifies the webhook signature and activates subscriptions on completed checkouts.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Success      200  {object}  api.MessageResponse
// @Failure      400  {object}  api.ErrorResponse
// @Router       /payments/webhook [post]
func (h *Handler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.Err("Failed to read payload"))
		return
	}

	err = h.service.HandleStripeWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, subscription.ErrDuplicateActiveSubscription) {
			// A retried webhook for a member we already activated.
			c.JSON(http.StatusOK, api.MessageResponse{Success: true, Message: "received"})
			return
		}
		c.JSON(http.StatusBadRequest, api.Err("Webhook rejected"))
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Success: true, Message: "received"})
}
