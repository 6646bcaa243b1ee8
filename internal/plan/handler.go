package plan

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Dikshant005/Titan-Strength/internal/api"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// CreatePlan godoc
// @Summary      Create plan
// @Description  Creates a membership plan. Manager/owner only.
// @Tags         plans
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreatePlanRequest  true  "Plan data"
// @Success      201      {object}  api.Envelope
// @Failure      400      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /plans [post]
func (h *Handler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Err(err.Error()))
		return
	}

	p, err := h.repo.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrDuplicateName) {
			c.JSON(http.StatusConflict, api.Err("A plan with this name already exists"))
			return
		}
		c.JSON(http.StatusInternalServerError, api.Err("Failed to create plan"))
		return
	}

	c.JSON(http.StatusCreated, api.OK(p))
}

// ListPlans godoc
// @Summary      List active plans
// @Tags         plans
// @Produce      json
// @Success      200  {object}  api.Envelope
// @Router       /plans [get]
func (h *Handler) ListPlans(c *gin.Context) {
	plans, err := h.repo.List(c.Request.Context(), true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.Err("Failed to fetch plans"))
		return
	}

	c.JSON(http.StatusOK, api.List(plans, len(plans)))
}

// ListAllPlans godoc
// @Summary      List all plans including deactivated
// @Tags         plans
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.Envelope
// @Router       /admin/plans [get]
func (h *Handler) ListAllPlans(c *gin.Context) {
	plans, err := h.repo.List(c.Request.Context(), false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.Err("Failed to fetch plans"))
		return
	}

	c.JSON(http.StatusOK, api.List(plans, len(plans)))
}

// GetPlan godoc
// @Summary      Get plan by id
// @Tags         plans
// @Produce      json
// @Param        planID  path      int  true  "Plan ID"
// @Success      200     {object}  api.Envelope
// @Failure      404     {object}  api.ErrorResponse
// @Router       /plans/{planID} [get]
func (h *Handler) GetPlan(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("planID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.Err("Invalid plan ID"))
		return
	}

	p, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, api.Err("Plan not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, api.Err("Failed to fetch plan"))
		return
	}

	c.JSON(http.StatusOK, api.OK(p))
}

// UpdatePlan godoc
// @Summary      Update plan
// @Tags         plans
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        planID   path      int                true  "Plan ID"
// @Param        request  body      UpdatePlanRequest  true  "Fields to update"
// @Success      200      {object}  api.Envelope
// @Failure      404      {object}  api.ErrorResponse
// @Router       /plans/{planID} [put]
func (h *Handler) UpdatePlan(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("planID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.Err("Invalid plan ID"))
		return
	}

	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Err(err.Error()))
		return
	}

	p, err := h.repo.Update(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrPlanNotFound):
			c.JSON(http.StatusNotFound, api.Err("Plan not found"))
		case errors.Is(err, ErrDuplicateName):
			c.JSON(http.StatusConflict, api.Err("A plan with this name already exists"))
		default:
			c.JSON(http.StatusInternalServerError, api.Err("Failed to update plan"))
		}
		return
	}

	c.JSON(http.StatusOK, api.OK(p))
}

// DeletePlan godoc
// @Summary      Deactivate plan
// @Description  Soft delete; the plan row is kept for existing subscriptions.
// @Tags         plans
// @Security     BearerAuth
// @Produce      json
// @Param        planID  path      int  true  "Plan ID"
// @Success      200     {object}  api.MessageResponse
// @Failure      404     {object}  api.ErrorResponse
// @Router       /plans/{planID} [delete]
func (h *Handler) DeletePlan(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("planID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.Err("Invalid plan ID"))
		return
	}

	if err := h.repo.Deactivate(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, api.Err("Plan not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, api.Err("Failed to delete plan"))
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Success: true, Message: "Plan deactivated"})
}
