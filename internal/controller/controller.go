package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"order-workflow-service/internal/dto"
	"order-workflow-service/internal/model"
	"order-workflow-service/internal/service"
	"order-workflow-service/internal/workflow"
)

type StepperController struct {
	Engine *service.Engine
}

func NewStepperController(e *service.Engine) *StepperController {
	return &StepperController{Engine: e}
}

func actorFrom(c *gin.Context) service.Actor {
	return service.Actor{
		ID:   c.GetString("actorID"),
		Role: model.Role(c.GetString("actorRole")),
	}
}

// POST /stepper/init — public; the host injects control and orders data.
func (ctl *StepperController) InitData(c *gin.Context) {
	var req dto.InitStepperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := dto.ValidateInit(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctl.Engine.Inject(req.Control, req.Orders)
	c.JSON(http.StatusCreated, gin.H{"message": "stepper data injected"})
}

// GET /stepper/state — current step, persisted pointer and the buyer lock.
func (ctl *StepperController) GetState(c *gin.Context) {
	actor := actorFrom(c)
	step, state, locked, err := ctl.Engine.CurrentState(actor)
	if err != nil {
		ctl.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StateResponse{
		Step:     step,
		State:    state,
		Role:     actor.Role,
		IsLocked: locked,
	})
}

// POST /stepper/steps/:stepId/activate — advance the global phase pointer.
func (ctl *StepperController) ActivateStep(c *gin.Context) {
	err := ctl.Engine.AdvanceStep(c.Request.Context(), actorFrom(c), c.Param("stepId"))
	if err != nil {
		ctl.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "step activated"})
}

// PATCH /stepper/items — batch item status updates.
func (ctl *StepperController) UpdateItems(c *gin.Context) {
	var req dto.UpdateItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := make([]workflow.ItemStatusUpdate, 0, len(req.Updates))
	for _, u := range req.Updates {
		updates = append(updates, workflow.ItemStatusUpdate{
			ProductKey: u.ProductKey,
			Status:     model.ItemStatus(u.Status),
		})
	}

	result, err := ctl.Engine.UpdateItemStatuses(c.Request.Context(), actorFrom(c), updates)
	if err != nil {
		ctl.writeError(c, err)
		return
	}

	resp := dto.UpdateItemsResponse{}
	for _, u := range result.Applied {
		resp.Applied = append(resp.Applied, u.ProductKey)
	}
	for _, f := range result.Failed {
		resp.Failed = append(resp.Failed, dto.ItemFailureDTO{ProductKey: f.ProductKey, Reason: f.Reason})
	}
	c.JSON(http.StatusOK, resp)
}

// GET /stepper/views/review
func (ctl *StepperController) ReviewView(c *gin.Context) {
	items, locked, err := ctl.Engine.ReviewView(c.Request.Context(), actorFrom(c))
	if err != nil {
		ctl.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "isLocked": locked})
}

// GET /stepper/views/confirmation
func (ctl *StepperController) ConfirmationView(c *gin.Context) {
	products, err := ctl.Engine.ConfirmationView(c.Request.Context(), actorFrom(c))
	if err != nil {
		ctl.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GET /stepper/views/rejected
func (ctl *StepperController) RejectedView(c *gin.Context) {
	items, err := ctl.Engine.RejectedView(c.Request.Context(), actorFrom(c))
	if err != nil {
		ctl.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GET /stepper/views/shippable
func (ctl *StepperController) ShippableView(c *gin.Context) {
	products, err := ctl.Engine.ShippableView(c.Request.Context(), actorFrom(c))
	if err != nil {
		ctl.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GET /stepper/views/delivery
func (ctl *StepperController) DeliveryView(c *gin.Context) {
	items, details, err := ctl.Engine.DeliveryView(c.Request.Context(), actorFrom(c))
	if err != nil {
		ctl.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "details": details})
}

// GET /stepper/views/returned
func (ctl *StepperController) ReturnedView(c *gin.Context) {
	items, err := ctl.Engine.ReturnedView(c.Request.Context(), actorFrom(c))
	if err != nil {
		ctl.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GET /admin/items — full status map, admin only.
func (ctl *StepperController) AllItemStatuses(c *gin.Context) {
	statuses, err := ctl.Engine.AllItemStatuses(c.Request.Context())
	if err != nil {
		ctl.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, statuses)
}

func (ctl *StepperController) writeError(c *gin.Context, err error) {
	var seqErr *service.SequenceError
	switch {
	case errors.As(err, &seqErr):
		c.JSON(http.StatusConflict, gin.H{"error": seqErr.Message})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnknownStep):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotReady):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
