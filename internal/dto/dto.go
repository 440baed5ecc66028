// dto.go
package dto

import (
	validatorv10 "github.com/go-playground/validator/v10"

	"order-workflow-service/internal/model"
)

// InitStepperRequest injects control and orders data from the host.
// Used by both the API endpoint and the Rabbit consumer.
type InitStepperRequest struct {
	Control model.ControlData `json:"control" binding:"required" validate:"required"`
	Orders  []model.Order     `json:"orders" binding:"required,min=1" validate:"required,min=1"`
}

type ItemUpdateDTO struct {
	ProductKey string `json:"product_key" binding:"required" validate:"required"`
	Status     string `json:"status" binding:"required" validate:"required"`
}

type UpdateItemsRequest struct {
	Updates []ItemUpdateDTO `json:"updates" binding:"required,min=1,dive" validate:"required,min=1,dive"`
}

type StateResponse struct {
	Step     model.StepDefinition `json:"step"`
	State    *model.WorkflowState `json:"state,omitempty"`
	Role     model.Role           `json:"role"`
	IsLocked bool                 `json:"isLocked"`
}

type ItemFailureDTO struct {
	ProductKey string `json:"product_key"`
	Reason     string `json:"reason"`
}

type UpdateItemsResponse struct {
	Applied []string         `json:"applied"`
	Failed  []ItemFailureDTO `json:"failed,omitempty"`
}

var validate = newValidator()

func newValidator() *validatorv10.Validate {
	v := validatorv10.New()

	// The Rabbit path bypasses gin binding, so step definitions get a
	// struct-level check here: ids and numbers must be present and unique.
	v.RegisterStructValidation(initRequestStructValidation, InitStepperRequest{})
	return v
}

func initRequestStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(InitStepperRequest)

	if req.Control.CurrentUser.IDUser == "" {
		sl.ReportError(req.Control.CurrentUser.IDUser, "control.currentUser.idUser", "IDUser", "required", "")
	}
	if len(req.Control.Steps) == 0 {
		sl.ReportError(req.Control.Steps, "control.steps", "Steps", "required", "")
		return
	}
	seen := map[string]bool{}
	for _, step := range req.Control.Steps {
		if step.ID == "" || step.No <= 0 {
			sl.ReportError(step, "control.steps", "Steps", "step_shape", "")
			return
		}
		if seen[step.ID] {
			sl.ReportError(step, "control.steps", "Steps", "step_unique", "")
			return
		}
		seen[step.ID] = true
	}
}

// ValidateInit checks an injected payload outside of gin binding.
func ValidateInit(req InitStepperRequest) error {
	return validate.Struct(req)
}
