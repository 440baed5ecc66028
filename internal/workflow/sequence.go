package workflow

import (
	"fmt"

	"order-workflow-service/internal/model"
)

// SequenceResult reports whether a requested phase activation is allowed.
// Messages are the user-facing Arabic strings shown by the host UI.
type SequenceResult struct {
	IsValid      bool
	ErrorMessage string
}

const msgCannotGoBack = "لا يمكن الرجوع إلى مرحلة سابقة. يجب التقدم بالترتيب فقط."

// ValidateStepSequence enforces monotonic, single-step progression of the
// global phase pointer.
func ValidateStepSequence(requestedStepNo, currentStepNo int) SequenceResult {
	if requestedStepNo <= currentStepNo {
		return SequenceResult{IsValid: false, ErrorMessage: msgCannotGoBack}
	}
	if requestedStepNo != currentStepNo+1 {
		return SequenceResult{
			IsValid:      false,
			ErrorMessage: fmt.Sprintf("يجب تفعيل المراحل بالترتيب. المرحلة التالية المتاحة هي رقم %d.", currentStepNo+1),
		}
	}
	return SequenceResult{IsValid: true}
}

// NewStepState builds the record persisted for a validated transition.
func NewStepState(step model.StepDefinition) model.WorkflowState {
	return model.WorkflowState{
		StepID: step.ID,
		StepNo: step.No,
		Status: "active",
	}
}
