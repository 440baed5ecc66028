// Package workflow holds the pure rules of the fulfillment stepper:
// role resolution, step sequencing, role-scoped item queries and the
// sub-step notification conditions. Nothing in here touches storage or
// transport; callers pass snapshots in and get values back.
package workflow

import (
	"order-workflow-service/internal/model"
)

// DetermineUserType resolves the acting role from identity plus ownership
// facts. Precedence is fixed: admin allow-list, then buyer (order owner),
// then seller (item owner), then courier (delivery key). The same inputs
// always give the same answer; the false return means the id is unknown
// and startup must abort rather than guess.
func DetermineUserType(userID string, orders []model.Order, adminIDs []string) (model.Role, bool) {
	if userID == "" {
		return "", false
	}
	for _, id := range adminIDs {
		if id == userID {
			return model.RoleAdmin, true
		}
	}
	for _, order := range orders {
		if order.UserKey == userID {
			return model.RoleBuyer, true
		}
	}
	for _, order := range orders {
		for _, item := range order.Items {
			if item.SellerKey == userID {
				return model.RoleSeller, true
			}
		}
	}
	for _, order := range orders {
		for _, item := range order.Items {
			if item.SupplierDelivery == nil {
				continue
			}
			for _, key := range item.SupplierDelivery.DeliveryKey {
				if key == userID {
					return model.RoleCourier, true
				}
			}
		}
	}
	return "", false
}

// DetermineCurrentStep resolves the persisted step pointer against the
// fixed step list, falling back to the first step when nothing is
// persisted or the persisted id is unknown.
func DetermineCurrentStep(control model.ControlData, state *model.WorkflowState) model.StepDefinition {
	if len(control.Steps) == 0 {
		return model.StepDefinition{}
	}
	first := control.Steps[0]
	for _, step := range control.Steps {
		if step.No < first.No {
			first = step
		}
	}
	if state == nil || state.StepID == "" {
		return first
	}
	if step, ok := control.StepByID(state.StepID); ok {
		return step
	}
	return first
}
