package service

import (
	"context"

	"order-workflow-service/internal/model"
	"order-workflow-service/internal/workflow"
)

// Role-scoped read views over the current orders and item statuses. Each
// view takes a fresh status snapshot so it reflects the latest saves.

func (e *Engine) snapshot(ctx context.Context) ([]model.Order, map[string]model.ItemStatus, error) {
	if !e.started {
		return nil, nil, ErrNotReady
	}
	statuses, err := e.items.ListAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	return e.state.OrdersData(), statuses, nil
}

func (e *Engine) ReviewView(ctx context.Context, actor Actor) ([]model.OrderItem, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	orders, statuses, err := e.snapshot(ctx)
	if err != nil {
		return nil, false, err
	}
	control := e.state.ControlData()
	current := workflow.DetermineCurrentStep(control, e.state.WorkflowState())
	locked := e.reviewLocked(control, current)
	items := workflow.ProductsForReview(orders, statuses, actor.ID, actor.Role)
	return items, locked, nil
}

func (e *Engine) ConfirmationView(ctx context.Context, actor Actor) ([]workflow.ConfirmationProduct, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.started {
		return nil, ErrNotReady
	}
	return workflow.ConfirmationProducts(e.state.OrdersData(), actor.ID, actor.Role), nil
}

func (e *Engine) RejectedView(ctx context.Context, actor Actor) ([]model.OrderItem, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	orders, statuses, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return workflow.RejectedProducts(orders, statuses, actor.ID, actor.Role), nil
}

func (e *Engine) ShippableView(ctx context.Context, actor Actor) ([]workflow.ShippableProduct, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	orders, statuses, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return workflow.ShippableProducts(orders, statuses, actor.ID, actor.Role), nil
}

// DeliveryView returns the in-transit items plus the resolved buyer and
// courier details for the confirmation screen.
func (e *Engine) DeliveryView(ctx context.Context, actor Actor) ([]model.OrderItem, workflow.DeliveryUserDetails, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	orders, statuses, err := e.snapshot(ctx)
	if err != nil {
		return nil, workflow.DeliveryUserDetails{}, err
	}
	items := workflow.DeliveryProducts(orders, statuses, actor.ID, actor.Role)
	details := workflow.UserDetailsForDelivery(items, orders)
	return items, details, nil
}

func (e *Engine) ReturnedView(ctx context.Context, actor Actor) ([]model.OrderItem, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	orders, statuses, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return workflow.ReturnedProducts(orders, statuses, actor.ID, actor.Role), nil
}

// AllItemStatuses dumps the status map. Admin surface only.
func (e *Engine) AllItemStatuses(ctx context.Context) (map[string]model.ItemStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.started {
		return nil, ErrNotReady
	}
	return e.items.ListAll(ctx)
}
