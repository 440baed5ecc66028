package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"order-workflow-service/internal/appstate"
	"order-workflow-service/internal/model"
	"order-workflow-service/internal/store"
	"order-workflow-service/internal/workflow"
)

// Business errors surfaced to the transport layer.
var (
	ErrNotReady    = errors.New("البيانات لم تُحقن بعد")
	ErrForbidden   = errors.New("forbidden")
	ErrUnknownStep = errors.New("مرحلة غير معروفة")
	ErrUnknownUser = errors.New("تعذر تحديد نوع المستخدم")
)

// SequenceError carries the user-facing rejection message from the
// sequencing validator. No state is mutated when it is returned.
type SequenceError struct {
	Message string
}

func (e *SequenceError) Error() string { return e.Message }

// Actor is a resolved identity acting on the workflow.
type Actor struct {
	ID   string
	Role model.Role
}

// Engine wires the stores, the pure workflow rules, the notifier and the
// presenter into the order fulfillment state machine. All mutating
// operations and poll reconciliation serialize on one mutex: there is a
// single writer, interleavings come only from the host UI and the poll
// timer.
type Engine struct {
	state     *appstate.State
	gate      *appstate.Gate
	kv        store.KV
	notifier  Notifier
	presenter Presenter
	adminIDs  []string
	log       *logrus.Logger

	mu      sync.Mutex
	started bool
	user    Actor
	items   *store.ItemStatusStore
	wfstore *store.WorkflowStateStore
}

func NewEngine(state *appstate.State, gate *appstate.Gate, kv store.KV, notifier Notifier, presenter Presenter, adminIDs []string, log *logrus.Logger) *Engine {
	if presenter == nil {
		presenter = NopPresenter{}
	}
	return &Engine{
		state:     state,
		gate:      gate,
		kv:        kv,
		notifier:  notifier,
		presenter: presenter,
		adminIDs:  adminIDs,
		log:       log,
	}
}

// Inject feeds host-supplied data through the initialization gate.
func (e *Engine) Inject(control model.ControlData, orders []model.Order) {
	e.gate.Inject(control, orders)
}

// Start blocks on the initialization gate, resolves the current user's
// role and renders the current step. Both failure modes here are fatal:
// without injected data or a resolvable role there is no safe guess.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.gate.Wait(ctx); err != nil {
		return fmt.Errorf("initialization gate: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	control := e.state.ControlData()
	orders := e.state.OrdersData()
	if len(orders) == 0 || len(control.Steps) == 0 {
		return errors.New("injected data is incomplete: need orders and step definitions")
	}

	userID := control.CurrentUser.IDUser
	role, ok := workflow.DetermineUserType(userID, orders, e.adminIDs)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownUser, userID)
	}
	control.CurrentUser.Type = role
	e.state.SetControlData(control)

	orderKey := orders[0].OrderKey
	e.items = store.NewItemStatusStore(e.kv, orderKey)
	e.wfstore = store.NewWorkflowStateStore(e.kv, orderKey)

	persisted, err := e.wfstore.Load(ctx)
	if err != nil {
		return err
	}
	e.state.UpdateWorkflowState(persisted)

	e.user = Actor{ID: userID, Role: role}
	e.started = true

	e.log.WithFields(logrus.Fields{
		"userId": userID,
		"role":   role,
		"order":  orderKey,
	}).Info("workflow engine started")

	e.render(control)
	return nil
}

// ResolveActor determines the role for an arbitrary acting identity.
func (e *Engine) ResolveActor(userID string) (Actor, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.started {
		return Actor{}, ErrNotReady
	}
	role, ok := workflow.DetermineUserType(userID, e.state.OrdersData(), e.adminIDs)
	if !ok {
		return Actor{}, ErrUnknownUser
	}
	return Actor{ID: userID, Role: role}, nil
}

// CurrentState reports the resolved current step and the buyer lock flag.
func (e *Engine) CurrentState(actor Actor) (model.StepDefinition, *model.WorkflowState, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.started {
		return model.StepDefinition{}, nil, false, ErrNotReady
	}
	control := e.state.ControlData()
	wf := e.state.WorkflowState()
	step := workflow.DetermineCurrentStep(control, wf)
	return step, wf, e.reviewLocked(control, step), nil
}

// reviewLocked: once the global step reaches shipped the buyer may no
// longer toggle cancellations.
func (e *Engine) reviewLocked(control model.ControlData, current model.StepDefinition) bool {
	shippedNo := control.StepNoByID(model.StepShipped)
	if shippedNo == 0 {
		return false
	}
	return current.No >= shippedNo
}

// stepAdvancers maps each phase to the roles allowed to activate it,
// mirroring the item authorization matrix. Review is the initial phase
// and is never advanced to. Admin is allowed everywhere.
var stepAdvancers = map[string][]model.Role{
	model.StepConfirmed: {model.RoleSeller},
	model.StepShipped:   {model.RoleSeller, model.RoleCourier},
	model.StepDelivered: {model.RoleBuyer, model.RoleCourier},
}

func mayAdvance(actor Actor, stepID string) bool {
	if actor.Role == model.RoleAdmin {
		return true
	}
	for _, role := range stepAdvancers[stepID] {
		if actor.Role == role {
			return true
		}
	}
	return false
}

// AdvanceStep validates and performs a global phase transition. Fixed
// order: validate, persist, then notify. A sequencing violation returns a
// *SequenceError and writes nothing.
func (e *Engine) AdvanceStep(ctx context.Context, actor Actor, requestedStepID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.started {
		return ErrNotReady
	}

	control := e.state.ControlData()
	step, ok := control.StepByID(requestedStepID)
	if !ok {
		return ErrUnknownStep
	}
	if !mayAdvance(actor, requestedStepID) {
		return ErrForbidden
	}

	current := workflow.DetermineCurrentStep(control, e.state.WorkflowState())
	result := workflow.ValidateStepSequence(step.No, current.No)
	if !result.IsValid {
		return &SequenceError{Message: result.ErrorMessage}
	}

	newState := workflow.NewStepState(step)
	if err := e.wfstore.Save(ctx, newState); err != nil {
		return err
	}
	e.state.UpdateWorkflowState(&newState)

	orders := e.state.OrdersData()
	meta := workflow.ExtractNotificationMetadata(orders, control)
	e.sendNotification(ctx, NotificationPayload{
		ID:         uuid.NewString(),
		StepID:     step.ID,
		StepName:   step.Name,
		TargetKeys: allParties(meta),
		OrderID:    meta.OrderID,
		UserName:   meta.UserName,
	})
	e.checkSubSteps(ctx, step.ID, nil, meta, orders)

	e.render(control)
	return nil
}

// ItemFailure is a per-item save problem. The rest of the batch is not
// affected by it.
type ItemFailure struct {
	ProductKey string
	Reason     string
}

type UpdateItemsResult struct {
	Applied []workflow.ItemStatusUpdate
	Failed  []ItemFailure
}

// UpdateItemStatuses applies a batch of per-item status changes. Each
// item is authorized and saved independently; failures are collected, not
// propagated. Sub-step notification conditions are evaluated against a
// fresh read of the status map only after every save has settled.
func (e *Engine) UpdateItemStatuses(ctx context.Context, actor Actor, updates []workflow.ItemStatusUpdate) (UpdateItemsResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.started {
		return UpdateItemsResult{}, ErrNotReady
	}

	control := e.state.ControlData()
	orders := e.state.OrdersData()
	current := workflow.DetermineCurrentStep(control, e.state.WorkflowState())
	locked := e.reviewLocked(control, current)

	var result UpdateItemsResult
	for _, update := range updates {
		if !update.Status.Valid() {
			result.Failed = append(result.Failed, ItemFailure{update.ProductKey, fmt.Sprintf("invalid status %q", update.Status)})
			continue
		}
		order, item, found := findItem(orders, update.ProductKey)
		if !found {
			result.Failed = append(result.Failed, ItemFailure{update.ProductKey, "unknown product"})
			continue
		}
		if !maySetStatus(actor, update.Status, order, item, locked) {
			result.Failed = append(result.Failed, ItemFailure{update.ProductKey, "not allowed for this role"})
			continue
		}
		if err := e.items.Save(ctx, update.ProductKey, update.Status); err != nil {
			e.log.WithError(err).WithField("productKey", update.ProductKey).Warn("item status save failed")
			result.Failed = append(result.Failed, ItemFailure{update.ProductKey, err.Error()})
			continue
		}
		result.Applied = append(result.Applied, update)
	}

	if len(result.Applied) > 0 {
		meta := workflow.ExtractNotificationMetadata(orders, control)
		e.checkSubSteps(ctx, current.ID, result.Applied, meta, orders)
		e.render(control)
	}
	return result, nil
}

// checkSubSteps re-reads the full status map and dispatches a branch
// notification when one of the three conditions holds. Runs strictly
// after the saves it reacts to.
func (e *Engine) checkSubSteps(ctx context.Context, activeStepID string, applied []workflow.ItemStatusUpdate, meta workflow.NotificationMetadata, orders []model.Order) {
	statuses, err := e.items.ListAll(ctx)
	if err != nil {
		e.log.WithError(err).Warn("sub-step check skipped: cannot list item statuses")
		return
	}
	sub := workflow.CheckSubStepConditions(activeStepID, statuses, meta)
	if sub == nil {
		return
	}
	// Narrow seller-targeted branches to the sellers whose items actually
	// changed in this batch.
	if len(applied) > 0 && sub.StepID != model.StepRejectedBranch {
		if relevant := workflow.RelevantSellerKeys(applied, orders); len(relevant) > 0 {
			sub.TargetKeys = relevant
		}
	}
	e.sendNotification(ctx, NotificationPayload{
		ID:         uuid.NewString(),
		StepID:     sub.StepID,
		StepName:   sub.StepName,
		TargetKeys: sub.TargetKeys,
		OrderID:    sub.OrderID,
		UserName:   sub.UserName,
	})
}

// Reconcile compares the externally held workflow state against the local
// copy and overwrites local on any difference; the external source always
// wins. Returns false without doing work when a mutating operation holds
// the engine, deferring to the next poll tick.
func (e *Engine) Reconcile(ctx context.Context, external *model.WorkflowState) (bool, error) {
	if external == nil {
		return false, nil
	}
	if !e.mu.TryLock() {
		return false, nil
	}
	defer e.mu.Unlock()
	if !e.started {
		return false, nil
	}

	local, err := e.wfstore.Load(ctx)
	if err != nil {
		return false, err
	}
	if statesEqual(local, external) {
		return false, nil
	}

	if err := e.wfstore.Save(ctx, *external); err != nil {
		return false, err
	}
	e.state.UpdateWorkflowState(external)
	e.log.WithFields(logrus.Fields{
		"stepId": external.StepID,
		"stepNo": external.StepNo,
	}).Info("reconciled workflow state from parent")

	e.render(e.state.ControlData())
	return true, nil
}

// Full-structure equality, like the original serialized comparison.
// Field-level reconciliation is deliberately not attempted.
func statesEqual(a, b *model.WorkflowState) bool {
	aj, _ := json.Marshal(a)
	bj, _ := json.Marshal(b)
	return bytes.Equal(aj, bj)
}

func (e *Engine) render(control model.ControlData) {
	current := workflow.DetermineCurrentStep(control, e.state.WorkflowState())
	e.presenter.RenderStep(RenderData{
		Step:     current,
		Role:     e.user.Role,
		UserID:   e.user.ID,
		IsLocked: e.reviewLocked(control, current),
	})
}

func (e *Engine) sendNotification(ctx context.Context, payload NotificationPayload) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.Send(ctx, payload); err != nil {
		// Advisory side effect: never blocks or rolls back the transition.
		e.log.WithError(err).WithField("stepId", payload.StepID).Warn("notification dispatch failed")
	}
}

func allParties(meta workflow.NotificationMetadata) []string {
	var out []string
	seen := map[string]bool{}
	add := func(key string) {
		if key != "" && !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	add(meta.BuyerKey)
	for _, k := range meta.SellerKeys {
		add(k)
	}
	for _, k := range meta.DeliveryKeys {
		add(k)
	}
	return out
}

func findItem(orders []model.Order, productKey string) (model.Order, model.OrderItem, bool) {
	for _, order := range orders {
		for _, item := range order.Items {
			if item.ProductKey == productKey {
				return order, item, true
			}
		}
	}
	return model.Order{}, model.OrderItem{}, false
}

// maySetStatus is the role/status authorization matrix. Buyers toggle
// pending/cancelled on their own orders while the review lock is open;
// sellers confirm, reject and ship their own items; couriers ship,
// deliver and accept returns across sellers; admin does anything.
func maySetStatus(actor Actor, status model.ItemStatus, order model.Order, item model.OrderItem, locked bool) bool {
	if actor.Role == model.RoleAdmin {
		return true
	}
	switch status {
	case model.StatusPending, model.StatusCancelled:
		return actor.Role == model.RoleBuyer && order.UserKey == actor.ID && !locked
	case model.StatusConfirmed, model.StatusRejected:
		return actor.Role == model.RoleSeller && item.SellerKey == actor.ID
	case model.StatusShipped:
		if actor.Role == model.RoleCourier {
			return true
		}
		return actor.Role == model.RoleSeller && item.SellerKey == actor.ID
	case model.StatusDelivered, model.StatusReturned:
		if actor.Role == model.RoleCourier {
			return true
		}
		return actor.Role == model.RoleBuyer && order.UserKey == actor.ID
	default:
		return false
	}
}
