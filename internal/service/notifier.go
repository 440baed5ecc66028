package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"order-workflow-service/internal/model"
)

// NotificationPayload is what gets announced when a phase or branch
// activates. Delivery is advisory: a failed send never rolls back the
// state transition that produced it.
type NotificationPayload struct {
	ID         string   `json:"id"`
	StepID     string   `json:"stepId"`
	StepName   string   `json:"stepName"`
	TargetKeys []string `json:"targetKeys"`
	OrderID    string   `json:"orderId"`
	UserName   string   `json:"userName"`
}

// Notifier dispatches payloads to the affected parties, fire-and-forget.
type Notifier interface {
	Send(ctx context.Context, payload NotificationPayload) error
}

// LogNotifier just logs the payload. Wired when no broker is configured.
type LogNotifier struct {
	Log *logrus.Logger
}

func (n *LogNotifier) Send(_ context.Context, payload NotificationPayload) error {
	n.Log.WithFields(logrus.Fields{
		"stepId":  payload.StepID,
		"targets": payload.TargetKeys,
		"orderId": payload.OrderID,
	}).Info("notification dispatched (log only)")
	return nil
}

// RenderData is handed to the UI collaborator whenever the current step
// needs (re-)presenting.
type RenderData struct {
	Step     model.StepDefinition
	Role     model.Role
	UserID   string
	IsLocked bool
}

// Presenter is the UI collaborator. Implementations must disable their
// action handlers while a save is in flight; the engine serializes writes
// on its side but cannot stop a host UI from queueing stale intents.
type Presenter interface {
	RenderStep(data RenderData)
}

// NopPresenter for headless deployments and tests.
type NopPresenter struct{}

func (NopPresenter) RenderStep(RenderData) {}
