package rabbit

import (
	"encoding/json"

	"github.com/sirupsen/logrus"

	"order-workflow-service/internal/dto"
	"order-workflow-service/internal/service"
)

// InjectDataConsumer receives the control/orders payload published by the
// host when an order context opens, and feeds it through the
// initialization gate.
type InjectDataConsumer struct {
	Engine *service.Engine
	Log    *logrus.Logger
}

func NewInjectDataConsumer(e *service.Engine, log *logrus.Logger) *InjectDataConsumer {
	return &InjectDataConsumer{Engine: e, Log: log}
}

// StepperDataMessage is the broker envelope around the injection payload.
type StepperDataMessage struct {
	CorrelationID string                 `json:"correlation_id"`
	Exchange      string                 `json:"exchange"`
	RoutingKey    string                 `json:"routing_key"`
	Message       dto.InitStepperRequest `json:"message"`
}

func (c *InjectDataConsumer) Handle(msg []byte) error {
	c.Log.Info("[Rabbit] stepper data event received")

	var event StepperDataMessage
	if err := json.Unmarshal(msg, &event); err != nil {
		c.Log.WithError(err).Error("cannot parse stepper data message")
		return err
	}

	if err := dto.ValidateInit(event.Message); err != nil {
		c.Log.WithError(err).Error("stepper data payload rejected")
		return err
	}

	c.Engine.Inject(event.Message.Control, event.Message.Orders)
	c.Log.WithField("orders", len(event.Message.Orders)).Info("stepper data injected from broker")
	return nil
}
