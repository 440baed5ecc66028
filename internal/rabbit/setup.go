// setup.go
package rabbit

import (
	"github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"order-workflow-service/internal/service"
)

func SetupConsumers(ch *amqp091.Channel, engine *service.Engine, log *logrus.Logger) {
	consumer := NewInjectDataConsumer(engine, log)

	q, err := ch.QueueDeclare(
		"order_workflow_service_data", // queue owned by this service
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.WithError(err).Error("declaring queue failed")
		return
	}

	err = ch.QueueBind(
		q.Name,
		"",             // fanout ignores routing key
		"stepper_data", // host publishes the order context here
		false,
		nil,
	)
	if err != nil {
		log.WithError(err).Error("binding exchange failed")
		return
	}

	msgs, err := ch.Consume(
		q.Name,
		"",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.WithError(err).Error("consuming queue failed")
		return
	}

	go func() {
		for m := range msgs {
			consumer.Handle(m.Body)
		}
	}()

	log.Info("subscribed to exchange stepper_data (fanout)")
}
