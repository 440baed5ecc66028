package rabbit

import (
	"context"
	"encoding/json"

	"github.com/rabbitmq/amqp091-go"

	"order-workflow-service/internal/service"
)

const notificationsExchange = "stepper_notifications"

// NotificationPublisher fans workflow notifications out to whoever
// listens (push delivery, audit, ...). Fire-and-forget by contract.
type NotificationPublisher struct {
	ch *amqp091.Channel
}

func NewNotificationPublisher(ch *amqp091.Channel) (*NotificationPublisher, error) {
	err := ch.ExchangeDeclare(
		notificationsExchange,
		"fanout",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, err
	}
	return &NotificationPublisher{ch: ch}, nil
}

func (p *NotificationPublisher) Send(ctx context.Context, payload service.NotificationPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx,
		notificationsExchange,
		"", // fanout ignores routing key
		false,
		false,
		amqp091.Publishing{
			ContentType: "application/json",
			MessageId:   payload.ID,
			Body:        body,
		},
	)
}
