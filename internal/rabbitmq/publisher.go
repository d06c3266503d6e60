package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// UserEventsQueue is the durable queue receiving account lifecycle events.
const UserEventsQueue = "user_events"

// Publisher sends JSON messages to the user events queue.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher opens a channel on the connection and declares the durable
// user events queue.
func NewPublisher(conn *amqp.Connection) (*Publisher, error) {
	const op = "rabbitmq.NewPublisher"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := ch.QueueDeclare(
		UserEventsQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, UserEventsQueue, err)
	}

	return &Publisher{ch: ch}, nil
}

// Publish sends a message as persistent JSON to the user events queue.
func (p *Publisher) Publish(message any) error {
	const op = "rabbitmq.Publish"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		"", // default exchange
		UserEventsQueue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
