package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"pinpoint-provisioner/internal/domain"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer implements ports.RunConsumer using RabbitMQ.
type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	log     *slog.Logger
}

// NewConsumer dials RabbitMQ, declares topology, and returns a Consumer.
func NewConsumer(amqpURL string, log *slog.Logger) (*Consumer, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	// One run at a time per worker: each run blocks on a remote import
	// job, and the provisioner drives a single job per instance.
	if err := ch.Qos(1, 0, false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("set qos: %w", err)
	}

	if err := declare(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &Consumer{conn: conn, channel: ch, log: log}, nil
}

// Consume registers a consumer on the queue and calls handler for each
// delivery. It acknowledges the message only if the handler returns nil.
// It blocks until ctx is cancelled.
func (c *Consumer) Consume(ctx context.Context, handler func(ctx context.Context, run domain.ProvisioningRun) error) error {
	deliveries, err := c.channel.Consume(
		queueName,
		"",    // auto-generated consumer tag
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("deliveries channel closed")
			}

			var run domain.ProvisioningRun
			if err := json.Unmarshal(d.Body, &run); err != nil {
				c.log.Error("unmarshal run", "err", err)
				d.Nack(false, false) // dead-letter; don't requeue malformed payloads
				continue
			}

			if err := handler(ctx, run); err != nil {
				c.log.Error("handler error", "run_id", run.ID, "err", err)
				// Import failures are recorded on the run row; requeueing
				// would resubmit the whole import, so drop the delivery.
				d.Nack(false, false)
				continue
			}

			d.Ack(false)
		}
	}
}

// Close cleanly shuts down the channel and connection.
func (c *Consumer) Close() {
	c.channel.Close()
	c.conn.Close()
}
