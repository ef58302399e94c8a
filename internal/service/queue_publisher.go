// Package queue_publisher publishes venue lifecycle events to RabbitMQ.
// Errors are returned so the caller can log and otherwise ignore them;
// a failed publish never interrupts the request that triggered it.
package queue_publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/venues-api/internal/config"
	q "github.com/iliyamo/venues-api/internal/queue"
)

// Publisher dials the broker for each event and closes the connection
// afterwards.
type Publisher struct {
	url   string
	queue string
}

// New returns a Publisher for cfg.
func New(cfg config.EventsConfig) *Publisher {
	return &Publisher{url: cfg.URL, queue: cfg.Queue}
}

// PublishVenueEvent publishes ev to the configured durable queue as a
// persistent JSON message.
func (p *Publisher) PublishVenueEvent(ctx context.Context, ev q.VenueEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		p.queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	}
	// default exchange, routing key = queue name
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}

// Noop discards every event. It is used when events are disabled.
type Noop struct{}

func (Noop) PublishVenueEvent(context.Context, q.VenueEvent) error { return nil }
