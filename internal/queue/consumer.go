package queue

// consumer.go contains the background consumer that listens to the venue
// events queue and appends one line per event to an audit log file.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// reconnectDelay is the pause between broker connection attempts.
const reconnectDelay = 2 * time.Second

// StartVenueConsumer connects to RabbitMQ, declares queueName (durable) and
// appends every delivered VenueEvent to logPath. It reconnects whenever the
// connection drops and returns only when ctx is cancelled. Messages that
// cannot be handled are rejected without requeue so the loop never spins
// on a poison message.
func StartVenueConsumer(ctx context.Context, url, queueName, logPath string, log zerolog.Logger) {
	log = log.With().Str("component", "venue-consumer").Str("queue", queueName).Logger()
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn().Err(err).Dur("retry_in", reconnectDelay).Msg("failed to dial broker")
		} else {
			err = consumeLoop(ctx, conn, queueName, logPath, log)
			_ = conn.Close()
			if ctx.Err() != nil {
				return
			}
			log.Warn().Err(err).Msg("consume loop ended; reconnecting")
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, queueName, logPath string, log zerolog.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn().Err(err).Msg("set QoS failed")
	}

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	log.Info().Msg("consuming venue events")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := handleMessage(d.Body, logPath); err != nil {
				log.Error().Err(err).Msg("handle message failed")
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func handleMessage(body []byte, logPath string) error {
	var ev VenueEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Type == "" || ev.VenueID == "" {
		return errors.New("event without type or venue_id")
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(logPath), err)
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] %s | venue_id=%s | user_id=%s | name=%q\n",
		ev.OccurredAt, ev.Type, ev.VenueID, ev.UserID, ev.Name)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
