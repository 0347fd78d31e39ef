package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// channel is the subset of *amqp.Channel used for publishing.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// amqpPublisher implements Publisher on a RabbitMQ queue.
type amqpPublisher struct {
	conn   *amqp.Connection
	queue  string
	logger zerolog.Logger

	// amqp channels are not safe for concurrent publishing.
	mu sync.Mutex
	ch channel
}

// NewAMQPPublisher dials url, declares a durable queue and returns a
// Publisher that sends JSON events to it.
func NewAMQPPublisher(url, queue string, logger zerolog.Logger) (Publisher, error) {
	logger = logger.With().Str("component", "amqp-publisher").Logger()

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queue, // name of the queue
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	logger.Info().Str("queue", queue).Msg("AMQP publisher initialised")

	p := newAMQPPublisher(ch, queue, logger)
	p.conn = conn
	return p, nil
}

func newAMQPPublisher(ch channel, queue string, logger zerolog.Logger) *amqpPublisher {
	return &amqpPublisher{
		ch:     ch,
		queue:  queue,
		logger: logger,
	}
}

// Publish sends event to the queue through the default exchange.
func (p *amqpPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx,
		"",      // exchange
		p.queue, // routing key (queue name)
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Type:         event.Kind,
			MessageId:    event.ID,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Kind, err)
	}

	p.logger.Debug().
		Str("kind", event.Kind).
		Str("id", event.ID).
		Msg("event published")

	return nil
}

// Close closes the channel and the underlying connection.
func (p *amqpPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	if err := p.ch.Close(); err != nil {
		firstErr = err
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
