package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/roomsync/roomsync-backend/internal/domain"
)

const publishTimeout = 5 * time.Second

// channel is the subset of *amqp091.Channel the publisher needs
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher implements domain.EventPublisher on a RabbitMQ topic exchange.
// Each event is routed by its type, e.g. "expense.approved".
type Publisher struct {
	conn         *amqp091.Connection
	mu           sync.Mutex // Serialises use of the channel
	channel      channel
	exchangeName string
	logger       *slog.Logger
}

// NewPublisher dials the broker and declares the durable topic exchange
func NewPublisher(url, exchangeName string, logger *slog.Logger) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	p := newPublisher(ch, exchangeName, logger)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, exchangeName string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{channel: ch, exchangeName: exchangeName, logger: logger}
}

// Publish sends event as a persistent JSON message
func (p *Publisher) Publish(ctx context.Context, event domain.LedgerEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	err = p.channel.PublishWithContext(
		ctx,
		p.exchangeName,     // exchange
		string(event.Type), // routing key
		false,              // mandatory
		false,              // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    event.OccurredAt,
			MessageId:    event.EntityID.String(),
			Type:         string(event.Type),
			Body:         body,
		},
	)
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	p.logger.DebugContext(ctx, "Published ledger event",
		"type", event.Type,
		"period", event.Period,
		"exchange", p.exchangeName)

	return nil
}

// Close closes the channel and the connection
func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// DecodeEvent parses a message body produced by Publish
func DecodeEvent(body []byte) (domain.LedgerEvent, error) {
	var event domain.LedgerEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return domain.LedgerEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
