// Package queue publica eventos de dominio en RabbitMQ.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/jhoicas/turnos-api/internal/application/ports"
)

var _ ports.EventPublisher = (*Publisher)(nil)

// Envelope cuerpo de cada mensaje publicado.
type Envelope struct {
	Event      string    `json:"event"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// channel subconjunto de *amqp.Channel que usa el publisher.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher publica en un exchange topic durable. Un canal AMQP no admite publicaciones
// concurrentes, por eso se serializan con mu.
type Publisher struct {
	conn     *amqp.Connection
	exchange string
	log      zerolog.Logger
	now      func() time.Time

	mu sync.Mutex
	ch channel
}

// NewPublisher se conecta, abre un canal y declara el exchange.
func NewPublisher(url, exchange string, log zerolog.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp exchange declare: %w", err)
	}
	p := newPublisher(ch, exchange, log)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, exchange string, log zerolog.Logger) *Publisher {
	return &Publisher{
		ch:       ch,
		exchange: exchange,
		log:      log.With().Str("component", "queue").Logger(),
		now:      time.Now,
	}
}

// Publish serializa el evento y lo publica como mensaje persistente.
func (p *Publisher) Publish(ctx context.Context, routingKey string, payload any) error {
	at := p.now().UTC()
	body, err := json.Marshal(Envelope{Event: routingKey, OccurredAt: at, Payload: payload})
	if err != nil {
		return fmt.Errorf("marshal %s: %w", routingKey, err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    at,
		Type:         routingKey,
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	p.log.Debug().Str("routing_key", routingKey).Int("bytes", len(body)).Msg("evento publicado")
	return nil
}

// Close cierra canal y conexión.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
