package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/gig-marketplace/internal/domain/event"
	"github.com/ignatzorin/gig-marketplace/internal/logger"
)

const exchangeType = "topic"

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPPublisher публикует события в topic exchange; routing key равен типу события.
type AMQPPublisher struct {
	mu       sync.Mutex
	ch       channel
	exchange string
}

var _ event.Publisher = (*AMQPPublisher)(nil)

func NewAMQPPublisher(ch channel, exchange string) *AMQPPublisher {
	return &AMQPPublisher{ch: ch, exchange: exchange}
}

func (p *AMQPPublisher) Publish(ctx context.Context, events ...event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, e := range events {
		body, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("amqp: не удалось сериализовать событие: %w", err)
		}

		err = p.ch.PublishWithContext(ctx, p.exchange, string(e.Type), false, false, amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    e.ID.String(),
			Timestamp:    e.OccurredAt,
			Body:         body,
		})
		if err != nil {
			return fmt.Errorf("amqp: не удалось опубликовать %s: %w", e.Type, err)
		}
	}
	return nil
}

// Connect подключается к брокеру с несколькими попытками и объявляет exchange.
func Connect(ctx context.Context, url, exchange string) (*amqp.Connection, *amqp.Channel, error) {
	var (
		conn *amqp.Connection
		err  error
	)
	for attempt := 1; attempt <= 5; attempt++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		logger.WithFields(logrus.Fields{"attempt": attempt}).WithError(err).Warn("amqp: не удалось подключиться")

		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		return nil, nil, fmt.Errorf("amqp: не удалось подключиться к брокеру: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("amqp: не удалось открыть канал: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, exchangeType, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("amqp: не удалось объявить exchange: %w", err)
	}

	return conn, ch, nil
}
