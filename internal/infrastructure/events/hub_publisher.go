package events

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ignatzorin/gig-marketplace/internal/domain/event"
)

type broadcaster interface {
	BroadcastToUser(userID uuid.UUID, event string, data any) error
}

// HubPublisher доставляет события подключённым WebSocket клиентам получателя.
type HubPublisher struct {
	hub broadcaster
}

var _ event.Publisher = (*HubPublisher)(nil)

func NewHubPublisher(hub broadcaster) *HubPublisher {
	return &HubPublisher{hub: hub}
}

func (p *HubPublisher) Publish(ctx context.Context, events ...event.Event) error {
	var errs []error
	for _, e := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.hub.BroadcastToUser(e.RecipientID, string(e.Type), e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MultiPublisher рассылает события всем публикаторам; ошибка одного не мешает остальным.
type MultiPublisher []event.Publisher

func (m MultiPublisher) Publish(ctx context.Context, events ...event.Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, events...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
