package event

import "context"

// Publisher доставляет события подписчикам. Ошибка доставки не влияет на результат операции,
// породившей событие.
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
}

type PublisherFunc func(ctx context.Context, events ...Event) error

func (f PublisherFunc) Publish(ctx context.Context, events ...Event) error {
	return f(ctx, events...)
}

// NopPublisher отбрасывает события.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ...Event) error { return nil }
