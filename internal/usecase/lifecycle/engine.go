package lifecycle

import (
	"context"
	"errors"
	"time"

	"github.com/ignatzorin/gig-marketplace/internal/domain/event"
	"github.com/ignatzorin/gig-marketplace/internal/domain/repository"
	"github.com/ignatzorin/gig-marketplace/internal/goroutine"
	"github.com/ignatzorin/gig-marketplace/internal/logger"
	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
	"github.com/sirupsen/logrus"
)

// Engine проводит отклики и найм исполнителя через единицу работы,
// сохраняя инварианты жизненного цикла заказа и откликов.
type Engine struct {
	uow       repository.UnitOfWork
	publisher event.Publisher
	async     *goroutine.RecoveryHandler
	timeout   time.Duration
}

type Option func(*Engine)

// WithOperationTimeout ограничивает время одной операции; 0 означает без ограничения.
func WithOperationTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

func WithRecoveryHandler(rh *goroutine.RecoveryHandler) Option {
	return func(e *Engine) { e.async = rh }
}

func NewEngine(uow repository.UnitOfWork, publisher event.Publisher, opts ...Option) *Engine {
	if publisher == nil {
		publisher = event.NopPublisher{}
	}
	e := &Engine{
		uow:       uow,
		publisher: publisher,
		async:     goroutine.DefaultRecoveryHandler,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.timeout)
}

// publish отправляет события уже после коммита, не задерживая ответ.
func (e *Engine) publish(ctx context.Context, events ...event.Event) {
	if len(events) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	e.async.SafeGo(func() {
		if err := e.publisher.Publish(ctx, events...); err != nil {
			logger.WithFields(logrus.Fields{
				"event_type": events[0].Type,
				"gig_id":     events[0].GigID,
				"count":      len(events),
			}).WithError(err).Warn("не удалось опубликовать события")
		}
	})
}

// fail логирует отказ и приводит инфраструктурные ошибки к AppError.
func fail(op string, err error, fields logrus.Fields) error {
	entry := logger.WithFields(fields).WithField("op", op)

	if apperror.IsDomain(err) {
		entry.WithField("code", apperror.CodeOf(err)).Info(err.Error())
		return err
	}

	entry.WithError(err).Error("операция не выполнена")

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "операция прервана")
	}
	return apperror.Wrap(err, apperror.ErrCodeInternal, "внутренняя ошибка")
}
