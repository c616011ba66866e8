package lifecycle

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
	"github.com/ignatzorin/gig-marketplace/internal/domain/event"
	"github.com/ignatzorin/gig-marketplace/internal/domain/repository"
	"github.com/ignatzorin/gig-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/gig-marketplace/internal/logger"
	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
	"github.com/sirupsen/logrus"
)

type HireResult struct {
	Gig *entity.Gig
	Bid *entity.Bid
	// Rejected: отклики, отклонённые этим наймом.
	Rejected []*entity.Bid
}

// HireFreelancer назначает исполнителя заказа по отклику bidID.
// Всё выполняется в одной единице работы: CAS статуса заказа open→assigned,
// отклик → hired, остальные pending-отклики → rejected. Любая ошибка откатывает всё.
func (e *Engine) HireFreelancer(ctx context.Context, bidID, callerID uuid.UUID) (*HireResult, error) {
	fields := logrus.Fields{"bid_id": bidID, "caller_id": callerID}

	if callerID == uuid.Nil {
		return nil, fail("hire_freelancer", apperror.ErrUnauthorized, fields)
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	var result *HireResult
	err := e.uow.Do(ctx, func(p repository.RepositoryProvider) error {
		bid, err := p.Bids().FindByID(ctx, bidID)
		if err != nil {
			return err
		}

		gig, err := p.Gigs().FindByID(ctx, bid.GigID)
		if err != nil {
			if apperror.IsNotFound(err) {
				logger.WithFields(fields).WithField("gig_id", bid.GigID).
					Error("нарушена целостность: отклик ссылается на несуществующий заказ")
			}
			return err
		}

		if !gig.IsOwnedBy(callerID) {
			return apperror.ErrNotGigOwner
		}
		if !gig.IsOpen() {
			return apperror.ErrGigAlreadyAssigned
		}

		applied, err := p.Gigs().CompareAndSetStatus(ctx, gig.ID, valueobject.GigStatusOpen, valueobject.GigStatusAssigned)
		if err != nil {
			return err
		}
		if !applied {
			return apperror.ErrGigAlreadyAssigned
		}
		if err := gig.Assign(); err != nil {
			return err
		}

		if err := bid.Hire(); err != nil {
			return err
		}
		if err := p.Bids().SetStatus(ctx, bid.ID, bid.Status); err != nil {
			return err
		}

		rejected, err := p.Bids().RejectPending(ctx, gig.ID, bid.ID)
		if err != nil {
			return err
		}

		result = &HireResult{Gig: gig, Bid: bid, Rejected: rejected}
		return nil
	})
	if err != nil {
		return nil, fail("hire_freelancer", err, fields)
	}

	logger.WithFields(fields).WithFields(logrus.Fields{
		"gig_id":   result.Gig.ID,
		"rejected": len(result.Rejected),
	}).Info("исполнитель назначен")

	events := make([]event.Event, 0, len(result.Rejected)+2)
	events = append(events,
		event.New(event.TypeGigAssigned, result.Gig.OwnerID, result.Gig.ID, result.Bid.ID),
		event.New(event.TypeBidHired, result.Bid.FreelancerID, result.Gig.ID, result.Bid.ID),
	)
	for _, r := range result.Rejected {
		events = append(events, event.New(event.TypeBidRejected, r.FreelancerID, r.GigID, r.ID))
	}
	e.publish(ctx, events...)

	return result, nil
}
