package lifecycle

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
	"github.com/ignatzorin/gig-marketplace/internal/domain/event"
	"github.com/ignatzorin/gig-marketplace/internal/domain/repository"
	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
	"github.com/ignatzorin/gig-marketplace/internal/validation"
	"github.com/sirupsen/logrus"
)

type CreateBidInput struct {
	GigID        uuid.UUID `validate:"required"`
	FreelancerID uuid.UUID `validate:"required"`
	Message      string    `validate:"max=500"`
	Price        float64   `validate:"gte=0"`
}

// CreateBid создаёт отклик в статусе pending.
// Порядок проверок: заказ существует, откликается не владелец, заказ открыт, отклика ещё нет.
// Повторная вставка, пойманная ограничением уникальности хранилища, даёт тот же ErrDuplicateBid.
func (e *Engine) CreateBid(ctx context.Context, input CreateBidInput) (*entity.Bid, error) {
	fields := logrus.Fields{"gig_id": input.GigID, "freelancer_id": input.FreelancerID}

	if err := validation.Struct(input); err != nil {
		return nil, fail("create_bid", apperror.Wrap(err, apperror.ErrCodeValidation, err.Error()), fields)
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	var (
		bid     *entity.Bid
		ownerID uuid.UUID
	)
	err := e.uow.Do(ctx, func(p repository.RepositoryProvider) error {
		gig, err := p.Gigs().FindByIDLocked(ctx, input.GigID)
		if err != nil {
			return err
		}
		if gig.IsOwnedBy(input.FreelancerID) {
			return apperror.ErrSelfBid
		}
		if !gig.IsOpen() {
			return apperror.ErrGigNotOpen
		}

		existing, err := p.Bids().FindByGigAndFreelancer(ctx, gig.ID, input.FreelancerID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperror.ErrDuplicateBid
		}

		created, err := entity.NewBid(gig.ID, input.FreelancerID, input.Message, input.Price)
		if err != nil {
			return err
		}
		if err := p.Bids().Insert(ctx, created); err != nil {
			return err
		}

		bid = created
		ownerID = gig.OwnerID
		return nil
	})
	if err != nil {
		return nil, fail("create_bid", err, fields)
	}

	e.publish(ctx, event.New(event.TypeBidPlaced, ownerID, bid.GigID, bid.ID))
	return bid, nil
}
