package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
	"github.com/ignatzorin/gig-marketplace/internal/domain/valueobject"
)

type BidRepository interface {
	// Insert возвращает apperror.ErrDuplicateBid при нарушении уникальности (gig_id, freelancer_id).
	Insert(ctx context.Context, bid *entity.Bid) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Bid, error)
	// FindByGigAndFreelancer возвращает nil, nil если отклика нет.
	FindByGigAndFreelancer(ctx context.Context, gigID, freelancerID uuid.UUID) (*entity.Bid, error)
	ListByGig(ctx context.Context, gigID uuid.UUID) ([]*entity.Bid, error)
	ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]*entity.Bid, error)
	SetStatus(ctx context.Context, id uuid.UUID, status valueobject.BidStatus) error
	// RejectPending переводит все pending-отклики заказа, кроме exceptBidID, в rejected
	// и возвращает изменённые отклики.
	RejectPending(ctx context.Context, gigID, exceptBidID uuid.UUID) ([]*entity.Bid, error)
}
