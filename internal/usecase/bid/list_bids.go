package bid

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
	"github.com/ignatzorin/gig-marketplace/internal/domain/repository"
	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
)

// Details: отклик с фрилансером. Freelancer может быть nil.
type Details struct {
	Bid        *entity.Bid
	Freelancer *entity.User
}

// ListGigBidsUseCase: отклики на заказ, видны только владельцу заказа.
type ListGigBidsUseCase struct {
	gigRepo  repository.GigRepository
	bidRepo  repository.BidRepository
	userRepo repository.UserRepository
}

func NewListGigBidsUseCase(gigRepo repository.GigRepository, bidRepo repository.BidRepository, userRepo repository.UserRepository) *ListGigBidsUseCase {
	return &ListGigBidsUseCase{gigRepo: gigRepo, bidRepo: bidRepo, userRepo: userRepo}
}

func (uc *ListGigBidsUseCase) Execute(ctx context.Context, gigID, callerID uuid.UUID) ([]*Details, error) {
	gig, err := uc.gigRepo.FindByID(ctx, gigID)
	if err != nil {
		return nil, err
	}
	if !gig.IsOwnedBy(callerID) {
		return nil, apperror.ErrNotGigOwner
	}

	bids, err := uc.bidRepo.ListByGig(ctx, gigID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(bids))
	for _, b := range bids {
		ids = append(ids, b.FreelancerID)
	}
	freelancers, err := uc.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*Details, 0, len(bids))
	for _, b := range bids {
		out = append(out, &Details{Bid: b, Freelancer: freelancers[b.FreelancerID]})
	}
	return out, nil
}

// MyBid: отклик фрилансера вместе с заказом.
type MyBid struct {
	Bid *entity.Bid
	Gig *entity.Gig
}

type ListMyBidsUseCase struct {
	bidRepo repository.BidRepository
	gigRepo repository.GigRepository
}

func NewListMyBidsUseCase(bidRepo repository.BidRepository, gigRepo repository.GigRepository) *ListMyBidsUseCase {
	return &ListMyBidsUseCase{bidRepo: bidRepo, gigRepo: gigRepo}
}

func (uc *ListMyBidsUseCase) Execute(ctx context.Context, freelancerID uuid.UUID) ([]*MyBid, error) {
	bids, err := uc.bidRepo.ListByFreelancer(ctx, freelancerID)
	if err != nil {
		return nil, err
	}

	gigs := make(map[uuid.UUID]*entity.Gig)
	out := make([]*MyBid, 0, len(bids))
	for _, b := range bids {
		g, ok := gigs[b.GigID]
		if !ok {
			g, err = uc.gigRepo.FindByID(ctx, b.GigID)
			if err != nil {
				return nil, err
			}
			gigs[b.GigID] = g
		}
		out = append(out, &MyBid{Bid: b, Gig: g})
	}
	return out, nil
}
