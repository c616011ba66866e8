package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
	"github.com/ignatzorin/gig-marketplace/internal/domain/repository"
	"github.com/ignatzorin/gig-marketplace/internal/domain/valueobject"
)

func inTx[T any](ctx context.Context, s *Store, fn func(p repository.RepositoryProvider) (T, error)) (T, error) {
	var out T
	err := s.Do(ctx, func(p repository.RepositoryProvider) error {
		v, err := fn(p)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

type autoGigs struct{ store *Store }

func (r autoGigs) Create(ctx context.Context, gig *entity.Gig) error {
	return r.store.Do(ctx, func(p repository.RepositoryProvider) error {
		return p.Gigs().Create(ctx, gig)
	})
}

func (r autoGigs) FindByID(ctx context.Context, id uuid.UUID) (*entity.Gig, error) {
	return inTx(ctx, r.store, func(p repository.RepositoryProvider) (*entity.Gig, error) {
		return p.Gigs().FindByID(ctx, id)
	})
}

func (r autoGigs) FindByIDLocked(ctx context.Context, id uuid.UUID) (*entity.Gig, error) {
	return inTx(ctx, r.store, func(p repository.RepositoryProvider) (*entity.Gig, error) {
		return p.Gigs().FindByIDLocked(ctx, id)
	})
}

func (r autoGigs) List(ctx context.Context, filter repository.GigFilter) ([]*entity.Gig, error) {
	return inTx(ctx, r.store, func(p repository.RepositoryProvider) ([]*entity.Gig, error) {
		return p.Gigs().List(ctx, filter)
	})
}

func (r autoGigs) CompareAndSetStatus(ctx context.Context, id uuid.UUID, expected, next valueobject.GigStatus) (bool, error) {
	return inTx(ctx, r.store, func(p repository.RepositoryProvider) (bool, error) {
		return p.Gigs().CompareAndSetStatus(ctx, id, expected, next)
	})
}

type autoBids struct{ store *Store }

func (r autoBids) Insert(ctx context.Context, bid *entity.Bid) error {
	return r.store.Do(ctx, func(p repository.RepositoryProvider) error {
		return p.Bids().Insert(ctx, bid)
	})
}

func (r autoBids) FindByID(ctx context.Context, id uuid.UUID) (*entity.Bid, error) {
	return inTx(ctx, r.store, func(p repository.RepositoryProvider) (*entity.Bid, error) {
		return p.Bids().FindByID(ctx, id)
	})
}

func (r autoBids) FindByGigAndFreelancer(ctx context.Context, gigID, freelancerID uuid.UUID) (*entity.Bid, error) {
	return inTx(ctx, r.store, func(p repository.RepositoryProvider) (*entity.Bid, error) {
		return p.Bids().FindByGigAndFreelancer(ctx, gigID, freelancerID)
	})
}

func (r autoBids) ListByGig(ctx context.Context, gigID uuid.UUID) ([]*entity.Bid, error) {
	return inTx(ctx, r.store, func(p repository.RepositoryProvider) ([]*entity.Bid, error) {
		return p.Bids().ListByGig(ctx, gigID)
	})
}

func (r autoBids) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]*entity.Bid, error) {
	return inTx(ctx, r.store, func(p repository.RepositoryProvider) ([]*entity.Bid, error) {
		return p.Bids().ListByFreelancer(ctx, freelancerID)
	})
}

func (r autoBids) SetStatus(ctx context.Context, id uuid.UUID, status valueobject.BidStatus) error {
	return r.store.Do(ctx, func(p repository.RepositoryProvider) error {
		return p.Bids().SetStatus(ctx, id, status)
	})
}

func (r autoBids) RejectPending(ctx context.Context, gigID, exceptBidID uuid.UUID) ([]*entity.Bid, error) {
	return inTx(ctx, r.store, func(p repository.RepositoryProvider) ([]*entity.Bid, error) {
		return p.Bids().RejectPending(ctx, gigID, exceptBidID)
	})
}
