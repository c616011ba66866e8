package gig

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
	"github.com/ignatzorin/gig-marketplace/internal/domain/repository"
	"github.com/ignatzorin/gig-marketplace/internal/domain/valueobject"
)

// Details: заказ вместе с владельцем. Owner может быть nil, если пользователь не найден.
type Details struct {
	Gig   *entity.Gig
	Owner *entity.User
}

type GetGigUseCase struct {
	gigRepo  repository.GigRepository
	userRepo repository.UserRepository
}

func NewGetGigUseCase(gigRepo repository.GigRepository, userRepo repository.UserRepository) *GetGigUseCase {
	return &GetGigUseCase{gigRepo: gigRepo, userRepo: userRepo}
}

func (uc *GetGigUseCase) Execute(ctx context.Context, id uuid.UUID) (*Details, error) {
	gig, err := uc.gigRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	details, err := withOwners(ctx, uc.userRepo, []*entity.Gig{gig})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

type ListOpenGigsInput struct {
	Search string
	Limit  int
	Offset int
}

// ListOpenGigsUseCase: публичная лента открытых заказов, новые сверху.
type ListOpenGigsUseCase struct {
	gigRepo  repository.GigRepository
	userRepo repository.UserRepository
}

func NewListOpenGigsUseCase(gigRepo repository.GigRepository, userRepo repository.UserRepository) *ListOpenGigsUseCase {
	return &ListOpenGigsUseCase{gigRepo: gigRepo, userRepo: userRepo}
}

func (uc *ListOpenGigsUseCase) Execute(ctx context.Context, input ListOpenGigsInput) ([]*Details, error) {
	status := valueobject.GigStatusOpen
	gigs, err := uc.gigRepo.List(ctx, repository.GigFilter{
		Status: &status,
		Search: input.Search,
		Limit:  clampLimit(input.Limit),
		Offset: max(input.Offset, 0),
	})
	if err != nil {
		return nil, err
	}
	return withOwners(ctx, uc.userRepo, gigs)
}

type ListMyGigsUseCase struct {
	gigRepo repository.GigRepository
}

func NewListMyGigsUseCase(gigRepo repository.GigRepository) *ListMyGigsUseCase {
	return &ListMyGigsUseCase{gigRepo: gigRepo}
}

func (uc *ListMyGigsUseCase) Execute(ctx context.Context, ownerID uuid.UUID) ([]*entity.Gig, error) {
	return uc.gigRepo.List(ctx, repository.GigFilter{OwnerID: &ownerID})
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	return min(limit, MaxPageSize)
}

func withOwners(ctx context.Context, userRepo repository.UserRepository, gigs []*entity.Gig) ([]*Details, error) {
	ids := make([]uuid.UUID, 0, len(gigs))
	for _, g := range gigs {
		ids = append(ids, g.OwnerID)
	}
	owners, err := userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*Details, 0, len(gigs))
	for _, g := range gigs {
		out = append(out, &Details{Gig: g, Owner: owners[g.OwnerID]})
	}
	return out, nil
}
