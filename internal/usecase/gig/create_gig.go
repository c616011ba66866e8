package gig

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
	"github.com/ignatzorin/gig-marketplace/internal/domain/repository"
	"github.com/ignatzorin/gig-marketplace/internal/logger"
	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
	"github.com/ignatzorin/gig-marketplace/internal/validation"
	"github.com/sirupsen/logrus"
)

type CreateGigInput struct {
	OwnerID     uuid.UUID `validate:"required"`
	Title       string    `validate:"required,max=100"`
	Description string    `validate:"required,max=1000"`
	Budget      float64   `validate:"gte=0"`
}

type CreateGigUseCase struct {
	gigRepo repository.GigRepository
}

func NewCreateGigUseCase(gigRepo repository.GigRepository) *CreateGigUseCase {
	return &CreateGigUseCase{gigRepo: gigRepo}
}

func (uc *CreateGigUseCase) Execute(ctx context.Context, input CreateGigInput) (*entity.Gig, error) {
	if err := validation.Struct(input); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	gig, err := entity.NewGig(input.OwnerID, input.Title, input.Description, input.Budget)
	if err != nil {
		return nil, err
	}

	if err := uc.gigRepo.Create(ctx, gig); err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{"gig_id": gig.ID, "owner_id": gig.OwnerID}).Info("заказ создан")
	return gig, nil
}
