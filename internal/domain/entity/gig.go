package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gig-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
	"github.com/ignatzorin/gig-marketplace/internal/validation"
)

type Gig struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Title       string
	Description string
	Budget      float64
	Status      valueobject.GigStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewGig(ownerID uuid.UUID, title, description string, budget float64) (*Gig, error) {
	if ownerID == uuid.Nil {
		return nil, apperror.ErrUnauthorized
	}
	title = strings.TrimSpace(title)
	if err := validation.ValidateGigTitle(title); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateGigDescription(description); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateAmount("бюджет", budget); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	now := time.Now().UTC()
	return &Gig{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Budget:      budget,
		Status:      valueobject.GigStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (g *Gig) Assign() error {
	if !g.Status.CanTransitionTo(valueobject.GigStatusAssigned) {
		return apperror.ErrGigAlreadyAssigned
	}
	g.Status = valueobject.GigStatusAssigned
	g.UpdatedAt = time.Now().UTC()
	return nil
}

func (g *Gig) IsOwnedBy(userID uuid.UUID) bool {
	return g.OwnerID == userID
}

func (g *Gig) IsOpen() bool {
	return g.Status == valueobject.GigStatusOpen
}
