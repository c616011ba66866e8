package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gig-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
	"github.com/ignatzorin/gig-marketplace/internal/validation"
)

type Bid struct {
	ID           uuid.UUID
	GigID        uuid.UUID
	FreelancerID uuid.UUID
	Message      string
	Price        float64
	Status       valueobject.BidStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewBid(gigID, freelancerID uuid.UUID, message string, price float64) (*Bid, error) {
	if gigID == uuid.Nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "не указан заказ")
	}
	if freelancerID == uuid.Nil {
		return nil, apperror.ErrUnauthorized
	}
	if err := validation.ValidateBidMessage(message); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateAmount("цена", price); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	now := time.Now().UTC()
	return &Bid{
		ID:           uuid.New(),
		GigID:        gigID,
		FreelancerID: freelancerID,
		Message:      message,
		Price:        price,
		Status:       valueobject.BidStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (b *Bid) Hire() error {
	return b.transition(valueobject.BidStatusHired)
}

func (b *Bid) Reject() error {
	return b.transition(valueobject.BidStatusRejected)
}

func (b *Bid) transition(next valueobject.BidStatus) error {
	if !b.Status.CanTransitionTo(next) {
		return apperror.ErrBidNotPending
	}
	b.Status = next
	b.UpdatedAt = time.Now().UTC()
	return nil
}

func (b *Bid) IsOwnedBy(userID uuid.UUID) bool {
	return b.FreelancerID == userID
}

func (b *Bid) IsPending() bool {
	return b.Status == valueobject.BidStatusPending
}
