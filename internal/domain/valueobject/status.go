package valueobject

import "github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"

type GigStatus string

const (
	GigStatusOpen     GigStatus = "open"
	GigStatusAssigned GigStatus = "assigned"
)

func (s GigStatus) IsValid() bool {
	switch s {
	case GigStatusOpen, GigStatusAssigned:
		return true
	}
	return false
}

// CanTransitionTo: единственный переход open → assigned, assigned терминален.
func (s GigStatus) CanTransitionTo(newStatus GigStatus) bool {
	return s == GigStatusOpen && newStatus == GigStatusAssigned
}

func NewGigStatus(status string) (GigStatus, error) {
	s := GigStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус заказа")
	}
	return s, nil
}

type BidStatus string

const (
	BidStatusPending  BidStatus = "pending"
	BidStatusHired    BidStatus = "hired"
	BidStatusRejected BidStatus = "rejected"
)

func (s BidStatus) IsValid() bool {
	switch s {
	case BidStatusPending, BidStatusHired, BidStatusRejected:
		return true
	}
	return false
}

func (s BidStatus) IsTerminal() bool {
	return s == BidStatusHired || s == BidStatusRejected
}

func (s BidStatus) CanTransitionTo(newStatus BidStatus) bool {
	return s == BidStatusPending && newStatus.IsTerminal()
}

func NewBidStatus(status string) (BidStatus, error) {
	s := BidStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус отклика")
	}
	return s, nil
}
