package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeBidPlaced   Type = "bid.placed"
	TypeGigAssigned Type = "gig.assigned"
	TypeBidHired    Type = "bid.hired"
	TypeBidRejected Type = "bid.rejected"
)

// Event: факт, зафиксированный после коммита единицы работы, адресованный одному пользователю.
type Event struct {
	ID          uuid.UUID `json:"id"`
	Type        Type      `json:"type"`
	RecipientID uuid.UUID `json:"recipient_id"`
	GigID       uuid.UUID `json:"gig_id"`
	BidID       uuid.UUID `json:"bid_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func New(t Type, recipientID, gigID, bidID uuid.UUID) Event {
	return Event{
		ID:          uuid.New(),
		Type:        t,
		RecipientID: recipientID,
		GigID:       gigID,
		BidID:       bidID,
		OccurredAt:  time.Now().UTC(),
	}
}
