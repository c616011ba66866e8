package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
	"github.com/ignatzorin/gig-marketplace/internal/usecase/bid"
	"github.com/ignatzorin/gig-marketplace/internal/usecase/lifecycle"
)

type CreateBidRequest struct {
	GigID   string   `json:"gigId" binding:"required,uuid"`
	Message string   `json:"message"`
	Price   *float64 `json:"price" binding:"required,gte=0"`
}

type BidResponse struct {
	ID           uuid.UUID    `json:"id"`
	GigID        uuid.UUID    `json:"gigId"`
	FreelancerID uuid.UUID    `json:"freelancerId"`
	Message      string       `json:"message"`
	Price        float64      `json:"price"`
	Status       string       `json:"status"`
	Freelancer   *PersonRef   `json:"freelancer,omitempty"`
	Gig          *GigResponse `json:"gig,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// HireResponse: итог найма: заказ, нанятый отклик и id отклонённых откликов.
type HireResponse struct {
	Gig         GigResponse `json:"gig"`
	Bid         BidResponse `json:"bid"`
	RejectedIDs []uuid.UUID `json:"rejectedBidIds"`
}

func ToBidResponse(b *entity.Bid) BidResponse {
	return BidResponse{
		ID:           b.ID,
		GigID:        b.GigID,
		FreelancerID: b.FreelancerID,
		Message:      b.Message,
		Price:        b.Price,
		Status:       string(b.Status),
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

func ToBidDetailsResponses(items []*bid.Details) []BidResponse {
	out := make([]BidResponse, 0, len(items))
	for _, d := range items {
		resp := ToBidResponse(d.Bid)
		resp.Freelancer = toPersonRef(d.Freelancer)
		out = append(out, resp)
	}
	return out
}

func ToMyBidResponses(items []*bid.MyBid) []BidResponse {
	out := make([]BidResponse, 0, len(items))
	for _, m := range items {
		resp := ToBidResponse(m.Bid)
		if m.Gig != nil {
			g := ToGigResponse(m.Gig)
			resp.Gig = &g
		}
		out = append(out, resp)
	}
	return out
}

func ToHireResponse(result *lifecycle.HireResult) HireResponse {
	rejected := make([]uuid.UUID, 0, len(result.Rejected))
	for _, b := range result.Rejected {
		rejected = append(rejected, b.ID)
	}
	return HireResponse{
		Gig:         ToGigResponse(result.Gig),
		Bid:         ToBidResponse(result.Bid),
		RejectedIDs: rejected,
	}
}
