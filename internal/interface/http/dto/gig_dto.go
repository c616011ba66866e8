package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
	"github.com/ignatzorin/gig-marketplace/internal/usecase/gig"
)

type CreateGigRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Budget      *float64 `json:"budget" binding:"required,gte=0"`
}

// PersonRef: имя и email связанного пользователя (владельца или фрилансера).
type PersonRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type GigResponse struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"ownerId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Budget      float64    `json:"budget"`
	Status      string     `json:"status"`
	Owner       *PersonRef `json:"owner,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func ToGigResponse(g *entity.Gig) GigResponse {
	return GigResponse{
		ID:          g.ID,
		OwnerID:     g.OwnerID,
		Title:       g.Title,
		Description: g.Description,
		Budget:      g.Budget,
		Status:      string(g.Status),
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func ToGigDetailsResponse(d *gig.Details) GigResponse {
	resp := ToGigResponse(d.Gig)
	resp.Owner = toPersonRef(d.Owner)
	return resp
}

func ToGigResponses(gigs []*entity.Gig) []GigResponse {
	out := make([]GigResponse, 0, len(gigs))
	for _, g := range gigs {
		out = append(out, ToGigResponse(g))
	}
	return out
}

func ToGigDetailsResponses(items []*gig.Details) []GigResponse {
	out := make([]GigResponse, 0, len(items))
	for _, d := range items {
		out = append(out, ToGigDetailsResponse(d))
	}
	return out
}

func toPersonRef(u *entity.User) *PersonRef {
	if u == nil {
		return nil
	}
	return &PersonRef{ID: u.ID, Name: u.Name, Email: u.Email}
}
