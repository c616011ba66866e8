package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/gig-marketplace/internal/interface/http/dto"
	"github.com/ignatzorin/gig-marketplace/internal/interface/http/response"
	"github.com/ignatzorin/gig-marketplace/internal/usecase/gig"
)

type GigHandler struct {
	createGigUC *gig.CreateGigUseCase
	getGigUC    *gig.GetGigUseCase
	listOpenUC  *gig.ListOpenGigsUseCase
	listMyUC    *gig.ListMyGigsUseCase
}

func NewGigHandler(
	createGigUC *gig.CreateGigUseCase,
	getGigUC *gig.GetGigUseCase,
	listOpenUC *gig.ListOpenGigsUseCase,
	listMyUC *gig.ListMyGigsUseCase,
) *GigHandler {
	return &GigHandler{
		createGigUC: createGigUC,
		getGigUC:    getGigUC,
		listOpenUC:  listOpenUC,
		listMyUC:    listMyUC,
	}
}

// CreateGig обрабатывает POST /api/gigs.
func (h *GigHandler) CreateGig(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CreateGigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	created, err := h.createGigUC.Execute(c.Request.Context(), gig.CreateGigInput{
		OwnerID:     userID,
		Title:       req.Title,
		Description: req.Description,
		Budget:      *req.Budget,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToGigResponse(created))
}

// ListGigs обрабатывает GET /api/gigs?search=&limit=&offset=.
func (h *GigHandler) ListGigs(c *gin.Context) {
	items, err := h.listOpenUC.Execute(c.Request.Context(), gig.ListOpenGigsInput{
		Search: c.Query("search"),
		Limit:  parseIntQuery(c, "limit", gig.DefaultPageSize),
		Offset: parseIntQuery(c, "offset", 0),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToGigDetailsResponses(items))
}

// GetGig обрабатывает GET /api/gigs/:id.
func (h *GigHandler) GetGig(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	details, err := h.getGigUC.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToGigDetailsResponse(details))
}

// ListMyGigs обрабатывает GET /api/gigs/my-gigs.
func (h *GigHandler) ListMyGigs(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	gigs, err := h.listMyUC.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToGigResponses(gigs))
}
