package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/gig-marketplace/internal/interface/http/dto"
	"github.com/ignatzorin/gig-marketplace/internal/interface/http/response"
	"github.com/ignatzorin/gig-marketplace/internal/usecase/bid"
	"github.com/ignatzorin/gig-marketplace/internal/usecase/lifecycle"
)

type BidHandler struct {
	engine        *lifecycle.Engine
	listGigBidsUC *bid.ListGigBidsUseCase
	listMyBidsUC  *bid.ListMyBidsUseCase
}

func NewBidHandler(engine *lifecycle.Engine, listGigBidsUC *bid.ListGigBidsUseCase, listMyBidsUC *bid.ListMyBidsUseCase) *BidHandler {
	return &BidHandler{
		engine:        engine,
		listGigBidsUC: listGigBidsUC,
		listMyBidsUC:  listMyBidsUC,
	}
}

// CreateBid обрабатывает POST /api/bids.
func (h *BidHandler) CreateBid(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CreateBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	gigID, err := uuid.Parse(req.GigID)
	if err != nil {
		response.BadRequest(c, "некорректный gigId")
		return
	}

	created, err := h.engine.CreateBid(c.Request.Context(), lifecycle.CreateBidInput{
		GigID:        gigID,
		FreelancerID: userID,
		Message:      req.Message,
		Price:        *req.Price,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToBidResponse(created))
}

// ListGigBids обрабатывает GET /api/bids/:id, где id это заказ. Доступно только владельцу.
func (h *BidHandler) ListGigBids(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	gigID, err := pathUUID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	items, err := h.listGigBidsUC.Execute(c.Request.Context(), gigID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToBidDetailsResponses(items))
}

// ListMyBids обрабатывает GET /api/bids/my.
func (h *BidHandler) ListMyBids(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	items, err := h.listMyBidsUC.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToMyBidResponses(items))
}

// Hire обрабатывает PATCH /api/bids/:id/hire, где id это отклик.
func (h *BidHandler) Hire(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	bidID, err := pathUUID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.engine.HireFreelancer(c.Request.Context(), bidID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToHireResponse(result))
}
