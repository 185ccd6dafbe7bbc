package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Sarwan-Projects/SlotSwapper/internal/dto"
	"github.com/Sarwan-Projects/SlotSwapper/internal/service"
	"github.com/Sarwan-Projects/SlotSwapper/pkg/response"
)

// ExchangeHandler swap request endpoints
type ExchangeHandler struct {
	exchangeSvc service.ExchangeService
}

// NewExchangeHandler creates an ExchangeHandler
func NewExchangeHandler(exchangeSvc service.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{exchangeSvc: exchangeSvc}
}

// ListSwappableSlots other users' OFFERED slots plus the caller's own
// GET /api/v1/swappable-slots
func (h *ExchangeHandler) ListSwappableSlots(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	surface, err := h.exchangeSvc.ListSwapSurface(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, moduleExchange, err)
		return
	}

	response.OK(c, surface)
}

// CreateSwapRequest
// POST /api/v1/swap-requests
func (h *ExchangeHandler) CreateSwapRequest(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	proposal, err := h.exchangeSvc.Propose(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, moduleExchange, err)
		return
	}

	response.Created(c, proposal)
}

// RespondSwapRequest accept or decline; recipient only
// POST /api/v1/swap-requests/:id/respond
func (h *ExchangeHandler) RespondSwapRequest(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := mustGetPathID(c, moduleExchange, service.ErrProposalNotFound)
	if !ok {
		return
	}

	var req dto.RespondSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	proposal, err := h.exchangeSvc.Respond(c.Request.Context(), userID, id, *req.Accept)
	if err != nil {
		handleServiceError(c, moduleExchange, err)
		return
	}

	response.OK(c, proposal)
}

// ListIncoming pending requests addressed to the caller
// GET /api/v1/swap-requests/incoming
func (h *ExchangeHandler) ListIncoming(c *gin.Context) {
	h.list(c, h.exchangeSvc.ListIncoming)
}

// ListOutgoing pending requests made by the caller
// GET /api/v1/swap-requests/outgoing
func (h *ExchangeHandler) ListOutgoing(c *gin.Context) {
	h.list(c, h.exchangeSvc.ListOutgoing)
}

// History every request involving the caller, any status
// GET /api/v1/swap-requests/history
func (h *ExchangeHandler) History(c *gin.Context) {
	h.list(c, h.exchangeSvc.History)
}

// GetSwapRequest
// GET /api/v1/swap-requests/:id
func (h *ExchangeHandler) GetSwapRequest(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := mustGetPathID(c, moduleExchange, service.ErrProposalNotFound)
	if !ok {
		return
	}

	proposal, err := h.exchangeSvc.Get(c.Request.Context(), userID, id)
	if err != nil {
		handleServiceError(c, moduleExchange, err)
		return
	}

	response.OK(c, proposal)
}

func (h *ExchangeHandler) list(c *gin.Context, fetch func(ctx context.Context, userID string) ([]dto.ExchangeResponse, error)) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	proposals, err := fetch(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, moduleExchange, err)
		return
	}

	response.OK(c, proposals)
}
