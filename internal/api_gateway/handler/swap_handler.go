package handler

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rewear/swap-platform/internal/domain/shared"
	"github.com/rewear/swap-platform/internal/domain/swap"
	swapsvc "github.com/rewear/swap-platform/internal/swap_manager/service"
)

// SwapHandler exposes the swap transaction manager
type SwapHandler struct {
	swapManager swapsvc.SwapManager
	logger      *slog.Logger
}

// NewSwapHandler creates a new swap handler
func NewSwapHandler(logger *slog.Logger, swapManager swapsvc.SwapManager) *SwapHandler {
	return &SwapHandler{
		swapManager: swapManager,
		logger:      logger,
	}
}

// Request redeems the caller's points for an available item
func (h *SwapHandler) Request(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	var req SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		RespondBadRequest(c, "Invalid item ID")
		return
	}

	details, err := h.swapManager.RequestSwap(c.Request.Context(), caller, itemID, req.Message)
	if err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}
	RespondCreated(c, details)
}

// Cancel withdraws the caller's pending request and refunds the points
func (h *SwapHandler) Cancel(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "swap")
	if !ok {
		return
	}

	result, err := h.swapManager.CancelSwap(c.Request.Context(), caller, id)
	if err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}
	RespondOK(c, result)
}

// Complete lets the item owner confirm the hand-over
func (h *SwapHandler) Complete(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "swap")
	if !ok {
		return
	}

	details, err := h.swapManager.CompleteSwap(c.Request.Context(), caller, id)
	if err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}
	RespondOK(c, details)
}

// GetByID returns a swap visible to its requester or the item owner
func (h *SwapHandler) GetByID(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "swap")
	if !ok {
		return
	}

	details, err := h.swapManager.GetSwap(c.Request.Context(), caller, id)
	if err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}
	RespondOK(c, details)
}

// ListMine pages through the swaps the caller requested.
// Malformed numbers fall back to the defaults.
func (h *SwapHandler) ListMine(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	page, err := h.swapManager.ListMySwaps(c.Request.Context(), caller, swap.ListFilter{
		Status: shared.SwapStatus(c.Query("status")),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}
	RespondOK(c, newSwapListResponse(page))
}
