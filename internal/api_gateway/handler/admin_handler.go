package handler

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rewear/swap-platform/internal/api_gateway/service"
	"github.com/rewear/swap-platform/internal/domain/activity"
	"github.com/rewear/swap-platform/internal/domain/item"
	"github.com/rewear/swap-platform/internal/domain/shared"
	"github.com/rewear/swap-platform/internal/domain/swap"
)

// AdminHandler serves the admin panel
type AdminHandler struct {
	adminService service.AdminService
	logger       *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(logger *slog.Logger, adminService service.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		logger:       logger,
	}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	params, ok := pagination(c)
	if !ok {
		return
	}

	users, total, err := h.adminService.ListUsers(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}
	RespondPage(c, users, total, params.Limit, params.Offset)
}

// SetUserStatus suspends or reactivates a member
func (h *AdminHandler) SetUserStatus(c *gin.Context) {
	id, ok := pathID(c, "user")
	if !ok {
		return
	}
	var req SetUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	u, err := h.adminService.SetUserStatus(c.Request.Context(), id, shared.UserStatus(req.Status))
	if err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}
	RespondOK(c, u)
}

// AdjustPoints moves a member's balance through the ledger
func (h *AdminHandler) AdjustPoints(c *gin.Context) {
	id, ok := pathID(c, "user")
	if !ok {
		return
	}
	var req AdjustPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	u, err := h.adminService.AdjustPoints(c.Request.Context(), id, req.Delta, req.Note)
	if err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}
	RespondOK(c, u)
}

func (h *AdminHandler) Reconcile(c *gin.Context) {
	id, ok := pathID(c, "user")
	if !ok {
		return
	}

	result, err := h.adminService.Reconcile(c.Request.Context(), id)
	if err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}
	RespondOK(c, result)
}

func (h *AdminHandler) UserLedger(c *gin.Context) {
	id, ok := pathID(c, "user")
	if !ok {
		return
	}
	params, ok := pagination(c)
	if !ok {
		return
	}

	entries, total, err := h.adminService.UserLedger(c.Request.Context(), id, params.Limit, params.Offset)
	if err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}
	RespondPage(c, entries, total, params.Limit, params.Offset)
}

// ListItems lists every listing, deleted ones included
func (h *AdminHandler) ListItems(c *gin.Context) {
	params, ok := pagination(c)
	if !ok {
		return
	}

	filter := item.ListFilter{
		Status:         shared.ItemStatus(c.Query("status")),
		Category:       c.Query("category"),
		IncludeDeleted: true,
		Limit:          params.Limit,
		Offset:         params.Offset,
	}
	if !filter.Status.IsValid() {
		filter.Status = ""
	}

	items, total, err := h.adminService.ListItems(c.Request.Context(), filter)
	if err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}
	RespondPage(c, items, total, params.Limit, params.Offset)
}

func (h *AdminHandler) RemoveItem(c *gin.Context) {
	id, ok := pathID(c, "item")
	if !ok {
		return
	}

	if err := h.adminService.RemoveItem(c.Request.Context(), id); err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}
	RespondNoContent(c)
}

// ListSwaps lists all swaps, optionally by status or requester
func (h *AdminHandler) ListSwaps(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	filter := swap.ListFilter{
		Status: shared.SwapStatus(c.Query("status")),
		Limit:  limit,
		Offset: offset,
	}
	if raw := c.Query("requester_id"); raw != "" {
		requesterID, err := uuid.Parse(raw)
		if err != nil {
			RespondBadRequest(c, "Invalid requester ID")
			return
		}
		filter.RequesterID = requesterID
	}

	page, err := h.adminService.ListSwaps(c.Request.Context(), filter)
	if err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}
	RespondOK(c, newSwapListResponse(page))
}

// Activity returns the projected swap event feed
func (h *AdminHandler) Activity(c *gin.Context) {
	params, ok := pagination(c)
	if !ok {
		return
	}

	filter := activity.Filter{Limit: params.Limit, Offset: params.Offset}
	for key, target := range map[string]**uuid.UUID{"swap_id": &filter.SwapID, "user_id": &filter.UserID} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondBadRequest(c, "Invalid "+key)
			return
		}
		*target = &id
	}

	events, total, err := h.adminService.Activity(c.Request.Context(), filter)
	if err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}
	RespondPage(c, events, total, params.Limit, params.Offset)
}
