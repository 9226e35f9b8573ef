package handler

import (
	"log/slog"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/rewear/swap-platform/internal/api_gateway/service"
	"github.com/rewear/swap-platform/internal/domain/item"
)

const imagesField = "images"

// ItemHandler handles garment listings
type ItemHandler struct {
	itemService service.ItemService
	logger      *slog.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(logger *slog.Logger, itemService service.ItemService) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
		logger:      logger,
	}
}

// List returns available items, optionally filtered by category
func (h *ItemHandler) List(c *gin.Context) {
	params, ok := pagination(c)
	if !ok {
		return
	}

	items, total, err := h.itemService.ListAvailable(c.Request.Context(), c.Query("category"), params.Limit, params.Offset)
	if err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}
	RespondPage(c, items, total, params.Limit, params.Offset)
}

func (h *ItemHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "item")
	if !ok {
		return
	}

	it, err := h.itemService.GetItem(c.Request.Context(), id)
	if err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}
	RespondOK(c, it)
}

// ListMine returns the caller's listings in any status
func (h *ItemHandler) ListMine(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	params, ok := pagination(c)
	if !ok {
		return
	}

	items, total, err := h.itemService.ListMine(c.Request.Context(), caller, params.Limit, params.Offset)
	if err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}
	RespondPage(c, items, total, params.Limit, params.Offset)
}

// Create accepts a multipart form with the listing fields and its images
func (h *ItemHandler) Create(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	var form CreateItemForm
	if err := c.ShouldBind(&form); err != nil {
		RespondBadRequest(c, "Invalid item form: "+err.Error())
		return
	}

	var headers []*multipart.FileHeader
	if mf, err := c.MultipartForm(); err == nil && mf != nil {
		headers = mf.File[imagesField]
	}

	images := make([]service.ImageFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			RespondBadRequest(c, "Unreadable image "+fh.Filename)
			return
		}
		defer f.Close()
		images = append(images, service.ImageFile{Name: fh.Filename, Size: fh.Size, Content: f})
	}

	it, err := h.itemService.CreateItem(c.Request.Context(), caller, item.Draft{
		Title:       form.Title,
		Description: form.Description,
		Category:    form.Category,
		Condition:   form.Condition,
		Size:        form.Size,
		PointsValue: form.PointsValue,
	}, images)
	if err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}
	RespondCreated(c, it)
}

// Update edits the caller's listing
func (h *ItemHandler) Update(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "item")
	if !ok {
		return
	}
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	it, err := h.itemService.UpdateItem(c.Request.Context(), caller, id, item.Patch{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Condition:   req.Condition,
		Size:        req.Size,
		PointsValue: req.PointsValue,
	})
	if err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}
	RespondOK(c, it)
}

// Delete soft-deletes the caller's listing
func (h *ItemHandler) Delete(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "item")
	if !ok {
		return
	}

	if err := h.itemService.DeleteItem(c.Request.Context(), caller, id); err != nil {
		RespondWithDomainError(c, h.logger, err)
		return
	}
	RespondNoContent(c)
}
