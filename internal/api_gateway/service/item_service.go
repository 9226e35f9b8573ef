package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rewear/swap-platform/internal/config"
	"github.com/rewear/swap-platform/internal/domain/item"
	"github.com/rewear/swap-platform/internal/domain/shared"
	applog "github.com/rewear/swap-platform/internal/logger"
	"github.com/rewear/swap-platform/internal/platform/imagestore"
)

// ItemServiceImpl implements the ItemService interface
type ItemServiceImpl struct {
	items         item.Repository
	uploader      imagestore.Uploader
	maxImages     int
	maxImageBytes int64
	logger        *slog.Logger
}

// NewItemService creates a new item service
func NewItemService(items item.Repository, uploader imagestore.Uploader, cfg *config.UploadConfig, logger *slog.Logger) ItemService {
	maxImages := cfg.MaxImages
	if maxImages <= 0 || maxImages > item.MaxImages {
		maxImages = item.MaxImages
	}
	return &ItemServiceImpl{
		items:         items,
		uploader:      uploader,
		maxImages:     maxImages,
		maxImageBytes: cfg.MaxImageBytes,
		logger:        logger,
	}
}

// ListAvailable lists listings open for swap requests, newest first
func (s *ItemServiceImpl) ListAvailable(ctx context.Context, category string, limit, offset int) ([]*item.Item, int64, error) {
	return s.items.List(ctx, item.ListFilter{
		Status:   shared.ItemStatusAvailable,
		Category: category,
		Limit:    limit,
		Offset:   offset,
	})
}

func (s *ItemServiceImpl) GetItem(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	it, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if it.IsDeleted() {
		return nil, item.NotFoundError(id)
	}
	return it, nil
}

func (s *ItemServiceImpl) ListMine(ctx context.Context, caller shared.Identity, limit, offset int) ([]*item.Item, int64, error) {
	return s.items.List(ctx, item.ListFilter{
		OwnerID: &caller.UserID,
		Limit:   limit,
		Offset:  offset,
	})
}

// CreateItem uploads the images and stores an AVAILABLE listing owned by the caller
func (s *ItemServiceImpl) CreateItem(ctx context.Context, caller shared.Identity, draft item.Draft, images []ImageFile) (*item.Item, error) {
	logger := applog.WithContext(ctx, s.logger)

	if len(images) > s.maxImages {
		return nil, shared.NewInvalidInput("an item can have at most %d images", s.maxImages)
	}
	for _, img := range images {
		if img.Size > s.maxImageBytes {
			return nil, shared.NewInvalidInput("image %s exceeds %d bytes", img.Name, s.maxImageBytes)
		}
	}

	// Validate before uploading anything
	if _, err := item.NewItem(caller.UserID, draft); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(images))
	for _, img := range images {
		url, err := s.uploader.Upload(ctx, img.Content, uuid.NewString())
		if err != nil {
			logger.Error("Failed to upload item image", "name", img.Name, "error", err)
			return nil, shared.NewInternal(fmt.Sprintf("failed to upload image %s", img.Name), err)
		}
		urls = append(urls, url)
	}
	draft.ImageURLs = urls

	it, err := item.NewItem(caller.UserID, draft)
	if err != nil {
		return nil, err
	}
	if err := s.items.Create(ctx, it); err != nil {
		return nil, err
	}

	logger.Info("Item listed", "item_id", it.ID.String(), "owner_id", caller.UserID.String(), "images", len(urls))
	return it, nil
}

func (s *ItemServiceImpl) UpdateItem(ctx context.Context, caller shared.Identity, id uuid.UUID, patch item.Patch) (*item.Item, error) {
	it, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if !it.IsOwnedBy(caller.UserID) {
		return nil, shared.NewForbidden("only the owner can edit this item")
	}
	if err := it.Apply(patch); err != nil {
		return nil, err
	}
	if err := s.items.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *ItemServiceImpl) DeleteItem(ctx context.Context, caller shared.Identity, id uuid.UUID) error {
	it, err := s.GetItem(ctx, id)
	if err != nil {
		return err
	}
	if !it.IsOwnedBy(caller.UserID) {
		return shared.NewForbidden("only the owner can remove this item")
	}
	if !it.CanBeRemoved() {
		return shared.NewInvalidState("item has a pending swap")
	}
	if err := s.items.SoftDelete(ctx, id); err != nil {
		return err
	}
	applog.WithContext(ctx, s.logger).Info("Item removed", "item_id", id.String())
	return nil
}
