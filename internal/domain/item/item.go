package item

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rewear/swap-platform/internal/domain/shared"
)

// MaxImages caps how many pictures a listing may carry
const MaxImages = 6

// Item is a garment listed for redemption with points
type Item struct {
	ID          uuid.UUID         `json:"id"`
	OwnerID     uuid.UUID         `json:"owner_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Condition   string            `json:"condition"`
	Size        string            `json:"size"`
	PointsValue int64             `json:"points_value"`
	Status      shared.ItemStatus `json:"status"`
	ImageURLs   []string          `json:"image_urls"`
	DeletedAt   *time.Time        `json:"deleted_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Draft holds the owner-supplied fields of a new listing
type Draft struct {
	Title       string
	Description string
	Category    string
	Condition   string
	Size        string
	PointsValue int64
	ImageURLs   []string
}

// Patch holds optional edits to a listing; nil fields are left unchanged
type Patch struct {
	Title       *string
	Description *string
	Category    *string
	Condition   *string
	Size        *string
	PointsValue *int64
}

// NewItem validates a draft and builds an AVAILABLE listing owned by ownerID
func NewItem(ownerID uuid.UUID, d Draft) (*Item, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewInvalidInput("owner is required")
	}
	it := &Item{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
		Category:    strings.TrimSpace(d.Category),
		Condition:   strings.TrimSpace(d.Condition),
		Size:        strings.TrimSpace(d.Size),
		PointsValue: d.PointsValue,
		Status:      shared.ItemStatusAvailable,
		ImageURLs:   d.ImageURLs,
	}
	if it.ImageURLs == nil {
		it.ImageURLs = []string{}
	}
	if err := it.validate(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	it.CreatedAt = now
	it.UpdatedAt = now
	return it, nil
}

func (i *Item) validate() error {
	var missing []string
	if i.Title == "" {
		missing = append(missing, "title")
	}
	if i.Description == "" {
		missing = append(missing, "description")
	}
	if i.Category == "" {
		missing = append(missing, "category")
	}
	if i.Condition == "" {
		missing = append(missing, "condition")
	}
	if i.Size == "" {
		missing = append(missing, "size")
	}
	if len(missing) > 0 {
		return shared.NewInvalidInput("missing required fields: %s", strings.Join(missing, ", "))
	}
	if i.PointsValue <= 0 {
		return shared.NewInvalidInput("points value must be greater than 0")
	}
	if len(i.ImageURLs) > MaxImages {
		return shared.NewInvalidInput("an item can have at most %d images", MaxImages)
	}
	return nil
}

// Apply edits the descriptive fields. The points value is frozen once a swap
// has claimed the item.
func (i *Item) Apply(p Patch) error {
	if p.PointsValue != nil && *p.PointsValue != i.PointsValue && i.Status != shared.ItemStatusAvailable {
		return shared.NewInvalidState("points value can only change while the item is available")
	}

	updated := *i
	if p.Title != nil {
		updated.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		updated.Description = strings.TrimSpace(*p.Description)
	}
	if p.Category != nil {
		updated.Category = strings.TrimSpace(*p.Category)
	}
	if p.Condition != nil {
		updated.Condition = strings.TrimSpace(*p.Condition)
	}
	if p.Size != nil {
		updated.Size = strings.TrimSpace(*p.Size)
	}
	if p.PointsValue != nil {
		updated.PointsValue = *p.PointsValue
	}
	if err := updated.validate(); err != nil {
		return err
	}
	updated.UpdatedAt = time.Now().UTC()
	*i = updated
	return nil
}

// IsDeleted reports whether the listing was soft-deleted
func (i *Item) IsDeleted() bool {
	return i.DeletedAt != nil
}

// IsOwnedBy reports whether userID owns the listing
func (i *Item) IsOwnedBy(userID uuid.UUID) bool {
	return i.OwnerID == userID
}

// CanBeRemoved reports whether the listing may be soft-deleted. A listing
// with a pending swap holds the requester's points and must be settled first.
func (i *Item) CanBeRemoved() bool {
	return i.Status != shared.ItemStatusPendingSwap
}
