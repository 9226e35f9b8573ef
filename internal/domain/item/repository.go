package item

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rewear/swap-platform/internal/domain/shared"
)

// ListFilter narrows item listings
type ListFilter struct {
	OwnerID        *uuid.UUID
	Status         shared.ItemStatus // empty means any
	Category       string
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// Repository defines item persistence operations
type Repository interface {
	Create(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	List(ctx context.Context, filter ListFilter) ([]*Item, int64, error)
	Update(ctx context.Context, it *Item) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// SetStatus moves the item from one status to another in a single guarded
	// statement. Returns a conflict error if the current status is not from.
	SetStatus(ctx context.Context, id uuid.UUID, from, to shared.ItemStatus) (*Item, error)
	WithTx(tx pgx.Tx) Repository
}

// NotFoundError builds the not-found error for an item id
func NotFoundError(id uuid.UUID) error {
	return shared.NewNotFound("item %s not found", id)
}
