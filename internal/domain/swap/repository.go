package swap

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rewear/swap-platform/internal/domain/shared"
)

// Repository defines swap persistence operations
type Repository interface {
	Create(ctx context.Context, s *Swap) error
	GetByID(ctx context.Context, id uuid.UUID) (*Swap, error)
	GetDetails(ctx context.Context, id uuid.UUID) (*Details, error)
	List(ctx context.Context, filter ListFilter) ([]*Details, int64, error)

	// SetStatus moves the swap from one status to another in a single guarded
	// statement. Returns a conflict error if the current status is not from.
	SetStatus(ctx context.Context, id uuid.UUID, from, to shared.SwapStatus) (*Swap, error)
	WithTx(tx pgx.Tx) Repository
}

// NotFoundError builds the not-found error for a swap id
func NotFoundError(id uuid.UUID) error {
	return shared.NewNotFound("swap %s not found", id)
}
