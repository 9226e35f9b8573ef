package report

import (
	"context"

	"github.com/google/uuid"
	"github.com/rewear/swap-platform/internal/domain/shared"
)

// Repository defines spam report persistence operations
type Repository interface {
	Create(ctx context.Context, r *Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*Report, error)
	List(ctx context.Context, status shared.ReportStatus, limit, offset int) ([]*Report, int64, error)

	// SetStatus moves the report from one status to another, recording the
	// moderator. Returns a conflict error if the current status is not from.
	SetStatus(ctx context.Context, id uuid.UUID, from, to shared.ReportStatus, reviewedBy string) (*Report, error)
}

// NotFoundError builds the not-found error for a report id
func NotFoundError(id uuid.UUID) error {
	return shared.NewNotFound("report %s not found", id)
}
